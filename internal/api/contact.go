package api

import (
	"context"
	"net/http"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/validate"
)

// ContactService forwards visitor messages to a listing's agent.
type ContactService struct {
	c *Client
}

func NewContactService(c *Client) *ContactService { return &ContactService{c: c} }

func (s *ContactService) Send(ctx context.Context, propertyID int64, msg models.ContactMessage) (*models.APIMessage, error) {
	if err := validate.Struct(msg); err != nil {
		return nil, err
	}
	var m models.APIMessage
	err := s.c.do(ctx, call{
		service: "contact", op: "send message",
		method: http.MethodPost, path: Path("/properties/{id}/contact", propertyID),
		payload: msg, fallback: "Failed to send message",
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
