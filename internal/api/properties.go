package api

import (
	"context"
	"net/http"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/validate"
)

type PropertyService struct {
	c *Client
}

func NewPropertyService(c *Client) *PropertyService { return &PropertyService{c: c} }

// List returns the listings matching f; zero filter fields are not sent.
func (s *PropertyService) List(ctx context.Context, f models.PropertyFilter) ([]models.Property, error) {
	var out []models.Property
	err := s.c.do(ctx, call{
		service: "properties", op: "list properties",
		method: http.MethodGet, path: "/properties", query: f.Values(),
		fallback: "Failed to fetch properties",
	}, &out)
	return out, err
}

func (s *PropertyService) Get(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	err := s.c.do(ctx, call{
		service: "properties", op: "get property",
		method: http.MethodGet, path: Path("/properties/{id}", id),
		fallback: "Failed to fetch property",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PropertyService) ByAgent(ctx context.Context, agentID int64) ([]models.Property, error) {
	var out []models.Property
	err := s.c.do(ctx, call{
		service: "properties", op: "agent properties",
		method: http.MethodGet, path: Path("/properties/agent/{agentId}", agentID),
		fallback: "Failed to fetch properties",
	}, &out)
	return out, err
}

func (s *PropertyService) Create(ctx context.Context, in models.PropertyInput) (*models.Property, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var p models.Property
	err := s.c.do(ctx, call{
		service: "properties", op: "create property",
		method: http.MethodPost, path: "/properties",
		payload: in, fallback: "Failed to create property",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PropertyService) Update(ctx context.Context, id int64, in models.PropertyInput) (*models.Property, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var p models.Property
	err := s.c.do(ctx, call{
		service: "properties", op: "update property",
		method: http.MethodPut, path: Path("/properties/{id}", id),
		payload: in, fallback: "Failed to update property",
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PropertyService) Delete(ctx context.Context, id int64) (*models.APIMessage, error) {
	var m models.APIMessage
	err := s.c.do(ctx, call{
		service: "properties", op: "delete property",
		method: http.MethodDelete, path: Path("/properties/{id}", id),
		fallback: "Failed to delete property",
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ImageURL resolves a listing image path for display.
func (s *PropertyService) ImageURL(path string) string { return s.c.ImageURL(path) }
