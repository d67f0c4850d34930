package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/validate"
)

type UserService struct {
	c *Client
}

func NewUserService(c *Client) *UserService { return &UserService{c: c} }

func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	err := s.c.do(ctx, call{
		service: "users", op: "get profile",
		method: http.MethodGet, path: "/users/profile",
		fallback: "Failed to fetch profile",
	}, &u)
	if err != nil {
		return nil, err
	}
	if u.Email == "" {
		return nil, &DecodeError{Op: "get profile", Err: errors.New("missing email")}
	}
	return &u, nil
}

// UpdateProfile changes the display name and, when set, the password.
func (s *UserService) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	var u models.User
	err := s.c.do(ctx, call{
		service: "users", op: "update profile",
		method: http.MethodPut, path: "/users/profile",
		payload: in, fallback: "Failed to update profile",
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
