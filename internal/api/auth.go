package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/sessions"
	"github.com/realestate/rems-frontend/internal/validate"
	"github.com/realestate/rems-frontend/pkg/logger"
)

// AuthService covers registration, login and the current-user lookup.
type AuthService struct {
	c *Client
}

func NewAuthService(c *Client) *AuthService { return &AuthService{c: c} }

// Register creates an account. Nothing is stored in the session.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var u models.User
	err := s.c.do(ctx, call{
		service: "auth", op: "register",
		method: http.MethodPost, path: "/auth/register",
		payload: req, fallback: "Registration failed",
		anonymous: true,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token and stores token and user record in the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var resp models.LoginResponse
	err := s.c.do(ctx, call{
		service: "auth", op: "login",
		method: http.MethodPost, path: "/auth/login",
		payload: req, fallback: "Login failed",
		anonymous: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &DecodeError{Op: "login", Err: errors.New("missing token")}
	}
	if !resp.Role.Valid() {
		return nil, &DecodeError{Op: "login", Err: errors.New("unknown role " + string(resp.Role))}
	}

	if err := s.c.session.SaveToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	if err := s.c.session.SaveUser(ctx, resp.SessionUser()); err != nil {
		// a token without its user leaves the session half logged in
		if rerr := s.c.session.RemoveToken(ctx); rerr != nil {
			logger.Warnf("login: clearing token after failed user save: %v", rerr)
		}
		return nil, err
	}
	if exp, ok := sessions.TokenExpiry(resp.Token); ok {
		logger.Infof("user %d (%s) logged in, token expires %s", resp.UserID, resp.Role, exp.Format("2006-01-02 15:04"))
	} else {
		logger.Infof("user %d (%s) logged in", resp.UserID, resp.Role)
	}
	return &resp, nil
}

// Me fetches the current account and refreshes the cached user record.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	err := s.c.do(ctx, call{
		service: "auth", op: "me",
		method: http.MethodGet, path: "/auth/me",
		fallback: "Failed to get user",
	}, &u)
	if err != nil {
		return nil, err
	}
	if u.Email == "" || !u.Role.Valid() {
		return nil, &DecodeError{Op: "me", Err: errors.New("incomplete user record")}
	}
	if err := s.c.session.SaveUser(ctx, u.SessionUser()); err != nil {
		logger.Warnf("refresh session user: %v", err)
	}
	return &u, nil
}

// Logout clears the session locally and navigates home. The backend is not called.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.session.RemoveToken(ctx)
	if s.c.nav != nil {
		s.c.nav.Navigate(guard.HomePath)
	}
	return err
}
