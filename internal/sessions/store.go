package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/logger"
)

// Store is the session of one visitor: bearer token, cached user record and
// UI preferences, persisted through a Repository under the visitor's session id.
// Construct one per visitor and hand it to the services that need credentials.
type Store struct {
	repo Repository
	sid  string
}

func NewStore(r Repository, sid string) *Store { return &Store{repo: r, sid: sid} }

// ID returns the session id the store is bound to.
func (s *Store) ID() string { return s.sid }

// SaveToken persists token, replacing any previous one.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.repo.Set(ctx, s.sid, TokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Token returns the stored token. Backend failures are logged and reported as absent.
func (s *Store) Token(ctx context.Context) (string, bool) {
	v, ok, err := s.repo.Get(ctx, s.sid, TokenKey)
	if err != nil {
		logger.Warnf("session %s: token lookup failed: %v", short(s.sid), err)
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SaveUser persists the cached user record as JSON.
func (s *Store) SaveUser(ctx context.Context, u models.SessionUser) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, s.sid, UserKey, string(b)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// User returns the cached user record. A missing or malformed record is absent.
func (s *Store) User(ctx context.Context) (*models.SessionUser, bool) {
	v, ok, err := s.repo.Get(ctx, s.sid, UserKey)
	if err != nil {
		logger.Warnf("session %s: user lookup failed: %v", short(s.sid), err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var u models.SessionUser
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		logger.Warnf("session %s: ignoring malformed user record: %v", short(s.sid), err)
		return nil, false
	}
	return &u, true
}

// RemoveToken tears the session down: token and user record go together.
// Other entries of the namespace (theme) are kept.
func (s *Store) RemoveToken(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.sid, TokenKey, UserKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// IsAuthenticated is true iff a token is present.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// AuthHeader returns the Authorization header for the stored token, or an empty map.
func (s *Store) AuthHeader(ctx context.Context) map[string]string {
	tok, ok := s.Token(ctx)
	if !ok {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

// Role returns the cached role, or "" when there is no user record.
func (s *Store) Role(ctx context.Context) models.Role {
	u, ok := s.User(ctx)
	if !ok {
		return ""
	}
	return u.Role
}

func (s *Store) HasRole(ctx context.Context, r models.Role) bool {
	return r != "" && s.Role(ctx) == r
}

func (s *Store) IsAgent(ctx context.Context) bool  { return s.HasRole(ctx, models.RoleAgent) }
func (s *Store) IsClient(ctx context.Context) bool { return s.HasRole(ctx, models.RoleClient) }

// Theme returns the saved UI theme, light by default.
func (s *Store) Theme(ctx context.Context) string {
	v, ok, err := s.repo.Get(ctx, s.sid, ThemeKey)
	if err != nil || !ok || (v != ThemeLight && v != ThemeDark) {
		return ThemeLight
	}
	return v
}

func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.repo.Set(ctx, s.sid, ThemeKey, theme)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) (string, error) {
	next := ThemeDark
	if s.Theme(ctx) == ThemeDark {
		next = ThemeLight
	}
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
