package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realestate/rems-frontend/internal/models"
)

// failingRepo simulates an unreachable persistence backend.
type failingRepo struct{}

func (failingRepo) Get(ctx context.Context, sid, key string) (string, bool, error) {
	return "", false, errors.New("backend down")
}
func (failingRepo) Set(ctx context.Context, sid, key, value string) error {
	return errors.New("backend down")
}
func (failingRepo) Delete(ctx context.Context, sid string, keys ...string) error {
	return errors.New("backend down")
}

func TestTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryRepository(), "sid-1")

	assert.False(t, s.IsAuthenticated(ctx))
	assert.Empty(t, s.AuthHeader(ctx))

	require.NoError(t, s.SaveToken(ctx, "t1"))
	require.NoError(t, s.SaveToken(ctx, "t2"))
	tok, ok := s.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "t2", tok)
	assert.True(t, s.IsAuthenticated(ctx))
	assert.Equal(t, map[string]string{"Authorization": "Bearer t2"}, s.AuthHeader(ctx))

	require.NoError(t, s.RemoveToken(ctx))
	assert.False(t, s.IsAuthenticated(ctx))
	assert.Empty(t, s.AuthHeader(ctx))

	require.NoError(t, s.SaveToken(ctx, "t3"))
	assert.True(t, s.IsAuthenticated(ctx))
}

// Random save/remove sequences: IsAuthenticated tracks the last operation.
func TestIsAuthenticatedFollowsLastOperation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryRepository(), "sid-seq")
	ops := []bool{true, true, false, false, true, false, true, true, false, true}
	for i, save := range ops {
		if save {
			require.NoError(t, s.SaveToken(ctx, "tok"))
		} else {
			require.NoError(t, s.RemoveToken(ctx))
		}
		assert.Equalf(t, save, s.IsAuthenticated(ctx), "after op %d", i)
		_, hasHeader := s.AuthHeader(ctx)["Authorization"]
		assert.Equalf(t, save, hasHeader, "header after op %d", i)
	}
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryRepository(), "sid-2")

	_, ok := s.User(ctx)
	assert.False(t, ok)

	u := models.SessionUser{Email: "a@b.com", Role: models.RoleAgent, UserID: 7}
	require.NoError(t, s.SaveToken(ctx, "t1"))
	require.NoError(t, s.SaveUser(ctx, u))

	got, ok := s.User(ctx)
	require.True(t, ok)
	assert.Equal(t, u, *got)
	assert.True(t, s.IsAgent(ctx))
	assert.False(t, s.IsClient(ctx))
	assert.Equal(t, models.RoleAgent, s.Role(ctx))
}

func TestRemoveTokenClearsUserButKeepsTheme(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryRepository(), "sid-3")
	require.NoError(t, s.SetTheme(ctx, ThemeDark))
	require.NoError(t, s.SaveToken(ctx, "t1"))
	require.NoError(t, s.SaveUser(ctx, models.SessionUser{Email: "c@d.com", Role: models.RoleClient, UserID: 3}))

	require.NoError(t, s.RemoveToken(ctx))

	_, ok := s.User(ctx)
	assert.False(t, ok)
	assert.Equal(t, models.Role(""), s.Role(ctx))
	assert.Equal(t, ThemeDark, s.Theme(ctx))
}

func TestMalformedUserIsAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, "sid-4", UserKey, "{not json"))
	s := NewStore(repo, "sid-4")

	u, ok := s.User(ctx)
	assert.False(t, ok)
	assert.Nil(t, u)
	assert.False(t, s.IsAgent(ctx))
}

func TestBackendFailureIsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	s := NewStore(failingRepo{}, "sid-5")
	assert.False(t, s.IsAuthenticated(ctx))
	assert.Empty(t, s.AuthHeader(ctx))
	assert.Error(t, s.SaveToken(ctx, "t"))
	assert.Error(t, s.RemoveToken(ctx))
	assert.Equal(t, ThemeLight, s.Theme(ctx))
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a := NewStore(repo, "a")
	b := NewStore(repo, "b")
	require.NoError(t, a.SaveToken(ctx, "ta"))
	assert.True(t, a.IsAuthenticated(ctx))
	assert.False(t, b.IsAuthenticated(ctx))
}

func TestThemeToggle(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryRepository(), "sid-6")
	assert.Equal(t, ThemeLight, s.Theme(ctx))

	next, err := s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, next)
	next, err = s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)

	assert.Error(t, s.SetTheme(ctx, "sepia"))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@b.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret-32-bytes-should-be-long-enough"))
	require.NoError(t, err)

	got, ok := TokenExpiry(tok)
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "got %v want %v", got, exp)

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}

func TestNewSessionID(t *testing.T) {
	a, err := NewSessionID()
	require.NoError(t, err)
	b, err := NewSessionID()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
