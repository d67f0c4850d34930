package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/sessions"
)

func TestLoginStoresSession(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body.Email)
		assert.Equal(t, "Secret1!", body.Password)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token": "t1", "email": "a@b.com", "role": "agent", "userId": 7,
		})
	}))
	ctx := context.Background()

	resp, err := NewAuthService(c).Login(ctx, "a@b.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)

	tok, ok := store.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "t1", tok)
	assert.True(t, store.IsAgent(ctx))
	u, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, models.SessionUser{Email: "a@b.com", Role: models.RoleAgent, UserID: 7}, *u)
}

func TestLoginRejectsIncompleteResponse(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"email": "a@b.com", "role": "agent"})
	}))
	ctx := context.Background()

	_, err := NewAuthService(c).Login(ctx, "a@b.com", "Secret1!")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		writeJSON(w, http.StatusCreated, models.User{ID: 5, Name: "Ann", Email: "ann@b.com", Role: models.RoleClient})
	}))
	ctx := context.Background()

	u, err := NewAuthService(c).Register(ctx, models.RegisterRequest{
		Email: "ann@b.com", Password: "Secret1!", Name: "Ann", Role: models.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestRegisterServerRejection(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Email already exists"})
	}))
	_, err := NewAuthService(c).Register(context.Background(), models.RegisterRequest{
		Email: "ann@b.com", Password: "Secret1!", Name: "Ann", Role: models.RoleAgent,
	})
	require.Error(t, err)
	assert.Equal(t, "Email already exists", UserMessage(err))
}

func TestMeRefreshesSessionUser(t *testing.T) {
	c, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.User{ID: 7, Name: "Ann", Email: "new@b.com", Role: models.RoleAgent})
	}))
	ctx := context.Background()
	require.NoError(t, store.SaveToken(ctx, "t1"))
	require.NoError(t, store.SaveUser(ctx, models.SessionUser{Email: "old@b.com", Role: models.RoleAgent, UserID: 7}))

	u, err := NewAuthService(c).Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	su, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, "new@b.com", su.Email)
}

func TestLogout(t *testing.T) {
	c, store, nav := newTestClient(t, http.NotFoundHandler())
	ctx := context.Background()
	require.NoError(t, store.SaveToken(ctx, "t1"))
	require.NoError(t, store.SetTheme(ctx, sessions.ThemeDark))

	require.NoError(t, NewAuthService(c).Logout(ctx))
	assert.False(t, store.IsAuthenticated(ctx))
	assert.Equal(t, sessions.ThemeDark, store.Theme(ctx))
	assert.Equal(t, []string{guard.HomePath}, nav.all())
}

func TestProfileUpdateValidatesOptionalPassword(t *testing.T) {
	var body map[string]interface{}
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, models.User{ID: 1, Name: "Bob", Email: "b@b.com", Role: models.RoleClient})
	}))
	ctx := context.Background()
	users := NewUserService(c)

	_, err := users.UpdateProfile(ctx, models.ProfileUpdate{Name: "Bob", Password: "short"})
	require.Error(t, err)
	assert.Nil(t, body)

	u, err := users.UpdateProfile(ctx, models.ProfileUpdate{Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.NotContains(t, body, "password")
}

func TestFavorites(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/favorites", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Favorite{{ID: 1, Property: models.Property{ID: 10}}})
	})
	mux.HandleFunc("/api/favorites/11", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusOK, models.APIMessage{Success: true, Message: "Added to favorites"})
	})
	c, store, _ := newTestClient(t, mux)
	ctx := context.Background()
	require.NoError(t, store.SaveToken(ctx, "t1"))
	favs := NewFavoriteService(c)

	assert.True(t, favs.IsFavorited(ctx, 10))
	assert.False(t, favs.IsFavorited(ctx, 11))
	m, err := favs.Add(ctx, 11)
	require.NoError(t, err)
	assert.True(t, m.Success)
}

func TestIsFavoritedFalseOnError(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "down"})
	}))
	assert.False(t, NewFavoriteService(c).IsFavorited(context.Background(), 1))
}

func TestContactSend(t *testing.T) {
	c, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/properties/4/contact", r.URL.Path)
		writeJSON(w, http.StatusOK, models.APIMessage{Success: true, Message: "Message sent"})
	}))
	m, err := NewContactService(c).Send(context.Background(), 4, models.ContactMessage{
		Name: "Ann", Email: "ann@b.com", Message: "Is it available?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Message sent", m.Message)
}
