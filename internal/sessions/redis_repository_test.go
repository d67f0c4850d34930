package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/realestate/rems-frontend/internal/models"
)

func TestRedisRepository_SetGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:", time.Hour)

	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "s1", TokenKey, "t1"))
	require.NoError(t, repo.Set(ctx, "s1", UserKey, `{"email":"a@b.com"}`))
	require.NoError(t, repo.Set(ctx, "s1", ThemeKey, ThemeDark))

	got, ok, err := repo.Get(ctx, "s1", TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", got)
	require.Equal(t, "t1", m.HGet("test:session:s1", TokenKey))

	// missing key and missing session
	_, ok, err = repo.Get(ctx, "s1", "nope")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = repo.Get(ctx, "other", TokenKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Delete(ctx, "s1", TokenKey, UserKey))
	_, ok, _ = repo.Get(ctx, "s1", TokenKey)
	require.False(t, ok)
	_, ok, _ = repo.Get(ctx, "s1", UserKey)
	require.False(t, ok)
	theme, ok, _ := repo.Get(ctx, "s1", ThemeKey)
	require.True(t, ok)
	require.Equal(t, ThemeDark, theme)

	require.NoError(t, repo.Delete(ctx, "s1"))
	require.False(t, m.Exists("test:session:s1"))
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "", 2*time.Second)

	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "s2", TokenKey, "t2"))

	_, ok, err := repo.Get(ctx, "s2", TokenKey)
	require.NoError(t, err)
	require.True(t, ok)

	// advance miniredis clock past TTL
	m.FastForward(3 * time.Second)

	_, ok, err = repo.Get(ctx, "s2", TokenKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisRepository_TouchSlidesTTL(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "", 2*time.Second)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "s3", TokenKey, "t3"))

	m.FastForward(1500 * time.Millisecond)
	require.NoError(t, repo.Touch(ctx, "s3"))
	m.FastForward(1500 * time.Millisecond)

	got, ok, err := repo.Get(ctx, "s3", TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t3", got)

	// touching an unknown session does not create it
	require.NoError(t, repo.Touch(ctx, "ghost"))
	require.False(t, m.Exists("session:ghost"))
}

func TestRedisRepository_BacksStore(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewStore(NewRedisRepository(client, "", time.Hour), "visitor")

	ctx := context.Background()
	require.NoError(t, store.SaveToken(ctx, "t1"))
	require.NoError(t, store.SaveUser(ctx, models.SessionUser{Email: "a@b.com", Role: models.RoleClient, UserID: 9}))
	require.True(t, store.IsClient(ctx))

	// a closed backend fails closed
	m.Close()
	require.False(t, store.IsAuthenticated(ctx))
}
