package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/sessions"
)

const testSID = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func init() { gin.SetMode(gin.TestMode) }

func newRouter(repo sessions.Repository) *gin.Engine {
	r := gin.New()
	r.Use(SessionMiddleware(repo, CookieOptions{Name: "rems_sid", TTL: time.Hour}))
	return r
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "rems_sid", Value: testSID})
	return req
}

func login(t *testing.T, repo sessions.Repository, role models.Role) {
	t.Helper()
	ctx := context.Background()
	s := sessions.NewStore(repo, testSID)
	require.NoError(t, s.SaveToken(ctx, "t1"))
	require.NoError(t, s.SaveUser(ctx, models.SessionUser{Email: "a@b.com", Role: role, UserID: 7}))
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	r := newRouter(sessions.NewMemoryRepository())
	var sid string
	r.GET("/", func(c *gin.Context) {
		sid = SessionFrom(c).ID()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sid, 64)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "rems_sid", cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddleware_ReusesCookie(t *testing.T) {
	r := newRouter(sessions.NewMemoryRepository())
	var sid string
	r.GET("/", func(c *gin.Context) { sid = SessionFrom(c).ID() })

	r.ServeHTTP(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, testSID, sid)

	// forged ids are replaced
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "rems_sid", Value: "../../etc"})
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "../../etc", sid)
	assert.Len(t, sid, 64)
}

func TestSessionMiddleware_ReadsKeepSessionAlive(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	repo := sessions.NewRedisRepository(redis.NewClient(&redis.Options{Addr: m.Addr()}), "", 2*time.Second)
	login(t, repo, models.RoleClient)
	r := newRouter(repo)
	var authed bool
	r.GET("/", func(c *gin.Context) { authed = SessionFrom(c).IsAuthenticated(c.Request.Context()) })

	for i := 0; i < 3; i++ {
		m.FastForward(1500 * time.Millisecond)
		r.ServeHTTP(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodGet, "/", nil)))
		require.True(t, authed, "request %d", i)
	}

	m.FastForward(3 * time.Second)
	r.ServeHTTP(httptest.NewRecorder(), withSession(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.False(t, authed)
}

func TestGuards(t *testing.T) {
	cases := []struct {
		name     string
		role     models.Role
		mw       gin.HandlerFunc
		wantCode int
		wantLoc  string
	}{
		{"auth anonymous", "", RequireAuth(), http.StatusSeeOther, guard.LoginPath},
		{"auth client", models.RoleClient, RequireAuth(), http.StatusOK, ""},
		{"agent anonymous", "", RequireAgent(), http.StatusSeeOther, guard.HomePath},
		{"agent as client", models.RoleClient, RequireAgent(), http.StatusSeeOther, guard.HomePath},
		{"agent as agent", models.RoleAgent, RequireAgent(), http.StatusOK, ""},
		{"client as agent", models.RoleAgent, RequireClient(), http.StatusSeeOther, guard.HomePath},
		{"client as client", models.RoleClient, RequireClient(), http.StatusOK, ""},
		{"guest anonymous", "", RedirectIfAuthenticated(), http.StatusOK, ""},
		{"guest as agent", models.RoleAgent, RedirectIfAuthenticated(), http.StatusSeeOther, guard.AgentDashboardPath},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := sessions.NewMemoryRepository()
			if tc.role != "" {
				login(t, repo, tc.role)
			}
			reached := false
			r := newRouter(repo)
			r.GET("/page", tc.mw, func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/page", nil)))
			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantLoc, w.Header().Get("Location"))
			assert.Equal(t, tc.wantCode == http.StatusOK, reached)
		})
	}
}

func TestNavigatorFirstCallWins(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		nav := NewNavigator(c)
		nav.Navigate(guard.LoginPath)
		nav.Navigate(guard.HomePath)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, guard.LoginPath, w.Header().Get("Location"))
}

func TestServicesMiddleware(t *testing.T) {
	r := newRouter(sessions.NewMemoryRepository())
	r.Use(ServicesMiddleware("http://backend.invalid/api", 0))
	r.GET("/", func(c *gin.Context) {
		svc := ServicesFrom(c)
		require.NotNil(t, svc)
		assert.NotNil(t, svc.Auth)
		assert.NotNil(t, svc.Uploads)
		assert.Equal(t, "http://backend.invalid/uploads/a.png", svc.Properties.ImageURL("/uploads/a.png"))
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
