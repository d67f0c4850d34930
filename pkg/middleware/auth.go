package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/api"
	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/sessions"
	"github.com/realestate/rems-frontend/pkg/logger"
	"github.com/realestate/rems-frontend/pkg/metrics"
)

// gin context keys
const (
	sessionKey  = "session"
	servicesKey = "services"
)

// CookieOptions controls the visitor session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Navigator turns a navigation into a 303 redirect and stops the handler chain.
// Only the first navigation of a request takes effect.
type Navigator struct {
	c *gin.Context
}

func NewNavigator(c *gin.Context) *Navigator { return &Navigator{c: c} }

func (n *Navigator) Navigate(target string) {
	if n.c.IsAborted() {
		return
	}
	n.c.Redirect(http.StatusSeeOther, target)
	n.c.Abort()
}

// SessionMiddleware binds a sessions.Store to the request, issuing a new
// session id cookie when the visitor has none.
func SessionMiddleware(repo sessions.Repository, opts CookieOptions) gin.HandlerFunc {
	if opts.Name == "" {
		opts.Name = "rems_sid"
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(opts.Name)
		if err != nil || !validSessionID(sid) {
			sid, err = sessions.NewSessionID()
			if err != nil {
				logger.Errorf("session id generation failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
				return
			}
		} else if t, ok := repo.(sessions.Toucher); ok {
			// the cookie is refreshed below, so the stored session must be too
			if err := t.Touch(c.Request.Context(), sid); err != nil {
				logger.Warnf("session touch failed: %v", err)
			}
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Name, sid, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
		c.Set(sessionKey, sessions.NewStore(repo, sid))
		c.Next()
	}
}

// ServicesMiddleware builds the backend services for the request's session.
// Must run after SessionMiddleware.
func ServicesMiddleware(baseURL string, maxUploadBytes int64, opts ...api.Option) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := SessionFrom(c)
		if store == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}
		o := append([]api.Option{api.WithNavigator(NewNavigator(c))}, opts...)
		client := api.NewClient(baseURL, store, o...)
		c.Set(servicesKey, api.NewServices(client, maxUploadBytes))
		c.Next()
	}
}

// SessionFrom returns the request's session store, or nil.
func SessionFrom(c *gin.Context) *sessions.Store {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*sessions.Store)
	return s
}

// ServicesFrom returns the request's backend services, or nil.
func ServicesFrom(c *gin.Context) *api.Services {
	v, ok := c.Get(servicesKey)
	if !ok {
		return nil
	}
	s, _ := v.(*api.Services)
	return s
}

func validSessionID(sid string) bool {
	if len(sid) != 64 {
		return false
	}
	for _, r := range sid {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f') {
			return false
		}
	}
	return true
}

// guarded runs check against the request session and redirects on refusal.
func guarded(name string, check func(g *guard.Gate, c *gin.Context) guard.Decision) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := SessionFrom(c)
		if store == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}
		d := check(guard.New(store), c)
		if !guard.Enforce(d, NewNavigator(c)) {
			metrics.GuardDenied.WithLabelValues(name).Inc()
			logger.Debugf("guard %s refused %s: %s", name, c.Request.URL.Path, d.Reason)
			return
		}
		c.Next()
	}
}

// RequireAuth lets only authenticated visitors through; others go to the login page.
func RequireAuth() gin.HandlerFunc {
	return guarded("auth", func(g *guard.Gate, c *gin.Context) guard.Decision {
		return g.CheckAuth(c.Request.Context())
	})
}

// RequireAgent lets only agents through; others go home.
func RequireAgent() gin.HandlerFunc {
	return guarded("agent", func(g *guard.Gate, c *gin.Context) guard.Decision {
		return g.CheckAgent(c.Request.Context())
	})
}

// RequireClient lets only clients through; others go home.
func RequireClient() gin.HandlerFunc {
	return guarded("client", func(g *guard.Gate, c *gin.Context) guard.Decision {
		return g.CheckClient(c.Request.Context())
	})
}

// RedirectIfAuthenticated sends logged-in visitors to their dashboard.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return guarded("guest", func(g *guard.Gate, c *gin.Context) guard.Decision {
		return g.CheckGuest(c.Request.Context())
	})
}
