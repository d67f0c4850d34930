package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/realestate/rems-frontend/pkg/metrics"
)

// limiterStore holds one token bucket per key.
type limiterStore struct {
	m sync.Map // map[string]*rate.Limiter
}

// get returns (and lazily creates) a token-bucket limiter for the given key
func (s *limiterStore) get(key string, rps float64, burst int) *rate.Limiter {
	if v, ok := s.m.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.m.LoadOrStore(key, rate.NewLimiter(rate.Limit(rps), burst))
	return v.(*rate.Limiter)
}

// rateLimitKey prefers the visitor session id, falling back to the client IP.
func rateLimitKey(c *gin.Context) string {
	if s := SessionFrom(c); s != nil && s.ID() != "" {
		return "sid:" + s.ID()
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket per-key limit.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &limiterStore{}
	return func(c *gin.Context) {
		lim := store.get(rateLimitKey(c), rps, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, please wait a moment"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
