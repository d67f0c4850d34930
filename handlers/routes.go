package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// RouteOptions configures RegisterRoutes.
type RouteOptions struct {
	// Limit throttles credential and contact submissions; nil disables it.
	Limit          gin.HandlerFunc
	MaxUploadBytes int64
}

// RegisterRoutes mounts every page of the front-end. Session and services
// middleware must already be installed on rg.
func RegisterRoutes(rg *gin.RouterGroup, opts RouteOptions) {
	limit := opts.Limit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	NewAuthHandler().Register(rg, limit)
	NewPropertyHandler().Register(rg, limit)
	NewAgentHandler(opts.MaxUploadBytes).Register(rg)
	NewClientHandler().Register(rg)
	NewProfileHandler().Register(rg)
}

// ReadinessCheck reports the availability of each dependency.
type ReadinessCheck func(ctx context.Context) map[string]bool

// RegisterOps mounts /health and /ready.
func RegisterOps(r *gin.Engine, check ReadinessCheck) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{}
		if check != nil {
			deps = check(c.Request.Context())
		}
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		uptime := fmt.Sprintf("%s", time.Since(startTime))
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})
}
