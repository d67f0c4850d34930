package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/internal/sessions"
	"github.com/realestate/rems-frontend/pkg/logger"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

// ProfileHandler serves the account page and the theme switch.
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler { return &ProfileHandler{} }

func (h *ProfileHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/profile", middleware.RequireAuth())
	p.GET("", h.Get)
	p.PUT("", h.Update)
	rg.POST("/theme", h.ToggleTheme)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	svc := services(c)
	if svc == nil {
		return
	}
	ctx := c.Request.Context()
	u, err := svc.Users.Profile(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	data := gin.H{"profile": u}
	if tok, ok := middleware.SessionFrom(c).Token(ctx); ok {
		if exp, ok := sessions.TokenExpiry(tok); ok {
			data["sessionExpires"] = exp
		}
	}
	render(c, http.StatusOK, "profile", data)
}

// Update saves the profile, then refreshes the cached session user.
func (h *ProfileHandler) Update(c *gin.Context) {
	var in models.ProfileUpdate
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	ctx := c.Request.Context()
	u, err := svc.Users.UpdateProfile(ctx, in)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := svc.Auth.Me(ctx); err != nil {
		if c.IsAborted() {
			return
		}
		logger.Warnf("profile refresh: %v", err)
	}
	c.JSON(http.StatusOK, u)
}

func (h *ProfileHandler) ToggleTheme(c *gin.Context) {
	s := middleware.SessionFrom(c)
	theme, err := s.ToggleTheme(c.Request.Context())
	if err != nil {
		logger.Errorf("toggle theme: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
