package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/logger"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

// Register routes under /auth. limit guards the credential submissions.
func (h *AuthHandler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.GET("/login", middleware.RedirectIfAuthenticated(), h.LoginPage)
	a.GET("/register", middleware.RedirectIfAuthenticated(), h.RegisterPage)
	a.POST("/login", limit, h.Login)
	a.POST("/register", limit, h.SubmitRegister)
	a.POST("/logout", h.Logout)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login", nil)
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register", gin.H{"roles": []models.Role{models.RoleAgent, models.RoleClient}})
}

// Login stores the session and sends the visitor to their dashboard.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	ctx := c.Request.Context()
	if _, err := svc.Auth.Login(ctx, req.Email, req.Password); err != nil {
		fail(c, err)
		return
	}
	guard.New(middleware.SessionFrom(c)).RedirectByRole(ctx, middleware.NewNavigator(c))
}

// SubmitRegister creates the account and sends the visitor to the login page.
func (h *AuthHandler) SubmitRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	u, err := svc.Auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Infof("registered %s account %d", u.Role, u.ID)
	middleware.NewNavigator(c).Navigate(guard.LoginPath)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	svc := services(c)
	if svc == nil {
		return
	}
	if err := svc.Auth.Logout(c.Request.Context()); err != nil {
		logger.Warnf("logout: %v", err)
	}
}
