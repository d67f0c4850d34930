package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

// ClientHandler serves the client dashboard and favorites.
type ClientHandler struct{}

func NewClientHandler() *ClientHandler { return &ClientHandler{} }

func (h *ClientHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/client/dashboard", middleware.RequireClient(), h.Dashboard)
	f := rg.Group("/favorites", middleware.RequireClient())
	f.GET("", h.Favorites)
	f.POST("/:propertyId", h.AddFavorite)
	f.DELETE("/:propertyId", h.RemoveFavorite)
}

// Dashboard lists properties and marks the client's favorites.
func (h *ClientHandler) Dashboard(c *gin.Context) {
	var f models.PropertyFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	ctx := c.Request.Context()
	props, err := svc.Properties.List(ctx, f)
	if err != nil {
		fail(c, err)
		return
	}
	favs, err := svc.Favorites.List(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	ids := make([]int64, 0, len(favs))
	for _, fav := range favs {
		ids = append(ids, fav.Property.ID)
	}
	render(c, http.StatusOK, "client-dashboard", gin.H{
		"filter":      f,
		"properties":  views(svc.Properties, props),
		"favoriteIds": ids,
	})
}

func (h *ClientHandler) Favorites(c *gin.Context) {
	svc := services(c)
	if svc == nil {
		return
	}
	favs, err := svc.Favorites.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "favorites", gin.H{"favorites": favs})
}

func (h *ClientHandler) AddFavorite(c *gin.Context) {
	id, ok := idParam(c, "propertyId")
	if !ok {
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	res, err := svc.Favorites.Add(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ClientHandler) RemoveFavorite(c *gin.Context) {
	id, ok := idParam(c, "propertyId")
	if !ok {
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	res, err := svc.Favorites.Remove(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
