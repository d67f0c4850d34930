package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

// propertyView is a listing with display-ready image URLs.
type propertyView struct {
	models.Property
	ImageURLs []string `json:"imageUrls"`
}

func views(svc interface{ ImageURL(string) string }, props []models.Property) []propertyView {
	out := make([]propertyView, 0, len(props))
	for _, p := range props {
		v := propertyView{Property: p, ImageURLs: make([]string, 0, len(p.Images))}
		for _, img := range p.Images {
			v.ImageURLs = append(v.ImageURLs, svc.ImageURL(img))
		}
		out = append(out, v)
	}
	return out
}

// PropertyHandler serves the public listing pages.
type PropertyHandler struct{}

func NewPropertyHandler() *PropertyHandler { return &PropertyHandler{} }

func (h *PropertyHandler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.GET("/", h.Home)
	rg.GET("/properties/:id", h.Detail)
	rg.POST("/properties/:id/contact", middleware.RequireAuth(), limit, h.Contact)
}

// Home lists properties matching the query filters.
func (h *PropertyHandler) Home(c *gin.Context) {
	var f models.PropertyFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	props, err := svc.Properties.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "home", gin.H{"filter": f, "properties": views(svc.Properties, props)})
}

func (h *PropertyHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	ctx := c.Request.Context()
	p, err := svc.Properties.Get(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	data := gin.H{"property": views(svc.Properties, []models.Property{*p})[0]}
	if middleware.SessionFrom(c).IsClient(ctx) {
		data["favorited"] = svc.Favorites.IsFavorited(ctx, id)
	}
	render(c, http.StatusOK, "property", data)
}

// Contact forwards a message to the listing agent.
func (h *PropertyHandler) Contact(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	res, err := svc.Contact.Send(c.Request.Context(), id, msg)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
