package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/api"
	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

// AgentHandler serves the agent dashboard and listing management.
type AgentHandler struct {
	maxUploadBytes int64
}

func NewAgentHandler(maxUploadBytes int64) *AgentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = api.DefaultMaxUploadBytes
	}
	return &AgentHandler{maxUploadBytes: maxUploadBytes}
}

func (h *AgentHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/agent", middleware.RequireAgent())
	a.GET("/dashboard", h.Dashboard)
	a.POST("/properties", h.Create)
	a.PUT("/properties/:id", h.Update)
	a.DELETE("/properties/:id", h.Delete)
	a.POST("/upload", h.Upload)
}

// Dashboard lists the agent's own listings with simple counts.
func (h *AgentHandler) Dashboard(c *gin.Context) {
	svc := services(c)
	if svc == nil {
		return
	}
	ctx := c.Request.Context()
	u, ok := middleware.SessionFrom(c).User(ctx)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session user missing"})
		return
	}
	props, err := svc.Properties.ByAgent(ctx, u.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	stats := gin.H{"total": len(props), models.TypeRent: 0, models.TypeBuy: 0}
	for _, p := range props {
		if n, ok := stats[p.Type].(int); ok {
			stats[p.Type] = n + 1
		}
	}
	render(c, http.StatusOK, "agent-dashboard", gin.H{"properties": views(svc.Properties, props), "stats": stats})
}

func (h *AgentHandler) Create(c *gin.Context) {
	var in models.PropertyInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	p, err := svc.Properties.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AgentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.PropertyInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	p, err := svc.Properties.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AgentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	svc := services(c)
	if svc == nil {
		return
	}
	res, err := svc.Properties.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Upload forwards the multipart "files" field to the backend, all or nothing.
func (h *AgentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	files := make([]api.UploadFile, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file " + fh.Filename})
			return
		}
		// one byte past the limit is enough to reject oversize files
		data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file " + fh.Filename})
			return
		}
		files = append(files, api.UploadFile{Name: fh.Filename, Data: data})
	}
	svc := services(c)
	if svc == nil {
		return
	}
	paths, err := svc.Uploads.UploadAll(c.Request.Context(), files)
	if err != nil {
		fail(c, err)
		return
	}
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = svc.Properties.ImageURL(p)
	}
	c.JSON(http.StatusOK, gin.H{"images": paths, "urls": urls})
}
