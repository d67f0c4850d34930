package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/realestate/rems-frontend/internal/api"
	"github.com/realestate/rems-frontend/internal/guard"
	"github.com/realestate/rems-frontend/internal/validate"
	"github.com/realestate/rems-frontend/pkg/logger"
	"github.com/realestate/rems-frontend/pkg/middleware"
)

// render writes the JSON view model of a page, with the session context every
// page shows (theme, current user).
func render(c *gin.Context, status int, page string, data gin.H) {
	if c.IsAborted() {
		return
	}
	out := gin.H{"page": page}
	if s := middleware.SessionFrom(c); s != nil {
		ctx := c.Request.Context()
		out["theme"] = s.Theme(ctx)
		out["authenticated"] = s.IsAuthenticated(ctx)
		if u, ok := s.User(ctx); ok {
			out["user"] = u
		}
	}
	for k, v := range data {
		out[k] = v
	}
	c.JSON(status, out)
}

// fail maps a service error onto the response. Nothing is written when a
// navigation already ended the request (forced logout).
func fail(c *gin.Context, err error) {
	if c.IsAborted() {
		return
	}
	var (
		ve *validate.Errors
		ue *api.UploadRejectedError
		se *api.ServerError
		te *api.TransportError
		de *api.DecodeError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": api.UserMessage(err), "fields": ve.Fields})
	case errors.As(err, &ue):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ue.Message, "file": ue.File})
	case api.IsAuthExpired(err):
		middleware.NewNavigator(c).Navigate(guard.LoginPath)
	case errors.As(err, &se):
		status := se.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": se.Message})
	case errors.As(err, &te), errors.As(err, &de):
		logger.Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": api.UserMessage(err)})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": api.UserMessage(err)})
	}
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func services(c *gin.Context) *api.Services {
	s := middleware.ServicesFrom(c)
	if s == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "services unavailable"})
	}
	return s
}
