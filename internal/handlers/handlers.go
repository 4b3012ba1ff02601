package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"courtside/internal/apperr"
	"courtside/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError maps domain errors to their HTTP status and hides
// infrastructure errors behind a generic message.
func respondError(c *gin.Context, err error, fallback string) {
	if apperr.IsDomain(err) {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	slog.Error(fallback, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// pathID parses the named path parameter as a positive integer id.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// userID returns the authenticated user id set by the auth middleware.
func userID(c *gin.Context) int64 {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
