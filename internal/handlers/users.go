package handlers

import (
	"net/http"

	"courtside/internal/models"

	"github.com/gin-gonic/gin"
)

// Users handlers

// GetProfile - GET /api/users/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.services.Users.Profile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile - PUT /api/users/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.UpdateProfile(c.Request.Context(), userID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetStats - GET /api/users/stats
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.services.Users.Stats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Failed to get stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
