package handlers

import (
	"net/http"

	"courtside/internal/models"

	"github.com/gin-gonic/gin"
)

// Activities handlers

// ListActivities - GET /api/activities
func (h *Handlers) ListActivities(c *gin.Context) {
	var q models.ListActivitiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Activities.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to list activities")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetActivity - GET /api/activities/:id
func (h *Handlers) GetActivity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	response, err := h.services.Activities.GetDetail(c.Request.Context(), id, userID(c))
	if err != nil {
		respondError(c, err, "Failed to get activity")
		return
	}

	c.JSON(http.StatusOK, response)
}

// JoinActivity - POST /api/activities/:id/participate
func (h *Handlers) JoinActivity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	// The body is optional; joining without notes is the common case.
	var req models.JoinActivityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	activity, err := h.services.Activities.Join(c.Request.Context(), id, userID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to join activity")
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// LeaveActivity - DELETE /api/activities/:id/participate
func (h *Handlers) LeaveActivity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	activity, err := h.services.Activities.Leave(c.Request.Context(), id, userID(c))
	if err != nil {
		respondError(c, err, "Failed to leave activity")
		return
	}

	c.JSON(http.StatusOK, activity)
}
