package handlers

import (
	"net/http"
	"strconv"

	"courtside/internal/models"

	"github.com/gin-gonic/gin"
)

// Activity comment handlers

// CreateComment - POST /api/activity-comments
func (h *Handlers) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.services.Comments.Create(c.Request.Context(), userID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments - GET /api/activity-comments?activity_id=N
func (h *Handlers) ListComments(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Query("activity_id"), 10, 64)
	if err != nil || activityID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity_id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	response, err := h.services.Comments.ListByActivity(c.Request.Context(), activityID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list comments")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListCommentReplies - GET /api/activity-comments/:id/replies
func (h *Handlers) ListCommentReplies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	replies, err := h.services.Comments.Replies(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list replies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// DeleteComment - DELETE /api/activity-comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Comments.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err, "Failed to delete comment")
		return
	}

	c.Status(http.StatusNoContent)
}
