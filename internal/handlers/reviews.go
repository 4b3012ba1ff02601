package handlers

import (
	"net/http"
	"strconv"

	"courtside/internal/models"

	"github.com/gin-gonic/gin"
)

// Reviews handlers

// CreateReview - POST /api/reviews
func (h *Handlers) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Create(c.Request.Context(), userID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListMyReviews - GET /api/reviews
func (h *Handlers) ListMyReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	reviews, pagination, err := h.services.Reviews.ListByUser(c.Request.Context(), userID(c), page, limit)
	if err != nil {
		respondError(c, err, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":    reviews,
		"pagination": pagination,
	})
}

// UpdateReview - PUT /api/reviews/:id
func (h *Handlers) UpdateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Update(c.Request.Context(), userID(c), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview - DELETE /api/reviews/:id
func (h *Handlers) DeleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.services.Reviews.Delete(c.Request.Context(), userID(c), id); err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}

	c.Status(http.StatusNoContent)
}
