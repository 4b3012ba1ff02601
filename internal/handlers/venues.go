package handlers

import (
	"net/http"
	"strconv"

	"courtside/internal/models"

	"github.com/gin-gonic/gin"
)

// Venues handlers

// ListVenues - GET /api/venues
func (h *Handlers) ListVenues(c *gin.Context) {
	var q models.ListVenuesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Venues.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Failed to list venues")
		return
	}

	c.JSON(http.StatusOK, response)
}

// PopularVenues - GET /api/venues/popular
func (h *Handlers) PopularVenues(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	venues, err := h.services.Venues.Popular(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to list popular venues")
		return
	}

	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

// SearchVenues - GET /api/venues/search
func (h *Handlers) SearchVenues(c *gin.Context) {
	text := c.Query("q")
	sportType := c.Query("sport_type")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	response, err := h.services.Venues.Search(c.Request.Context(), text, sportType, page, limit)
	if err != nil {
		respondError(c, err, "Failed to search venues")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMemberships - GET /api/venues/memberships
func (h *Handlers) ListMemberships(c *gin.Context) {
	memberships, err := h.services.Venues.Memberships(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list memberships")
		return
	}

	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

// VenueTypeStats - GET /api/venues/stats/types
func (h *Handlers) VenueTypeStats(c *gin.Context) {
	stats, err := h.services.Venues.TypeStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get venue type stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"types": stats})
}

// GetVenue - GET /api/venues/:id
// An optional date query adds the day's booked slots to the response.
func (h *Handlers) GetVenue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	response, err := h.services.Venues.GetDetail(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		respondError(c, err, "Failed to get venue")
		return
	}

	c.JSON(http.StatusOK, response)
}

// VenueReviews - GET /api/venues/:id/reviews
func (h *Handlers) VenueReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	response, err := h.services.Reviews.ListByVenue(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err, "Failed to list venue reviews")
		return
	}

	c.JSON(http.StatusOK, response)
}
