package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtside/internal/database"
	"courtside/internal/models"
	"courtside/internal/repository"
	"courtside/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRouter builds the API over a mocked database with a fixed
// authenticated user, the way the auth middleware would set it.
func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repository.NewRepositories(&database.DB{DB: db})
	services := service.NewServices(repos, nil, nil, nil)
	h := NewHandlers(services)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Next()
	})

	api := r.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PUT("/:id/cancel", h.CancelBooking)
			bookings.PUT("/:id/pay", h.PayBooking)
		}

		venues := api.Group("/venues")
		{
			venues.GET("", h.ListVenues)
			venues.GET("/stats/types", h.VenueTypeStats)
			venues.GET("/:id", h.GetVenue)
		}

		users := api.Group("/users")
		{
			users.PUT("/profile", h.UpdateProfile)
		}
	}

	return r, mock
}

func TestCreateBookingRejectsMissingFields(t *testing.T) {
	r, mock := setupRouter(t)

	body, _ := json.Marshal(map[string]any{"booking_date": "2026-09-05"})
	req, _ := http.NewRequest("POST", "/api/bookings", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayBookingRejectsUnknownMethod(t *testing.T) {
	r, mock := setupRouter(t)

	body, _ := json.Marshal(models.PayBookingRequest{PaymentMethod: "barter"})
	req, _ := http.NewRequest("PUT", "/api/bookings/42/pay", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVenueNotFound(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("FROM venues").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req, _ := http.NewRequest("GET", "/api/venues/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "venue not found", response["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVenueRejectsBadID(t *testing.T) {
	r, mock := setupRouter(t)

	req, _ := http.NewRequest("GET", "/api/venues/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingNotFound(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("SELECT config_value FROM system_configs").
		WithArgs(repository.ConfigBookingCancelHours).
		WillReturnRows(sqlmock.NewRows([]string{"config_value"}).AddRow("24"))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	req, _ := http.NewRequest("PUT", "/api/bookings/42/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileAppliesPartialEdit(t *testing.T) {
	r, mock := setupRouter(t)
	now := time.Now()

	mock.ExpectQuery("UPDATE users").
		WithArgs("Sam Chen", nil, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "phone", "real_name",
			"membership_level", "points", "status", "created_at", "updated_at",
		}).AddRow(1, "sam", "sam@example.com", "hash", nil, "Sam Chen",
			"gold", 120, "active", now, now))

	body, _ := json.Marshal(map[string]any{"real_name": "Sam Chen"})
	req, _ := http.NewRequest("PUT", "/api/users/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	require.NotNil(t, user.RealName)
	assert.Equal(t, "Sam Chen", *user.RealName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRejectsShortName(t *testing.T) {
	r, mock := setupRouter(t)

	body, _ := json.Marshal(map[string]any{"real_name": "S"})
	req, _ := http.NewRequest("PUT", "/api/users/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueTypeStats(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("GROUP BY sport_type").
		WillReturnRows(sqlmock.NewRows([]string{"sport_type", "count", "avg_price", "avg_rating"}).
			AddRow("tennis", 4, 132.50, 4.3).
			AddRow("basketball", 2, 90.00, 4.1))

	req, _ := http.NewRequest("GET", "/api/venues/stats/types", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Types []models.SportTypeStat `json:"types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Types, 2)
	assert.Equal(t, "tennis", response.Types[0].SportType)
	assert.Equal(t, 4, response.Types[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVenuesReturnsPage(t *testing.T) {
	r, mock := setupRouter(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM venues").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "sport_type", "address", "description", "price_per_hour",
			"capacity", "facilities", "opening_hours", "status", "rating", "review_count",
			"created_at", "updated_at",
		}).AddRow(5, "Riverside Courts", "tennis", "12 River Rd", nil, 150.0,
			4, nil, nil, "active", 4.5, 12, time.Now(), time.Now()))

	req, _ := http.NewRequest("GET", "/api/venues?sport_type=tennis", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.VenueListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Venues, 1)
	assert.Equal(t, "Riverside Courts", response.Venues[0].Name)
	assert.Equal(t, 1, response.Pagination.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
