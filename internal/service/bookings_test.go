package service

import (
	"context"
	"testing"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/database"
	"courtside/internal/models"
	"courtside/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingServiceMock(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repository.NewRepositories(&database.DB{DB: db})
	svc := NewBookingService(repos.Bookings, repos.Venues, repos.Users, repos.Configs, nil)
	return svc, mock
}

func expectAdvanceDays(mock sqlmock.Sqlmock, days string) {
	mock.ExpectQuery("SELECT config_value FROM system_configs").
		WithArgs(repository.ConfigBookingAdvanceDays).
		WillReturnRows(sqlmock.NewRows([]string{"config_value"}).AddRow(days))
}

func venueRow(id int64, pricePerHour float64) *sqlmock.Rows {
	return venueRowWithStatus(id, pricePerHour, "active")
}

func venueRowWithStatus(id int64, pricePerHour float64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "sport_type", "address", "description", "price_per_hour",
		"capacity", "facilities", "opening_hours", "status", "rating", "review_count",
		"created_at", "updated_at",
	}).AddRow(id, "Riverside Courts", "tennis", "12 River Rd", nil, pricePerHour,
		4, nil, "06:00-23:00", status, 4.5, 12, now, now)
}

func userRow(id int64, level string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "phone", "real_name",
		"membership_level", "points", "status", "created_at", "updated_at",
	}).AddRow(id, "sam", "sam@example.com", "hash", nil, nil, level, 120, "active", now, now)
}

func membershipRow(level string, discount float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "level", "name", "discount_rate", "min_points", "benefits",
	}).AddRow(3, level, "Gold", discount, 500, nil)
}

func TestBookingCreateRejectsMalformedDate(t *testing.T) {
	svc, mock := newBookingServiceMock(t)

	_, err := svc.Create(context.Background(), 1, &models.CreateBookingRequest{
		VenueID:     5,
		BookingDate: "next tuesday",
		StartTime:   "14:00:00",
		EndTime:     "16:00:00",
	})

	assert.ErrorIs(t, err, apperr.ErrDateOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateRejectsDateOutsideWindow(t *testing.T) {
	svc, mock := newBookingServiceMock(t)
	expectAdvanceDays(mock, "7")

	farFuture := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	_, err := svc.Create(context.Background(), 1, &models.CreateBookingRequest{
		VenueID:     5,
		BookingDate: farFuture,
		StartTime:   "14:00:00",
		EndTime:     "16:00:00",
	})

	assert.ErrorIs(t, err, apperr.ErrDateOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateRejectsPastDate(t *testing.T) {
	svc, mock := newBookingServiceMock(t)
	expectAdvanceDays(mock, "7")

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	_, err := svc.Create(context.Background(), 1, &models.CreateBookingRequest{
		VenueID:     5,
		BookingDate: yesterday,
		StartTime:   "14:00:00",
		EndTime:     "16:00:00",
	})

	assert.ErrorIs(t, err, apperr.ErrDateOutOfRange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateAppliesMembershipDiscount(t *testing.T) {
	svc, mock := newBookingServiceMock(t)
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	expectAdvanceDays(mock, "7")
	mock.ExpectQuery("FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(venueRow(5, 150))
	mock.ExpectQuery("FROM users").
		WithArgs(int64(1)).
		WillReturnRows(userRow(1, "gold"))
	mock.ExpectQuery("FROM memberships").
		WithArgs("gold").
		WillReturnRows(membershipRow("gold", 0.90))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_status", "created_at", "updated_at"}).
			AddRow(42, "pending", "unpaid", now, now))
	mock.ExpectCommit()

	booking, err := svc.Create(context.Background(), 1, &models.CreateBookingRequest{
		VenueID:     5,
		BookingDate: tomorrow,
		StartTime:   "14:00:00",
		EndTime:     "16:00:00",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	assert.Equal(t, 2.0, booking.TotalHours)
	assert.Equal(t, 300.0, booking.TotalPrice)
	assert.Equal(t, 30.0, booking.DiscountAmount)
	assert.Equal(t, 270.0, booking.FinalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateRejectsInvertedInterval(t *testing.T) {
	svc, mock := newBookingServiceMock(t)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	expectAdvanceDays(mock, "7")
	mock.ExpectQuery("FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(venueRow(5, 150))
	mock.ExpectQuery("FROM users").
		WithArgs(int64(1)).
		WillReturnRows(userRow(1, "bronze"))
	mock.ExpectQuery("FROM memberships").
		WithArgs("bronze").
		WillReturnRows(membershipRow("bronze", 1.0))

	_, err := svc.Create(context.Background(), 1, &models.CreateBookingRequest{
		VenueID:     5,
		BookingDate: tomorrow,
		StartTime:   "16:00:00",
		EndTime:     "14:00:00",
	})

	assert.ErrorIs(t, err, apperr.ErrInvalidInterval)
	assert.NoError(t, mock.ExpectationsWereMet())
}
