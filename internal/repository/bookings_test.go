package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/database"
	"courtside/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingRepoMock(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewBookingRepository(&database.DB{DB: db}), mock
}

func bookingRowColumns() []string {
	return []string{
		"id", "user_id", "venue_id", "booking_date", "start_time", "end_time",
		"total_hours", "total_price", "discount_amount", "final_price",
		"status", "payment_status", "payment_method", "notes",
		"created_at", "updated_at",
	}
}

func TestBookingHasConflictExcludesOwnBooking(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	// Re-checking booking 42's own unchanged interval must skip its row.
	mock.ExpectQuery(regexp.QuoteMeta(`($5 = 0 OR id <> $5)`)).
		WithArgs(int64(5), "2026-09-05", "16:00:00", "14:00:00", int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	conflict, err := repo.HasConflict(context.Background(), 5, "2026-09-05", "14:00:00", "16:00:00", 42)
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingHasConflictDetectsOtherBooking(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5), "2026-09-05", "16:00:00", "14:00:00", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.HasConflict(context.Background(), 5, "2026-09-05", "14:00:00", "16:00:00", 0)
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateSlotConflict(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM venues WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	booking := &models.Booking{
		UserID:      1,
		VenueID:     5,
		BookingDate: "2026-09-05",
		StartTime:   "14:00:00",
		EndTime:     "16:00:00",
	}

	err := repo.Create(context.Background(), booking)
	assert.ErrorIs(t, err, apperr.ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateVenueUnavailable(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM venues WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("maintenance"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Booking{VenueID: 5})
	assert.ErrorIs(t, err, apperr.ErrVenueUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateSuccess(t *testing.T) {
	repo, mock := newBookingRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM venues WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("active"))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "payment_status", "created_at", "updated_at"}).
			AddRow(42, "pending", "unpaid", now, now))
	mock.ExpectCommit()

	booking := &models.Booking{
		UserID:      1,
		VenueID:     5,
		BookingDate: "2026-09-05",
		StartTime:   "14:00:00",
		EndTime:     "16:00:00",
		TotalHours:  2,
		TotalPrice:  300,
		FinalPrice:  270,
	}

	err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, int64(42), booking.ID)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, models.PaymentUnpaid, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingPayAlreadyPaid(t *testing.T) {
	repo, mock := newBookingRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()).
			AddRow(42, 1, 5, "2026-09-05", "14:00:00", "16:00:00",
				2.0, 300.0, 30.0, 270.0, "confirmed", "paid", "card", nil, now, now))
	mock.ExpectRollback()

	_, err := repo.Pay(context.Background(), 42, 1, "card", 10)
	assert.ErrorIs(t, err, apperr.ErrAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingPaySuccess(t *testing.T) {
	repo, mock := newBookingRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()).
			AddRow(42, 1, 5, "2026-09-05", "14:00:00", "16:00:00",
				2.0, 300.0, 30.0, 270.0, "pending", "unpaid", nil, nil, now, now))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points + $1")).
		WithArgs(10, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := repo.Pay(context.Background(), 42, 1, "wechat", 10)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.PaymentPaid, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCancelWindowExpired(t *testing.T) {
	repo, mock := newBookingRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()).
			AddRow(42, 1, 5, "2000-01-01", "10:00:00", "12:00:00",
				2.0, 160.0, 0.0, 160.0, "pending", "unpaid", nil, nil, now, now))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 42, 1, time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, apperr.ErrCancellationWindowExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCancelRefundsPaidBooking(t *testing.T) {
	repo, mock := newBookingRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()).
			AddRow(42, 1, 5, "2100-01-01", "10:00:00", "12:00:00",
				2.0, 160.0, 0.0, 160.0, "confirmed", "paid", "card", nil, now, now))
	mock.ExpectExec("UPDATE bookings").
		WithArgs("refunded", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := repo.Cancel(context.Background(), 42, 1, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, booking.Status)
	assert.Equal(t, models.PaymentRefunded, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCancelAlreadyCancelled(t *testing.T) {
	repo, mock := newBookingRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns()).
			AddRow(42, 1, 5, "2100-01-01", "10:00:00", "12:00:00",
				2.0, 160.0, 0.0, 160.0, "cancelled", "refunded", "card", nil, now, now))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 42, 1, time.Now().Add(24*time.Hour))
	assert.ErrorIs(t, err, apperr.ErrAlreadyCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
