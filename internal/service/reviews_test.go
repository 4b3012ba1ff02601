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

func newReviewServiceMock(t *testing.T) (*ReviewService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := repository.NewRepositories(&database.DB{DB: db})
	return NewReviewService(repos.Reviews, repos.Venues, nil, nil), mock
}

func TestReviewCreateRefreshesVenueRating(t *testing.T) {
	svc, mock := newReviewServiceMock(t)
	now := time.Now()

	mock.ExpectQuery("FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(venueRow(5, 150))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO reviews").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(11, "approved", now, now))
	// The rating cache refresh runs after the review has committed.
	mock.ExpectExec("UPDATE venues").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	review, err := svc.Create(context.Background(), 1, &models.CreateReviewRequest{
		VenueID: 5,
		Rating:  4,
		Content: "Great courts",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateRejectsInactiveVenue(t *testing.T) {
	svc, mock := newReviewServiceMock(t)

	mock.ExpectQuery("FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(venueRowWithStatus(5, 150, "closed"))

	_, err := svc.Create(context.Background(), 1, &models.CreateReviewRequest{
		VenueID: 5,
		Rating:  4,
	})

	assert.ErrorIs(t, err, apperr.ErrVenueNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateDuplicateRejected(t *testing.T) {
	svc, mock := newReviewServiceMock(t)

	mock.ExpectQuery("FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(venueRow(5, 150))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(context.Background(), 1, &models.CreateReviewRequest{
		VenueID: 5,
		Rating:  4,
	})

	assert.ErrorIs(t, err, apperr.ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateBookingNotEligible(t *testing.T) {
	svc, mock := newReviewServiceMock(t)
	bookingID := int64(42)

	mock.ExpectQuery("FROM venues").
		WithArgs(int64(5)).
		WillReturnRows(venueRow(5, 150))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(bookingID, int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := svc.Create(context.Background(), 1, &models.CreateReviewRequest{
		VenueID:   5,
		Rating:    4,
		BookingID: &bookingID,
	})

	assert.ErrorIs(t, err, apperr.ErrBookingNotEligible)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteRefreshesVenueRating(t *testing.T) {
	svc, mock := newReviewServiceMock(t)

	mock.ExpectQuery("DELETE FROM reviews").
		WithArgs(int64(11), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"venue_id"}).AddRow(5))
	mock.ExpectExec("UPDATE venues").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Delete(context.Background(), 1, 11)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
