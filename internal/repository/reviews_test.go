package repository

import (
	"context"
	"testing"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/database"
	"courtside/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewRepoMock(t *testing.T) (*ReviewRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewReviewRepository(&database.DB{DB: db}), mock
}

func TestReviewCreateSuccess(t *testing.T) {
	repo, mock := newReviewRepoMock(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO reviews").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(11, "approved", now, now))

	review := &models.Review{UserID: 1, VenueID: 5, Rating: 4}
	err := repo.Create(context.Background(), review)
	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
	assert.Equal(t, "approved", review.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreateDuplicate(t *testing.T) {
	repo, mock := newReviewRepoMock(t)

	// The (user_id, venue_id) unique constraint catches the race the
	// pre-insert check cannot see.
	mock.ExpectQuery("INSERT INTO reviews").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Review{UserID: 1, VenueID: 5, Rating: 4})
	assert.ErrorIs(t, err, apperr.ErrDuplicateReview)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDeleteNotFound(t *testing.T) {
	repo, mock := newReviewRepoMock(t)

	mock.ExpectQuery("DELETE FROM reviews").
		WithArgs(int64(99), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"venue_id"}))

	_, err := repo.Delete(context.Background(), 99, 1)
	assert.ErrorIs(t, err, apperr.ErrReviewNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRecomputeVenueRating(t *testing.T) {
	repo, mock := newReviewRepoMock(t)

	mock.ExpectExec("UPDATE venues").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecomputeVenueRating(context.Background(), 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
