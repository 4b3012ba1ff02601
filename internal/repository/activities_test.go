package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityRepoMock(t *testing.T) (*ActivityRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewActivityRepository(&database.DB{DB: db}), mock
}

func activityRowColumns() []string {
	return []string{
		"id", "organizer_id", "venue_id", "title", "description",
		"activity_type", "sport_type", "start_date", "start_time", "end_time",
		"price", "max_participants", "current_participants", "status",
		"created_at", "updated_at",
	}
}

func publishedActivityRow(current, max int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(activityRowColumns()).
		AddRow(7, 2, nil, "Evening badminton", nil,
			"training", "badminton", "2026-09-10", "19:00:00", "21:00:00",
			20.0, max, current, "published", now, now)
}

func TestActivityJoinSuccess(t *testing.T) {
	repo, mock := newActivityRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(publishedActivityRow(3, 10))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO activity_participants").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("current_participants = current_participants + 1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	activity, err := repo.Join(context.Background(), 7, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, activity.CurrentParticipants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityJoinFull(t *testing.T) {
	repo, mock := newActivityRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(publishedActivityRow(10, 10))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.Join(context.Background(), 7, 1, nil)
	assert.ErrorIs(t, err, apperr.ErrActivityFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityJoinDuplicate(t *testing.T) {
	repo, mock := newActivityRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(publishedActivityRow(3, 10))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Join(context.Background(), 7, 1, nil)
	assert.ErrorIs(t, err, apperr.ErrAlreadyParticipating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityJoinNotJoinable(t *testing.T) {
	repo, mock := newActivityRepoMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(activityRowColumns()).
			AddRow(7, 2, nil, "Draft session", nil,
				"training", "tennis", "2026-09-10", "19:00:00", "21:00:00",
				0.0, 10, 0, "draft", now, now))
	mock.ExpectRollback()

	_, err := repo.Join(context.Background(), 7, 1, nil)
	assert.ErrorIs(t, err, apperr.ErrActivityNotJoinable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLeaveNotParticipating(t *testing.T) {
	repo, mock := newActivityRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(publishedActivityRow(3, 10))
	mock.ExpectExec("DELETE FROM activity_participants").
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Leave(context.Background(), 7, 1)
	assert.ErrorIs(t, err, apperr.ErrNotParticipating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityLeaveSuccess(t *testing.T) {
	repo, mock := newActivityRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(publishedActivityRow(3, 10))
	mock.ExpectExec("DELETE FROM activity_participants").
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("GREATEST").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	activity, err := repo.Leave(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, activity.CurrentParticipants)
	assert.NoError(t, mock.ExpectationsWereMet())
}
