package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/database"
	"courtside/internal/models"
)

type ActivityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `a.id, a.organizer_id, a.venue_id, a.title, a.description,
	       a.activity_type, a.sport_type, a.start_date::text, a.start_time::text,
	       a.end_time::text, a.price, a.max_participants, a.current_participants,
	       a.status, a.created_at, a.updated_at`

func scanActivityRow(scan func(dest ...any) error, withVenue bool) (*models.Activity, error) {
	activity := &models.Activity{}
	dest := []any{
		&activity.ID,
		&activity.OrganizerID,
		&activity.VenueID,
		&activity.Title,
		&activity.Description,
		&activity.ActivityType,
		&activity.SportType,
		&activity.StartDate,
		&activity.StartTime,
		&activity.EndTime,
		&activity.Price,
		&activity.MaxParticipants,
		&activity.CurrentParticipants,
		&activity.Status,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	}
	if withVenue {
		dest = append(dest, &activity.VenueName)
	}

	err := scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	query := `
		SELECT ` + activityColumns + `, v.name
		FROM activities a
		LEFT JOIN venues v ON v.id = a.venue_id
		WHERE a.id = $1`
	return scanActivityRow(r.db.QueryRowContext(ctx, query, id).Scan, true)
}

// List returns a filtered page of activities ordered by start date.
func (r *ActivityRepository) List(ctx context.Context, q models.ListActivitiesQuery) ([]models.Activity, int, error) {
	conditions := []string{"a.status = $1"}
	args := []any{q.Status}
	argPos := 2

	if q.ActivityType != "" {
		conditions = append(conditions, fmt.Sprintf("a.activity_type = $%d", argPos))
		args = append(args, q.ActivityType)
		argPos++
	}
	if q.SportType != "" {
		conditions = append(conditions, fmt.Sprintf("a.sport_type = $%d", argPos))
		args = append(args, q.SportType)
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM activities a ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+activityColumns+`, v.name
		FROM activities a
		LEFT JOIN venues v ON v.id = a.venue_id
		%s
		ORDER BY a.start_date ASC, a.start_time ASC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		activity, err := scanActivityRow(rows.Scan, true)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, *activity)
	}

	return activities, total, rows.Err()
}

// GetParticipation returns the user's participant row, or nil when the user
// has not joined.
func (r *ActivityRepository) GetParticipation(ctx context.Context, activityID, userID int64) (*models.ActivityParticipant, error) {
	p := &models.ActivityParticipant{}
	query := `
		SELECT id, activity_id, user_id, status, notes, payment_amount, created_at
		FROM activity_participants
		WHERE activity_id = $1 AND user_id = $2`

	err := r.db.QueryRowContext(ctx, query, activityID, userID).Scan(
		&p.ID, &p.ActivityID, &p.UserID, &p.Status, &p.Notes, &p.PaymentAmount, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Join adds the user to a published activity. The activity row is locked
// first so the capacity check and the counter increment are atomic; the
// unique participant constraint backs up the duplicate check.
func (r *ActivityRepository) Join(ctx context.Context, activityID, userID int64, notes *string) (*models.Activity, error) {
	var activity *models.Activity

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			SELECT ` + activityColumns + `
			FROM activities a
			WHERE a.id = $1
			FOR UPDATE`

		var err error
		activity, err = scanActivityRow(tx.QueryRowContext(ctx, query, activityID).Scan, false)
		if err != nil {
			return fmt.Errorf("failed to lock activity: %w", err)
		}
		if activity == nil || !activity.Status.Joinable() {
			return apperr.ErrActivityNotJoinable
		}

		var joined bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM activity_participants WHERE activity_id = $1 AND user_id = $2)`,
			activityID, userID,
		).Scan(&joined)
		if err != nil {
			return fmt.Errorf("failed to check participation: %w", err)
		}
		if joined {
			return apperr.ErrAlreadyParticipating
		}

		if activity.MaxParticipants != nil && activity.CurrentParticipants >= *activity.MaxParticipants {
			return apperr.ErrActivityFull
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO activity_participants (activity_id, user_id, notes, payment_amount)
			VALUES ($1, $2, $3, $4)`,
			activityID, userID, notes, activity.Price)
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.ErrAlreadyParticipating
			}
			return fmt.Errorf("failed to add participant: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE activities
			SET current_participants = current_participants + 1, updated_at = NOW()
			WHERE id = $1`,
			activityID)
		if err != nil {
			return fmt.Errorf("failed to increment participants: %w", err)
		}

		activity.CurrentParticipants++
		return nil
	})

	if err != nil {
		return nil, err
	}
	return activity, nil
}

// Leave withdraws the user from the activity and decrements the counter.
// The counter never goes below zero even if it has drifted.
func (r *ActivityRepository) Leave(ctx context.Context, activityID, userID int64) (*models.Activity, error) {
	var activity *models.Activity

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			SELECT ` + activityColumns + `
			FROM activities a
			WHERE a.id = $1
			FOR UPDATE`

		var err error
		activity, err = scanActivityRow(tx.QueryRowContext(ctx, query, activityID).Scan, false)
		if err != nil {
			return fmt.Errorf("failed to lock activity: %w", err)
		}
		if activity == nil {
			return apperr.ErrActivityNotFound
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM activity_participants WHERE activity_id = $1 AND user_id = $2`,
			activityID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove participant: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return apperr.ErrNotParticipating
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE activities
			SET current_participants = GREATEST(current_participants - 1, 0), updated_at = NOW()
			WHERE id = $1`,
			activityID)
		if err != nil {
			return fmt.Errorf("failed to decrement participants: %w", err)
		}

		if activity.CurrentParticipants > 0 {
			activity.CurrentParticipants--
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return activity, nil
}

// GetCommentStats returns the comment count and the average rating of
// top-level comments for an activity.
func (r *ActivityRepository) GetCommentStats(ctx context.Context, activityID int64) (int, float64, error) {
	var count int
	var avgRating float64
	query := `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM activity_comments
		WHERE activity_id = $1 AND parent_id IS NULL AND status = 'approved'`

	err := r.db.QueryRowContext(ctx, query, activityID).Scan(&count, &avgRating)
	if err != nil {
		return 0, 0, err
	}
	return count, avgRating, nil
}

// StartDue moves published activities whose start has passed to ongoing,
// and CompleteDue moves ongoing activities whose end has passed to
// completed. Both return the number of rows they advanced.
func (r *ActivityRepository) StartDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET status = 'ongoing', updated_at = NOW()
		WHERE status = 'published'
		  AND start_date + start_time <= $1`,
		now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ActivityRepository) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE activities
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'ongoing'
		  AND start_date + COALESCE(end_time, start_time) < $1`,
		now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
