package repository

import (
	"context"
	"database/sql"
	"fmt"

	"courtside/internal/apperr"
	"courtside/internal/database"
	"courtside/internal/models"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts an activity comment. Top-level comments are limited to one
// per user and activity; replies must point at an existing top-level comment
// on the same activity. The activity row is locked so concurrent duplicate
// top-level comments serialize.
func (r *CommentRepository) Create(ctx context.Context, comment *models.ActivityComment) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var activityID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM activities WHERE id = $1 FOR UPDATE`,
			comment.ActivityID,
		).Scan(&activityID)
		if err == sql.ErrNoRows {
			return apperr.ErrActivityNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock activity: %w", err)
		}

		if comment.ParentID != nil {
			var parentOK bool
			err := tx.QueryRowContext(ctx, `
				SELECT EXISTS (
					SELECT 1 FROM activity_comments
					WHERE id = $1 AND activity_id = $2 AND parent_id IS NULL
				)`,
				*comment.ParentID, comment.ActivityID,
			).Scan(&parentOK)
			if err != nil {
				return fmt.Errorf("failed to check parent comment: %w", err)
			}
			if !parentOK {
				return apperr.ErrParentCommentNotFound
			}
		} else {
			var duplicate bool
			err := tx.QueryRowContext(ctx, `
				SELECT EXISTS (
					SELECT 1 FROM activity_comments
					WHERE activity_id = $1 AND user_id = $2 AND parent_id IS NULL
				)`,
				comment.ActivityID, comment.UserID,
			).Scan(&duplicate)
			if err != nil {
				return fmt.Errorf("failed to check duplicate comment: %w", err)
			}
			if duplicate {
				return apperr.ErrDuplicateComment
			}
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO activity_comments (activity_id, user_id, parent_id, content, rating)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, status, created_at`,
			comment.ActivityID, comment.UserID, comment.ParentID,
			comment.Content, comment.Rating,
		).Scan(&comment.ID, &comment.Status, &comment.CreatedAt)
	})
}

// ListByActivity returns a page of the activity's approved top-level
// comments, newest first, each with its reply count.
func (r *CommentRepository) ListByActivity(ctx context.Context, activityID int64, page, limit int) ([]models.ActivityComment, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM activity_comments
		WHERE activity_id = $1 AND parent_id IS NULL AND status = 'approved'`,
		activityID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT c.id, c.activity_id, c.user_id, c.parent_id, c.content, c.rating,
		       c.status, c.created_at, u.username,
		       (SELECT COUNT(*) FROM activity_comments r
		        WHERE r.parent_id = c.id AND r.status = 'approved') AS reply_count
		FROM activity_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.activity_id = $1 AND c.parent_id IS NULL AND c.status = 'approved'
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, activityID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []models.ActivityComment
	for rows.Next() {
		var c models.ActivityComment
		err := rows.Scan(
			&c.ID, &c.ActivityID, &c.UserID, &c.ParentID, &c.Content, &c.Rating,
			&c.Status, &c.CreatedAt, &c.Username, &c.ReplyCount)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}

	return comments, total, rows.Err()
}

// ListReplies returns the approved replies to a comment, oldest first.
func (r *CommentRepository) ListReplies(ctx context.Context, parentID int64) ([]models.ActivityComment, error) {
	query := `
		SELECT c.id, c.activity_id, c.user_id, c.parent_id, c.content, c.rating,
		       c.status, c.created_at, u.username
		FROM activity_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_id = $1 AND c.status = 'approved'
		ORDER BY c.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.ActivityComment
	for rows.Next() {
		var c models.ActivityComment
		err := rows.Scan(
			&c.ID, &c.ActivityID, &c.UserID, &c.ParentID, &c.Content, &c.Rating,
			&c.Status, &c.CreatedAt, &c.Username)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// Delete removes the user's own comment. Replies go with it through the
// cascading foreign key.
func (r *CommentRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_comments WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrCommentNotFound
	}
	return nil
}
