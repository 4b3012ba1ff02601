package repository

import (
	"context"
	"database/sql"
	"fmt"

	"courtside/internal/apperr"
	"courtside/internal/database"
	"courtside/internal/models"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts the review. One review per user and venue; the unique
// constraint turns a concurrent duplicate into ErrDuplicateReview.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (user_id, venue_id, booking_id, rating, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		review.UserID, review.VenueID, review.BookingID, review.Rating, review.Content,
	).Scan(&review.ID, &review.Status, &review.CreatedAt, &review.UpdatedAt)

	if isUniqueViolation(err) {
		return apperr.ErrDuplicateReview
	}
	return err
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	review := &models.Review{}
	query := `
		SELECT r.id, r.user_id, r.venue_id, r.booking_id, r.rating, r.content,
		       r.status, r.created_at, r.updated_at, v.name
		FROM reviews r
		JOIN venues v ON v.id = r.venue_id
		WHERE r.id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.UserID, &review.VenueID, &review.BookingID,
		&review.Rating, &review.Content, &review.Status,
		&review.CreatedAt, &review.UpdatedAt, &review.VenueName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// HasReviewed reports whether the user already has a review for the venue.
func (r *ReviewRepository) HasReviewed(ctx context.Context, userID, venueID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND venue_id = $2)`,
		userID, venueID,
	).Scan(&exists)
	return exists, err
}

// HasCompletedBooking reports whether the booking belongs to the user, is for
// the venue and has been completed.
func (r *ReviewRepository) HasCompletedBooking(ctx context.Context, bookingID, userID, venueID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE id = $1 AND user_id = $2 AND venue_id = $3 AND status = 'completed'
		)`,
		bookingID, userID, venueID,
	).Scan(&exists)
	return exists, err
}

// Update modifies the user's own review. Nil fields are left untouched.
func (r *ReviewRepository) Update(ctx context.Context, id, userID int64, rating *int, content *string) (*models.Review, error) {
	review := &models.Review{}
	query := `
		UPDATE reviews
		SET rating = COALESCE($1, rating),
		    content = COALESCE($2, content),
		    updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, venue_id, booking_id, rating, content, status, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rating, content, id, userID).Scan(
		&review.ID, &review.UserID, &review.VenueID, &review.BookingID,
		&review.Rating, &review.Content, &review.Status,
		&review.CreatedAt, &review.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the user's own review and returns the venue it belonged to
// so the caller can refresh the venue's rating.
func (r *ReviewRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	var venueID int64
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2 RETURNING venue_id`,
		id, userID,
	).Scan(&venueID)
	if err == sql.ErrNoRows {
		return 0, apperr.ErrReviewNotFound
	}
	return venueID, err
}

// ListByVenue returns a page of the venue's approved reviews, newest first.
func (r *ReviewRepository) ListByVenue(ctx context.Context, venueID int64, page, limit int) ([]models.Review, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE venue_id = $1 AND status = 'approved'`,
		venueID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.user_id, r.venue_id, r.booking_id, r.rating, r.content,
		       r.status, r.created_at, r.updated_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.venue_id = $1 AND r.status = 'approved'
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, venueID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.UserID, &review.VenueID, &review.BookingID,
			&review.Rating, &review.Content, &review.Status,
			&review.CreatedAt, &review.UpdatedAt, &review.Username)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

// ListByUser returns a page of the user's reviews across venues.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64, page, limit int) ([]models.Review, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT r.id, r.user_id, r.venue_id, r.booking_id, r.rating, r.content,
		       r.status, r.created_at, r.updated_at, v.name
		FROM reviews r
		JOIN venues v ON v.id = r.venue_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.UserID, &review.VenueID, &review.BookingID,
			&review.Rating, &review.Content, &review.Status,
			&review.CreatedAt, &review.UpdatedAt, &review.VenueName)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}

	return reviews, total, rows.Err()
}

// GetRatingStats returns per-star counts for the venue's approved reviews.
func (r *ReviewRepository) GetRatingStats(ctx context.Context, venueID int64) ([]models.RatingBucket, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE venue_id = $1 AND status = 'approved'
		GROUP BY rating
		ORDER BY rating DESC`

	rows, err := r.db.QueryContext(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.RatingBucket
	for rows.Next() {
		var bucket models.RatingBucket
		if err := rows.Scan(&bucket.Rating, &bucket.Count); err != nil {
			return nil, err
		}
		stats = append(stats, bucket)
	}

	return stats, rows.Err()
}

// RecomputeVenueRating rebuilds the venue's rating cache from its approved
// reviews. A venue with no reviews goes back to zero.
func (r *ReviewRepository) RecomputeVenueRating(ctx context.Context, venueID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE venues
		SET rating = stats.avg_rating,
		    review_count = stats.review_count,
		    updated_at = NOW()
		FROM (
			SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS avg_rating,
			       COUNT(*) AS review_count
			FROM reviews
			WHERE venue_id = $1 AND status = 'approved'
		) AS stats
		WHERE venues.id = $1`,
		venueID)
	if err != nil {
		return fmt.Errorf("failed to recompute venue rating: %w", err)
	}
	return nil
}
