package repository

import (
	"context"
	"database/sql"

	"courtside/internal/database"
	"courtside/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, phone, real_name,
	       membership_level, points, status, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.RealName,
		&user.MembershipLevel,
		&user.Points,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// UpdateProfile sets the fields the caller supplied and leaves the rest
// untouched. Returns nil when the user does not exist.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, realName, phone *string) (*models.User, error) {
	query := `
		UPDATE users
		SET real_name = COALESCE($1, real_name),
		    phone = COALESCE($2, phone),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, realName, phone, userID))
}

// GetMembership returns the tier for a membership level, or nil when the
// level is unrecognized (callers fall back to no discount).
func (r *UserRepository) GetMembership(ctx context.Context, level string) (*models.Membership, error) {
	membership := &models.Membership{}
	query := `
		SELECT id, level, name, discount_rate, min_points, benefits
		FROM memberships
		WHERE level = $1`

	err := r.db.QueryRowContext(ctx, query, level).Scan(
		&membership.ID,
		&membership.Level,
		&membership.Name,
		&membership.DiscountRate,
		&membership.MinPoints,
		&membership.Benefits,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return membership, err
}

// ListMemberships returns all tiers ordered by their points threshold.
func (r *UserRepository) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	var memberships []models.Membership
	query := `
		SELECT id, level, name, discount_rate, min_points, benefits
		FROM memberships
		ORDER BY min_points ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Membership
		err := rows.Scan(&m.ID, &m.Level, &m.Name, &m.DiscountRate, &m.MinPoints, &m.Benefits)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

// GetStats aggregates the user's bookings, reviews, joined activities and
// total spend in one round trip.
func (r *UserRepository) GetStats(ctx context.Context, userID int64) (*models.UserStatsResponse, error) {
	stats := &models.UserStatsResponse{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM bookings WHERE user_id = $1),
			(SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND status IN ('pending', 'confirmed')),
			(SELECT COUNT(*) FROM reviews WHERE user_id = $1),
			(SELECT COUNT(*) FROM activity_participants WHERE user_id = $1),
			(SELECT COALESCE(SUM(final_price), 0) FROM bookings WHERE user_id = $1 AND payment_status = 'paid'),
			(SELECT points FROM users WHERE id = $1)`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalBookings,
		&stats.ActiveBookings,
		&stats.TotalReviews,
		&stats.TotalActivities,
		&stats.TotalSpent,
		&stats.Points,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}
