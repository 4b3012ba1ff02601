package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"courtside/internal/database"
	"courtside/internal/models"
)

type VenueRepository struct {
	db *database.DB
}

func NewVenueRepository(db *database.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `id, name, sport_type, address, description, price_per_hour,
	       capacity, facilities, opening_hours, status, rating, review_count,
	       created_at, updated_at`

func scanVenueRow(scan func(dest ...any) error) (*models.Venue, error) {
	venue := &models.Venue{}
	err := scan(
		&venue.ID,
		&venue.Name,
		&venue.SportType,
		&venue.Address,
		&venue.Description,
		&venue.PricePerHour,
		&venue.Capacity,
		&venue.Facilities,
		&venue.OpeningHours,
		&venue.Status,
		&venue.Rating,
		&venue.ReviewCount,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return venue, nil
}

func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*models.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`
	return scanVenueRow(r.db.QueryRowContext(ctx, query, id).Scan)
}

// List returns a filtered, sorted page of open venues plus the total match
// count. Filters compose with AND; the default sort is newest first.
func (r *VenueRepository) List(ctx context.Context, q models.ListVenuesQuery) ([]models.Venue, int, error) {
	conditions := []string{"status = 'active'"}
	args := []any{}
	argPos := 1

	if q.SportType != "" {
		conditions = append(conditions, fmt.Sprintf("sport_type = $%d", argPos))
		args = append(args, q.SportType)
		argPos++
	}
	if q.MinPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("price_per_hour >= $%d", argPos))
		args = append(args, q.MinPrice)
		argPos++
	}
	if q.MaxPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("price_per_hour <= $%d", argPos))
		args = append(args, q.MaxPrice)
		argPos++
	}
	if q.MinRating > 0 {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argPos))
		args = append(args, q.MinRating)
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM venues ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	switch q.Sort {
	case "price_asc":
		orderBy = "price_per_hour ASC"
	case "price_desc":
		orderBy = "price_per_hour DESC"
	case "rating_desc":
		orderBy = "rating DESC, review_count DESC"
	}

	query := fmt.Sprintf(`SELECT `+venueColumns+` FROM venues %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, orderBy, argPos, argPos+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		venue, err := scanVenueRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, *venue)
	}

	return venues, total, rows.Err()
}

// ListPopular returns the top open venues by rating, review count breaking
// ties.
func (r *VenueRepository) ListPopular(ctx context.Context, limit int) ([]models.Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE status = 'active'
		ORDER BY rating DESC, review_count DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		venue, err := scanVenueRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *venue)
	}

	return venues, rows.Err()
}

// Search is the relational fallback for free-text venue search, used when
// Elasticsearch is not configured or unreachable.
func (r *VenueRepository) Search(ctx context.Context, text, sportType string, page, limit int) ([]models.Venue, int, error) {
	conditions := []string{"status = 'active'"}
	args := []any{}
	argPos := 1

	if text != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR address ILIKE $%d OR description ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+text+"%")
		argPos++
	}
	if sportType != "" {
		conditions = append(conditions, fmt.Sprintf("sport_type = $%d", argPos))
		args = append(args, sportType)
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM venues ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+venueColumns+`
		FROM venues %s
		ORDER BY rating DESC, id ASC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var venues []models.Venue
	for rows.Next() {
		venue, err := scanVenueRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		venues = append(venues, *venue)
	}

	return venues, total, rows.Err()
}

// TypeStats aggregates the active venues by sport with their price and
// rating averages.
func (r *VenueRepository) TypeStats(ctx context.Context) ([]models.SportTypeStat, error) {
	query := `
		SELECT sport_type,
		       COUNT(*),
		       ROUND(AVG(price_per_hour)::numeric, 2),
		       ROUND(AVG(rating)::numeric, 1)
		FROM venues
		WHERE status = 'active'
		GROUP BY sport_type
		ORDER BY COUNT(*) DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.SportTypeStat
	for rows.Next() {
		var s models.SportTypeStat
		if err := rows.Scan(&s.SportType, &s.Count, &s.AvgPrice, &s.AvgRating); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
