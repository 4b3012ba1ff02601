package repository

import (
	"context"
	"database/sql"
	"strconv"

	"courtside/internal/database"
)

// Config keys read by the booking flows.
const (
	ConfigBookingAdvanceDays = "booking_advance_days"
	ConfigBookingCancelHours = "booking_cancel_hours"
	ConfigPointsPerBooking   = "points_per_booking"
)

type ConfigRepository struct {
	db *database.DB
}

func NewConfigRepository(db *database.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get returns the raw config value, or empty string when the key is absent.
func (r *ConfigRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT config_value FROM system_configs WHERE config_key = $1`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// GetInt returns the config value as an integer, falling back when the key
// is absent or not numeric. Policy reads must not break booking flows over
// a missing row.
func (r *ConfigRepository) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	value, err := r.Get(ctx, key)
	if err != nil {
		return fallback, err
	}
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// Set upserts a config value.
func (r *ConfigRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_configs (config_key, config_value)
		VALUES ($1, $2)
		ON CONFLICT (config_key) DO UPDATE
		SET config_value = EXCLUDED.config_value, updated_at = NOW()`,
		key, value)
	return err
}
