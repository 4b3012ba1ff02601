package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createMembershipsTable,
		createVenuesTable,
		createBookingsTable,
		createActivitiesTable,
		createActivityParticipantsTable,
		createReviewsTable,
		createActivityCommentsTable,
		createSystemConfigsTable,
		createBookingSlotIndex,
		seedMemberships,
		seedSystemConfigs,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(100) UNIQUE NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    phone VARCHAR(20),
    real_name VARCHAR(100),
    membership_level VARCHAR(20) NOT NULL DEFAULT 'bronze',
    points INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (points >= 0),
    CHECK (status IN ('active', 'inactive', 'banned'))
);`

const createMembershipsTable = `
CREATE TABLE IF NOT EXISTS memberships (
    id SERIAL PRIMARY KEY,
    level VARCHAR(20) UNIQUE NOT NULL,
    name VARCHAR(100) NOT NULL,
    discount_rate DECIMAL(3,2) NOT NULL,
    min_points INTEGER NOT NULL,
    benefits TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createVenuesTable = `
CREATE TABLE IF NOT EXISTS venues (
    id SERIAL PRIMARY KEY,
    name VARCHAR(200) NOT NULL,
    sport_type VARCHAR(50) NOT NULL,
    address VARCHAR(500) NOT NULL,
    description TEXT,
    price_per_hour DECIMAL(10,2) NOT NULL,
    capacity INTEGER NOT NULL,
    facilities TEXT,
    opening_hours VARCHAR(50),
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    rating DECIMAL(2,1) NOT NULL DEFAULT 0,
    review_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (price_per_hour > 0),
    CHECK (status IN ('active', 'maintenance', 'closed'))
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    venue_id INTEGER NOT NULL REFERENCES venues(id),
    booking_date DATE NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    total_hours DECIMAL(4,2) NOT NULL,
    total_price DECIMAL(10,2) NOT NULL,
    discount_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
    final_price DECIMAL(10,2) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
    payment_method VARCHAR(20),
    notes VARCHAR(500),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (start_time < end_time),
    CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed')),
    CHECK (payment_status IN ('unpaid', 'paid', 'refunded'))
);`

const createActivitiesTable = `
CREATE TABLE IF NOT EXISTS activities (
    id SERIAL PRIMARY KEY,
    organizer_id INTEGER NOT NULL REFERENCES users(id),
    venue_id INTEGER REFERENCES venues(id),
    title VARCHAR(200) NOT NULL,
    description TEXT,
    activity_type VARCHAR(50) NOT NULL,
    sport_type VARCHAR(50) NOT NULL,
    start_date DATE NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME,
    price DECIMAL(10,2) NOT NULL DEFAULT 0,
    max_participants INTEGER,
    current_participants INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'draft',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (current_participants >= 0),
    CHECK (max_participants IS NULL OR current_participants <= max_participants),
    CHECK (status IN ('draft', 'published', 'ongoing', 'completed', 'cancelled'))
);`

const createActivityParticipantsTable = `
CREATE TABLE IF NOT EXISTS activity_participants (
    id SERIAL PRIMARY KEY,
    activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
    notes VARCHAR(500),
    payment_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(activity_id, user_id),
    CHECK (status IN ('confirmed', 'attended', 'absent'))
);`

const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    venue_id INTEGER NOT NULL REFERENCES venues(id),
    booking_id INTEGER REFERENCES bookings(id),
    rating INTEGER NOT NULL,
    content VARCHAR(1000),
    status VARCHAR(20) NOT NULL DEFAULT 'approved',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(user_id, venue_id),
    CHECK (rating BETWEEN 1 AND 5),
    CHECK (status IN ('pending', 'approved', 'rejected'))
);`

const createActivityCommentsTable = `
CREATE TABLE IF NOT EXISTS activity_comments (
    id SERIAL PRIMARY KEY,
    activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    parent_id INTEGER REFERENCES activity_comments(id) ON DELETE CASCADE,
    content VARCHAR(1000) NOT NULL,
    rating INTEGER,
    status VARCHAR(20) NOT NULL DEFAULT 'approved',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (rating IS NULL OR rating BETWEEN 1 AND 5),
    CHECK (status IN ('pending', 'approved', 'rejected'))
);`

const createSystemConfigsTable = `
CREATE TABLE IF NOT EXISTS system_configs (
    id SERIAL PRIMARY KEY,
    config_key VARCHAR(100) UNIQUE NOT NULL,
    config_value VARCHAR(255) NOT NULL,
    description VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createBookingSlotIndex = `
CREATE INDEX IF NOT EXISTS bookings_venue_date_idx
ON bookings (venue_id, booking_date)
WHERE status IN ('pending', 'confirmed');`

const seedMemberships = `
INSERT INTO memberships (level, name, discount_rate, min_points, benefits) VALUES
    ('bronze', 'Bronze', 1.00, 0, 'Standard access'),
    ('silver', 'Silver', 0.95, 100, 'Priority booking, 5% discount'),
    ('gold', 'Gold', 0.90, 500, 'Priority booking, 10% discount, free parking'),
    ('platinum', 'Platinum', 0.80, 1000, 'Priority booking, 20% discount, free parking, dedicated support')
ON CONFLICT (level) DO NOTHING;`

const seedSystemConfigs = `
INSERT INTO system_configs (config_key, config_value, description) VALUES
    ('booking_advance_days', '7', 'How many days ahead a booking may be placed'),
    ('booking_cancel_hours', '24', 'Minimum hours before start time a booking may be cancelled'),
    ('points_per_booking', '10', 'Points credited when a booking is paid')
ON CONFLICT (config_key) DO NOTHING;`
