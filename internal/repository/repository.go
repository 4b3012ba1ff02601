package repository

import (
	"errors"

	"courtside/internal/database"

	"github.com/lib/pq"
)

type Repositories struct {
	Users      *UserRepository
	Venues     *VenueRepository
	Bookings   *BookingRepository
	Activities *ActivityRepository
	Reviews    *ReviewRepository
	Comments   *CommentRepository
	Configs    *ConfigRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Venues:     NewVenueRepository(db),
		Bookings:   NewBookingRepository(db),
		Activities: NewActivityRepository(db),
		Reviews:    NewReviewRepository(db),
		Comments:   NewCommentRepository(db),
		Configs:    NewConfigRepository(db),
	}
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
// The unique constraints back up the in-transaction duplicate checks.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
