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

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `b.id, b.user_id, b.venue_id, b.booking_date::text,
	       b.start_time::text, b.end_time::text, b.total_hours, b.total_price,
	       b.discount_amount, b.final_price, b.status, b.payment_status,
	       b.payment_method, b.notes, b.created_at, b.updated_at`

func scanBookingRow(scan func(dest ...any) error, withVenue bool) (*models.Booking, error) {
	booking := &models.Booking{}
	dest := []any{
		&booking.ID,
		&booking.UserID,
		&booking.VenueID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.TotalHours,
		&booking.TotalPrice,
		&booking.DiscountAmount,
		&booking.FinalPrice,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.PaymentMethod,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	}
	if withVenue {
		dest = append(dest, &booking.VenueName, &booking.VenueAddress)
	}

	err := scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// hasConflictQuery matches live bookings overlapping a half-open interval.
// $5 excludes one booking id from the check, so re-evaluating a booking's own
// interval never collides with itself; 0 excludes nothing.
const hasConflictQuery = `
	SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE venue_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $4
		  AND ($5 = 0 OR id <> $5)
	)`

// HasConflict reports whether the interval collides with another live
// booking on the venue's day schedule.
func (r *BookingRepository) HasConflict(ctx context.Context, venueID int64, date, startTime, endTime string, excludeID int64) (bool, error) {
	var conflict bool
	err := r.db.QueryRowContext(ctx, hasConflictQuery,
		venueID, date, endTime, startTime, excludeID,
	).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("failed to check slot conflicts: %w", err)
	}
	return conflict, nil
}

// Create inserts the booking after re-checking the slot inside a single
// transaction. The venue row is locked first, so two concurrent requests for
// overlapping slots serialize and the second one sees the first one's row.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var venueStatus string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM venues WHERE id = $1 FOR UPDATE`,
			booking.VenueID,
		).Scan(&venueStatus)
		if err == sql.ErrNoRows {
			return apperr.ErrVenueNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock venue: %w", err)
		}
		if venueStatus != "active" {
			return apperr.ErrVenueUnavailable
		}

		var conflict bool
		err = tx.QueryRowContext(ctx, hasConflictQuery,
			booking.VenueID, booking.BookingDate, booking.EndTime, booking.StartTime, int64(0),
		).Scan(&conflict)
		if err != nil {
			return fmt.Errorf("failed to check slot conflicts: %w", err)
		}
		if conflict {
			return apperr.ErrSlotConflict
		}

		return tx.QueryRowContext(ctx, `
			INSERT INTO bookings (user_id, venue_id, booking_date, start_time, end_time,
			                      total_hours, total_price, discount_amount, final_price, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, status, payment_status, created_at, updated_at`,
			booking.UserID, booking.VenueID, booking.BookingDate,
			booking.StartTime, booking.EndTime,
			booking.TotalHours, booking.TotalPrice, booking.DiscountAmount,
			booking.FinalPrice, booking.Notes,
		).Scan(&booking.ID, &booking.Status, &booking.PaymentStatus,
			&booking.CreatedAt, &booking.UpdatedAt)
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, v.name, v.address
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		WHERE b.id = $1`
	return scanBookingRow(r.db.QueryRowContext(ctx, query, id).Scan, true)
}

// GetByIDForUser returns the booking only when it belongs to userID.
func (r *BookingRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `, v.name, v.address
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		WHERE b.id = $1 AND b.user_id = $2`
	return scanBookingRow(r.db.QueryRowContext(ctx, query, id, userID).Scan, true)
}

// ListByUser returns a page of the user's bookings, newest first, plus the
// total count for the same filter.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, q models.ListBookingsQuery) ([]models.Booking, int, error) {
	conditions := []string{"b.user_id = $1"}
	args := []any{userID}
	argPos := 2

	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argPos))
		args = append(args, q.Status)
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM bookings b ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+bookingColumns+`, v.name, v.address
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		%s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBookingRow(rows.Scan, true)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, total, rows.Err()
}

// Cancel transitions the user's booking to cancelled, refunding a paid
// booking. earliestStart is the cutoff the booking's start must be at or
// after; bookings starting sooner are inside the no-cancel window.
func (r *BookingRepository) Cancel(ctx context.Context, id, userID int64, earliestStart time.Time) (*models.Booking, error) {
	var booking *models.Booking

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			SELECT ` + bookingColumns + `
			FROM bookings b
			WHERE b.id = $1 AND b.user_id = $2
			FOR UPDATE`

		var err error
		booking, err = scanBookingRow(tx.QueryRowContext(ctx, query, id, userID).Scan, false)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}
		if booking == nil {
			return apperr.ErrBookingNotFound
		}

		switch booking.Status {
		case models.BookingCancelled:
			return apperr.ErrAlreadyCancelled
		case models.BookingCompleted:
			return apperr.ErrCannotCancelCompleted
		}

		startsAt, err := time.ParseInLocation("2006-01-02 15:04:05",
			booking.BookingDate+" "+booking.StartTime, time.Local)
		if err != nil {
			return fmt.Errorf("failed to parse booking start: %w", err)
		}
		if startsAt.Before(earliestStart) {
			return apperr.ErrCancellationWindowExpired
		}

		paymentStatus := booking.PaymentStatus
		if paymentStatus == models.PaymentPaid {
			paymentStatus = models.PaymentRefunded
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE bookings
			SET status = 'cancelled', payment_status = $1, updated_at = NOW()
			WHERE id = $2`,
			paymentStatus, id)
		if err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		booking.Status = models.BookingCancelled
		booking.PaymentStatus = paymentStatus
		return nil
	})

	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Pay records the payment, confirms the booking and credits loyalty points
// to the user, all in one transaction.
func (r *BookingRepository) Pay(ctx context.Context, id, userID int64, method string, points int) (*models.Booking, error) {
	var booking *models.Booking

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			SELECT ` + bookingColumns + `
			FROM bookings b
			WHERE b.id = $1 AND b.user_id = $2
			FOR UPDATE`

		var err error
		booking, err = scanBookingRow(tx.QueryRowContext(ctx, query, id, userID).Scan, false)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}
		if booking == nil {
			return apperr.ErrBookingNotFound
		}

		if booking.PaymentStatus != models.PaymentUnpaid {
			return apperr.ErrAlreadyPaid
		}
		if booking.Status == models.BookingCancelled {
			return apperr.ErrAlreadyCancelled
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE bookings
			SET payment_status = 'paid', payment_method = $1, status = 'confirmed', updated_at = NOW()
			WHERE id = $2`,
			method, id)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users SET points = points + $1, updated_at = NOW() WHERE id = $2`,
			points, userID)
		if err != nil {
			return fmt.Errorf("failed to credit points: %w", err)
		}

		booking.Status = models.BookingConfirmed
		booking.PaymentStatus = models.PaymentPaid
		booking.PaymentMethod = &method
		return nil
	})

	if err != nil {
		return nil, err
	}
	return booking, nil
}

// GetBookedSlots returns the occupied intervals on a venue's day, ordered by
// start time. Cancelled and completed bookings do not block slots.
func (r *BookingRepository) GetBookedSlots(ctx context.Context, venueID int64, date string) ([]models.BookedSlot, error) {
	query := `
		SELECT start_time::text, end_time::text
		FROM bookings
		WHERE venue_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, venueID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.BookedSlot
	for rows.Next() {
		var slot models.BookedSlot
		if err := rows.Scan(&slot.StartTime, &slot.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// CompleteFinished moves confirmed bookings whose end has passed to
// completed, returning the affected rows so callers can publish events.
func (r *BookingRepository) CompleteFinished(ctx context.Context, now time.Time) ([]models.Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed'
		  AND booking_date + end_time < $1
		RETURNING id, user_id, venue_id`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.VenueID); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
