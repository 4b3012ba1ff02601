package models

import "time"

// NATS event subjects
const (
	EventBookingCreated   = "booking.created"
	EventBookingPaid      = "booking.paid"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventActivityJoined   = "activity.joined"
	EventActivityLeft     = "activity.left"
	EventReviewCreated    = "review.created"
)

// BookingCreatedEvent is published after a booking is inserted
type BookingCreatedEvent struct {
	BookingID  int64     `json:"booking_id"`
	VenueID    int64     `json:"venue_id"`
	UserID     int64     `json:"user_id"`
	Date       string    `json:"booking_date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	FinalPrice float64   `json:"final_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookingPaidEvent is published after a booking payment is recorded
type BookingPaidEvent struct {
	BookingID     int64     `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	PaymentMethod string    `json:"payment_method"`
	FinalPrice    float64   `json:"final_price"`
	PointsEarned  int       `json:"points_earned"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a booking is cancelled
type BookingCancelledEvent struct {
	BookingID int64     `json:"booking_id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCompletedEvent is published when a past booking is closed out
type BookingCompletedEvent struct {
	BookingID int64     `json:"booking_id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityJoinedEvent is published after a participant is added
type ActivityJoinedEvent struct {
	ActivityID   int64     `json:"activity_id"`
	UserID       int64     `json:"user_id"`
	Participants int       `json:"current_participants"`
	Timestamp    time.Time `json:"timestamp"`
}

// ActivityLeftEvent is published after a participant withdraws
type ActivityLeftEvent struct {
	ActivityID   int64     `json:"activity_id"`
	UserID       int64     `json:"user_id"`
	Participants int       `json:"current_participants"`
	Timestamp    time.Time `json:"timestamp"`
}

// ReviewCreatedEvent is published after a review is submitted
type ReviewCreatedEvent struct {
	ReviewID  int64     `json:"review_id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
