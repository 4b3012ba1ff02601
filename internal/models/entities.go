package models

import (
	"time"
)

// User represents a registered user
type User struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Phone           *string   `json:"phone" db:"phone"`
	RealName        *string   `json:"real_name" db:"real_name"`
	MembershipLevel string    `json:"membership_level" db:"membership_level"`
	Points          int       `json:"points" db:"points"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Membership represents a membership tier and its booking discount
type Membership struct {
	ID           int64   `json:"id" db:"id"`
	Level        string  `json:"level" db:"level"`
	Name         string  `json:"name" db:"name"`
	DiscountRate float64 `json:"discount_rate" db:"discount_rate"`
	MinPoints    int     `json:"min_points" db:"min_points"`
	Benefits     *string `json:"benefits" db:"benefits"`
}

// Venue represents a bookable sports venue. Rating and ReviewCount are
// derived caches owned by the review aggregation flow.
type Venue struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	SportType    string    `json:"sport_type" db:"sport_type"`
	Address      string    `json:"address" db:"address"`
	Description  *string   `json:"description" db:"description"`
	PricePerHour float64   `json:"price_per_hour" db:"price_per_hour"`
	Capacity     int       `json:"capacity" db:"capacity"`
	Facilities   *string   `json:"facilities" db:"facilities"`
	OpeningHours *string   `json:"opening_hours" db:"opening_hours"`
	Status       string    `json:"status" db:"status"`
	Rating       float64   `json:"rating" db:"rating"`
	ReviewCount  int       `json:"review_count" db:"review_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Booking represents a venue time-slot reservation. Dates and times of day
// are carried as "YYYY-MM-DD" / "HH:MM:SS" strings, matching the wire format.
type Booking struct {
	ID             int64         `json:"id" db:"id"`
	UserID         int64         `json:"user_id" db:"user_id"`
	VenueID        int64         `json:"venue_id" db:"venue_id"`
	BookingDate    string        `json:"booking_date" db:"booking_date"`
	StartTime      string        `json:"start_time" db:"start_time"`
	EndTime        string        `json:"end_time" db:"end_time"`
	TotalHours     float64       `json:"total_hours" db:"total_hours"`
	TotalPrice     float64       `json:"total_price" db:"total_price"`
	DiscountAmount float64       `json:"discount_amount" db:"discount_amount"`
	FinalPrice     float64       `json:"final_price" db:"final_price"`
	Status         BookingStatus `json:"status" db:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod  *string       `json:"payment_method" db:"payment_method"`
	Notes          *string       `json:"notes" db:"notes"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`

	VenueName    string `json:"venue_name,omitempty"`
	VenueAddress string `json:"venue_address,omitempty"`
}

// Activity represents an organized event with a participant ceiling.
// CurrentParticipants is a derived counter owned by the capacity flow.
type Activity struct {
	ID                  int64          `json:"id" db:"id"`
	OrganizerID         int64          `json:"organizer_id" db:"organizer_id"`
	VenueID             *int64         `json:"venue_id" db:"venue_id"`
	Title               string         `json:"title" db:"title"`
	Description         *string        `json:"description" db:"description"`
	ActivityType        string         `json:"activity_type" db:"activity_type"`
	SportType           string         `json:"sport_type" db:"sport_type"`
	StartDate           string         `json:"start_date" db:"start_date"`
	StartTime           string         `json:"start_time" db:"start_time"`
	EndTime             *string        `json:"end_time" db:"end_time"`
	Price               float64        `json:"price" db:"price"`
	MaxParticipants     *int           `json:"max_participants" db:"max_participants"`
	CurrentParticipants int            `json:"current_participants" db:"current_participants"`
	Status              ActivityStatus `json:"status" db:"status"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`

	VenueName *string `json:"venue_name,omitempty"`
}

// ActivityParticipant links a user to an activity
type ActivityParticipant struct {
	ID            int64     `json:"id" db:"id"`
	ActivityID    int64     `json:"activity_id" db:"activity_id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	Status        string    `json:"status" db:"status"`
	Notes         *string   `json:"notes" db:"notes"`
	PaymentAmount float64   `json:"payment_amount" db:"payment_amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Review represents a venue review. Only approved reviews count toward the
// venue's aggregate rating.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	VenueID   int64     `json:"venue_id" db:"venue_id"`
	BookingID *int64    `json:"booking_id" db:"booking_id"`
	Rating    int       `json:"rating" db:"rating"`
	Content   *string   `json:"content" db:"content"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Username  string `json:"username,omitempty"`
	VenueName string `json:"venue_name,omitempty"`
}

// ActivityComment represents a comment on an activity. Replies reference a
// top-level comment through ParentID; ratings only appear on top-level rows.
type ActivityComment struct {
	ID         int64     `json:"id" db:"id"`
	ActivityID int64     `json:"activity_id" db:"activity_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	ParentID   *int64    `json:"parent_id" db:"parent_id"`
	Content    string    `json:"content" db:"content"`
	Rating     *int      `json:"rating" db:"rating"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Username   string `json:"username,omitempty"`
	ReplyCount int    `json:"reply_count,omitempty"`
}

// SystemConfig is a keyed runtime policy value
type SystemConfig struct {
	ID          int64  `json:"id" db:"id"`
	ConfigKey   string `json:"config_key" db:"config_key"`
	ConfigValue string `json:"config_value" db:"config_value"`
	Description string `json:"description" db:"description"`
}
