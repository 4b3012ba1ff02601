package models

// CreateBookingRequest is the payload for POST /api/bookings
type CreateBookingRequest struct {
	VenueID     int64  `json:"venue_id" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Notes       string `json:"notes"`
}

// PayBookingRequest is the payload for PUT /api/bookings/:id/pay
type PayBookingRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=wechat alipay card cash"`
}

// PayBookingResponse reports the points credited by a successful payment
type PayBookingResponse struct {
	PointsEarned int `json:"points_earned"`
}

// ListBookingsQuery are the accepted filters for GET /api/bookings
type ListBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=50"`
}

// Pagination describes a page of a larger result set
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// BookingListResponse is a page of the caller's bookings
type BookingListResponse struct {
	Bookings   []Booking  `json:"bookings"`
	Pagination Pagination `json:"pagination"`
}

// ListVenuesQuery are the accepted filters for GET /api/venues
type ListVenuesQuery struct {
	SportType string  `form:"sport_type"`
	MinPrice  float64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice  float64 `form:"max_price" binding:"omitempty,min=0"`
	MinRating float64 `form:"rating" binding:"omitempty,min=0,max=5"`
	Sort      string  `form:"sort" binding:"omitempty,oneof=price_asc price_desc rating_desc"`
	Page      int     `form:"page,default=1" binding:"min=1"`
	Limit     int     `form:"limit,default=10" binding:"min=1,max=50"`
}

// VenueListResponse is a page of venues
type VenueListResponse struct {
	Venues     []Venue    `json:"venues"`
	Pagination Pagination `json:"pagination"`
}

// BookedSlot is an occupied interval on a venue's day schedule
type BookedSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// VenueDetailResponse is a venue plus its booked slots for a requested date
type VenueDetailResponse struct {
	Venue
	BookedSlots []BookedSlot `json:"booked_slots,omitempty"`
}

// ListActivitiesQuery are the accepted filters for GET /api/activities
type ListActivitiesQuery struct {
	ActivityType string `form:"activity_type"`
	SportType    string `form:"sport_type"`
	Status       string `form:"status,default=published" binding:"omitempty,oneof=draft published ongoing completed cancelled"`
	Page         int    `form:"page,default=1" binding:"min=1"`
	Limit        int    `form:"limit,default=10" binding:"min=1,max=50"`
}

// ActivityListResponse is a page of activities
type ActivityListResponse struct {
	Activities []Activity `json:"activities"`
	Pagination Pagination `json:"pagination"`
}

// ActivityDetailResponse is an activity plus the caller's participation row
type ActivityDetailResponse struct {
	Activity
	CommentCount      int                  `json:"comment_count"`
	AvgRating         float64              `json:"avg_rating"`
	UserParticipation *ActivityParticipant `json:"user_participation,omitempty"`
}

// JoinActivityRequest is the payload for POST /api/activities/:id/participate
type JoinActivityRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// CreateReviewRequest is the payload for POST /api/reviews
type CreateReviewRequest struct {
	VenueID   int64  `json:"venue_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Content   string `json:"content" binding:"max=1000"`
	BookingID *int64 `json:"booking_id"`
}

// UpdateReviewRequest is the payload for PUT /api/reviews/:id
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Content *string `json:"content" binding:"omitempty,max=1000"`
}

// RatingBucket is the per-star review count for a venue
type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// VenueReviewsResponse is a page of a venue's approved reviews
type VenueReviewsResponse struct {
	Reviews     []Review       `json:"reviews"`
	RatingStats []RatingBucket `json:"rating_stats"`
	Pagination  Pagination     `json:"pagination"`
}

// CreateCommentRequest is the payload for POST /api/activity-comments
type CreateCommentRequest struct {
	ActivityID int64  `json:"activity_id" binding:"required"`
	Content    string `json:"content" binding:"required,max=1000"`
	Rating     *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	ParentID   *int64 `json:"parent_id"`
}

// CommentListResponse is a page of activity comments
type CommentListResponse struct {
	Comments   []ActivityComment `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}

// SportTypeStat aggregates the active venues offering one sport
type SportTypeStat struct {
	SportType string  `json:"sport_type"`
	Count     int     `json:"count"`
	AvgPrice  float64 `json:"avg_price"`
	AvgRating float64 `json:"avg_rating"`
}

// UpdateProfileRequest is the payload for PUT /api/users/profile
type UpdateProfileRequest struct {
	RealName *string `json:"real_name" binding:"omitempty,min=2,max=50"`
	Phone    *string `json:"phone" binding:"omitempty,min=5,max=20"`
}

// UserProfileResponse is the caller's profile plus membership info
type UserProfileResponse struct {
	User
	Membership *Membership `json:"membership,omitempty"`
}

// UserStatsResponse summarizes the caller's account activity
type UserStatsResponse struct {
	TotalBookings   int     `json:"total_bookings"`
	ActiveBookings  int     `json:"active_bookings"`
	TotalReviews    int     `json:"total_reviews"`
	TotalActivities int     `json:"total_activities"`
	TotalSpent      float64 `json:"total_spent"`
	Points          int     `json:"points"`
}
