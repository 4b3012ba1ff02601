package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/logger"
	"courtside/internal/messaging"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/internal/pricing"
	"courtside/internal/repository"
)

const (
	defaultAdvanceDays = 7
	defaultCancelHours = 24
	defaultPoints      = 10
)

type BookingService struct {
	bookingRepo *repository.BookingRepository
	venueRepo   *repository.VenueRepository
	userRepo    *repository.UserRepository
	configRepo  *repository.ConfigRepository
	natsClient  *messaging.NATSClient
}

func NewBookingService(bookingRepo *repository.BookingRepository, venueRepo *repository.VenueRepository,
	userRepo *repository.UserRepository, configRepo *repository.ConfigRepository,
	natsClient *messaging.NATSClient) *BookingService {

	return &BookingService{
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		userRepo:    userRepo,
		configRepo:  configRepo,
		natsClient:  natsClient,
	}
}

// Create prices and books a venue slot for the user. The conflict check and
// the insert run atomically in the repository; the price is fixed at booking
// time and never recomputed afterwards.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validateBookingDate(ctx, req.BookingDate); err != nil {
		return nil, err
	}

	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperr.ErrVenueNotFound
	}
	if venue.Status != "active" {
		return nil, apperr.ErrVenueUnavailable
	}

	discountRate, err := s.discountRateFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Compute(venue.PricePerHour, req.StartTime, req.EndTime, discountRate)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:         userID,
		VenueID:        req.VenueID,
		BookingDate:    req.BookingDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		TotalHours:     quote.TotalHours,
		TotalPrice:     quote.TotalPrice,
		DiscountAmount: quote.DiscountAmount,
		FinalPrice:     quote.FinalPrice,
	}
	if req.Notes != "" {
		booking.Notes = &req.Notes
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, apperr.ErrSlotConflict) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	booking.VenueName = venue.Name
	booking.VenueAddress = venue.Address

	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:  booking.ID,
		VenueID:    booking.VenueID,
		UserID:     booking.UserID,
		Date:       booking.BookingDate,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		FinalPrice: booking.FinalPrice,
		Timestamp:  time.Now(),
	}, booking.ID)

	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, userID int64, q models.ListBookingsQuery) (*models.BookingListResponse, error) {
	bookings, total, err := s.bookingRepo.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return &models.BookingListResponse{
		Bookings:   bookings,
		Pagination: paginate(q.Page, q.Limit, total),
	}, nil
}

// Cancel cancels the user's booking when it is still far enough from its
// start. A paid booking is marked refunded at the same time.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	cancelHours, err := s.configRepo.GetInt(ctx, repository.ConfigBookingCancelHours, defaultCancelHours)
	if err != nil {
		return nil, fmt.Errorf("failed to read cancel window: %w", err)
	}

	earliestStart := time.Now().Add(time.Duration(cancelHours) * time.Hour)
	booking, err := s.bookingRepo.Cancel(ctx, bookingID, userID, earliestStart)
	if err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()

	s.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
		BookingID: booking.ID,
		VenueID:   booking.VenueID,
		UserID:    booking.UserID,
		Reason:    "user_cancelled",
		Timestamp: time.Now(),
	}, booking.ID)

	return booking, nil
}

// Pay records the payment, confirms the booking and credits loyalty points.
func (s *BookingService) Pay(ctx context.Context, userID, bookingID int64, req *models.PayBookingRequest) (*models.Booking, *models.PayBookingResponse, error) {
	points, err := s.configRepo.GetInt(ctx, repository.ConfigPointsPerBooking, defaultPoints)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read points policy: %w", err)
	}

	booking, err := s.bookingRepo.Pay(ctx, bookingID, userID, req.PaymentMethod, points)
	if err != nil {
		return nil, nil, err
	}

	metrics.BookingsPaid.Inc()

	s.publish(ctx, models.EventBookingPaid, models.BookingPaidEvent{
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		PaymentMethod: req.PaymentMethod,
		FinalPrice:    booking.FinalPrice,
		PointsEarned:  points,
		Timestamp:     time.Now(),
	}, booking.ID)

	return booking, &models.PayBookingResponse{PointsEarned: points}, nil
}

// CompleteFinished closes out confirmed bookings whose end time has passed.
// Called from the background worker, not from request handlers.
func (s *BookingService) CompleteFinished(ctx context.Context) (int, error) {
	completed, err := s.bookingRepo.CompleteFinished(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to complete bookings: %w", err)
	}

	for _, booking := range completed {
		s.publish(ctx, models.EventBookingCompleted, models.BookingCompletedEvent{
			BookingID: booking.ID,
			VenueID:   booking.VenueID,
			UserID:    booking.UserID,
			Timestamp: time.Now(),
		}, booking.ID)
	}

	return len(completed), nil
}

// validateBookingDate enforces the advance-booking window: today up to
// booking_advance_days ahead.
func (s *BookingService) validateBookingDate(ctx context.Context, date string) error {
	bookingDay, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return apperr.ErrDateOutOfRange
	}

	advanceDays, err := s.configRepo.GetInt(ctx, repository.ConfigBookingAdvanceDays, defaultAdvanceDays)
	if err != nil {
		return fmt.Errorf("failed to read advance window: %w", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	latest := today.AddDate(0, 0, advanceDays)

	if bookingDay.Before(today) || bookingDay.After(latest) {
		return apperr.ErrDateOutOfRange
	}
	return nil
}

// discountRateFor resolves the user's membership discount. An unknown tier
// means full price.
func (s *BookingService) discountRateFor(ctx context.Context, userID int64) (float64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, apperr.ErrUserNotFound
	}

	membership, err := s.userRepo.GetMembership(ctx, user.MembershipLevel)
	if err != nil {
		return 0, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return 1.0, nil
	}
	return membership.DiscountRate, nil
}

func (s *BookingService) publish(ctx context.Context, subject string, event interface{}, bookingID int64) {
	if s.natsClient == nil {
		return
	}
	if err := s.natsClient.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking event",
			"error", err,
			"booking_id", bookingID,
			"event_type", subject)
	}
}

func paginate(page, limit, total int) models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
