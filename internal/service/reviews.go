package service

import (
	"context"
	"fmt"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/logger"
	"courtside/internal/messaging"
	"courtside/internal/models"
	"courtside/internal/repository"
	"courtside/internal/search"
)

type ReviewService struct {
	reviewRepo *repository.ReviewRepository
	venueRepo  *repository.VenueRepository
	esClient   *search.ElasticsearchClient
	natsClient *messaging.NATSClient
}

func NewReviewService(reviewRepo *repository.ReviewRepository, venueRepo *repository.VenueRepository,
	esClient *search.ElasticsearchClient, natsClient *messaging.NATSClient) *ReviewService {

	return &ReviewService{
		reviewRepo: reviewRepo,
		venueRepo:  venueRepo,
		esClient:   esClient,
		natsClient: natsClient,
	}
}

// Create submits a review for an active venue. When a booking is referenced
// it must be the user's own completed booking for that venue. The venue's
// rating is refreshed after the review commits.
func (s *ReviewService) Create(ctx context.Context, userID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil || venue.Status != "active" {
		return nil, apperr.ErrVenueNotFound
	}

	reviewed, err := s.reviewRepo.HasReviewed(ctx, userID, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if reviewed {
		return nil, apperr.ErrDuplicateReview
	}

	if req.BookingID != nil {
		eligible, err := s.reviewRepo.HasCompletedBooking(ctx, *req.BookingID, userID, req.VenueID)
		if err != nil {
			return nil, fmt.Errorf("failed to check booking eligibility: %w", err)
		}
		if !eligible {
			return nil, apperr.ErrBookingNotEligible
		}
	}

	review := &models.Review{
		UserID:    userID,
		VenueID:   req.VenueID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
	}
	if req.Content != "" {
		review.Content = &req.Content
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.refreshVenueRating(ctx, req.VenueID)

	if s.natsClient != nil {
		event := models.ReviewCreatedEvent{
			ReviewID:  review.ID,
			VenueID:   review.VenueID,
			UserID:    review.UserID,
			Rating:    review.Rating,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.EventReviewCreated, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish review created event",
				"error", err,
				"review_id", review.ID,
				"event_type", models.EventReviewCreated)
		}
	}

	return review, nil
}

// Update edits the user's own review and refreshes the venue rating.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID int64, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.reviewRepo.Update(ctx, reviewID, userID, req.Rating, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if review == nil {
		return nil, apperr.ErrReviewNotFound
	}

	s.refreshVenueRating(ctx, review.VenueID)
	return review, nil
}

// Delete removes the user's own review and refreshes the venue rating.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	venueID, err := s.reviewRepo.Delete(ctx, reviewID, userID)
	if err != nil {
		return err
	}

	s.refreshVenueRating(ctx, venueID)
	return nil
}

// ListByVenue returns a page of a venue's approved reviews with the
// per-star distribution.
func (s *ReviewService) ListByVenue(ctx context.Context, venueID int64, page, limit int) (*models.VenueReviewsResponse, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperr.ErrVenueNotFound
	}

	reviews, total, err := s.reviewRepo.ListByVenue(ctx, venueID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	stats, err := s.reviewRepo.GetRatingStats(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating stats: %w", err)
	}

	return &models.VenueReviewsResponse{
		Reviews:     reviews,
		RatingStats: stats,
		Pagination:  paginate(page, limit, total),
	}, nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID int64, page, limit int) ([]models.Review, models.Pagination, error) {
	reviews, total, err := s.reviewRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, paginate(page, limit, total), nil
}

// refreshVenueRating rebuilds the venue's rating cache and reindexes the
// venue for search. The review mutation has already committed; a failed
// refresh is logged and the stale aggregate catches up on the next one.
func (s *ReviewService) refreshVenueRating(ctx context.Context, venueID int64) {
	if err := s.reviewRepo.RecomputeVenueRating(ctx, venueID); err != nil {
		logger.WithContext(ctx).Error("Failed to refresh venue rating",
			"error", err,
			"venue_id", venueID)
		return
	}

	if s.esClient == nil {
		return
	}

	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil || venue == nil {
		logger.WithContext(ctx).Warn("Skipping venue reindex after rating refresh",
			"error", err,
			"venue_id", venueID)
		return
	}
	if err := s.esClient.IndexVenue(ctx, venue); err != nil {
		logger.WithContext(ctx).Warn("Failed to reindex venue",
			"error", err,
			"venue_id", venueID)
	}
}
