package service

import (
	"context"
	"fmt"

	"courtside/internal/apperr"
	"courtside/internal/cache"
	"courtside/internal/logger"
	"courtside/internal/models"
	"courtside/internal/repository"
	"courtside/internal/search"
)

type VenueService struct {
	venueRepo    *repository.VenueRepository
	bookingRepo  *repository.BookingRepository
	userRepo     *repository.UserRepository
	valkeyClient *cache.ValkeyClient
	esClient     *search.ElasticsearchClient
}

func NewVenueService(venueRepo *repository.VenueRepository, bookingRepo *repository.BookingRepository,
	userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient,
	esClient *search.ElasticsearchClient) *VenueService {

	return &VenueService{
		venueRepo:    venueRepo,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		valkeyClient: valkeyClient,
		esClient:     esClient,
	}
}

// List returns a filtered page of venues. Pages are served from Valkey when
// possible; cache failures fall through to Postgres.
func (s *VenueService) List(ctx context.Context, q models.ListVenuesQuery) (*models.VenueListResponse, error) {
	cacheKey := fmt.Sprintf("venues:list:%s:%g:%g:%g:%s:%d:%d",
		q.SportType, q.MinPrice, q.MaxPrice, q.MinRating, q.Sort, q.Page, q.Limit)

	if s.valkeyClient != nil {
		var cached models.VenueListResponse
		hit, err := s.valkeyClient.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.WithContext(ctx).Warn("Venue list cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	venues, total, err := s.venueRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	response := &models.VenueListResponse{
		Venues:     venues,
		Pagination: paginate(q.Page, q.Limit, total),
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.SetJSON(ctx, cacheKey, response); err != nil {
			logger.WithContext(ctx).Warn("Venue list cache write failed", "error", err)
		}
	}

	return response, nil
}

func (s *VenueService) Popular(ctx context.Context, limit int) ([]models.Venue, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	venues, err := s.venueRepo.ListPopular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list popular venues: %w", err)
	}
	return venues, nil
}

// GetDetail returns the venue and, when a date is given, its booked slots
// for that day so clients can render availability.
func (s *VenueService) GetDetail(ctx context.Context, venueID int64, date string) (*models.VenueDetailResponse, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if venue == nil {
		return nil, apperr.ErrVenueNotFound
	}

	response := &models.VenueDetailResponse{Venue: *venue}

	if date != "" {
		slots, err := s.bookingRepo.GetBookedSlots(ctx, venueID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to get booked slots: %w", err)
		}
		response.BookedSlots = slots
	}

	return response, nil
}

// Search runs free-text venue search through Elasticsearch, falling back to
// the relational ILIKE query when the index is unavailable.
func (s *VenueService) Search(ctx context.Context, text, sportType string, page, limit int) (*models.VenueListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	if s.esClient != nil {
		venues, total, err := s.esClient.SearchVenues(ctx, text, sportType, page, limit)
		if err == nil {
			return &models.VenueListResponse{
				Venues:     venues,
				Pagination: paginate(page, limit, total),
			}, nil
		}
		logger.WithContext(ctx).Warn("Elasticsearch search failed, falling back to SQL", "error", err)
	}

	venues, total, err := s.venueRepo.Search(ctx, text, sportType, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}

	return &models.VenueListResponse{
		Venues:     venues,
		Pagination: paginate(page, limit, total),
	}, nil
}

// TypeStats summarizes the active venue catalog by sport type.
func (s *VenueService) TypeStats(ctx context.Context) ([]models.SportTypeStat, error) {
	stats, err := s.venueRepo.TypeStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue type stats: %w", err)
	}
	return stats, nil
}

func (s *VenueService) Memberships(ctx context.Context) ([]models.Membership, error) {
	memberships, err := s.userRepo.ListMemberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
