package service

import (
	"context"
	"fmt"

	"courtside/internal/apperr"
	"courtside/internal/models"
	"courtside/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Profile returns the caller's account with their membership tier.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.UserProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	membership, err := s.userRepo.GetMembership(ctx, user.MembershipLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &models.UserProfileResponse{
		User:       *user,
		Membership: membership,
	}, nil
}

// UpdateProfile applies the caller's partial profile edit and returns the
// updated account.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, userID, req.RealName, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

// Stats returns the caller's booking, review and activity counters.
func (s *UserService) Stats(ctx context.Context, userID int64) (*models.UserStatsResponse, error) {
	stats, err := s.userRepo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	if stats == nil {
		return nil, apperr.ErrUserNotFound
	}
	return stats, nil
}
