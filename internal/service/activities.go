package service

import (
	"context"
	"fmt"
	"time"

	"courtside/internal/apperr"
	"courtside/internal/logger"
	"courtside/internal/messaging"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/internal/repository"
)

type ActivityService struct {
	activityRepo *repository.ActivityRepository
	natsClient   *messaging.NATSClient
}

func NewActivityService(activityRepo *repository.ActivityRepository, natsClient *messaging.NATSClient) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		natsClient:   natsClient,
	}
}

func (s *ActivityService) List(ctx context.Context, q models.ListActivitiesQuery) (*models.ActivityListResponse, error) {
	activities, total, err := s.activityRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return &models.ActivityListResponse{
		Activities: activities,
		Pagination: paginate(q.Page, q.Limit, total),
	}, nil
}

// GetDetail returns the activity with its comment stats and, when the
// caller is authenticated, their participation row.
func (s *ActivityService) GetDetail(ctx context.Context, activityID, userID int64) (*models.ActivityDetailResponse, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity == nil {
		return nil, apperr.ErrActivityNotFound
	}

	commentCount, avgRating, err := s.activityRepo.GetCommentStats(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment stats: %w", err)
	}

	response := &models.ActivityDetailResponse{
		Activity:     *activity,
		CommentCount: commentCount,
		AvgRating:    avgRating,
	}

	if userID > 0 {
		participation, err := s.activityRepo.GetParticipation(ctx, activityID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get participation: %w", err)
		}
		response.UserParticipation = participation
	}

	return response, nil
}

// Join adds the user to a published activity. Capacity and the duplicate
// check are enforced atomically in the repository.
func (s *ActivityService) Join(ctx context.Context, activityID, userID int64, req *models.JoinActivityRequest) (*models.Activity, error) {
	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	activity, err := s.activityRepo.Join(ctx, activityID, userID, notes)
	if err != nil {
		return nil, err
	}

	metrics.ActivityJoins.Inc()

	s.publish(ctx, models.EventActivityJoined, models.ActivityJoinedEvent{
		ActivityID:   activity.ID,
		UserID:       userID,
		Participants: activity.CurrentParticipants,
		Timestamp:    time.Now(),
	}, activity.ID)

	return activity, nil
}

// Leave withdraws the user from the activity.
func (s *ActivityService) Leave(ctx context.Context, activityID, userID int64) (*models.Activity, error) {
	activity, err := s.activityRepo.Leave(ctx, activityID, userID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventActivityLeft, models.ActivityLeftEvent{
		ActivityID:   activity.ID,
		UserID:       userID,
		Participants: activity.CurrentParticipants,
		Timestamp:    time.Now(),
	}, activity.ID)

	return activity, nil
}

// RollForward advances activity statuses past their scheduled times:
// published becomes ongoing, ongoing becomes completed. Called from the
// background worker.
func (s *ActivityService) RollForward(ctx context.Context) (int64, error) {
	now := time.Now()

	started, err := s.activityRepo.StartDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to start due activities: %w", err)
	}

	completed, err := s.activityRepo.CompleteDue(ctx, now)
	if err != nil {
		return started, fmt.Errorf("failed to complete due activities: %w", err)
	}

	return started + completed, nil
}

func (s *ActivityService) publish(ctx context.Context, subject string, event interface{}, activityID int64) {
	if s.natsClient == nil {
		return
	}
	if err := s.natsClient.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish activity event",
			"error", err,
			"activity_id", activityID,
			"event_type", subject)
	}
}
