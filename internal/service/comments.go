package service

import (
	"context"
	"fmt"

	"courtside/internal/models"
	"courtside/internal/repository"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
}

func NewCommentService(commentRepo *repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// Create posts a comment on an activity. A rating only makes sense on a
// top-level comment, so it is dropped from replies.
func (s *CommentService) Create(ctx context.Context, userID int64, req *models.CreateCommentRequest) (*models.ActivityComment, error) {
	comment := &models.ActivityComment{
		ActivityID: req.ActivityID,
		UserID:     userID,
		ParentID:   req.ParentID,
		Content:    req.Content,
	}
	if req.ParentID == nil {
		comment.Rating = req.Rating
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByActivity returns a page of the activity's top-level comments.
func (s *CommentService) ListByActivity(ctx context.Context, activityID int64, page, limit int) (*models.CommentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	comments, total, err := s.commentRepo.ListByActivity(ctx, activityID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return &models.CommentListResponse{
		Comments:   comments,
		Pagination: paginate(page, limit, total),
	}, nil
}

// Replies returns the reply thread of one comment.
func (s *CommentService) Replies(ctx context.Context, commentID int64) ([]models.ActivityComment, error) {
	replies, err := s.commentRepo.ListReplies(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

// Delete removes the user's own comment along with its replies.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	return s.commentRepo.Delete(ctx, commentID, userID)
}
