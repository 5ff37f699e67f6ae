// Package feedback 提供顾客评价服务
package feedback

import (
	"context"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// FeedbackService 顾客评价服务
type FeedbackService struct {
	feedbacks store.FeedbackStore
}

// NewFeedbackService 创建评价服务
func NewFeedbackService(feedbacks store.FeedbackStore) *FeedbackService {
	return &FeedbackService{feedbacks: feedbacks}
}

// FeedbackInput 提交评价的请求
type FeedbackInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Phone   string `json:"phone"`
	Comment string `json:"comment"`
}

// CreateFeedback 提交评价
func (s *FeedbackService) CreateFeedback(ctx context.Context, input *FeedbackInput) (*models.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Оцінка має бути від 1 до 5")
	}

	feedback := &models.Feedback{
		Rating:  input.Rating,
		Phone:   utils.NormalizePhone(input.Phone),
		Comment: input.Comment,
	}
	if err := s.feedbacks.Create(ctx, feedback); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return feedback, nil
}

// ListFeedbacks 获取评价列表（管理端）
func (s *FeedbackService) ListFeedbacks(ctx context.Context, offset, limit int) ([]*models.Feedback, int64, error) {
	feedbacks, total, err := s.feedbacks.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return feedbacks, total, nil
}
