// Package marketing 提供促销码服务
package marketing

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/common/metrics"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// PromoService 促销码服务
type PromoService struct {
	promos store.PromoStore
}

// NewPromoService 创建促销码服务
func NewPromoService(promos store.PromoStore) *PromoService {
	return &PromoService{promos: promos}
}

// PromoInput 创建/更新促销码的请求
type PromoInput struct {
	Code           string     `json:"code" binding:"required"`
	DiscountType   string     `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  float64    `json:"discount_value" binding:"required,gt=0"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidTo        *time.Time `json:"valid_to"`
	UsageLimit     *int       `json:"usage_limit"`
	MinOrderAmount float64    `json:"min_order_amount"`
	IsActive       *bool      `json:"is_active"`
}

// CreatePromo 创建促销码
func (s *PromoService) CreatePromo(ctx context.Context, input *PromoInput) (*models.PromoCode, error) {
	if input.DiscountType == models.DiscountTypePercentage && input.DiscountValue > 100 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Відсоток знижки не може перевищувати 100")
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if _, err := s.promos.GetByCode(ctx, code); err == nil {
		return nil, apperrors.ErrPromoExists
	}

	promo := &models.PromoCode{
		Code:           code,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		ValidFrom:      input.ValidFrom,
		ValidTo:        input.ValidTo,
		UsageLimit:     input.UsageLimit,
		MinOrderAmount: input.MinOrderAmount,
		IsActive:       true,
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	if err := s.promos.Create(ctx, promo); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Info("促销码已创建", logger.PromoCode(promo.Code), logger.Module("marketing"))
	return promo, nil
}

// UpdatePromo 更新促销码
func (s *PromoService) UpdatePromo(ctx context.Context, id int64, input *PromoInput) (*models.PromoCode, error) {
	promo, err := s.GetPromo(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DiscountType == models.DiscountTypePercentage && input.DiscountValue > 100 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Відсоток знижки не може перевищувати 100")
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if existing, err := s.promos.GetByCode(ctx, code); err == nil && existing.ID != id {
		return nil, apperrors.ErrPromoExists
	}

	promo.Code = code
	promo.DiscountType = input.DiscountType
	promo.DiscountValue = input.DiscountValue
	promo.ValidFrom = input.ValidFrom
	promo.ValidTo = input.ValidTo
	promo.UsageLimit = input.UsageLimit
	promo.MinOrderAmount = input.MinOrderAmount
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	if err := s.promos.Update(ctx, promo); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return promo, nil
}

// GetPromo 获取促销码
func (s *PromoService) GetPromo(ctx context.Context, id int64) (*models.PromoCode, error) {
	promo, err := s.promos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPromoNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return promo, nil
}

// DeletePromo 删除促销码
func (s *PromoService) DeletePromo(ctx context.Context, id int64) error {
	if err := s.promos.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPromoNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListPromos 获取促销码列表
func (s *PromoService) ListPromos(ctx context.Context, offset, limit int) ([]*models.PromoCode, int64, error) {
	promos, total, err := s.promos.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return promos, total, nil
}

// CheckPromo 校验促销码对给定小计是否可用
// 校验顺序固定：激活 → 生效时间 → 失效时间 → 使用上限 → 最低消费
func CheckPromo(promo *models.PromoCode, subtotal float64, now time.Time) error {
	if !promo.IsActive {
		return apperrors.ErrPromoInactive
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return apperrors.ErrPromoNotStarted
	}
	if promo.ValidTo != nil && now.After(*promo.ValidTo) {
		return apperrors.ErrPromoExpired
	}
	if promo.Exhausted() {
		return apperrors.ErrPromoLimitReached
	}
	if subtotal < promo.MinOrderAmount {
		return apperrors.ErrPromoMinOrder
	}
	return nil
}

// Discount 计算促销码的折扣金额
// percentage 按小计的百分比；fixed 固定金额但不超过小计
func Discount(promo *models.PromoCode, subtotal float64) float64 {
	switch promo.DiscountType {
	case models.DiscountTypePercentage:
		return utils.Round2(subtotal * promo.DiscountValue / 100)
	case models.DiscountTypeFixed:
		return utils.Min(promo.DiscountValue, subtotal)
	default:
		return 0
	}
}

// Validate 公开校验接口：按码值和小计返回折扣预览
// 校验失败不作为错误上抛，以 Valid=false + 消息返回
func (s *PromoService) Validate(ctx context.Context, code string, subtotal float64) (*models.PromoValidationResult, error) {
	promo, err := s.promos.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.GetMetrics().RecordPromoCheck("invalid")
			return &models.PromoValidationResult{
				Valid:   false,
				Message: apperrors.ErrPromoNotFound.Message,
			}, nil
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := CheckPromo(promo, subtotal, time.Now()); err != nil {
		metrics.GetMetrics().RecordPromoCheck("invalid")
		return &models.PromoValidationResult{
			Valid:   false,
			Code:    promo.Code,
			Message: apperrors.GetAppError(err).Message,
		}, nil
	}

	metrics.GetMetrics().RecordPromoCheck("valid")
	return &models.PromoValidationResult{
		Valid:          true,
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountValue:  promo.DiscountValue,
		DiscountAmount: Discount(promo, subtotal),
	}, nil
}
