package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/models"
)

// PromoRepository 促销码仓储
type PromoRepository struct {
	db *gorm.DB
}

// NewPromoRepository 创建促销码仓储
func NewPromoRepository(db *gorm.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

// Create 创建促销码
func (r *PromoRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	promo.Code = strings.ToUpper(promo.Code)
	return r.db.WithContext(ctx).Create(promo).Error
}

// GetByID 根据 ID 获取促销码
func (r *PromoRepository) GetByID(ctx context.Context, id int64) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).First(&promo, id).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// GetByCode 根据码值获取促销码（大小写不敏感）
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// Update 更新促销码
func (r *PromoRepository) Update(ctx context.Context, promo *models.PromoCode) error {
	promo.Code = strings.ToUpper(promo.Code)
	return r.db.WithContext(ctx).Save(promo).Error
}

// Delete 删除促销码
func (r *PromoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.PromoCode{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取促销码列表
func (r *PromoRepository) List(ctx context.Context, offset, limit int) ([]*models.PromoCode, int64, error) {
	var promos []*models.PromoCode
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PromoCode{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&promos).Error; err != nil {
		return nil, 0, err
	}

	return promos, total, nil
}

// IncrementUsageCount 原子增加使用次数
// WHERE 条件同时校验使用上限，竞争下超限时返回 gorm.ErrRecordNotFound
func (r *PromoRepository) IncrementUsageCount(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateExpired 停用已过期或用尽的促销码，返回停用数量
func (r *PromoRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("is_active = ?", true).
		Where("(valid_to IS NOT NULL AND valid_to < ?) OR (usage_limit IS NOT NULL AND usage_count >= usage_limit)", now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
