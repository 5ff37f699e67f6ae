package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/models"
)

// ModifierRepository 修饰组仓储
type ModifierRepository struct {
	db *gorm.DB
}

// NewModifierRepository 创建修饰组仓储
func NewModifierRepository(db *gorm.DB) *ModifierRepository {
	return &ModifierRepository{db: db}
}

// Create 创建修饰组
func (r *ModifierRepository) Create(ctx context.Context, group *models.ModifierGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID 根据 ID 获取修饰组
func (r *ModifierRepository) GetByID(ctx context.Context, id int64) (*models.ModifierGroup, error) {
	var group models.ModifierGroup
	err := r.db.WithContext(ctx).First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Update 更新修饰组
func (r *ModifierRepository) Update(ctx context.Context, group *models.ModifierGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete 删除修饰组
func (r *ModifierRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ModifierGroup{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取全部修饰组，按显示顺序升序
func (r *ModifierRepository) List(ctx context.Context) ([]*models.ModifierGroup, error) {
	var groups []*models.ModifierGroup
	err := r.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&groups).Error
	return groups, err
}

// ListEnabled 获取启用的修饰组
func (r *ModifierRepository) ListEnabled(ctx context.Context) ([]*models.ModifierGroup, error) {
	var groups []*models.ModifierGroup
	err := r.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("display_order ASC, id ASC").
		Find(&groups).Error
	return groups, err
}

// TagRepository 商品标签仓储
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建商品标签仓储
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create 创建标签
func (r *TagRepository) Create(ctx context.Context, tag *models.ProductTag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// GetByID 根据 ID 获取标签
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*models.ProductTag, error) {
	var tag models.ProductTag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update 更新标签
func (r *TagRepository) Update(ctx context.Context, tag *models.ProductTag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// Delete 删除标签
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductTag{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取全部标签
func (r *TagRepository) List(ctx context.Context) ([]*models.ProductTag, error) {
	var tags []*models.ProductTag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}
