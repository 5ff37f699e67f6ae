package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/models"
)

// ComboRepository 套餐仓储
type ComboRepository struct {
	db *gorm.DB
}

// NewComboRepository 创建套餐仓储
func NewComboRepository(db *gorm.DB) *ComboRepository {
	return &ComboRepository{db: db}
}

// Create 创建套餐
func (r *ComboRepository) Create(ctx context.Context, combo *models.Combo) error {
	return r.db.WithContext(ctx).Create(combo).Error
}

// GetByID 根据 ID 获取套餐
func (r *ComboRepository) GetByID(ctx context.Context, id int64) (*models.Combo, error) {
	var combo models.Combo
	err := r.db.WithContext(ctx).First(&combo, id).Error
	if err != nil {
		return nil, err
	}
	return &combo, nil
}

// Update 更新套餐
func (r *ComboRepository) Update(ctx context.Context, combo *models.Combo) error {
	return r.db.WithContext(ctx).Save(combo).Error
}

// Delete 删除套餐
func (r *ComboRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Combo{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取套餐列表
func (r *ComboRepository) List(ctx context.Context, onlyAvailable bool) ([]*models.Combo, error) {
	var combos []*models.Combo
	query := r.db.WithContext(ctx)
	if onlyAvailable {
		query = query.Where("available = ?", true)
	}
	err := query.Order("created_at DESC").Find(&combos).Error
	return combos, err
}

// MenuItemRepository 菜单项仓储
type MenuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository 创建菜单项仓储
func NewMenuItemRepository(db *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

// Create 创建菜单项
func (r *MenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID 根据 ID 获取菜单项
func (r *MenuItemRepository) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 更新菜单项
func (r *MenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete 删除菜单项
func (r *MenuItemRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取全部菜单项
func (r *MenuItemRepository) List(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&items).Error
	return items, err
}

// ListActive 获取启用的菜单项
func (r *MenuItemRepository) ListActive(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	return items, err
}
