// Package catalog 提供菜单目录服务：分类、商品、修饰组、标签、套餐与菜单项
package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/common/cache"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// CategoryService 菜单分类服务
type CategoryService struct {
	categories store.CategoryStore
}

// NewCategoryService 创建菜单分类服务
func NewCategoryService(categories store.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput 创建/更新分类的请求
type CategoryInput struct {
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory 创建分类
func (s *CategoryService) CreateCategory(ctx context.Context, input *CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Name:      input.Name,
		SortOrder: input.SortOrder,
	}
	if input.Icon != "" {
		category.Icon = input.Icon
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateMenuCache(ctx)
	return category, nil
}

// UpdateCategory 更新分类
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, input *CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.SortOrder = input.SortOrder
	if input.Icon != "" {
		category.Icon = input.Icon
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateMenuCache(ctx)
	return category, nil
}

// GetCategory 获取分类
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuCategoryMissing
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return category, nil
}

// DeleteCategory 删除分类，仍有商品引用时拒绝
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return apperrors.ErrCategoryHasProducts
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMenuCategoryMissing
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateMenuCache(ctx)
	return nil
}

// ListCategories 获取分类列表，按排序权重升序，读穿缓存
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var cached []*models.Category
	if err := cache.Get(ctx, cache.KeyCategories, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := cache.Set(ctx, cache.KeyCategories, categories, cache.TTLCategories); err != nil {
		logger.Warn("分类缓存写入失败", logger.Module("catalog"))
	}
	return categories, nil
}

// invalidateMenuCache 目录变更后清除公开菜单相关缓存
func (s *CategoryService) invalidateMenuCache(ctx context.Context) {
	invalidateMenuCache(ctx)
}

func invalidateMenuCache(ctx context.Context) {
	if err := cache.Delete(ctx, cache.KeyCategories, cache.KeyMenuItems); err != nil {
		logger.Warn("菜单缓存清除失败", logger.Module("catalog"))
	}
}
