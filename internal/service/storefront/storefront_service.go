// Package storefront 提供店面页面配置与餐厅信息服务
package storefront

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/common/config"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// StorefrontService 店面配置服务
// 页面构建器产出的文档按 jsonb 原样存取，后端不解释其结构
type StorefrontService struct {
	storefront store.StorefrontStore
	restaurant *config.RestaurantConfig
}

// NewStorefrontService 创建店面配置服务
func NewStorefrontService(storefront store.StorefrontStore, restaurant *config.RestaurantConfig) *StorefrontService {
	return &StorefrontService{storefront: storefront, restaurant: restaurant}
}

// RestaurantInfo 餐厅基础信息（来自配置）
type RestaurantInfo struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	WorkingHours string `json:"working_hours"`
}

// StorefrontView 公开店面配置响应
type StorefrontView struct {
	Restaurant RestaurantInfo `json:"restaurant"`
	Version    int            `json:"version"`
	Document   models.JSON    `json:"document"`
}

// GetStorefront 获取店面配置；未配置时返回空文档
func (s *StorefrontService) GetStorefront(ctx context.Context) (*StorefrontView, error) {
	view := &StorefrontView{
		Restaurant: RestaurantInfo{
			Name:         s.restaurant.Name,
			Address:      s.restaurant.Address,
			Phone:        s.restaurant.Phone,
			WorkingHours: s.restaurant.WorkingHours,
		},
		Version:  2,
		Document: models.JSON{},
	}

	cfg, err := s.storefront.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return view, nil
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	view.Version = cfg.Version
	view.Document = cfg.Document
	return view, nil
}

// ConfigInput 更新店面配置的请求
type ConfigInput struct {
	Version  int         `json:"version"`
	Document models.JSON `json:"document" binding:"required"`
}

// PutConfig 保存店面配置（单行覆盖）
func (s *StorefrontService) PutConfig(ctx context.Context, input *ConfigInput) (*models.StorefrontConfig, error) {
	if len(input.Document) == 0 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Документ конфігурації не може бути порожнім")
	}

	cfg := &models.StorefrontConfig{
		Version:  input.Version,
		Document: input.Document,
	}
	if cfg.Version == 0 {
		cfg.Version = 2
	}

	if err := s.storefront.Upsert(ctx, cfg); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return cfg, nil
}
