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

// ModifierService 修饰组与商品标签服务
type ModifierService struct {
	modifiers store.ModifierStore
	tags      store.TagStore
}

// NewModifierService 创建修饰组服务
func NewModifierService(modifiers store.ModifierStore, tags store.TagStore) *ModifierService {
	return &ModifierService{modifiers: modifiers, tags: tags}
}

// ModifierInput 创建/更新修饰组的请求
// Options 为 [{"name": "...", "price_add": 0}] 结构
type ModifierInput struct {
	Name         string           `json:"name" binding:"required"`
	Type         string           `json:"type" binding:"required,oneof=single multiple"`
	Required     bool             `json:"required"`
	Options      models.JSONArray `json:"options" binding:"required"`
	DisplayOrder int              `json:"display_order"`
	DisplayMode  string           `json:"display_mode"`
	ShowForOTP   *bool            `json:"show_for_otp"`
	ShowForVTP   *bool            `json:"show_for_vtp"`
	IsEnabled    *bool            `json:"is_enabled"`
}

func validateOptions(options models.JSONArray) error {
	if len(options) == 0 {
		return apperrors.ErrInvalidParams.WithMessage("Група модифікаторів має містити хоча б один варіант")
	}
	for _, raw := range options {
		opt, ok := raw.(map[string]interface{})
		if !ok {
			return apperrors.ErrInvalidParams.WithMessage("Некоректний формат варіанта модифікатора")
		}
		name, _ := opt["name"].(string)
		if name == "" {
			return apperrors.ErrInvalidParams.WithMessage("Варіант модифікатора має містити назву")
		}
		if priceAdd, ok := opt["price_add"].(float64); ok && priceAdd < 0 {
			return apperrors.ErrInvalidParams.WithMessage("Надбавка до ціни не може бути від'ємною")
		}
	}
	return nil
}

// CreateModifier 创建修饰组
func (s *ModifierService) CreateModifier(ctx context.Context, input *ModifierInput) (*models.ModifierGroup, error) {
	if err := validateOptions(input.Options); err != nil {
		return nil, err
	}

	group := &models.ModifierGroup{
		Name:         input.Name,
		Type:         input.Type,
		Required:     input.Required,
		Options:      input.Options,
		DisplayOrder: input.DisplayOrder,
		ShowForOTP:   true,
		ShowForVTP:   true,
		IsEnabled:    true,
	}
	if input.DisplayMode != "" {
		group.DisplayMode = input.DisplayMode
	}
	if input.ShowForOTP != nil {
		group.ShowForOTP = *input.ShowForOTP
	}
	if input.ShowForVTP != nil {
		group.ShowForVTP = *input.ShowForVTP
	}
	if input.IsEnabled != nil {
		group.IsEnabled = *input.IsEnabled
	}

	if err := s.modifiers.Create(ctx, group); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return group, nil
}

// UpdateModifier 更新修饰组
func (s *ModifierService) UpdateModifier(ctx context.Context, id int64, input *ModifierInput) (*models.ModifierGroup, error) {
	group, err := s.GetModifier(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateOptions(input.Options); err != nil {
		return nil, err
	}

	group.Name = input.Name
	group.Type = input.Type
	group.Required = input.Required
	group.Options = input.Options
	group.DisplayOrder = input.DisplayOrder
	if input.DisplayMode != "" {
		group.DisplayMode = input.DisplayMode
	}
	if input.ShowForOTP != nil {
		group.ShowForOTP = *input.ShowForOTP
	}
	if input.ShowForVTP != nil {
		group.ShowForVTP = *input.ShowForVTP
	}
	if input.IsEnabled != nil {
		group.IsEnabled = *input.IsEnabled
	}

	if err := s.modifiers.Update(ctx, group); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return group, nil
}

// GetModifier 获取修饰组
func (s *ModifierService) GetModifier(ctx context.Context, id int64) (*models.ModifierGroup, error) {
	group, err := s.modifiers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrModifierNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return group, nil
}

// DeleteModifier 删除修饰组
func (s *ModifierService) DeleteModifier(ctx context.Context, id int64) error {
	if err := s.modifiers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrModifierNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return nil
}

// ListModifiers 获取修饰组列表
func (s *ModifierService) ListModifiers(ctx context.Context) ([]*models.ModifierGroup, error) {
	groups, err := s.modifiers.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return groups, nil
}

// ListEnabledModifiers 获取启用的修饰组，读穿缓存（店面菜单用）
func (s *ModifierService) ListEnabledModifiers(ctx context.Context) ([]*models.ModifierGroup, error) {
	var cached []*models.ModifierGroup
	if err := cache.Get(ctx, cache.KeyModifiers, &cached); err == nil {
		return cached, nil
	}

	groups, err := s.modifiers.ListEnabled(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := cache.Set(ctx, cache.KeyModifiers, groups, cache.TTLModifiers); err != nil {
		logger.Warn("修饰组缓存写入失败", logger.Module("catalog"))
	}
	return groups, nil
}

// TagInput 创建/更新标签的请求
type TagInput struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateTag 创建标签
func (s *ModifierService) CreateTag(ctx context.Context, input *TagInput) (*models.ProductTag, error) {
	tag := &models.ProductTag{Name: input.Name}
	if input.Color != "" {
		tag.Color = input.Color
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return tag, nil
}

// UpdateTag 更新标签
func (s *ModifierService) UpdateTag(ctx context.Context, id int64, input *TagInput) (*models.ProductTag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound.WithMessage("Тег не знайдено")
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	tag.Name = input.Name
	if input.Color != "" {
		tag.Color = input.Color
	}

	if err := s.tags.Update(ctx, tag); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return tag, nil
}

// DeleteTag 删除标签
func (s *ModifierService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound.WithMessage("Тег не знайдено")
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	s.invalidateCache(ctx)
	return nil
}

// ListTags 获取标签列表，读穿缓存
func (s *ModifierService) ListTags(ctx context.Context) ([]*models.ProductTag, error) {
	var cached []*models.ProductTag
	if err := cache.Get(ctx, cache.KeyProductTags, &cached); err == nil {
		return cached, nil
	}

	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := cache.Set(ctx, cache.KeyProductTags, tags, cache.TTLProductTags); err != nil {
		logger.Warn("标签缓存写入失败", logger.Module("catalog"))
	}
	return tags, nil
}

func (s *ModifierService) invalidateCache(ctx context.Context) {
	if err := cache.Delete(ctx, cache.KeyModifiers, cache.KeyProductTags, cache.KeyMenuItems); err != nil {
		logger.Warn("修饰组缓存清除失败", logger.Module("catalog"))
	}
}
