package catalog

import (
	"context"

	"github.com/VladDeliar/PoS/internal/common/cache"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// MenuService 组装公开店面菜单
type MenuService struct {
	categories *CategoryService
	modifiers  *ModifierService
	products   store.ProductStore
	combos     store.ComboStore
	menuItems  store.MenuItemStore
}

// NewMenuService 创建菜单服务
func NewMenuService(
	categories *CategoryService,
	modifiers *ModifierService,
	products store.ProductStore,
	combos store.ComboStore,
	menuItems store.MenuItemStore,
) *MenuService {
	return &MenuService{
		categories: categories,
		modifiers:  modifiers,
		products:   products,
		combos:     combos,
		menuItems:  menuItems,
	}
}

// MenuEntry 菜单条目：商品或套餐之一
type MenuEntry struct {
	ID         int64                   `json:"id"`
	ItemType   string                  `json:"item_type"`
	CategoryID *int64                  `json:"category_id,omitempty"`
	SortOrder  int                     `json:"sort_order"`
	Product    *models.Product         `json:"product,omitempty"`
	Combo      *models.Combo           `json:"combo,omitempty"`
	Modifiers  []*models.ModifierGroup `json:"modifiers,omitempty"`
}

// Menu 公开菜单视图
type Menu struct {
	Categories []*models.Category   `json:"categories"`
	Items      []*MenuEntry         `json:"items"`
	Tags       []*models.ProductTag `json:"tags"`
}

// listActiveMenuItems 启用的菜单项，读穿缓存
func (s *MenuService) listActiveMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	var cached []*models.MenuItem
	if err := cache.Get(ctx, cache.KeyMenuItems, &cached); err == nil {
		return cached, nil
	}

	items, err := s.menuItems.ListActive(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := cache.Set(ctx, cache.KeyMenuItems, items, cache.TTLMenuItems); err != nil {
		logger.Warn("菜单项缓存写入失败", logger.Module("catalog"))
	}
	return items, nil
}

// GetMenu 组装完整公开菜单
//
// 条目只包含上架商品与可售套餐；商品条目随带其启用的修饰组，
// 条目分类取菜单项覆盖值，缺省回落到商品自身分类。
func (s *MenuService) GetMenu(ctx context.Context) (*Menu, error) {
	items, err := s.listActiveMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.modifiers.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	modifierGroups, err := s.modifiers.ListEnabledModifiers(ctx)
	if err != nil {
		return nil, err
	}
	groupByID := make(map[int64]*models.ModifierGroup, len(modifierGroups))
	for _, g := range modifierGroups {
		groupByID[g.ID] = g
	}

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		if item.ItemType == models.MenuItemTypeProduct && item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}
	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	productByID := make(map[int64]*models.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	combos, err := s.combos.List(ctx, true)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	comboByID := make(map[int64]*models.Combo, len(combos))
	for _, c := range combos {
		comboByID[c.ID] = c
	}

	entries := make([]*MenuEntry, 0, len(items))
	for _, item := range items {
		entry := &MenuEntry{
			ID:         item.ID,
			ItemType:   item.ItemType,
			CategoryID: item.CategoryID,
			SortOrder:  item.SortOrder,
		}

		switch item.ItemType {
		case models.MenuItemTypeProduct:
			if item.ProductID == nil {
				continue
			}
			product, ok := productByID[*item.ProductID]
			if !ok || !product.Available {
				continue
			}
			entry.Product = product
			if entry.CategoryID == nil {
				entry.CategoryID = &product.CategoryID
			}
			for _, gid := range product.ModifierGroupIDs {
				if group, ok := groupByID[gid]; ok {
					entry.Modifiers = append(entry.Modifiers, group)
				}
			}
		case models.MenuItemTypeCombo:
			if item.ComboID == nil {
				continue
			}
			combo, ok := comboByID[*item.ComboID]
			if !ok {
				continue
			}
			entry.Combo = combo
		default:
			continue
		}

		entries = append(entries, entry)
	}

	return &Menu{
		Categories: categories,
		Items:      entries,
		Tags:       tags,
	}, nil
}
