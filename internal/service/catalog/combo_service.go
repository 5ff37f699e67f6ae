package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// ComboService 套餐与菜单项服务
type ComboService struct {
	combos    store.ComboStore
	products  store.ProductStore
	menuItems store.MenuItemStore
}

// NewComboService 创建套餐服务
func NewComboService(combos store.ComboStore, products store.ProductStore, menuItems store.MenuItemStore) *ComboService {
	return &ComboService{combos: combos, products: products, menuItems: menuItems}
}

// ComboItemInput 套餐组成项
type ComboItemInput struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Qty       int   `json:"qty" binding:"required,min=1"`
}

// ComboInput 创建/更新套餐的请求
type ComboInput struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Items       []ComboItemInput `json:"items" binding:"required,min=1"`
	ComboPrice  float64          `json:"combo_price" binding:"required,gt=0"`
	Available   *bool            `json:"available"`
}

// buildComboItems 校验组成商品并生成带名称的快照，同时算出原价合计
func (s *ComboService) buildComboItems(ctx context.Context, inputs []ComboItemInput) (models.JSONArray, float64, error) {
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	byID := make(map[int64]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make(models.JSONArray, 0, len(inputs))
	var regular float64
	for _, in := range inputs {
		product, ok := byID[in.ProductID]
		if !ok {
			return nil, 0, apperrors.ErrProductNotFound
		}
		items = append(items, map[string]interface{}{
			"product_id":   product.ID,
			"product_name": product.Name,
			"qty":          in.Qty,
		})
		regular += product.Price * float64(in.Qty)
	}
	return items, utils.Round2(regular), nil
}

// CreateCombo 创建套餐
func (s *ComboService) CreateCombo(ctx context.Context, input *ComboInput) (*models.Combo, error) {
	items, regular, err := s.buildComboItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if input.ComboPrice > regular {
		return nil, apperrors.ErrInvalidParams.WithMessage("Ціна комбо не може перевищувати суму окремих страв")
	}

	combo := &models.Combo{
		Name:         input.Name,
		Description:  input.Description,
		Items:        items,
		RegularPrice: regular,
		ComboPrice:   input.ComboPrice,
		Available:    true,
	}
	if input.Image != "" {
		combo.Image = input.Image
	}
	if input.Available != nil {
		combo.Available = *input.Available
	}

	if err := s.combos.Create(ctx, combo); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return combo, nil
}

// UpdateCombo 更新套餐
func (s *ComboService) UpdateCombo(ctx context.Context, id int64, input *ComboInput) (*models.Combo, error) {
	combo, err := s.GetCombo(ctx, id)
	if err != nil {
		return nil, err
	}

	items, regular, err := s.buildComboItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if input.ComboPrice > regular {
		return nil, apperrors.ErrInvalidParams.WithMessage("Ціна комбо не може перевищувати суму окремих страв")
	}

	combo.Name = input.Name
	combo.Description = input.Description
	combo.Items = items
	combo.RegularPrice = regular
	combo.ComboPrice = input.ComboPrice
	if input.Image != "" {
		combo.Image = input.Image
	}
	if input.Available != nil {
		combo.Available = *input.Available
	}

	if err := s.combos.Update(ctx, combo); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return combo, nil
}

// GetCombo 获取套餐
func (s *ComboService) GetCombo(ctx context.Context, id int64) (*models.Combo, error) {
	combo, err := s.combos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrComboNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return combo, nil
}

// DeleteCombo 删除套餐
func (s *ComboService) DeleteCombo(ctx context.Context, id int64) error {
	if err := s.combos.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrComboNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return nil
}

// ListCombos 获取套餐列表
func (s *ComboService) ListCombos(ctx context.Context, onlyAvailable bool) ([]*models.Combo, error) {
	combos, err := s.combos.List(ctx, onlyAvailable)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return combos, nil
}

// MenuItemInput 创建/更新菜单项的请求
type MenuItemInput struct {
	ItemType   string `json:"item_type" binding:"required,oneof=product combo"`
	ProductID  *int64 `json:"product_id"`
	ComboID    *int64 `json:"combo_id"`
	CategoryID *int64 `json:"category_id"`
	IsActive   *bool  `json:"is_active"`
	SortOrder  int    `json:"sort_order"`
}

// checkMenuItemLink 校验菜单项引用与类型一致且目标存在
func (s *ComboService) checkMenuItemLink(ctx context.Context, input *MenuItemInput) error {
	switch input.ItemType {
	case models.MenuItemTypeProduct:
		if input.ProductID == nil {
			return apperrors.ErrInvalidParams.WithMessage("Позиція типу product має містити product_id")
		}
		if _, err := s.products.GetByID(ctx, *input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return apperrors.ErrDatabaseError.WithError(err)
		}
	case models.MenuItemTypeCombo:
		if input.ComboID == nil {
			return apperrors.ErrInvalidParams.WithMessage("Позиція типу combo має містити combo_id")
		}
		if _, err := s.combos.GetByID(ctx, *input.ComboID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrComboNotFound
			}
			return apperrors.ErrDatabaseError.WithError(err)
		}
	}
	return nil
}

// CreateMenuItem 创建菜单项
func (s *ComboService) CreateMenuItem(ctx context.Context, input *MenuItemInput) (*models.MenuItem, error) {
	if err := s.checkMenuItemLink(ctx, input); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		ItemType:   input.ItemType,
		ProductID:  input.ProductID,
		ComboID:    input.ComboID,
		CategoryID: input.CategoryID,
		IsActive:   true,
		SortOrder:  input.SortOrder,
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.menuItems.Create(ctx, item); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return item, nil
}

// UpdateMenuItem 更新菜单项
func (s *ComboService) UpdateMenuItem(ctx context.Context, id int64, input *MenuItemInput) (*models.MenuItem, error) {
	item, err := s.menuItems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuItemNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if err := s.checkMenuItemLink(ctx, input); err != nil {
		return nil, err
	}

	item.ItemType = input.ItemType
	item.ProductID = input.ProductID
	item.ComboID = input.ComboID
	item.CategoryID = input.CategoryID
	item.SortOrder = input.SortOrder
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.menuItems.Update(ctx, item); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return item, nil
}

// DeleteMenuItem 删除菜单项
func (s *ComboService) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := s.menuItems.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMenuItemNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return nil
}

// ListMenuItems 获取全部菜单项（管理端）
func (s *ComboService) ListMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	items, err := s.menuItems.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}
