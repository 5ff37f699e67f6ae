package store

import (
	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/repository"
)

// NewGormStores 基于数据库连接构建仓储实现
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Zones:              repository.NewZoneRepository(db),
		Center:             repository.NewCenterRepository(db),
		Promos:             repository.NewPromoRepository(db),
		Customers:          repository.NewCustomerRepository(db),
		CustomerCategories: repository.NewCustomerCategoryRepository(db),
		Categories:         repository.NewCategoryRepository(db),
		Products:           repository.NewProductRepository(db),
		Modifiers:          repository.NewModifierRepository(db),
		Tags:               repository.NewTagRepository(db),
		Combos:             repository.NewComboRepository(db),
		MenuItems:          repository.NewMenuItemRepository(db),
		Orders:             repository.NewOrderRepository(db),
		Feedbacks:          repository.NewFeedbackRepository(db),
		Storefront:         repository.NewStorefrontRepository(db),
	}
}
