// Package store 定义数据访问接口
//
// 仓储层（gorm 实现）与演示模式的静态提供者都实现这些接口，
// 服务层只依赖接口。启动时根据数据库可用性与 demo_mode 配置
// 选择其中一个实现注入，不在调用点做连接状态判断。
package store

import (
	"context"
	"time"

	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
)

// ZoneStore 配送区存取接口
type ZoneStore interface {
	Create(ctx context.Context, zone *models.DeliveryZone) error
	GetByID(ctx context.Context, id int64) (*models.DeliveryZone, error)
	Update(ctx context.Context, zone *models.DeliveryZone) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.DeliveryZone, error)
	ListEnabled(ctx context.Context) ([]*models.DeliveryZone, error)
	ListRadius(ctx context.Context) ([]*models.DeliveryZone, error)
	BulkUpdateGeometries(ctx context.Context, updates []repository.ZoneGeometryUpdate) (int64, error)
}

// CenterStore 配送中心存取接口
type CenterStore interface {
	Get(ctx context.Context) (*models.DeliveryCenter, error)
	Upsert(ctx context.Context, center *models.DeliveryCenter) error
}

// PromoStore 促销码存取接口
type PromoStore interface {
	Create(ctx context.Context, promo *models.PromoCode) error
	GetByID(ctx context.Context, id int64) (*models.PromoCode, error)
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Update(ctx context.Context, promo *models.PromoCode) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]*models.PromoCode, int64, error)
	IncrementUsageCount(ctx context.Context, id int64) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// CustomerStore 客户存取接口
type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, offset, limit int) ([]*models.Customer, int64, error)
	ListAll(ctx context.Context) ([]*models.Customer, error)
	IncrementStats(ctx context.Context, id int64, amount float64) error
}

// CustomerCategoryStore 客户分类存取接口
type CustomerCategoryStore interface {
	Create(ctx context.Context, category *models.CustomerCategory) error
	GetByID(ctx context.Context, id int64) (*models.CustomerCategory, error)
	Update(ctx context.Context, category *models.CustomerCategory) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.CustomerCategory, error)
	ListActiveByIDs(ctx context.Context, ids []int64) ([]*models.CustomerCategory, error)
}

// CategoryStore 菜单分类存取接口
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.Category, error)
	CountProducts(ctx context.Context, id int64) (int64, error)
}

// ProductStore 商品存取接口
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params repository.ProductListParams) ([]*models.Product, int64, error)
	ListWithProductionNorm(ctx context.Context) ([]*models.Product, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
}

// ModifierStore 修饰组存取接口
type ModifierStore interface {
	Create(ctx context.Context, group *models.ModifierGroup) error
	GetByID(ctx context.Context, id int64) (*models.ModifierGroup, error)
	Update(ctx context.Context, group *models.ModifierGroup) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.ModifierGroup, error)
	ListEnabled(ctx context.Context) ([]*models.ModifierGroup, error)
}

// TagStore 商品标签存取接口
type TagStore interface {
	Create(ctx context.Context, tag *models.ProductTag) error
	GetByID(ctx context.Context, id int64) (*models.ProductTag, error)
	Update(ctx context.Context, tag *models.ProductTag) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.ProductTag, error)
}

// ComboStore 套餐存取接口
type ComboStore interface {
	Create(ctx context.Context, combo *models.Combo) error
	GetByID(ctx context.Context, id int64) (*models.Combo, error)
	Update(ctx context.Context, combo *models.Combo) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyAvailable bool) ([]*models.Combo, error)
}

// MenuItemStore 菜单项存取接口
type MenuItemStore interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id int64) (*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.MenuItem, error)
	ListActive(ctx context.Context) ([]*models.MenuItem, error)
}

// OrderStore 订单存取接口
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	List(ctx context.Context, params repository.OrderListParams) ([]*models.Order, int64, error)
	ListToday(ctx context.Context, now time.Time) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to string) error
	UpdatePaymentStatus(ctx context.Context, id int64, status string) error
	NextDailySeq(ctx context.Context, now time.Time) (int64, error)
}

// FeedbackStore 顾客评价存取接口
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context, offset, limit int) ([]*models.Feedback, int64, error)
}

// StorefrontStore 店面配置存取接口
type StorefrontStore interface {
	Get(ctx context.Context) (*models.StorefrontConfig, error)
	Upsert(ctx context.Context, cfg *models.StorefrontConfig) error
}

// Stores 聚合全部数据访问接口
// 启动时整组选择实现：数据库可用时为 gorm 仓储，
// 数据库不可用且 demo_mode 开启时为只读演示数据。
type Stores struct {
	Zones              ZoneStore
	Center             CenterStore
	Promos             PromoStore
	Customers          CustomerStore
	CustomerCategories CustomerCategoryStore
	Categories         CategoryStore
	Products           ProductStore
	Modifiers          ModifierStore
	Tags               TagStore
	Combos             ComboStore
	MenuItems          MenuItemStore
	Orders             OrderStore
	Feedbacks          FeedbackStore
	Storefront         StorefrontStore
}
