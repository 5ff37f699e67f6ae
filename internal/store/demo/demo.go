// Package demo 提供只读演示数据
//
// 数据库不可用且开启 demo_mode 时，启动流程用本包的静态数据
// 替代 gorm 仓储：公开店面的读取照常工作，所有写操作返回
// ErrStoreUnavailable，绝不静默丢数据。
package demo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/geo"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
	"github.com/VladDeliar/PoS/internal/store"
)

// NewStores 构建演示模式的存储集合
func NewStores(centerLat, centerLng float64, centerAddress string) *store.Stores {
	center := &models.DeliveryCenter{ID: 1, Lat: centerLat, Lng: centerLng, Address: centerAddress}
	return &store.Stores{
		Zones:              &zoneStore{zones: demoZones(centerLat, centerLng)},
		Center:             &centerStore{center: center},
		Promos:             &promoStore{promos: demoPromos()},
		Customers:          &customerStore{},
		CustomerCategories: &customerCategoryStore{},
		Categories:         &categoryStore{categories: demoCategories()},
		Products:           &productStore{products: demoProducts()},
		Modifiers:          &modifierStore{groups: demoModifiers()},
		Tags:               &tagStore{tags: demoTags()},
		Combos:             &comboStore{combos: demoCombos()},
		MenuItems:          &menuItemStore{items: demoMenuItems()},
		Orders:             &orderStore{},
		Feedbacks:          &feedbackStore{},
		Storefront:         &storefrontStore{cfg: demoStorefront()},
	}
}

// ==================== 静态数据 ====================

func demoZones(centerLat, centerLng float64) []*models.DeliveryZone {
	now := time.Now()
	c := geo.Point{Lat: centerLat, Lng: centerLng}
	return []*models.DeliveryZone{
		{
			ID:             1,
			Name:           "Центр",
			ZoneType:       models.ZoneTypeRadius,
			RadiusKm:       utils.Float64Ptr(3),
			Geometry:       geo.CircleToPolygon(c, 3, geo.DefaultCirclePoints),
			Color:          "#22c55e",
			DeliveryFee:    40,
			MinOrderAmount: 200,
			FreeDeliveryThreshold: utils.Float64Ptr(600),
			Enabled:        true,
			Priority:       1,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             2,
			Name:           "Передмістя",
			ZoneType:       models.ZoneTypeRadius,
			RadiusKm:       utils.Float64Ptr(8),
			Geometry:       geo.CircleToPolygon(c, 8, geo.DefaultCirclePoints),
			Color:          "#f59e0b",
			DeliveryFee:    80,
			MinOrderAmount: 350,
			Enabled:        true,
			Priority:       2,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

func demoPromos() []*models.PromoCode {
	now := time.Now()
	return []*models.PromoCode{
		{
			ID:            1,
			Code:          "DEMO10",
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: 10,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

func demoCategories() []*models.Category {
	return []*models.Category{
		{ID: 1, Name: "Супи", Icon: "soup", SortOrder: 1},
		{ID: 2, Name: "Основні страви", Icon: "utensils", SortOrder: 2},
		{ID: 3, Name: "Напої", Icon: "coffee", SortOrder: 3},
	}
}

func demoProducts() []*models.Product {
	return []*models.Product{
		{ID: 1, Name: "Борщ з пампушками", CategoryID: 1, Price: 145, Weight: "350 г", Available: true},
		{ID: 2, Name: "Крем-суп гарбузовий", CategoryID: 1, Price: 130, Weight: "300 г", Available: true},
		{ID: 3, Name: "Деруни зі сметаною", CategoryID: 2, Price: 160, Weight: "280 г", Available: true},
		{ID: 4, Name: "Вареники з картоплею", CategoryID: 2, Price: 150, Weight: "300 г", Available: true},
		{ID: 5, Name: "Узвар", CategoryID: 3, Price: 45, Weight: "250 мл", Available: true},
	}
}

func demoModifiers() []*models.ModifierGroup {
	return []*models.ModifierGroup{
		{
			ID:   1,
			Name: "Порція",
			Type: models.ModifierTypeSingle,
			Options: models.JSONArray{
				map[string]interface{}{"name": "Стандартна", "price_add": 0.0},
				map[string]interface{}{"name": "Подвійна", "price_add": 80.0},
			},
			DisplayOrder: 1,
			ShowForOTP:   true,
			ShowForVTP:   true,
			IsEnabled:    true,
		},
	}
}

func demoTags() []*models.ProductTag {
	return []*models.ProductTag{
		{ID: 1, Name: "Хіт", Color: "#ef4444"},
		{ID: 2, Name: "Вегетаріанське", Color: "#22c55e"},
	}
}

func demoCombos() []*models.Combo {
	return []*models.Combo{
		{
			ID:   1,
			Name: "Обід дня",
			Items: models.JSONArray{
				map[string]interface{}{"product_id": 1, "product_name": "Борщ з пампушками", "qty": 1},
				map[string]interface{}{"product_id": 5, "product_name": "Узвар", "qty": 1},
			},
			RegularPrice: 190,
			ComboPrice:   165,
			Available:    true,
		},
	}
}

func demoMenuItems() []*models.MenuItem {
	items := make([]*models.MenuItem, 0, 6)
	for i, p := range demoProducts() {
		id := p.ID
		items = append(items, &models.MenuItem{
			ID:        int64(i + 1),
			ItemType:  models.MenuItemTypeProduct,
			ProductID: &id,
			IsActive:  true,
			SortOrder: i + 1,
		})
	}
	comboID := int64(1)
	items = append(items, &models.MenuItem{
		ID:        int64(len(items) + 1),
		ItemType:  models.MenuItemTypeCombo,
		ComboID:   &comboID,
		IsActive:  true,
		SortOrder: len(items) + 1,
	})
	return items
}

func demoStorefront() *models.StorefrontConfig {
	return &models.StorefrontConfig{
		ID:      1,
		Version: 2,
		Document: models.JSON{
			"preset": "classic",
			"demo":   true,
		},
	}
}

// ==================== 配送区 ====================

type zoneStore struct {
	zones []*models.DeliveryZone
}

func (s *zoneStore) Create(ctx context.Context, zone *models.DeliveryZone) error {
	return apperrors.ErrStoreUnavailable
}

func (s *zoneStore) GetByID(ctx context.Context, id int64) (*models.DeliveryZone, error) {
	for _, z := range s.zones {
		if z.ID == id {
			return z, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *zoneStore) Update(ctx context.Context, zone *models.DeliveryZone) error {
	return apperrors.ErrStoreUnavailable
}

func (s *zoneStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *zoneStore) List(ctx context.Context) ([]*models.DeliveryZone, error) {
	return s.zones, nil
}

func (s *zoneStore) ListEnabled(ctx context.Context) ([]*models.DeliveryZone, error) {
	enabled := make([]*models.DeliveryZone, 0, len(s.zones))
	for _, z := range s.zones {
		if z.Enabled {
			enabled = append(enabled, z)
		}
	}
	return enabled, nil
}

func (s *zoneStore) ListRadius(ctx context.Context) ([]*models.DeliveryZone, error) {
	radius := make([]*models.DeliveryZone, 0, len(s.zones))
	for _, z := range s.zones {
		if z.IsRadius() {
			radius = append(radius, z)
		}
	}
	return radius, nil
}

func (s *zoneStore) BulkUpdateGeometries(ctx context.Context, updates []repository.ZoneGeometryUpdate) (int64, error) {
	return 0, apperrors.ErrStoreUnavailable
}

// ==================== 配送中心 ====================

type centerStore struct {
	center *models.DeliveryCenter
}

func (s *centerStore) Get(ctx context.Context) (*models.DeliveryCenter, error) {
	return s.center, nil
}

func (s *centerStore) Upsert(ctx context.Context, center *models.DeliveryCenter) error {
	return apperrors.ErrStoreUnavailable
}

// ==================== 促销码 ====================

type promoStore struct {
	promos []*models.PromoCode
}

func (s *promoStore) Create(ctx context.Context, promo *models.PromoCode) error {
	return apperrors.ErrStoreUnavailable
}

func (s *promoStore) GetByID(ctx context.Context, id int64) (*models.PromoCode, error) {
	for _, p := range s.promos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *promoStore) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, p := range s.promos {
		if p.Code == normalized {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *promoStore) Update(ctx context.Context, promo *models.PromoCode) error {
	return apperrors.ErrStoreUnavailable
}

func (s *promoStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *promoStore) List(ctx context.Context, offset, limit int) ([]*models.PromoCode, int64, error) {
	return s.promos, int64(len(s.promos)), nil
}

func (s *promoStore) IncrementUsageCount(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *promoStore) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// ==================== 客户 ====================

type customerStore struct{}

func (s *customerStore) Create(ctx context.Context, customer *models.Customer) error {
	return apperrors.ErrStoreUnavailable
}

func (s *customerStore) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *customerStore) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *customerStore) Update(ctx context.Context, customer *models.Customer) error {
	return apperrors.ErrStoreUnavailable
}

func (s *customerStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *customerStore) List(ctx context.Context, search string, offset, limit int) ([]*models.Customer, int64, error) {
	return nil, 0, nil
}

func (s *customerStore) ListAll(ctx context.Context) ([]*models.Customer, error) {
	return nil, nil
}

func (s *customerStore) IncrementStats(ctx context.Context, id int64, amount float64) error {
	return apperrors.ErrStoreUnavailable
}

type customerCategoryStore struct{}

func (s *customerCategoryStore) Create(ctx context.Context, category *models.CustomerCategory) error {
	return apperrors.ErrStoreUnavailable
}

func (s *customerCategoryStore) GetByID(ctx context.Context, id int64) (*models.CustomerCategory, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *customerCategoryStore) Update(ctx context.Context, category *models.CustomerCategory) error {
	return apperrors.ErrStoreUnavailable
}

func (s *customerCategoryStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *customerCategoryStore) List(ctx context.Context) ([]*models.CustomerCategory, error) {
	return nil, nil
}

func (s *customerCategoryStore) ListActiveByIDs(ctx context.Context, ids []int64) ([]*models.CustomerCategory, error) {
	return nil, nil
}

// ==================== 菜单 ====================

type categoryStore struct {
	categories []*models.Category
}

func (s *categoryStore) Create(ctx context.Context, category *models.Category) error {
	return apperrors.ErrStoreUnavailable
}

func (s *categoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *categoryStore) Update(ctx context.Context, category *models.Category) error {
	return apperrors.ErrStoreUnavailable
}

func (s *categoryStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *categoryStore) List(ctx context.Context) ([]*models.Category, error) {
	return s.categories, nil
}

func (s *categoryStore) CountProducts(ctx context.Context, id int64) (int64, error) {
	return 0, nil
}

type productStore struct {
	products []*models.Product
}

func (s *productStore) Create(ctx context.Context, product *models.Product) error {
	return apperrors.ErrStoreUnavailable
}

func (s *productStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *productStore) GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	found := make([]*models.Product, 0, len(ids))
	for _, p := range s.products {
		for _, id := range ids {
			if p.ID == id {
				found = append(found, p)
				break
			}
		}
	}
	return found, nil
}

func (s *productStore) Update(ctx context.Context, product *models.Product) error {
	return apperrors.ErrStoreUnavailable
}

func (s *productStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *productStore) List(ctx context.Context, params repository.ProductListParams) ([]*models.Product, int64, error) {
	filtered := make([]*models.Product, 0, len(s.products))
	for _, p := range s.products {
		if params.CategoryID != nil && p.CategoryID != *params.CategoryID {
			continue
		}
		if params.Available != nil && p.Available != *params.Available {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, int64(len(filtered)), nil
}

func (s *productStore) ListWithProductionNorm(ctx context.Context) ([]*models.Product, error) {
	return nil, nil
}

func (s *productStore) SetAvailability(ctx context.Context, id int64, available bool) error {
	return apperrors.ErrStoreUnavailable
}

type modifierStore struct {
	groups []*models.ModifierGroup
}

func (s *modifierStore) Create(ctx context.Context, group *models.ModifierGroup) error {
	return apperrors.ErrStoreUnavailable
}

func (s *modifierStore) GetByID(ctx context.Context, id int64) (*models.ModifierGroup, error) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *modifierStore) Update(ctx context.Context, group *models.ModifierGroup) error {
	return apperrors.ErrStoreUnavailable
}

func (s *modifierStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *modifierStore) List(ctx context.Context) ([]*models.ModifierGroup, error) {
	return s.groups, nil
}

func (s *modifierStore) ListEnabled(ctx context.Context) ([]*models.ModifierGroup, error) {
	enabled := make([]*models.ModifierGroup, 0, len(s.groups))
	for _, g := range s.groups {
		if g.IsEnabled {
			enabled = append(enabled, g)
		}
	}
	return enabled, nil
}

type tagStore struct {
	tags []*models.ProductTag
}

func (s *tagStore) Create(ctx context.Context, tag *models.ProductTag) error {
	return apperrors.ErrStoreUnavailable
}

func (s *tagStore) GetByID(ctx context.Context, id int64) (*models.ProductTag, error) {
	for _, t := range s.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *tagStore) Update(ctx context.Context, tag *models.ProductTag) error {
	return apperrors.ErrStoreUnavailable
}

func (s *tagStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *tagStore) List(ctx context.Context) ([]*models.ProductTag, error) {
	return s.tags, nil
}

type comboStore struct {
	combos []*models.Combo
}

func (s *comboStore) Create(ctx context.Context, combo *models.Combo) error {
	return apperrors.ErrStoreUnavailable
}

func (s *comboStore) GetByID(ctx context.Context, id int64) (*models.Combo, error) {
	for _, c := range s.combos {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *comboStore) Update(ctx context.Context, combo *models.Combo) error {
	return apperrors.ErrStoreUnavailable
}

func (s *comboStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *comboStore) List(ctx context.Context, onlyAvailable bool) ([]*models.Combo, error) {
	if !onlyAvailable {
		return s.combos, nil
	}
	available := make([]*models.Combo, 0, len(s.combos))
	for _, c := range s.combos {
		if c.Available {
			available = append(available, c)
		}
	}
	return available, nil
}

type menuItemStore struct {
	items []*models.MenuItem
}

func (s *menuItemStore) Create(ctx context.Context, item *models.MenuItem) error {
	return apperrors.ErrStoreUnavailable
}

func (s *menuItemStore) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	for _, i := range s.items {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *menuItemStore) Update(ctx context.Context, item *models.MenuItem) error {
	return apperrors.ErrStoreUnavailable
}

func (s *menuItemStore) Delete(ctx context.Context, id int64) error {
	return apperrors.ErrStoreUnavailable
}

func (s *menuItemStore) List(ctx context.Context) ([]*models.MenuItem, error) {
	return s.items, nil
}

func (s *menuItemStore) ListActive(ctx context.Context) ([]*models.MenuItem, error) {
	active := make([]*models.MenuItem, 0, len(s.items))
	for _, i := range s.items {
		if i.IsActive {
			active = append(active, i)
		}
	}
	return active, nil
}

// ==================== 订单、评价、店面 ====================

type orderStore struct{}

func (s *orderStore) Create(ctx context.Context, order *models.Order) error {
	return apperrors.ErrStoreUnavailable
}

func (s *orderStore) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *orderStore) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *orderStore) List(ctx context.Context, params repository.OrderListParams) ([]*models.Order, int64, error) {
	return nil, 0, nil
}

func (s *orderStore) ListToday(ctx context.Context, now time.Time) ([]*models.Order, error) {
	return nil, nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	return apperrors.ErrStoreUnavailable
}

func (s *orderStore) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	return apperrors.ErrStoreUnavailable
}

func (s *orderStore) NextDailySeq(ctx context.Context, now time.Time) (int64, error) {
	return 0, apperrors.ErrStoreUnavailable
}

type feedbackStore struct{}

func (s *feedbackStore) Create(ctx context.Context, feedback *models.Feedback) error {
	return apperrors.ErrStoreUnavailable
}

func (s *feedbackStore) List(ctx context.Context, offset, limit int) ([]*models.Feedback, int64, error) {
	return nil, 0, nil
}

type storefrontStore struct {
	cfg *models.StorefrontConfig
}

func (s *storefrontStore) Get(ctx context.Context) (*models.StorefrontConfig, error) {
	return s.cfg, nil
}

func (s *storefrontStore) Upsert(ctx context.Context, cfg *models.StorefrontConfig) error {
	return apperrors.ErrStoreUnavailable
}
