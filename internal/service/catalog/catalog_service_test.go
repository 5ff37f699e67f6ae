// Package catalog 目录服务单元测试
package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/VladDeliar/PoS/internal/common/cache"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
	"github.com/VladDeliar/PoS/internal/store"
)

type catalogTestEnv struct {
	categories *CategoryService
	products   *ProductService
	modifiers  *ModifierService
	combos     *ComboService
	menu       *MenuService
	stores     *store.Stores
	db         *gorm.DB
}

func setupCatalog(t *testing.T) *catalogTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ModifierGroup{},
		&models.ProductTag{}, &models.Combo{}, &models.MenuItem{},
	))

	stores := store.NewGormStores(db)
	categories := NewCategoryService(stores.Categories)
	products := NewProductService(stores.Products, stores.Categories)
	modifiers := NewModifierService(stores.Modifiers, stores.Tags)
	combos := NewComboService(stores.Combos, stores.Products, stores.MenuItems)
	menu := NewMenuService(categories, modifiers, stores.Products, stores.Combos, stores.MenuItems)

	return &catalogTestEnv{
		categories: categories,
		products:   products,
		modifiers:  modifiers,
		combos:     combos,
		menu:       menu,
		stores:     stores,
		db:         db,
	}
}

func (e *catalogTestEnv) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category, err := e.categories.CreateCategory(context.Background(), &CategoryInput{Name: name})
	require.NoError(t, err)
	return category
}

func (e *catalogTestEnv) seedProduct(t *testing.T, categoryID int64, opts ...func(*ProductInput)) *models.Product {
	t.Helper()
	input := &ProductInput{
		Name:       "Борщ",
		CategoryID: categoryID,
		Price:      145,
	}
	for _, opt := range opts {
		opt(input)
	}
	product, err := e.products.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	return product
}

func TestCategoryService(t *testing.T) {
	env := setupCatalog(t)
	ctx := context.Background()

	t.Run("创建与列表按排序权重", func(t *testing.T) {
		_, err := env.categories.CreateCategory(ctx, &CategoryInput{Name: "Напої", SortOrder: 2})
		require.NoError(t, err)
		_, err = env.categories.CreateCategory(ctx, &CategoryInput{Name: "Супи", SortOrder: 1})
		require.NoError(t, err)

		list, err := env.categories.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Супи", list[0].Name)
	})

	t.Run("有商品的分类不可删除", func(t *testing.T) {
		category := env.seedCategory(t, "Основні страви")
		env.seedProduct(t, category.ID)

		err := env.categories.DeleteCategory(ctx, category.ID)
		assert.ErrorIs(t, err, apperrors.ErrCategoryHasProducts)
	})

	t.Run("空分类可删除", func(t *testing.T) {
		category := env.seedCategory(t, "Порожня")
		require.NoError(t, env.categories.DeleteCategory(ctx, category.ID))

		_, err := env.categories.GetCategory(ctx, category.ID)
		assert.ErrorIs(t, err, apperrors.ErrMenuCategoryMissing)
	})
}

func TestProductService(t *testing.T) {
	env := setupCatalog(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Супи")

	t.Run("创建商品默认上架", func(t *testing.T) {
		product := env.seedProduct(t, category.ID)
		assert.True(t, product.Available)
		assert.Equal(t, 145.0, product.Price)
	})

	t.Run("未知分类拒绝创建", func(t *testing.T) {
		_, err := env.products.CreateProduct(ctx, &ProductInput{
			Name: "Страва", CategoryID: 999, Price: 100,
		})
		assert.ErrorIs(t, err, apperrors.ErrMenuCategoryMissing)
	})

	t.Run("负的日产量定额被拒绝", func(t *testing.T) {
		_, err := env.products.CreateProduct(ctx, &ProductInput{
			Name: "Страва", CategoryID: category.ID, Price: 100,
			DailyProductionNorm: utils.IntPtr(-1),
		})
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("上下架开关", func(t *testing.T) {
		product := env.seedProduct(t, category.ID)

		require.NoError(t, env.products.SetAvailability(ctx, product.ID, false))
		fresh, err := env.products.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.False(t, fresh.Available)
	})

	t.Run("按分类与可用性过滤", func(t *testing.T) {
		other := env.seedCategory(t, "Напої")
		env.seedProduct(t, other.ID, func(in *ProductInput) { in.Name = "Узвар"; in.Price = 35 })

		list, total, err := env.products.ListProducts(ctx, repository.ProductListParams{
			CategoryID: &other.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, "Узвар", list[0].Name)
	})
}

func TestModifierService(t *testing.T) {
	env := setupCatalog(t)
	ctx := context.Background()

	validInput := func() *ModifierInput {
		return &ModifierInput{
			Name: "Розмір",
			Type: models.ModifierTypeSingle,
			Options: models.JSONArray{
				map[string]interface{}{"name": "Стандарт", "price_add": float64(0)},
				map[string]interface{}{"name": "Велика", "price_add": float64(40)},
			},
		}
	}

	t.Run("创建修饰组", func(t *testing.T) {
		group, err := env.modifiers.CreateModifier(ctx, validInput())
		require.NoError(t, err)
		assert.True(t, group.IsEnabled)
		assert.Len(t, group.Options, 2)
	})

	t.Run("空选项被拒绝", func(t *testing.T) {
		input := validInput()
		input.Options = models.JSONArray{}
		_, err := env.modifiers.CreateModifier(ctx, input)
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("无名选项被拒绝", func(t *testing.T) {
		input := validInput()
		input.Options = models.JSONArray{map[string]interface{}{"price_add": float64(10)}}
		_, err := env.modifiers.CreateModifier(ctx, input)
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("负加价被拒绝", func(t *testing.T) {
		input := validInput()
		input.Options = models.JSONArray{map[string]interface{}{"name": "X", "price_add": float64(-5)}}
		_, err := env.modifiers.CreateModifier(ctx, input)
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("停用的组不出现在启用列表", func(t *testing.T) {
		input := validInput()
		input.Name = "Прихована"
		input.IsEnabled = utils.BoolPtr(false)
		_, err := env.modifiers.CreateModifier(ctx, input)
		require.NoError(t, err)

		enabled, err := env.modifiers.ListEnabledModifiers(ctx)
		require.NoError(t, err)
		for _, g := range enabled {
			assert.NotEqual(t, "Прихована", g.Name)
		}
	})

	t.Run("标签增删", func(t *testing.T) {
		tag, err := env.modifiers.CreateTag(ctx, &TagInput{Name: "Хіт"})
		require.NoError(t, err)

		tags, err := env.modifiers.ListTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 1)

		require.NoError(t, env.modifiers.DeleteTag(ctx, tag.ID))
	})
}

func TestComboService(t *testing.T) {
	env := setupCatalog(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Супи")

	borsch := env.seedProduct(t, category.ID)
	varenyky := env.seedProduct(t, category.ID, func(in *ProductInput) {
		in.Name = "Вареники"
		in.Price = 120
	})

	t.Run("组成快照与原价合计", func(t *testing.T) {
		combo, err := env.combos.CreateCombo(ctx, &ComboInput{
			Name: "Обід дня",
			Items: []ComboItemInput{
				{ProductID: borsch.ID, Qty: 1},
				{ProductID: varenyky.ID, Qty: 2},
			},
			ComboPrice: 299,
		})
		require.NoError(t, err)

		assert.Equal(t, 385.0, combo.RegularPrice)
		require.Len(t, combo.Items, 2)
		first := combo.Items[0].(map[string]interface{})
		assert.Equal(t, "Борщ", first["product_name"])
	})

	t.Run("套餐价高于合计被拒绝", func(t *testing.T) {
		_, err := env.combos.CreateCombo(ctx, &ComboInput{
			Name:       "Дорогий",
			Items:      []ComboItemInput{{ProductID: borsch.ID, Qty: 1}},
			ComboPrice: 500,
		})
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("未知商品被拒绝", func(t *testing.T) {
		_, err := env.combos.CreateCombo(ctx, &ComboInput{
			Name:       "Фантом",
			Items:      []ComboItemInput{{ProductID: 999, Qty: 1}},
			ComboPrice: 100,
		})
		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	})

	t.Run("菜单项引用校验", func(t *testing.T) {
		_, err := env.combos.CreateMenuItem(ctx, &MenuItemInput{
			ItemType: models.MenuItemTypeProduct,
		})
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)

		_, err = env.combos.CreateMenuItem(ctx, &MenuItemInput{
			ItemType:  models.MenuItemTypeProduct,
			ProductID: utils.Int64Ptr(999),
		})
		assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

		item, err := env.combos.CreateMenuItem(ctx, &MenuItemInput{
			ItemType:  models.MenuItemTypeProduct,
			ProductID: &borsch.ID,
		})
		require.NoError(t, err)
		assert.True(t, item.IsActive)
	})
}

func TestMenuService_GetMenu(t *testing.T) {
	env := setupCatalog(t)
	ctx := context.Background()
	category := env.seedCategory(t, "Супи")

	group, err := env.modifiers.CreateModifier(ctx, &ModifierInput{
		Name: "Порція",
		Type: models.ModifierTypeSingle,
		Options: models.JSONArray{
			map[string]interface{}{"name": "Стандарт", "price_add": float64(0)},
		},
	})
	require.NoError(t, err)

	visible := env.seedProduct(t, category.ID, func(in *ProductInput) {
		in.ModifierGroupIDs = models.Int64Array{group.ID}
	})
	hidden := env.seedProduct(t, category.ID, func(in *ProductInput) {
		in.Name = "Знятий"
		in.Available = utils.BoolPtr(false)
	})

	for _, id := range []int64{visible.ID, hidden.ID} {
		pid := id
		_, err := env.combos.CreateMenuItem(ctx, &MenuItemInput{
			ItemType:  models.MenuItemTypeProduct,
			ProductID: &pid,
		})
		require.NoError(t, err)
	}

	combo, err := env.combos.CreateCombo(ctx, &ComboInput{
		Name:       "Обід дня",
		Items:      []ComboItemInput{{ProductID: visible.ID, Qty: 2}},
		ComboPrice: 250,
	})
	require.NoError(t, err)
	_, err = env.combos.CreateMenuItem(ctx, &MenuItemInput{
		ItemType: models.MenuItemTypeCombo,
		ComboID:  &combo.ID,
	})
	require.NoError(t, err)

	menu, err := env.menu.GetMenu(ctx)
	require.NoError(t, err)

	// 下架商品不出现在菜单
	require.Len(t, menu.Items, 2)

	var productEntry, comboEntry *MenuEntry
	for _, entry := range menu.Items {
		switch entry.ItemType {
		case models.MenuItemTypeProduct:
			productEntry = entry
		case models.MenuItemTypeCombo:
			comboEntry = entry
		}
	}

	require.NotNil(t, productEntry)
	assert.Equal(t, visible.ID, productEntry.Product.ID)
	require.NotNil(t, productEntry.CategoryID)
	assert.Equal(t, category.ID, *productEntry.CategoryID)
	require.Len(t, productEntry.Modifiers, 1)
	assert.Equal(t, "Порція", productEntry.Modifiers[0].Name)

	require.NotNil(t, comboEntry)
	assert.Equal(t, "Обід дня", comboEntry.Combo.Name)

	assert.Len(t, menu.Categories, 1)
}

func TestCatalogCaching(t *testing.T) {
	env := setupCatalog(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	env.seedCategory(t, "Супи")

	_, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.KeyCategories))

	// 写操作后缓存被清除
	env.seedCategory(t, "Напої")
	assert.False(t, mr.Exists(cache.KeyCategories))

	list, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
