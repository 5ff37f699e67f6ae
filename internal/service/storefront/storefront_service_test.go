// Package storefront 店面配置服务单元测试
package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/VladDeliar/PoS/internal/common/config"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

func setupStorefront(t *testing.T) *StorefrontService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.StorefrontConfig{}))

	stores := store.NewGormStores(db)
	restaurant := &config.RestaurantConfig{
		Name:         "Файна Кухня",
		Address:      "вул. Незалежності, 12",
		Phone:        "+380342123456",
		WorkingHours: "10:00-22:00",
	}
	return NewStorefrontService(stores.Storefront, restaurant)
}

func TestStorefrontService(t *testing.T) {
	svc := setupStorefront(t)
	ctx := context.Background()

	t.Run("未配置时返回空文档与餐厅信息", func(t *testing.T) {
		view, err := svc.GetStorefront(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Файна Кухня", view.Restaurant.Name)
		assert.Equal(t, 2, view.Version)
		assert.Empty(t, view.Document)
	})

	t.Run("保存后原样返回文档", func(t *testing.T) {
		doc := models.JSON{
			"preset": "classic",
			"blocks": []interface{}{map[string]interface{}{"type": "hero"}},
		}
		_, err := svc.PutConfig(ctx, &ConfigInput{Document: doc})
		require.NoError(t, err)

		view, err := svc.GetStorefront(ctx)
		require.NoError(t, err)
		assert.Equal(t, "classic", view.Document["preset"])
	})

	t.Run("重复保存覆盖单行", func(t *testing.T) {
		_, err := svc.PutConfig(ctx, &ConfigInput{Document: models.JSON{"preset": "modern"}})
		require.NoError(t, err)

		view, err := svc.GetStorefront(ctx)
		require.NoError(t, err)
		assert.Equal(t, "modern", view.Document["preset"])
	})

	t.Run("空文档被拒绝", func(t *testing.T) {
		_, err := svc.PutConfig(ctx, &ConfigInput{Document: models.JSON{}})
		assert.Equal(t, apperrors.ErrInvalidParams.Code, apperrors.GetAppError(err).Code)
	})
}
