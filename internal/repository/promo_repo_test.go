// Package repository 促销码仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
)

// setupPromoTestDB 创建促销码测试数据库
func setupPromoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.PromoCode{}))
	return db
}

func createTestPromo(t *testing.T, db *gorm.DB, opts ...func(*models.PromoCode)) *models.PromoCode {
	t.Helper()

	promo := &models.PromoCode{
		Code:          "SUMMER10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}

	for _, opt := range opts {
		opt(promo)
	}

	require.NoError(t, db.Create(promo).Error)
	return promo
}

func TestPromoRepository_GetByCode(t *testing.T) {
	db := setupPromoTestDB(t)
	repo := NewPromoRepository(db)
	ctx := context.Background()

	createTestPromo(t, db)

	t.Run("大小写不敏感", func(t *testing.T) {
		promo, err := repo.GetByCode(ctx, "summer10")
		require.NoError(t, err)
		assert.Equal(t, "SUMMER10", promo.Code)
	})

	t.Run("去除首尾空白", func(t *testing.T) {
		promo, err := repo.GetByCode(ctx, "  SUMMER10  ")
		require.NoError(t, err)
		assert.Equal(t, "SUMMER10", promo.Code)
	})

	t.Run("不存在的码", func(t *testing.T) {
		_, err := repo.GetByCode(ctx, "WINTER20")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestPromoRepository_Create_Uppercases(t *testing.T) {
	db := setupPromoTestDB(t)
	repo := NewPromoRepository(db)
	ctx := context.Background()

	promo := &models.PromoCode{
		Code:          "lower5",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 5,
		IsActive:      true,
	}
	require.NoError(t, repo.Create(ctx, promo))
	assert.Equal(t, "LOWER5", promo.Code)
}

func TestPromoRepository_IncrementUsageCount(t *testing.T) {
	db := setupPromoTestDB(t)
	repo := NewPromoRepository(db)
	ctx := context.Background()

	t.Run("无上限自由递增", func(t *testing.T) {
		promo := createTestPromo(t, db)

		require.NoError(t, repo.IncrementUsageCount(ctx, promo.ID))
		require.NoError(t, repo.IncrementUsageCount(ctx, promo.ID))

		got, err := repo.GetByID(ctx, promo.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.UsageCount)
	})

	t.Run("达到上限后拒绝", func(t *testing.T) {
		promo := createTestPromo(t, db, func(p *models.PromoCode) {
			p.Code = "LIMIT1"
			p.UsageLimit = utils.IntPtr(1)
		})

		require.NoError(t, repo.IncrementUsageCount(ctx, promo.ID))
		assert.ErrorIs(t, repo.IncrementUsageCount(ctx, promo.ID), gorm.ErrRecordNotFound)

		got, err := repo.GetByID(ctx, promo.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.UsageCount)
	})
}

func TestPromoRepository_DeactivateExpired(t *testing.T) {
	db := setupPromoTestDB(t)
	repo := NewPromoRepository(db)
	ctx := context.Background()
	now := time.Now()

	createTestPromo(t, db, func(p *models.PromoCode) {
		p.Code = "EXPIRED"
		p.ValidTo = utils.TimePtr(now.Add(-time.Hour))
	})
	createTestPromo(t, db, func(p *models.PromoCode) {
		p.Code = "USEDUP"
		p.UsageLimit = utils.IntPtr(2)
		p.UsageCount = 2
	})
	createTestPromo(t, db, func(p *models.PromoCode) {
		p.Code = "ALIVE"
		p.ValidTo = utils.TimePtr(now.Add(time.Hour))
	})

	n, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	alive, err := repo.GetByCode(ctx, "ALIVE")
	require.NoError(t, err)
	assert.True(t, alive.IsActive)

	expired, err := repo.GetByCode(ctx, "EXPIRED")
	require.NoError(t, err)
	assert.False(t, expired.IsActive)
}
