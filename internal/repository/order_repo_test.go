// Package repository 订单仓储单元测试
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

// setupOrderTestDB 创建订单测试数据库
func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Order{},
		&models.OrderCounter{},
	))
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, opts ...func(*models.Order)) *models.Order {
	t.Helper()

	order := &models.Order{
		OrderNumber: utils.FormatOrderNo(time.Now(), 1),
		Items: models.OrderItems{
			{ProductID: 1, Name: "Борщ", Qty: 2, Price: 120},
		},
		Subtotal:      240,
		Total:         240,
		Status:        models.OrderStatusNew,
		PaymentStatus: models.PaymentStatusPending,
		OrderType:     models.OrderTypeDineIn,
	}

	for _, opt := range opts {
		opt(order)
	}

	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := createTestOrder(t, db)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Борщ", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Qty)

	byNumber, err := repo.GetByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
}

func TestOrderRepository_ListByStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	createTestOrder(t, db)
	createTestOrder(t, db, func(o *models.Order) {
		o.OrderNumber = "ORD-20260828-002"
		o.Status = models.OrderStatusReady
	})

	orders, total, err := repo.List(ctx, OrderListParams{Status: models.OrderStatusReady})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusReady, orders[0].Status)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := createTestOrder(t, db)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, models.OrderStatusNew, models.OrderStatusPreparing))

	// 旧状态不匹配时拒绝
	err := repo.UpdateStatus(ctx, order.ID, models.OrderStatusNew, models.OrderStatusReady)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, got.Status)
}

func TestOrderRepository_NextDailySeq(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	now := time.Now()

	seq1, err := repo.NextDailySeq(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq1)

	seq2, err := repo.NextDailySeq(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq2)

	// 新的一天从 1 重新开始
	seq, err := repo.NextDailySeq(ctx, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestFeedbackRepository(t *testing.T) {
	db := setupOrderTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.Feedback{}))
	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Feedback{Rating: 5, Comment: "Дуже смачно"}))
	require.NoError(t, repo.Create(ctx, &models.Feedback{Rating: 3, Phone: "+380501234567"}))

	list, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestStorefrontRepository_Upsert(t *testing.T) {
	db := setupOrderTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.StorefrontConfig{}))
	repo := NewStorefrontRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	doc := models.JSON{"preset": "custom", "layout": "sidebar-right"}
	require.NoError(t, repo.Upsert(ctx, &models.StorefrontConfig{Version: 2, Document: doc}))

	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, "custom", cfg.Document["preset"])

	// 覆盖同一行
	require.NoError(t, repo.Upsert(ctx, &models.StorefrontConfig{Version: 2, Document: models.JSON{"preset": "clover"}}))

	var count int64
	db.Model(&models.StorefrontConfig{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
