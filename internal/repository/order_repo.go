package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
)

// OrderRepository 订单仓储
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create 创建订单
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByID 根据 ID 获取订单
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByNumber 根据订单号获取订单
func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderListParams 订单列表查询参数
type OrderListParams struct {
	Status    string
	OrderType string
	Phone     string
	DateFrom  *time.Time
	DateTo    *time.Time
	Offset    int
	Limit     int
}

// List 获取订单列表
func (r *OrderRepository) List(ctx context.Context, params OrderListParams) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.OrderType != "" {
		query = query.Where("order_type = ?", params.OrderType)
	}
	if params.Phone != "" {
		query = query.Where("customer_phone = ?", params.Phone)
	}
	if params.DateFrom != nil {
		query = query.Where("created_at >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("created_at <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query.Order("created_at DESC")
	if params.Limit > 0 {
		q = q.Offset(params.Offset).Limit(params.Limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListToday 获取当日订单（统计用）
func (r *OrderRepository) ListToday(ctx context.Context, now time.Time) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", utils.StartOfDay(now)).
		Find(&orders).Error
	return orders, err
}

// UpdateStatus 更新订单状态
// 以旧状态为 WHERE 条件，并发迁移时只有一个成功
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePaymentStatus 更新支付状态
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NextDailySeq 取得当日下一个订单序号
// 基于计数器表的 upsert 自增，跨进程安全
func (r *OrderRepository) NextDailySeq(ctx context.Context, now time.Time) (int64, error) {
	day := now.Format("20060102")
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("order_counters.seq + 1"), "updated_at": now}),
		}).Create(&models.OrderCounter{Day: day, Seq: 1, UpdatedAt: now}).Error; err != nil {
			return err
		}
		var counter models.OrderCounter
		if err := tx.Where("day = ?", day).First(&counter).Error; err != nil {
			return err
		}
		seq = counter.Seq
		return nil
	})
	return seq, err
}

// FeedbackRepository 顾客评价仓储
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建顾客评价仓储
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create 创建评价
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// List 获取评价列表
func (r *FeedbackRepository) List(ctx context.Context, offset, limit int) ([]*models.Feedback, int64, error) {
	var feedbacks []*models.Feedback
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Feedback{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&feedbacks).Error; err != nil {
		return nil, 0, err
	}
	return feedbacks, total, nil
}

// StorefrontRepository 店面配置仓储
type StorefrontRepository struct {
	db *gorm.DB
}

// NewStorefrontRepository 创建店面配置仓储
func NewStorefrontRepository(db *gorm.DB) *StorefrontRepository {
	return &StorefrontRepository{db: db}
}

// Get 获取店面配置（未配置时返回 gorm.ErrRecordNotFound）
func (r *StorefrontRepository) Get(ctx context.Context) (*models.StorefrontConfig, error) {
	var cfg models.StorefrontConfig
	err := r.db.WithContext(ctx).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert 更新或创建店面配置（单行表）
func (r *StorefrontRepository) Upsert(ctx context.Context, cfg *models.StorefrontConfig) error {
	var existing models.StorefrontConfig
	err := r.db.WithContext(ctx).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(cfg).Error
	}
	if err != nil {
		return err
	}
	cfg.ID = existing.ID
	return r.db.WithContext(ctx).Save(cfg).Error
}
