package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/models"
)

// ProductRepository 商品仓储
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create 创建商品
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID 根据 ID 获取商品
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs 批量获取商品
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []*models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// Update 更新商品
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete 删除商品
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ProductListParams 商品列表查询参数
type ProductListParams struct {
	CategoryID *int64
	Available  *bool
	Search     string
	Offset     int
	Limit      int
}

// List 获取商品列表
func (r *ProductRepository) List(ctx context.Context, params ProductListParams) ([]*models.Product, int64, error) {
	var products []*models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Available != nil {
		query = query.Where("available = ?", *params.Available)
	}
	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query.Order("name ASC")
	if params.Limit > 0 {
		q = q.Offset(params.Offset).Limit(params.Limit)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListWithProductionNorm 获取设置了每日产量目标的商品
func (r *ProductRepository) ListWithProductionNorm(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("daily_production_norm IS NOT NULL").
		Find(&products).Error
	return products, err
}

// SetAvailability 切换商品可售状态
func (r *ProductRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
