package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/models"
)

// CustomerRepository 客户仓储
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create 创建客户
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID 根据 ID 获取客户
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByPhone 根据规范化电话获取客户
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update 更新客户
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete 删除客户
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取客户列表（按姓名或电话模糊搜索）
func (r *CustomerRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// ListAll 获取全部客户（分类解绑等离线处理用）
func (r *CustomerRepository) ListAll(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer
	err := r.db.WithContext(ctx).Find(&customers).Error
	return customers, err
}

// IncrementStats 累加客户订单数与消费总额
func (r *CustomerRepository) IncrementStats(ctx context.Context, id int64, amount float64) error {
	return r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"order_count": gorm.Expr("order_count + 1"),
			"total_spent": gorm.Expr("total_spent + ?", amount),
		}).Error
}

// CustomerCategoryRepository 客户分类仓储
type CustomerCategoryRepository struct {
	db *gorm.DB
}

// NewCustomerCategoryRepository 创建客户分类仓储
func NewCustomerCategoryRepository(db *gorm.DB) *CustomerCategoryRepository {
	return &CustomerCategoryRepository{db: db}
}

// Create 创建客户分类
func (r *CustomerCategoryRepository) Create(ctx context.Context, category *models.CustomerCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID 根据 ID 获取客户分类
func (r *CustomerCategoryRepository) GetByID(ctx context.Context, id int64) (*models.CustomerCategory, error) {
	var category models.CustomerCategory
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新客户分类
func (r *CustomerCategoryRepository) Update(ctx context.Context, category *models.CustomerCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete 删除客户分类
func (r *CustomerCategoryRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 获取全部客户分类
func (r *CustomerCategoryRepository) List(ctx context.Context) ([]*models.CustomerCategory, error) {
	var categories []*models.CustomerCategory
	err := r.db.WithContext(ctx).Order("discount_percent DESC").Find(&categories).Error
	return categories, err
}

// ListActiveByIDs 获取指定 ID 中启用的分类
func (r *CustomerCategoryRepository) ListActiveByIDs(ctx context.Context, ids []int64) ([]*models.CustomerCategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []*models.CustomerCategory
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&categories).Error
	return categories, err
}
