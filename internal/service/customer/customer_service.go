// Package customer 提供客户与忠诚度折扣服务
package customer

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/store"
)

// CustomerService 客户服务
type CustomerService struct {
	customers  store.CustomerStore
	categories store.CustomerCategoryStore
}

// NewCustomerService 创建客户服务
func NewCustomerService(customers store.CustomerStore, categories store.CustomerCategoryStore) *CustomerService {
	return &CustomerService{customers: customers, categories: categories}
}

// CustomerInput 创建/更新客户的请求
type CustomerInput struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone" binding:"required"`
	CategoryIDs []int64 `json:"category_ids"`
	Notes       string  `json:"notes"`
}

// CreateCustomer 创建客户
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*models.Customer, error) {
	phone := utils.NormalizePhone(input.Phone)
	if !utils.ValidatePhone(phone) {
		return nil, apperrors.ErrPhoneInvalid
	}

	if _, err := s.customers.GetByPhone(ctx, phone); err == nil {
		return nil, apperrors.ErrCustomerExists
	}

	customer := &models.Customer{
		Name:        input.Name,
		Phone:       phone,
		CategoryIDs: input.CategoryIDs,
		Notes:       input.Notes,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return customer, nil
}

// UpdateCustomer 更新客户
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, input *CustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	phone := utils.NormalizePhone(input.Phone)
	if !utils.ValidatePhone(phone) {
		return nil, apperrors.ErrPhoneInvalid
	}
	if existing, err := s.customers.GetByPhone(ctx, phone); err == nil && existing.ID != id {
		return nil, apperrors.ErrCustomerExists
	}

	customer.Name = input.Name
	customer.Phone = phone
	customer.CategoryIDs = input.CategoryIDs
	customer.Notes = input.Notes

	if err := s.customers.Update(ctx, customer); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return customer, nil
}

// GetCustomer 获取客户
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return customer, nil
}

// DeleteCustomer 删除客户
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCustomerNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListCustomers 获取客户列表
func (s *CustomerService) ListCustomers(ctx context.Context, search string, offset, limit int) ([]*models.Customer, int64, error) {
	customers, total, err := s.customers.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return customers, total, nil
}

// BestDiscount 客户启用分类中的最高折扣
// 返回折扣百分比与带分类名的展示标签，无可用折扣时返回 0
func (s *CustomerService) BestDiscount(ctx context.Context, customer *models.Customer) (float64, string, error) {
	if customer == nil || len(customer.CategoryIDs) == 0 {
		return 0, "", nil
	}

	categories, err := s.categories.ListActiveByIDs(ctx, customer.CategoryIDs)
	if err != nil {
		return 0, "", apperrors.ErrDatabaseError.WithError(err)
	}

	var best *models.CustomerCategory
	for _, cat := range categories {
		if best == nil || cat.DiscountPercent > best.DiscountPercent {
			best = cat
		}
	}
	if best == nil || best.DiscountPercent <= 0 {
		return 0, "", nil
	}

	label := fmt.Sprintf("Знижка для категорії '%s': -%g%%", best.Name, best.DiscountPercent)
	return best.DiscountPercent, label, nil
}

// Lookup 按电话查询客户及其最高可用折扣（POS 结账用）
func (s *CustomerService) Lookup(ctx context.Context, phone string) (*models.CustomerLookup, error) {
	normalized := utils.NormalizePhone(phone)
	customer, err := s.customers.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.CustomerLookup{Found: false}, nil
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	pct, label, err := s.BestDiscount(ctx, customer)
	if err != nil {
		return nil, err
	}

	lookup := &models.CustomerLookup{
		Found:           true,
		CustomerName:    customer.Name,
		Phone:           customer.Phone,
		DiscountPercent: pct,
		DiscountLabel:   label,
		OrderCount:      customer.OrderCount,
		TotalSpent:      customer.TotalSpent,
	}

	if len(customer.CategoryIDs) > 0 {
		categories, err := s.categories.ListActiveByIDs(ctx, customer.CategoryIDs)
		if err == nil {
			for _, cat := range categories {
				lookup.CategoryNames = append(lookup.CategoryNames, cat.Name)
			}
		}
	}
	return lookup, nil
}

// CategoryInput 创建/更新客户分类的请求
type CategoryInput struct {
	Name            string  `json:"name" binding:"required"`
	DiscountPercent float64 `json:"discount_percent" binding:"min=0,max=100"`
	Color           string  `json:"color"`
	IsActive        *bool   `json:"is_active"`
}

// CreateCategory 创建客户分类
func (s *CustomerService) CreateCategory(ctx context.Context, input *CategoryInput) (*models.CustomerCategory, error) {
	category := &models.CustomerCategory{
		Name:            input.Name,
		DiscountPercent: input.DiscountPercent,
		IsActive:        true,
	}
	if input.Color != "" {
		category.Color = input.Color
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return category, nil
}

// UpdateCategory 更新客户分类
func (s *CustomerService) UpdateCategory(ctx context.Context, id int64, input *CategoryInput) (*models.CustomerCategory, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	category.Name = input.Name
	category.DiscountPercent = input.DiscountPercent
	if input.Color != "" {
		category.Color = input.Color
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return category, nil
}

// ListCategories 获取全部客户分类
func (s *CustomerService) ListCategories(ctx context.Context) ([]*models.CustomerCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return categories, nil
}

// DeleteCategory 删除客户分类并从所有客户中解绑
func (s *CustomerService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	// 解绑：从仍引用该分类的客户记录中移除 ID
	customers, err := s.customers.ListAll(ctx)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	for _, c := range customers {
		if !c.CategoryIDs.Contains(id) {
			continue
		}
		filtered := make(models.Int64Array, 0, len(c.CategoryIDs)-1)
		for _, cid := range c.CategoryIDs {
			if cid != id {
				filtered = append(filtered, cid)
			}
		}
		c.CategoryIDs = filtered
		if err := s.customers.Update(ctx, c); err != nil {
			logger.Warn("客户分类解绑失败", logger.Phone(c.Phone), logger.Module("customer"))
		}
	}
	return nil
}
