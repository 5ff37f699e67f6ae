package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
	"github.com/VladDeliar/PoS/internal/store"
)

// ProductService 商品（菜品）服务
type ProductService struct {
	products   store.ProductStore
	categories store.CategoryStore
}

// NewProductService 创建商品服务
func NewProductService(products store.ProductStore, categories store.CategoryStore) *ProductService {
	return &ProductService{products: products, categories: categories}
}

// ProductInput 创建/更新商品的请求
type ProductInput struct {
	Name                string            `json:"name" binding:"required"`
	CategoryID          int64             `json:"category_id" binding:"required"`
	Price               float64           `json:"price" binding:"required,gt=0"`
	Description         string            `json:"description"`
	Image               string            `json:"image"`
	Weight              string            `json:"weight"`
	CookTime            string            `json:"cook_time"`
	Available           *bool             `json:"available"`
	ModifierGroupIDs    models.Int64Array `json:"modifier_groups"`
	TagIDs              models.Int64Array `json:"tags"`
	DailyProductionNorm *int              `json:"daily_production_norm"`
	IsAlcohol           bool              `json:"is_alcohol"`
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*models.Product, error) {
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if input.DailyProductionNorm != nil && *input.DailyProductionNorm < 0 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Денна норма виробництва не може бути від'ємною")
	}

	product := &models.Product{
		Name:                input.Name,
		CategoryID:          input.CategoryID,
		Price:               input.Price,
		Description:         input.Description,
		Weight:              input.Weight,
		CookTime:            input.CookTime,
		Available:           true,
		ModifierGroupIDs:    input.ModifierGroupIDs,
		TagIDs:              input.TagIDs,
		DailyProductionNorm: input.DailyProductionNorm,
		IsAlcohol:           input.IsAlcohol,
	}
	if input.Image != "" {
		product.Image = input.Image
	}
	if input.Available != nil {
		product.Available = *input.Available
	}

	if err := s.products.Create(ctx, product); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	logger.Info("商品已创建", logger.Module("catalog"))
	return product, nil
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input *ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if input.DailyProductionNorm != nil && *input.DailyProductionNorm < 0 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Денна норма виробництва не може бути від'ємною")
	}

	product.Name = input.Name
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.Description = input.Description
	product.Weight = input.Weight
	product.CookTime = input.CookTime
	product.ModifierGroupIDs = input.ModifierGroupIDs
	product.TagIDs = input.TagIDs
	product.DailyProductionNorm = input.DailyProductionNorm
	product.IsAlcohol = input.IsAlcohol
	if input.Image != "" {
		product.Image = input.Image
	}
	if input.Available != nil {
		product.Available = *input.Available
	}

	if err := s.products.Update(ctx, product); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return product, nil
}

// GetProduct 获取商品
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return product, nil
}

// DeleteProduct 删除商品
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProductNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return nil
}

// ListProducts 获取商品列表
func (s *ProductService) ListProducts(ctx context.Context, params repository.ProductListParams) ([]*models.Product, int64, error) {
	products, total, err := s.products.List(ctx, params)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return products, total, nil
}

// SetAvailability 上架/下架商品（POS 快捷开关）
func (s *ProductService) SetAvailability(ctx context.Context, id int64, available bool) error {
	if err := s.products.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProductNotFound
		}
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	invalidateMenuCache(ctx)
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMenuCategoryMissing
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}
