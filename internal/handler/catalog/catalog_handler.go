// Package catalog 提供菜单目录相关的 HTTP Handler
package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	"github.com/VladDeliar/PoS/internal/repository"
	catalogService "github.com/VladDeliar/PoS/internal/service/catalog"
)

// CatalogHandler 菜单目录处理器
type CatalogHandler struct {
	categoryService *catalogService.CategoryService
	productService  *catalogService.ProductService
	modifierService *catalogService.ModifierService
	comboService    *catalogService.ComboService
	menuService     *catalogService.MenuService
}

// NewCatalogHandler 创建菜单目录处理器
func NewCatalogHandler(
	categorySvc *catalogService.CategoryService,
	productSvc *catalogService.ProductService,
	modifierSvc *catalogService.ModifierService,
	comboSvc *catalogService.ComboService,
	menuSvc *catalogService.MenuService,
) *CatalogHandler {
	return &CatalogHandler{
		categoryService: categorySvc,
		productService:  productSvc,
		modifierService: modifierSvc,
		comboService:    comboSvc,
		menuService:     menuSvc,
	}
}

// GetMenu 获取完整公开菜单
// @Summary 获取店面菜单
// @Tags 菜单
// @Produce json
// @Success 200 {object} response.Response{data=catalog.Menu}
// @Router /api/menu [get]
func (h *CatalogHandler) GetMenu(c *gin.Context) {
	menu, err := h.menuService.GetMenu(c.Request.Context())
	handler.MustSucceed(c, err, menu)
}

// ListCategories 获取分类列表
// @Summary 获取菜单分类列表
// @Tags 菜单
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Router /api/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	handler.MustSucceed(c, err, categories)
}

// CreateCategory 创建分类
// @Summary 创建菜单分类
// @Tags 菜单
// @Accept json
// @Produce json
// @Param request body catalog.CategoryInput true "分类参数"
// @Success 200 {object} response.Response{data=models.Category}
// @Router /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input catalogService.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри категорії")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &input)
	handler.MustSucceed(c, err, category)
}

// UpdateCategory 更新分类
// @Summary 更新菜单分类
// @Tags 菜单
// @Accept json
// @Produce json
// @Param id path int true "分类ID"
// @Param request body catalog.CategoryInput true "分类参数"
// @Success 200 {object} response.Response{data=models.Category}
// @Router /api/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "категорія меню")
	if !ok {
		return
	}

	var input catalogService.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри категорії")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, category)
}

// DeleteCategory 删除分类
// @Summary 删除菜单分类
// @Tags 菜单
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} response.Response
// @Router /api/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "категорія меню")
	if !ok {
		return
	}

	err := h.categoryService.DeleteCategory(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ListProducts 获取商品列表
// @Summary 获取商品列表
// @Tags 菜单
// @Produce json
// @Param category_id query int false "按分类过滤"
// @Param available query bool false "按可用性过滤"
// @Param search query string false "按名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	p := handler.BindPagination(c)

	categoryID, ok := handler.ParseQueryID(c, "category_id", "категорія меню")
	if !ok {
		return
	}

	params := repository.ProductListParams{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Offset:     p.GetOffset(),
		Limit:      p.GetLimit(),
	}
	if availableStr := c.Query("available"); availableStr != "" {
		available, err := strconv.ParseBool(availableStr)
		if err != nil {
			response.BadRequest(c, "Некоректне значення параметра available")
			return
		}
		params.Available = &available
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, products, total, p.Page, p.PageSize)
}

// GetProduct 获取商品详情
// @Summary 获取商品详情
// @Tags 菜单
// @Produce json
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "страва")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	handler.MustSucceed(c, err, product)
}

// CreateProduct 创建商品
// @Summary 创建商品
// @Tags 菜单
// @Accept json
// @Produce json
// @Param request body catalog.ProductInput true "商品参数"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /api/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input catalogService.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри страви")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &input)
	handler.MustSucceed(c, err, product)
}

// UpdateProduct 更新商品
// @Summary 更新商品
// @Tags 菜单
// @Accept json
// @Produce json
// @Param id path int true "商品ID"
// @Param request body catalog.ProductInput true "商品参数"
// @Success 200 {object} response.Response{data=models.Product}
// @Router /api/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "страва")
	if !ok {
		return
	}

	var input catalogService.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри страви")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, product)
}

// DeleteProduct 删除商品
// @Summary 删除商品
// @Tags 菜单
// @Produce json
// @Param id path int true "商品ID"
// @Success 200 {object} response.Response
// @Router /api/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := handler.ParseID(c, "страва")
	if !ok {
		return
	}

	err := h.productService.DeleteProduct(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// AvailabilityInput 上架/下架请求
type AvailabilityInput struct {
	Available *bool `json:"available" binding:"required"`
}

// SetAvailability 上架/下架商品
// @Summary 上架/下架商品
// @Tags 菜单
// @Accept json
// @Produce json
// @Param id path int true "商品ID"
// @Param request body AvailabilityInput true "可用性"
// @Success 200 {object} response.Response
// @Router /api/products/{id}/availability [put]
func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	id, ok := handler.ParseID(c, "страва")
	if !ok {
		return
	}

	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Available == nil {
		response.BadRequest(c, "Поле available обов'язкове")
		return
	}

	err := h.productService.SetAvailability(c.Request.Context(), id, *input.Available)
	handler.MustSucceed(c, err, nil)
}
