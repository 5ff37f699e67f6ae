// Package customer 提供客户相关的 HTTP Handler
package customer

import (
	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	customerService "github.com/VladDeliar/PoS/internal/service/customer"
)

// CustomerHandler 客户处理器
type CustomerHandler struct {
	customerService *customerService.CustomerService
}

// NewCustomerHandler 创建客户处理器
func NewCustomerHandler(customerSvc *customerService.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerSvc}
}

// Lookup 按电话查询客户折扣（POS 结账）
// @Summary 按电话查询客户及可用折扣
// @Tags 客户
// @Produce json
// @Param phone path string true "电话号码"
// @Success 200 {object} response.Response{data=models.CustomerLookup}
// @Router /api/customers/lookup/{phone} [get]
func (h *CustomerHandler) Lookup(c *gin.Context) {
	phone := c.Param("phone")
	if phone == "" {
		response.BadRequest(c, "Номер телефону обов'язковий")
		return
	}

	lookup, err := h.customerService.Lookup(c.Request.Context(), phone)
	handler.MustSucceed(c, err, lookup)
}

// ListCustomers 获取客户列表
// @Summary 获取客户列表
// @Tags 客户
// @Produce json
// @Param search query string false "按姓名或电话搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	p := handler.BindPagination(c)
	search := c.Query("search")

	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), search, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, customers, total, p.Page, p.PageSize)
}

// GetCustomer 获取客户详情
// @Summary 获取客户详情
// @Tags 客户
// @Produce json
// @Param id path int true "客户ID"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := handler.ParseID(c, "клієнт")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	handler.MustSucceed(c, err, customer)
}

// CreateCustomer 创建客户
// @Summary 创建客户
// @Tags 客户
// @Accept json
// @Produce json
// @Param request body customer.CustomerInput true "客户参数"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var input customerService.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри клієнта")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &input)
	handler.MustSucceed(c, err, customer)
}

// UpdateCustomer 更新客户
// @Summary 更新客户
// @Tags 客户
// @Accept json
// @Produce json
// @Param id path int true "客户ID"
// @Param request body customer.CustomerInput true "客户参数"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := handler.ParseID(c, "клієнт")
	if !ok {
		return
	}

	var input customerService.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри клієнта")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, customer)
}

// DeleteCustomer 删除客户
// @Summary 删除客户
// @Tags 客户
// @Produce json
// @Param id path int true "客户ID"
// @Success 200 {object} response.Response
// @Router /api/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := handler.ParseID(c, "клієнт")
	if !ok {
		return
	}

	err := h.customerService.DeleteCustomer(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ListCategories 获取客户分类列表
// @Summary 获取客户分类列表
// @Tags 客户分类
// @Produce json
// @Success 200 {object} response.Response{data=[]models.CustomerCategory}
// @Router /api/customer-categories [get]
func (h *CustomerHandler) ListCategories(c *gin.Context) {
	categories, err := h.customerService.ListCategories(c.Request.Context())
	handler.MustSucceed(c, err, categories)
}

// CreateCategory 创建客户分类
// @Summary 创建客户分类
// @Tags 客户分类
// @Accept json
// @Produce json
// @Param request body customer.CategoryInput true "分类参数"
// @Success 200 {object} response.Response{data=models.CustomerCategory}
// @Router /api/customer-categories [post]
func (h *CustomerHandler) CreateCategory(c *gin.Context) {
	var input customerService.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри категорії")
		return
	}

	category, err := h.customerService.CreateCategory(c.Request.Context(), &input)
	handler.MustSucceed(c, err, category)
}

// UpdateCategory 更新客户分类
// @Summary 更新客户分类
// @Tags 客户分类
// @Accept json
// @Produce json
// @Param id path int true "分类ID"
// @Param request body customer.CategoryInput true "分类参数"
// @Success 200 {object} response.Response{data=models.CustomerCategory}
// @Router /api/customer-categories/{id} [put]
func (h *CustomerHandler) UpdateCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "категорія клієнтів")
	if !ok {
		return
	}

	var input customerService.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри категорії")
		return
	}

	category, err := h.customerService.UpdateCategory(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, category)
}

// DeleteCategory 删除客户分类
// @Summary 删除客户分类并从客户中解绑
// @Tags 客户分类
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} response.Response
// @Router /api/customer-categories/{id} [delete]
func (h *CustomerHandler) DeleteCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "категорія клієнтів")
	if !ok {
		return
	}

	err := h.customerService.DeleteCategory(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}
