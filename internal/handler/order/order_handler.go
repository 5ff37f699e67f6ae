// Package order 提供订单相关的 HTTP Handler
package order

import (
	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	"github.com/VladDeliar/PoS/internal/repository"
	orderService "github.com/VladDeliar/PoS/internal/service/order"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	orderService *orderService.OrderService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(orderSvc *orderService.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderSvc}
}

// CreateOrder 创建订单（公开）
// @Summary 创建订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body order.CreateOrderInput true "订单参数"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input orderService.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри замовлення")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &input)
	handler.MustSucceed(c, err, order)
}

// GetOrder 获取订单详情（顾客追踪）
// @Summary 获取订单详情
// @Tags 订单
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := handler.ParseID(c, "замовлення")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	handler.MustSucceed(c, err, order)
}

// TrackOrder 按订单号追踪订单
// @Summary 按订单号追踪订单
// @Tags 订单
// @Produce json
// @Param number path string true "订单号"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/orders/track/{number} [get]
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		response.BadRequest(c, "Номер замовлення обов'язковий")
		return
	}

	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), number)
	handler.MustSucceed(c, err, order)
}

// ListOrders 获取订单列表（POS/KDS）
// @Summary 获取订单列表
// @Tags 订单
// @Produce json
// @Param status query string false "按状态过滤"
// @Param order_type query string false "按订单类型过滤"
// @Param phone query string false "按客户电话过滤"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := handler.BindPagination(c)

	dateFrom, dateTo, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	params := repository.OrderListParams{
		Status:    c.Query("status"),
		OrderType: c.Query("order_type"),
		Phone:     c.Query("phone"),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Offset:    p.GetOffset(),
		Limit:     p.GetLimit(),
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, orders, total, p.Page, p.PageSize)
}

// StatusInput 更新订单状态的请求
type StatusInput struct {
	Status string `json:"status" binding:"required,oneof=new preparing ready completed cancelled"`
}

// UpdateStatus 更新订单状态
// @Summary 更新订单状态
// @Tags 订单
// @Accept json
// @Produce json
// @Param id path int true "订单ID"
// @Param request body StatusInput true "目标状态"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "замовлення")
	if !ok {
		return
	}

	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректний статус замовлення")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, input.Status)
	handler.MustSucceed(c, err, order)
}

// PaymentInput 更新支付状态的请求
type PaymentInput struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid"`
}

// UpdatePayment 更新支付状态
// @Summary 更新支付状态
// @Tags 订单
// @Accept json
// @Produce json
// @Param id path int true "订单ID"
// @Param request body PaymentInput true "支付状态"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/orders/{id}/payment [put]
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	id, ok := handler.ParseID(c, "замовлення")
	if !ok {
		return
	}

	var input PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректний статус оплати")
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, input.PaymentStatus)
	handler.MustSucceed(c, err, order)
}

// CallWaiter 呼叫服务员
// @Summary 呼叫服务员
// @Tags 订单
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/orders/{id}/call-waiter [post]
func (h *OrderHandler) CallWaiter(c *gin.Context) {
	id, ok := handler.ParseID(c, "замовлення")
	if !ok {
		return
	}

	err := h.orderService.CallWaiter(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "Офіціанта викликано", nil)
}

// ProductionStatus 当日产量状态
// @Summary 当日产量状态
// @Tags 统计
// @Produce json
// @Success 200 {object} response.Response{data=[]order.ProductionItem}
// @Router /api/production-status [get]
func (h *OrderHandler) ProductionStatus(c *gin.Context) {
	items, err := h.orderService.ProductionStatus(c.Request.Context())
	handler.MustSucceed(c, err, items)
}

// Dashboard 当日运营概况
// @Summary 当日运营概况
// @Tags 统计
// @Produce json
// @Success 200 {object} response.Response{data=order.DashboardStats}
// @Router /api/stats/dashboard [get]
func (h *OrderHandler) Dashboard(c *gin.Context) {
	stats, err := h.orderService.Dashboard(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}
