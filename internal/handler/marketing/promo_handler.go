// Package marketing 提供促销码相关的 HTTP Handler
package marketing

import (
	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	marketingService "github.com/VladDeliar/PoS/internal/service/marketing"
)

// PromoHandler 促销码处理器
type PromoHandler struct {
	promoService *marketingService.PromoService
}

// NewPromoHandler 创建促销码处理器
func NewPromoHandler(promoSvc *marketingService.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoSvc}
}

// ListPromos 获取促销码列表
// @Summary 获取促销码列表
// @Tags 促销码
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/promo-codes [get]
func (h *PromoHandler) ListPromos(c *gin.Context) {
	p := handler.BindPagination(c)

	promos, total, err := h.promoService.ListPromos(c.Request.Context(), p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, promos, total, p.Page, p.PageSize)
}

// GetPromo 获取促销码详情
// @Summary 获取促销码详情
// @Tags 促销码
// @Produce json
// @Param id path int true "促销码ID"
// @Success 200 {object} response.Response{data=models.PromoCode}
// @Router /api/promo-codes/{id} [get]
func (h *PromoHandler) GetPromo(c *gin.Context) {
	id, ok := handler.ParseID(c, "промокод")
	if !ok {
		return
	}

	promo, err := h.promoService.GetPromo(c.Request.Context(), id)
	handler.MustSucceed(c, err, promo)
}

// CreatePromo 创建促销码
// @Summary 创建促销码
// @Tags 促销码
// @Accept json
// @Produce json
// @Param request body marketing.PromoInput true "促销码参数"
// @Success 200 {object} response.Response{data=models.PromoCode}
// @Router /api/promo-codes [post]
func (h *PromoHandler) CreatePromo(c *gin.Context) {
	var input marketingService.PromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри промокоду")
		return
	}

	promo, err := h.promoService.CreatePromo(c.Request.Context(), &input)
	handler.MustSucceed(c, err, promo)
}

// UpdatePromo 更新促销码
// @Summary 更新促销码
// @Tags 促销码
// @Accept json
// @Produce json
// @Param id path int true "促销码ID"
// @Param request body marketing.PromoInput true "促销码参数"
// @Success 200 {object} response.Response{data=models.PromoCode}
// @Router /api/promo-codes/{id} [put]
func (h *PromoHandler) UpdatePromo(c *gin.Context) {
	id, ok := handler.ParseID(c, "промокод")
	if !ok {
		return
	}

	var input marketingService.PromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри промокоду")
		return
	}

	promo, err := h.promoService.UpdatePromo(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, promo)
}

// DeletePromo 删除促销码
// @Summary 删除促销码
// @Tags 促销码
// @Produce json
// @Param id path int true "促销码ID"
// @Success 200 {object} response.Response
// @Router /api/promo-codes/{id} [delete]
func (h *PromoHandler) DeletePromo(c *gin.Context) {
	id, ok := handler.ParseID(c, "промокод")
	if !ok {
		return
	}

	err := h.promoService.DeletePromo(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ValidateInput 公开校验促销码的请求
type ValidateInput struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

// ValidatePromo 校验促销码（公开）
//
// 校验失败不返回错误码，统一以 Valid=false + 消息返回，
// 前端据此给顾客展示原因。
//
// @Summary 校验促销码并预览折扣
// @Tags 促销码
// @Accept json
// @Produce json
// @Param request body ValidateInput true "促销码与小计"
// @Success 200 {object} response.Response{data=models.PromoValidationResult}
// @Router /api/promo-codes/validate [post]
func (h *PromoHandler) ValidatePromo(c *gin.Context) {
	var input ValidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Код промокоду та сума замовлення обов'язкові")
		return
	}

	result, err := h.promoService.Validate(c.Request.Context(), input.Code, input.Subtotal)
	handler.MustSucceed(c, err, result)
}
