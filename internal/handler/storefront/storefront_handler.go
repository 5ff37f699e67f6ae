// Package storefront 提供店面配置、反馈与餐桌二维码的 HTTP Handler
package storefront

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	feedbackService "github.com/VladDeliar/PoS/internal/service/feedback"
	storefrontService "github.com/VladDeliar/PoS/internal/service/storefront"
	tableService "github.com/VladDeliar/PoS/internal/service/table"
)

// StorefrontHandler 店面处理器
type StorefrontHandler struct {
	storefrontService *storefrontService.StorefrontService
	feedbackService   *feedbackService.FeedbackService
	qrService         *tableService.QRService
}

// NewStorefrontHandler 创建店面处理器
func NewStorefrontHandler(
	storefrontSvc *storefrontService.StorefrontService,
	feedbackSvc *feedbackService.FeedbackService,
	qrSvc *tableService.QRService,
) *StorefrontHandler {
	return &StorefrontHandler{
		storefrontService: storefrontSvc,
		feedbackService:   feedbackSvc,
		qrService:         qrSvc,
	}
}

// GetStorefront 获取店面页面配置（公开）
// @Summary 获取店面页面配置
// @Tags 店面
// @Produce json
// @Success 200 {object} response.Response{data=storefront.StorefrontView}
// @Router /api/storefront [get]
func (h *StorefrontHandler) GetStorefront(c *gin.Context) {
	view, err := h.storefrontService.GetStorefront(c.Request.Context())
	handler.MustSucceed(c, err, view)
}

// PutConfig 保存店面页面配置
// @Summary 保存店面页面配置
// @Tags 店面
// @Accept json
// @Produce json
// @Param request body storefront.ConfigInput true "页面配置文档"
// @Success 200 {object} response.Response{data=models.StorefrontConfig}
// @Router /api/storefront/config [put]
func (h *StorefrontHandler) PutConfig(c *gin.Context) {
	var input storefrontService.ConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректна конфігурація сторінки")
		return
	}

	cfg, err := h.storefrontService.PutConfig(c.Request.Context(), &input)
	handler.MustSucceed(c, err, cfg)
}

// CreateFeedback 提交反馈（公开）
// @Summary 提交顾客反馈
// @Tags 反馈
// @Accept json
// @Produce json
// @Param request body feedback.FeedbackInput true "反馈参数"
// @Success 200 {object} response.Response{data=models.Feedback}
// @Router /api/feedbacks [post]
func (h *StorefrontHandler) CreateFeedback(c *gin.Context) {
	var input feedbackService.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Оцінка має бути від 1 до 5")
		return
	}

	fb, err := h.feedbackService.CreateFeedback(c.Request.Context(), &input)
	handler.MustSucceed(c, err, fb)
}

// ListFeedbacks 获取反馈列表
// @Summary 获取反馈列表
// @Tags 反馈
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/feedbacks [get]
func (h *StorefrontHandler) ListFeedbacks(c *gin.Context) {
	p := handler.BindPagination(c)

	feedbacks, total, err := h.feedbackService.ListFeedbacks(c.Request.Context(), p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, feedbacks, total, p.Page, p.PageSize)
}

func parseTableNumber(c *gin.Context) (int, bool) {
	tableNumber, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		response.BadRequest(c, "Некоректний номер столу")
		return 0, false
	}
	return tableNumber, true
}

// GetTableQR 获取餐桌二维码信息
// @Summary 获取餐桌二维码（URL 与 data URL）
// @Tags 餐桌
// @Produce json
// @Param number path int true "餐桌号"
// @Success 200 {object} response.Response{data=table.TableQRInfo}
// @Router /api/tables/{number}/qr [get]
func (h *StorefrontHandler) GetTableQR(c *gin.Context) {
	tableNumber, ok := parseTableNumber(c)
	if !ok {
		return
	}

	info, err := h.qrService.GenerateQRCode(tableNumber)
	handler.MustSucceed(c, err, info)
}

// GetTableQRImage 获取餐桌二维码 PNG 图片
// @Summary 获取餐桌二维码 PNG
// @Tags 餐桌
// @Produce png
// @Param number path int true "餐桌号"
// @Success 200 {file} binary
// @Router /api/tables/{number}/qr/image [get]
func (h *StorefrontHandler) GetTableQRImage(c *gin.Context) {
	tableNumber, ok := parseTableNumber(c)
	if !ok {
		return
	}

	png, err := h.qrService.GetQRCodeImage(tableNumber)
	if handler.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
