// Package delivery 提供配送区相关的 HTTP Handler
package delivery

import (
	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	"github.com/VladDeliar/PoS/internal/geo"
	deliveryService "github.com/VladDeliar/PoS/internal/service/delivery"
)

// ZoneHandler 配送区处理器
type ZoneHandler struct {
	zoneService *deliveryService.ZoneService
}

// NewZoneHandler 创建配送区处理器
func NewZoneHandler(zoneSvc *deliveryService.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneSvc}
}

// ListZones 获取配送区列表
// @Summary 获取配送区列表
// @Tags 配送区
// @Produce json
// @Success 200 {object} response.Response{data=[]models.DeliveryZone}
// @Router /api/delivery-zones [get]
func (h *ZoneHandler) ListZones(c *gin.Context) {
	zones, err := h.zoneService.ListZones(c.Request.Context())
	handler.MustSucceed(c, err, zones)
}

// GetZone 获取配送区详情
// @Summary 获取配送区详情
// @Tags 配送区
// @Produce json
// @Param id path int true "配送区ID"
// @Success 200 {object} response.Response{data=models.DeliveryZone}
// @Router /api/delivery-zones/{id} [get]
func (h *ZoneHandler) GetZone(c *gin.Context) {
	id, ok := handler.ParseID(c, "зона доставки")
	if !ok {
		return
	}

	zone, err := h.zoneService.GetZone(c.Request.Context(), id)
	handler.MustSucceed(c, err, zone)
}

// CreateZone 创建配送区
// @Summary 创建配送区
// @Tags 配送区
// @Accept json
// @Produce json
// @Param request body delivery.ZoneInput true "配送区参数"
// @Success 200 {object} response.Response{data=models.DeliveryZone}
// @Router /api/delivery-zones [post]
func (h *ZoneHandler) CreateZone(c *gin.Context) {
	var input deliveryService.ZoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри зони доставки")
		return
	}

	zone, err := h.zoneService.CreateZone(c.Request.Context(), &input)
	handler.MustSucceed(c, err, zone)
}

// UpdateZone 更新配送区
// @Summary 更新配送区
// @Tags 配送区
// @Accept json
// @Produce json
// @Param id path int true "配送区ID"
// @Param request body delivery.ZoneInput true "配送区参数"
// @Success 200 {object} response.Response{data=models.DeliveryZone}
// @Router /api/delivery-zones/{id} [put]
func (h *ZoneHandler) UpdateZone(c *gin.Context) {
	id, ok := handler.ParseID(c, "зона доставки")
	if !ok {
		return
	}

	var input deliveryService.ZoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри зони доставки")
		return
	}

	zone, err := h.zoneService.UpdateZone(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, zone)
}

// DeleteZone 删除配送区
// @Summary 删除配送区
// @Tags 配送区
// @Produce json
// @Param id path int true "配送区ID"
// @Success 200 {object} response.Response
// @Router /api/delivery-zones/{id} [delete]
func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	id, ok := handler.ParseID(c, "зона доставки")
	if !ok {
		return
	}

	err := h.zoneService.DeleteZone(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// GetCenter 获取配送中心
// @Summary 获取配送中心坐标
// @Tags 配送区
// @Produce json
// @Success 200 {object} response.Response{data=models.DeliveryCenter}
// @Router /api/delivery-zones/center [get]
func (h *ZoneHandler) GetCenter(c *gin.Context) {
	center, err := h.zoneService.GetCenter(c.Request.Context())
	handler.MustSucceed(c, err, center)
}

// CenterInput 更新配送中心的请求
type CenterInput struct {
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
	Address string  `json:"address"`
}

// UpdateCenter 更新配送中心
//
// 仅更新中心坐标并使区域缓存失效；既有半径区几何体保持
// 原样，需调用 recalculate-all 显式重建。
//
// @Summary 更新配送中心坐标
// @Tags 配送区
// @Accept json
// @Produce json
// @Param request body CenterInput true "中心坐标"
// @Success 200 {object} response.Response{data=models.DeliveryCenter}
// @Router /api/delivery-zones/center [put]
func (h *ZoneHandler) UpdateCenter(c *gin.Context) {
	var input CenterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні координати центру")
		return
	}

	center, err := h.zoneService.UpdateCenter(c.Request.Context(), input.Lat, input.Lng, input.Address)
	handler.MustSucceed(c, err, center)
}

// RecalculateResult 批量重算结果
type RecalculateResult struct {
	Modified int64 `json:"modified"`
}

// RecalculateAll 重建所有半径型配送区几何体
// @Summary 以当前中心重建所有半径型配送区
// @Tags 配送区
// @Produce json
// @Success 200 {object} response.Response{data=RecalculateResult}
// @Router /api/delivery-zones/recalculate-all [post]
func (h *ZoneHandler) RecalculateAll(c *gin.Context) {
	modified, err := h.zoneService.RecalculateAllRadiusZones(c.Request.Context())
	handler.MustSucceed(c, err, RecalculateResult{Modified: modified})
}

// DetectInput 按地址检测配送区的请求
type DetectInput struct {
	Address string `json:"address" binding:"required"`
}

// DetectByAddress 按地址检测配送区（公开）
// @Summary 按地址检测配送可用性
// @Tags 配送区
// @Accept json
// @Produce json
// @Param request body DetectInput true "配送地址"
// @Success 200 {object} response.Response{data=models.ZoneDetectionResult}
// @Router /api/delivery-zones/detect [post]
func (h *ZoneHandler) DetectByAddress(c *gin.Context) {
	var input DetectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Адреса доставки обов'язкова")
		return
	}

	result, err := h.zoneService.ResolveAddress(c.Request.Context(), input.Address)
	handler.MustSucceed(c, err, result)
}

// CoordinatesInput 按坐标检测配送区的请求
type CoordinatesInput struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// DetectByCoordinates 按坐标检测配送区（公开）
// @Summary 按坐标检测配送可用性
// @Tags 配送区
// @Accept json
// @Produce json
// @Param request body CoordinatesInput true "坐标"
// @Success 200 {object} response.Response{data=models.ZoneDetectionResult}
// @Router /api/delivery-zones/detect-coordinates [post]
func (h *ZoneHandler) DetectByCoordinates(c *gin.Context) {
	var input CoordinatesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Координати обов'язкові")
		return
	}

	result, err := h.zoneService.DetectByCoordinates(c.Request.Context(), geo.Point{Lat: input.Lat, Lng: input.Lng})
	handler.MustSucceed(c, err, result)
}
