package catalog

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/common/handler"
	"github.com/VladDeliar/PoS/internal/common/response"
	catalogService "github.com/VladDeliar/PoS/internal/service/catalog"
)

// ==================== 修饰符组 ====================

// ListModifiers 获取修饰符组列表（管理端，含停用）
// @Summary 获取修饰符组列表
// @Tags 修饰符
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ModifierGroup}
// @Router /api/modifiers [get]
func (h *CatalogHandler) ListModifiers(c *gin.Context) {
	modifiers, err := h.modifierService.ListModifiers(c.Request.Context())
	handler.MustSucceed(c, err, modifiers)
}

// GetModifier 获取修饰符组详情
// @Summary 获取修饰符组详情
// @Tags 修饰符
// @Produce json
// @Param id path int true "修饰符组ID"
// @Success 200 {object} response.Response{data=models.ModifierGroup}
// @Router /api/modifiers/{id} [get]
func (h *CatalogHandler) GetModifier(c *gin.Context) {
	id, ok := handler.ParseID(c, "група модифікаторів")
	if !ok {
		return
	}

	modifier, err := h.modifierService.GetModifier(c.Request.Context(), id)
	handler.MustSucceed(c, err, modifier)
}

// CreateModifier 创建修饰符组
// @Summary 创建修饰符组
// @Tags 修饰符
// @Accept json
// @Produce json
// @Param request body catalog.ModifierInput true "修饰符组参数"
// @Success 200 {object} response.Response{data=models.ModifierGroup}
// @Router /api/modifiers [post]
func (h *CatalogHandler) CreateModifier(c *gin.Context) {
	var input catalogService.ModifierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри групи модифікаторів")
		return
	}

	modifier, err := h.modifierService.CreateModifier(c.Request.Context(), &input)
	handler.MustSucceed(c, err, modifier)
}

// UpdateModifier 更新修饰符组
// @Summary 更新修饰符组
// @Tags 修饰符
// @Accept json
// @Produce json
// @Param id path int true "修饰符组ID"
// @Param request body catalog.ModifierInput true "修饰符组参数"
// @Success 200 {object} response.Response{data=models.ModifierGroup}
// @Router /api/modifiers/{id} [put]
func (h *CatalogHandler) UpdateModifier(c *gin.Context) {
	id, ok := handler.ParseID(c, "група модифікаторів")
	if !ok {
		return
	}

	var input catalogService.ModifierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри групи модифікаторів")
		return
	}

	modifier, err := h.modifierService.UpdateModifier(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, modifier)
}

// DeleteModifier 删除修饰符组
// @Summary 删除修饰符组
// @Tags 修饰符
// @Produce json
// @Param id path int true "修饰符组ID"
// @Success 200 {object} response.Response
// @Router /api/modifiers/{id} [delete]
func (h *CatalogHandler) DeleteModifier(c *gin.Context) {
	id, ok := handler.ParseID(c, "група модифікаторів")
	if !ok {
		return
	}

	err := h.modifierService.DeleteModifier(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ==================== 商品标签 ====================

// ListTags 获取商品标签列表
// @Summary 获取商品标签列表
// @Tags 修饰符
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ProductTag}
// @Router /api/product-tags [get]
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.modifierService.ListTags(c.Request.Context())
	handler.MustSucceed(c, err, tags)
}

// CreateTag 创建商品标签
// @Summary 创建商品标签
// @Tags 修饰符
// @Accept json
// @Produce json
// @Param request body catalog.TagInput true "标签参数"
// @Success 200 {object} response.Response{data=models.ProductTag}
// @Router /api/product-tags [post]
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var input catalogService.TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри тегу")
		return
	}

	tag, err := h.modifierService.CreateTag(c.Request.Context(), &input)
	handler.MustSucceed(c, err, tag)
}

// UpdateTag 更新商品标签
// @Summary 更新商品标签
// @Tags 修饰符
// @Accept json
// @Produce json
// @Param id path int true "标签ID"
// @Param request body catalog.TagInput true "标签参数"
// @Success 200 {object} response.Response{data=models.ProductTag}
// @Router /api/product-tags/{id} [put]
func (h *CatalogHandler) UpdateTag(c *gin.Context) {
	id, ok := handler.ParseID(c, "тег")
	if !ok {
		return
	}

	var input catalogService.TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри тегу")
		return
	}

	tag, err := h.modifierService.UpdateTag(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, tag)
}

// DeleteTag 删除商品标签
// @Summary 删除商品标签
// @Tags 修饰符
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response
// @Router /api/product-tags/{id} [delete]
func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	id, ok := handler.ParseID(c, "тег")
	if !ok {
		return
	}

	err := h.modifierService.DeleteTag(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ==================== 套餐 ====================

// ListCombos 获取套餐列表
// @Summary 获取套餐列表
// @Tags 套餐
// @Produce json
// @Param available query bool false "仅可售套餐"
// @Success 200 {object} response.Response{data=[]models.Combo}
// @Router /api/combos [get]
func (h *CatalogHandler) ListCombos(c *gin.Context) {
	onlyAvailable := false
	if availableStr := c.Query("available"); availableStr != "" {
		parsed, err := strconv.ParseBool(availableStr)
		if err != nil {
			response.BadRequest(c, "Некоректне значення параметра available")
			return
		}
		onlyAvailable = parsed
	}

	combos, err := h.comboService.ListCombos(c.Request.Context(), onlyAvailable)
	handler.MustSucceed(c, err, combos)
}

// GetCombo 获取套餐详情
// @Summary 获取套餐详情
// @Tags 套餐
// @Produce json
// @Param id path int true "套餐ID"
// @Success 200 {object} response.Response{data=models.Combo}
// @Router /api/combos/{id} [get]
func (h *CatalogHandler) GetCombo(c *gin.Context) {
	id, ok := handler.ParseID(c, "комбо")
	if !ok {
		return
	}

	combo, err := h.comboService.GetCombo(c.Request.Context(), id)
	handler.MustSucceed(c, err, combo)
}

// CreateCombo 创建套餐
// @Summary 创建套餐
// @Tags 套餐
// @Accept json
// @Produce json
// @Param request body catalog.ComboInput true "套餐参数"
// @Success 200 {object} response.Response{data=models.Combo}
// @Router /api/combos [post]
func (h *CatalogHandler) CreateCombo(c *gin.Context) {
	var input catalogService.ComboInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри комбо")
		return
	}

	combo, err := h.comboService.CreateCombo(c.Request.Context(), &input)
	handler.MustSucceed(c, err, combo)
}

// UpdateCombo 更新套餐
// @Summary 更新套餐
// @Tags 套餐
// @Accept json
// @Produce json
// @Param id path int true "套餐ID"
// @Param request body catalog.ComboInput true "套餐参数"
// @Success 200 {object} response.Response{data=models.Combo}
// @Router /api/combos/{id} [put]
func (h *CatalogHandler) UpdateCombo(c *gin.Context) {
	id, ok := handler.ParseID(c, "комбо")
	if !ok {
		return
	}

	var input catalogService.ComboInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри комбо")
		return
	}

	combo, err := h.comboService.UpdateCombo(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, combo)
}

// DeleteCombo 删除套餐
// @Summary 删除套餐
// @Tags 套餐
// @Produce json
// @Param id path int true "套餐ID"
// @Success 200 {object} response.Response
// @Router /api/combos/{id} [delete]
func (h *CatalogHandler) DeleteCombo(c *gin.Context) {
	id, ok := handler.ParseID(c, "комбо")
	if !ok {
		return
	}

	err := h.comboService.DeleteCombo(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}

// ==================== 菜单项 ====================

// ListMenuItems 获取菜单项列表
// @Summary 获取菜单项列表
// @Tags 菜单
// @Produce json
// @Success 200 {object} response.Response{data=[]models.MenuItem}
// @Router /api/menu-items [get]
func (h *CatalogHandler) ListMenuItems(c *gin.Context) {
	items, err := h.comboService.ListMenuItems(c.Request.Context())
	handler.MustSucceed(c, err, items)
}

// CreateMenuItem 创建菜单项
// @Summary 创建菜单项
// @Tags 菜单
// @Accept json
// @Produce json
// @Param request body catalog.MenuItemInput true "菜单项参数"
// @Success 200 {object} response.Response{data=models.MenuItem}
// @Router /api/menu-items [post]
func (h *CatalogHandler) CreateMenuItem(c *gin.Context) {
	var input catalogService.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри позиції меню")
		return
	}

	item, err := h.comboService.CreateMenuItem(c.Request.Context(), &input)
	handler.MustSucceed(c, err, item)
}

// UpdateMenuItem 更新菜单项
// @Summary 更新菜单项
// @Tags 菜单
// @Accept json
// @Produce json
// @Param id path int true "菜单项ID"
// @Param request body catalog.MenuItemInput true "菜单项参数"
// @Success 200 {object} response.Response{data=models.MenuItem}
// @Router /api/menu-items/{id} [put]
func (h *CatalogHandler) UpdateMenuItem(c *gin.Context) {
	id, ok := handler.ParseID(c, "позиція меню")
	if !ok {
		return
	}

	var input catalogService.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Некоректні параметри позиції меню")
		return
	}

	item, err := h.comboService.UpdateMenuItem(c.Request.Context(), id, &input)
	handler.MustSucceed(c, err, item)
}

// DeleteMenuItem 删除菜单项
// @Summary 删除菜单项
// @Tags 菜单
// @Produce json
// @Param id path int true "菜单项ID"
// @Success 200 {object} response.Response
// @Router /api/menu-items/{id} [delete]
func (h *CatalogHandler) DeleteMenuItem(c *gin.Context) {
	id, ok := handler.ParseID(c, "позиція меню")
	if !ok {
		return
	}

	err := h.comboService.DeleteMenuItem(c.Request.Context(), id)
	handler.MustSucceed(c, err, nil)
}
