// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/service/catalog"
	"github.com/VladDeliar/PoS/internal/store"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	promos      store.PromoStore
	menuService *catalog.MenuService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(promos store.PromoStore, menuSvc *catalog.MenuService) *TaskHandler {
	return &TaskHandler{
		promos:      promos,
		menuService: menuSvc,
	}
}

// DeactivateExpiredPromos 停用已过期或用尽的促销码
func (h *TaskHandler) DeactivateExpiredPromos(ctx context.Context) error {
	n, err := h.promos.DeactivateExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	if n > 0 {
		logger.Info("Deactivated expired promo codes",
			zap.Int64("count", n),
			logger.Module("scheduler"),
		)
	}

	return nil
}

// WarmMenuCache 预热菜单缓存
//
// 组装一次完整菜单，使分类、菜单项、修饰符等缓存键在
// 顾客请求到来前处于填充状态。
func (h *TaskHandler) WarmMenuCache(ctx context.Context) error {
	_, err := h.menuService.GetMenu(ctx)
	return err
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 每10分钟停用过期促销码
	scheduler.AddTask("DeactivateExpiredPromos", 10*time.Minute, handler.DeactivateExpiredPromos)

	// 每15分钟预热菜单缓存
	scheduler.AddTask("WarmMenuCache", 15*time.Minute, handler.WarmMenuCache)
}
