package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/common/cache"
	"github.com/VladDeliar/PoS/internal/common/config"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/common/metrics"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
	"github.com/VladDeliar/PoS/internal/service/customer"
	"github.com/VladDeliar/PoS/internal/service/delivery"
	"github.com/VladDeliar/PoS/internal/store"
	"github.com/VladDeliar/PoS/pkg/telegram"
)

// 订单事件类型（Redis pub/sub，KDS 实时刷新用）
const (
	EventNewOrder     = "new_order"
	EventOrderUpdated = "order_updated"
	EventWaiterCalled = "waiter_called"
)

// OrderEvent 订单事件载荷
type OrderEvent struct {
	Event       string `json:"event"`
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
	Status      string `json:"status,omitempty"`
	TableNumber *int   `json:"table_number,omitempty"`
}

// OrderService 订单服务
type OrderService struct {
	orders    store.OrderStore
	products  store.ProductStore
	combos    store.ComboStore
	promos    store.PromoStore
	customers store.CustomerStore

	customerSvc *customer.CustomerService
	zoneSvc     *delivery.ZoneService

	payment  *config.PaymentConfig
	notifier telegram.Sender
}

// NewOrderService 创建订单服务
// notifier 可为 nil，此时不发送 Telegram 通知
func NewOrderService(
	stores *store.Stores,
	customerSvc *customer.CustomerService,
	zoneSvc *delivery.ZoneService,
	payment *config.PaymentConfig,
	notifier telegram.Sender,
) *OrderService {
	return &OrderService{
		orders:      stores.Orders,
		products:    stores.Products,
		combos:      stores.Combos,
		promos:      stores.Promos,
		customers:   stores.Customers,
		customerSvc: customerSvc,
		zoneSvc:     zoneSvc,
		payment:     payment,
		notifier:    notifier,
	}
}

// OrderItemInput 下单时的单个订单项
type OrderItemInput struct {
	ProductID *int64                    `json:"product_id"`
	ComboID   *int64                    `json:"combo_id"`
	Qty       int                       `json:"qty" binding:"required,min=1"`
	Modifiers []models.SelectedModifier `json:"modifiers"`
}

// CreateOrderInput 下单请求
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1"`
	OrderType       string           `json:"order_type" binding:"required,oneof=dine_in takeaway delivery self_service"`
	PaymentMethod   string           `json:"payment_method" binding:"omitempty,oneof=cash card online"`
	TableNumber     *int             `json:"table_number"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	DeliveryAddress string           `json:"delivery_address"`
	PromoCode       string           `json:"promo_code"`
	Notes           string           `json:"notes"`
}

// CreateOrder 创建订单
//
// 先完成全部校验与定价，再执行副作用：促销码使用计数、
// 客户档案追加、订单落库、事件发布。校验失败不写任何状态。
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.Order, error) {
	now := time.Now()

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	// 配送订单：按地址解析配送区
	var zone *models.DeliveryZone
	var zoneResult *models.ZoneDetectionResult
	if input.OrderType == models.OrderTypeDelivery {
		if input.DeliveryAddress == "" {
			return nil, apperrors.ErrDeliveryNotAvail.WithMessage("Для доставки потрібна адреса")
		}
		zoneResult, err = s.zoneSvc.ResolveAddress(ctx, input.DeliveryAddress)
		if err != nil {
			return nil, err
		}
		if !zoneResult.Available || zoneResult.ZoneID == nil {
			return nil, apperrors.ErrDeliveryNotAvail.WithMessage(zoneResult.Message)
		}
		zone, err = s.zoneSvc.GetZone(ctx, *zoneResult.ZoneID)
		if err != nil {
			return nil, err
		}
	}

	// 促销码
	var promo *models.PromoCode
	if input.PromoCode != "" {
		promo, err = s.promos.GetByCode(ctx, input.PromoCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrPromoNotFound
			}
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
	}

	// 客户分类折扣
	var discountPct float64
	var discountLabel string
	var existingCustomer *models.Customer
	phone := utils.NormalizePhone(input.CustomerPhone)
	if phone != "" {
		existingCustomer, err = s.customers.GetByPhone(ctx, phone)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		if existingCustomer != nil {
			discountPct, discountLabel, err = s.customerSvc.BestDiscount(ctx, existingCustomer)
			if err != nil {
				return nil, err
			}
		}
	}

	quote, err := CalculateQuote(QuoteInput{
		Items:                   items,
		OrderType:               input.OrderType,
		DeliveryZone:            zone,
		DeliveryAddress:         input.DeliveryAddress,
		Promo:                   promo,
		CustomerDiscountPercent: discountPct,
		CustomerDiscountLabel:   discountLabel,
		PaymentMethod:           input.PaymentMethod,
		Payment:                 s.payment,
		Now:                     now,
	})
	if err != nil {
		return nil, err
	}

	// 促销码胜出时原子递增使用次数；并发下用尽则整单拒绝
	if quote.PromoWon {
		if err := s.promos.IncrementUsageCount(ctx, promo.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrPromoLimitReached
			}
			if apperrors.IsAppError(err) {
				return nil, err
			}
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
	}

	seq, err := s.orders.NextDailySeq(ctx, now)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	order := &models.Order{
		OrderNumber:            utils.FormatOrderNo(now, seq),
		Items:                  items,
		Subtotal:               quote.Subtotal,
		DiscountAmount:         quote.DiscountAmount,
		CustomerDiscountAmount: quote.CustomerDiscountAmount,
		SurchargeAmount:        quote.SurchargeAmount,
		DeliveryFee:            quote.DeliveryFee,
		Total:                  quote.Total,
		Status:                 models.OrderStatusNew,
		PaymentStatus:          models.PaymentStatusPending,
		PaymentMethod:          input.PaymentMethod,
		OrderType:              input.OrderType,
		TableNumber:            input.TableNumber,
		CustomerName:           input.CustomerName,
		CustomerPhone:          phone,
		DeliveryAddress:        input.DeliveryAddress,
		Notes:                  input.Notes,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodCash
	}
	if zone != nil {
		order.DeliveryZoneID = &zone.ID
		order.DeliveryZoneName = zone.Name
	}
	if quote.PromoWon {
		order.PromoCode = promo.Code
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if quote.PromoWon {
			logger.Warn("订单落库失败，促销码计数已递增",
				logger.PromoCode(promo.Code), logger.Module("order"))
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	s.upsertCustomer(ctx, existingCustomer, phone, input.CustomerName, order.ID)

	metrics.GetMetrics().RecordOrder(order.OrderType, "created")
	s.publish(ctx, OrderEvent{
		Event:       EventNewOrder,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TableNumber: order.TableNumber,
	})
	s.notifyNewOrder(order)

	logger.Info("订单已创建", logger.OrderNo(order.OrderNumber), logger.Module("order"))
	return order, nil
}

// buildItems 校验商品并生成订单项快照
func (s *OrderService) buildItems(ctx context.Context, inputs []OrderItemInput) (models.OrderItems, error) {
	if len(inputs) == 0 {
		return nil, apperrors.ErrOrderEmpty
	}

	items := make(models.OrderItems, 0, len(inputs))
	for _, in := range inputs {
		if in.Qty <= 0 {
			return nil, apperrors.ErrInvalidParams.WithMessage("Кількість має бути більшою за нуль")
		}

		switch {
		case in.ComboID != nil:
			combo, err := s.combos.GetByID(ctx, *in.ComboID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.ErrComboNotFound
				}
				return nil, apperrors.ErrDatabaseError.WithError(err)
			}
			if !combo.Available {
				return nil, apperrors.ErrProductUnavailable.WithMessage("Комбо '" + combo.Name + "' тимчасово недоступне")
			}
			items = append(items, models.OrderItem{
				ProductID:  combo.ID,
				Name:       combo.Name,
				Qty:        in.Qty,
				Price:      combo.ComboPrice,
				IsCombo:    true,
				ComboItems: comboItemsSnapshot(combo.Items),
			})

		case in.ProductID != nil:
			product, err := s.products.GetByID(ctx, *in.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.ErrProductNotFound
				}
				return nil, apperrors.ErrDatabaseError.WithError(err)
			}
			if !product.Available {
				return nil, apperrors.ErrProductUnavailable.WithMessage("Страва '" + product.Name + "' тимчасово недоступна")
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Qty:       in.Qty,
				Price:     product.Price,
				Modifiers: in.Modifiers,
			})

		default:
			return nil, apperrors.ErrInvalidParams.WithMessage("Позиція має містити product_id або combo_id")
		}
	}
	return items, nil
}

// comboItemsSnapshot 将套餐内容转为订单快照格式
func comboItemsSnapshot(items models.JSONArray) []models.JSON {
	snapshot := make([]models.JSON, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			snapshot = append(snapshot, models.JSON(m))
		}
	}
	return snapshot
}

// upsertCustomer 下单后的客户档案维护：不存在则创建，追加订单历史
func (s *OrderService) upsertCustomer(ctx context.Context, existing *models.Customer, phone, name string, orderID int64) {
	if phone == "" || !utils.ValidatePhone(phone) {
		return
	}

	if existing == nil {
		created := &models.Customer{
			Name:         name,
			Phone:        phone,
			OrderHistory: models.Int64Array{orderID},
		}
		if err := s.customers.Create(ctx, created); err != nil {
			logger.Warn("客户档案创建失败", logger.Phone(phone), logger.Module("order"))
		}
		return
	}

	existing.OrderHistory = append(existing.OrderHistory, orderID)
	if name != "" && existing.Name == "" {
		existing.Name = name
	}
	if err := s.customers.Update(ctx, existing); err != nil {
		logger.Warn("客户订单历史更新失败", logger.Phone(phone), logger.Module("order"))
	}
}

// GetOrder 获取订单
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return order, nil
}

// GetOrderByNumber 按订单号获取订单（顾客追踪用）
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := s.orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return order, nil
}

// ListOrders 获取订单列表
func (s *OrderService) ListOrders(ctx context.Context, params repository.OrderListParams) ([]*models.Order, int64, error) {
	orders, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return orders, total, nil
}

// UpdateStatus 订单状态迁移
//
// 以旧状态为条件的原子更新保证并发下每次迁移只生效一次；
// 完成迁移时恰好一次地累加客户统计。
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, next string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(next) {
		return nil, apperrors.ErrOrderStatusError.WithMessage(
			"Перехід зі статусу '" + order.Status + "' у '" + next + "' неможливий")
	}

	if err := s.orders.UpdateStatus(ctx, id, order.Status, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 并发迁移抢先，按状态冲突处理
			return nil, apperrors.ErrOrderStatusError
		}
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if next == models.OrderStatusCompleted {
		s.recordCompletion(ctx, order)
	}

	order.Status = next
	metrics.GetMetrics().RecordOrder(order.OrderType, next)
	s.publish(ctx, OrderEvent{
		Event:       EventOrderUpdated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      next,
		TableNumber: order.TableNumber,
	})
	return order, nil
}

// recordCompletion 订单完成时累加客户消费统计
// 由状态守卫保证每单只进入一次
func (s *OrderService) recordCompletion(ctx context.Context, order *models.Order) {
	if order.CustomerPhone == "" {
		return
	}
	c, err := s.customers.GetByPhone(ctx, order.CustomerPhone)
	if err != nil {
		return
	}
	if err := s.customers.IncrementStats(ctx, c.ID, order.Total); err != nil {
		logger.Warn("客户统计累加失败", logger.Phone(order.CustomerPhone), logger.Module("order"))
	}
}

// UpdatePaymentStatus 更新支付状态
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	if status != models.PaymentStatusPending && status != models.PaymentStatusPaid {
		return nil, apperrors.ErrInvalidParams.WithMessage("Невідомий статус оплати")
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdatePaymentStatus(ctx, id, status); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	order.PaymentStatus = status
	return order, nil
}

// CallWaiter 呼叫服务员（堂食桌台）
func (s *OrderService) CallWaiter(ctx context.Context, orderID int64) error {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.TableNumber == nil {
		return apperrors.ErrTableInvalid
	}

	s.publish(ctx, OrderEvent{
		Event:       EventWaiterCalled,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
	})

	if s.notifier != nil {
		if err := s.notifier.SendMessage(telegram.FormatWaiterCall(*order.TableNumber)); err != nil {
			logger.Warn("Telegram 通知发送失败", logger.OrderNo(order.OrderNumber), logger.Module("order"))
		}
	}
	return nil
}

// publish 发布订单事件；缓存不可用时静默跳过
func (s *OrderService) publish(ctx context.Context, event OrderEvent) {
	if err := cache.Publish(ctx, cache.ChannelOrders, event); err != nil {
		logger.Warn("订单事件发布失败", logger.Module("order"))
	}
}

// notifyNewOrder 新订单 Telegram 通知（尽力而为）
func (s *OrderService) notifyNewOrder(order *models.Order) {
	if s.notifier == nil {
		return
	}

	lines := make([]telegram.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, telegram.OrderLine{Name: item.Name, Qty: item.Qty, Price: item.Price})
	}

	msg := telegram.FormatNewOrder(telegram.OrderSummary{
		OrderNumber:   order.OrderNumber,
		OrderType:     order.OrderType,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Address:       order.DeliveryAddress,
		TableNumber:   order.TableNumber,
		Lines:         lines,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		Notes:         order.Notes,
	})
	if err := s.notifier.SendMessage(msg); err != nil {
		logger.Warn("Telegram 通知发送失败", logger.OrderNo(order.OrderNumber), logger.Module("order"))
	}
}

// ProductionItem 单个商品的当日产量状态
type ProductionItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Norm      int     `json:"norm"`
	Sold      int     `json:"sold"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// ProductionStatus 当日产量状态（设有日产量定额的商品）
// 已取消订单不计入销量，结果按完成度降序
func (s *OrderService) ProductionStatus(ctx context.Context) ([]*ProductionItem, error) {
	products, err := s.products.ListWithProductionNorm(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if len(products) == 0 {
		return []*ProductionItem{}, nil
	}

	orders, err := s.orders.ListToday(ctx, time.Now())
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	sold := make(map[int64]int)
	for _, o := range orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			if !item.IsCombo {
				sold[item.ProductID] += item.Qty
			}
		}
	}

	items := make([]*ProductionItem, 0, len(products))
	for _, p := range products {
		if p.DailyProductionNorm == nil || *p.DailyProductionNorm <= 0 {
			continue
		}
		norm := *p.DailyProductionNorm
		item := &ProductionItem{
			ProductID: p.ID,
			Name:      p.Name,
			Norm:      norm,
			Sold:      sold[p.ID],
			Remaining: utils.Max(norm-sold[p.ID], 0),
		}
		item.Percent = utils.Round2(float64(item.Sold) / float64(norm) * 100)
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Percent != items[j].Percent {
			return items[i].Percent > items[j].Percent
		}
		return items[i].ProductID < items[j].ProductID
	})
	return items, nil
}

// DashboardStats 当日运营概况
type DashboardStats struct {
	TodayOrders  int     `json:"today_orders"`
	TodayRevenue float64 `json:"today_revenue"`
	Pending      int     `json:"pending"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
}

// Dashboard 当日订单统计，已取消订单不计入营业额
func (s *OrderService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	orders, err := s.orders.ListToday(ctx, time.Now())
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	stats := &DashboardStats{TodayOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusCancelled:
			stats.Cancelled++
		case models.OrderStatusCompleted:
			stats.Completed++
			stats.TodayRevenue += o.Total
		default:
			stats.Pending++
			stats.TodayRevenue += o.Total
		}
	}
	stats.TodayRevenue = utils.Round2(stats.TodayRevenue)
	return stats, nil
}
