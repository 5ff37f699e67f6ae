package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 订单状态
const (
	OrderStatusNew       = "new"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// 支付状态
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// 订单类型
const (
	OrderTypeDineIn      = "dine_in"
	OrderTypeTakeaway    = "takeaway"
	OrderTypeDelivery    = "delivery"
	OrderTypeSelfService = "self_service"
)

// 支付方式
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodOnline = "online"
)

// SelectedModifier 订单项选中的修饰项
type SelectedModifier struct {
	GroupName  string  `json:"group_name"`
	OptionName string  `json:"option_name"`
	PriceAdd   float64 `json:"price_add"`
}

// OrderItem 订单项（下单时的商品快照）
type OrderItem struct {
	ProductID  int64              `json:"product_id"`
	Name       string             `json:"name"`
	Qty        int                `json:"qty"`
	Price      float64            `json:"price"`
	Modifiers  []SelectedModifier `json:"modifiers,omitempty"`
	IsCombo    bool               `json:"is_combo,omitempty"`
	ComboItems []JSON             `json:"combo_items,omitempty"`
}

// LineTotal 订单项小计：(单价 + 修饰项加价) × 数量
func (i *OrderItem) LineTotal() float64 {
	price := i.Price
	for _, m := range i.Modifiers {
		price += m.PriceAdd
	}
	return price * float64(i.Qty)
}

// OrderItems 订单项集合，整体存为 jsonb
type OrderItems []OrderItem

// Value 实现 driver.Valuer
func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan 实现 sql.Scanner
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for OrderItems: %T", value)
	}
	return json.Unmarshal(data, o)
}

// Order 订单
type Order struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	Items       OrderItems `gorm:"type:jsonb;not null" json:"items"`

	// 金额拆解：促销码折扣与客户分类折扣分列，互斥，胜出方持有金额
	Subtotal               float64 `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	DiscountAmount         float64 `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	CustomerDiscountAmount float64 `gorm:"type:decimal(10,2);not null;default:0" json:"customer_discount_amount"`
	SurchargeAmount        float64 `gorm:"type:decimal(10,2);not null;default:0" json:"surcharge_amount"`
	DeliveryFee            float64 `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	Total                  float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	Status        string `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod string `gorm:"type:varchar(20);default:'cash'" json:"payment_method"`
	OrderType     string `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`

	TableNumber   *int   `json:"table_number,omitempty"`
	CustomerName  string `gorm:"type:varchar(200)" json:"customer_name,omitempty"`
	CustomerPhone string `gorm:"type:varchar(20);index" json:"customer_phone,omitempty"`

	DeliveryAddress  string `gorm:"type:varchar(500)" json:"delivery_address,omitempty"`
	DeliveryZoneID   *int64 `json:"delivery_zone_id,omitempty"`
	DeliveryZoneName string `gorm:"type:varchar(100)" json:"delivery_zone_name,omitempty"`

	PromoCode string `gorm:"type:varchar(50)" json:"promo_code,omitempty"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (Order) TableName() string {
	return "orders"
}

// CanTransitionTo 校验订单状态迁移是否合法
func (o *Order) CanTransitionTo(next string) bool {
	allowed, ok := orderTransitions[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// 状态机：new → preparing → ready → completed；取消只允许在完成前
var orderTransitions = map[string][]string{
	OrderStatusNew:       {OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// OrderCounter 每日订单序号计数器
type OrderCounter struct {
	Day       string    `gorm:"primaryKey;type:varchar(8)" json:"day"`
	Seq       int64     `gorm:"not null;default:0" json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (OrderCounter) TableName() string {
	return "order_counters"
}

// Feedback 顾客评价
type Feedback struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 表名
func (Feedback) TableName() string {
	return "feedbacks"
}
