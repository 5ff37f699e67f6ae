package models

import (
	"time"
)

// CustomerCategory 客户分类（忠诚度折扣）
type CustomerCategory struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	Color           string    `gorm:"type:varchar(20);default:'#6366f1'" json:"color"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 表名
func (CustomerCategory) TableName() string {
	return "customer_categories"
}

// Customer 客户
// Phone 存储规范化后的号码，全表唯一
type Customer struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"type:varchar(200)" json:"name"`
	Phone       string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	CategoryIDs Int64Array `gorm:"type:jsonb" json:"category_ids"`
	Notes       string     `gorm:"type:text" json:"notes"`
	// OrderHistory 客户下过的订单 ID，按下单顺序追加
	OrderHistory Int64Array `gorm:"type:jsonb" json:"order_history"`
	OrderCount   int        `gorm:"not null;default:0" json:"order_count"`
	TotalSpent   float64    `gorm:"type:decimal(12,2);not null;default:0" json:"total_spent"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName 表名
func (Customer) TableName() string {
	return "customers"
}

// CustomerLookup 按电话查询客户的结果
type CustomerLookup struct {
	Found           bool     `json:"found"`
	CustomerName    string   `json:"customer_name,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	CategoryNames   []string `json:"category_names,omitempty"`
	DiscountPercent float64  `json:"discount_percent"`
	DiscountLabel   string   `json:"discount_label,omitempty"`
	OrderCount      int      `json:"order_count"`
	TotalSpent      float64  `json:"total_spent"`
}
