package models

import (
	"time"
)

// 折扣类型
const (
	DiscountTypePercentage = "percentage" // 按百分比
	DiscountTypeFixed      = "fixed"      // 固定金额
)

// PromoCode 促销码
type PromoCode struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code           string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountType   string     `gorm:"type:varchar(20);not null;default:'percentage'" json:"discount_type"`
	DiscountValue  float64    `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidTo        *time.Time `json:"valid_to,omitempty"`
	UsageLimit     *int       `json:"usage_limit,omitempty"`
	UsageCount     int        `gorm:"not null;default:0" json:"usage_count"`
	MinOrderAmount float64    `gorm:"type:decimal(10,2);not null;default:0" json:"min_order_amount"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName 表名
func (PromoCode) TableName() string {
	return "promo_codes"
}

// Exhausted 使用次数是否已达上限
func (p *PromoCode) Exhausted() bool {
	return p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit
}

// PromoValidationResult 促销码校验结果（公开校验接口返回）
type PromoValidationResult struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code,omitempty"`
	DiscountType   string  `json:"discount_type,omitempty"`
	DiscountValue  float64 `json:"discount_value,omitempty"`
	DiscountAmount float64 `json:"discount_amount"`
	Message        string  `json:"message,omitempty"`
}
