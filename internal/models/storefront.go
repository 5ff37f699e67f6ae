package models

import (
	"time"
)

// StorefrontConfig 店面页面配置（单行表）
//
// Document 为页面构建器产出的完整配置文档，后端不解释其
// 内部结构，按 jsonb 原样存取；Version 区分配置格式版本。
type StorefrontConfig struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Version   int       `gorm:"not null;default:2" json:"version"`
	Document  JSON      `gorm:"type:jsonb" json:"document"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (StorefrontConfig) TableName() string {
	return "storefront_config"
}
