package models

import (
	"time"
)

// OperationLog 管理操作审计日志
// 记录对菜单、配送区、促销码等管理资源的写操作
type OperationLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Module      string    `gorm:"type:varchar(50);not null;index" json:"module"`
	Action      string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetType  *string   `gorm:"type:varchar(50)" json:"target_type,omitempty"`
	TargetID    *int64    `gorm:"index" json:"target_id,omitempty"`
	Method      string    `gorm:"type:varchar(10);not null" json:"method"`
	Path        string    `gorm:"type:varchar(255);not null" json:"path"`
	IP          string    `gorm:"type:varchar(45)" json:"ip"`
	UserAgent   *string   `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	RequestData JSON      `gorm:"type:jsonb" json:"request_data,omitempty"`
	StatusCode  int       `gorm:"not null;default:0" json:"status_code"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}
