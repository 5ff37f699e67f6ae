package models

import (
	"time"

	"github.com/VladDeliar/PoS/internal/geo"
)

// 配送区类型
const (
	ZoneTypeRadius  = "radius"  // 圆形：按半径生成多边形
	ZoneTypePolygon = "polygon" // 自定义多边形
)

// DeliveryZone 配送区
//
// Geometry 始终存储多边形：radius 类型由服务层根据半径与中心点
// 生成，polygon 类型原样保存用户提交的几何体。
type DeliveryZone struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	ZoneType string `gorm:"type:varchar(20);not null;default:'radius'" json:"zone_type"`

	// radius 类型参数；CenterLat/CenterLng 为空时使用全局配送中心
	RadiusKm  *float64 `gorm:"type:decimal(6,2)" json:"radius_km,omitempty"`
	CenterLat *float64 `gorm:"type:decimal(10,7)" json:"center_lat,omitempty"`
	CenterLng *float64 `gorm:"type:decimal(10,7)" json:"center_lng,omitempty"`

	Geometry geo.Polygon `gorm:"type:jsonb" json:"geometry"`

	Color                 string   `gorm:"type:varchar(20);default:'#22c55e'" json:"color"`
	DeliveryFee           float64  `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	MinOrderAmount        float64  `gorm:"type:decimal(10,2);not null;default:0" json:"min_order_amount"`
	FreeDeliveryThreshold *float64 `gorm:"type:decimal(10,2)" json:"free_delivery_threshold,omitempty"`
	Enabled               bool     `gorm:"default:true" json:"enabled"`
	Priority              int      `gorm:"not null;default:0;index" json:"priority"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (DeliveryZone) TableName() string {
	return "delivery_zones"
}

// IsRadius 是否为圆形配送区
func (z *DeliveryZone) IsRadius() bool {
	return z.ZoneType == ZoneTypeRadius
}

// DeliveryCenter 全局配送中心（单行表）
type DeliveryCenter struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Lat       float64   `gorm:"type:decimal(10,7);not null" json:"lat"`
	Lng       float64   `gorm:"type:decimal(10,7);not null" json:"lng"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (DeliveryCenter) TableName() string {
	return "delivery_center"
}

// ZoneDetectionResult 地址/坐标 → 配送区判定结果
type ZoneDetectionResult struct {
	ZoneID                *int64     `json:"zone_id,omitempty"`
	ZoneName              string     `json:"zone_name,omitempty"`
	DeliveryFee           float64    `json:"delivery_fee"`
	MinOrderAmount        float64    `json:"min_order_amount"`
	FreeDeliveryThreshold *float64   `json:"free_delivery_threshold,omitempty"`
	Coordinates           *geo.Point `json:"coordinates,omitempty"`
	Available             bool       `json:"available"`
	Message               string     `json:"message"`
}
