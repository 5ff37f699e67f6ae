package models

import (
	"time"
)

// Category 菜单分类
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Icon      string    `gorm:"type:varchar(50);default:'tag'" json:"icon"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 表名
func (Category) TableName() string {
	return "categories"
}

// 修饰组类型
const (
	ModifierTypeSingle   = "single"   // 单选
	ModifierTypeMultiple = "multiple" // 多选
)

// ModifierGroup 修饰组（尺寸、配料等）
// Options 为 [{"name": "...", "price_add": 0}] 结构的 jsonb 数组
type ModifierGroup struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Type         string    `gorm:"type:varchar(20);not null;default:'single'" json:"type"`
	Required     bool      `gorm:"default:false" json:"required"`
	Options      JSONArray `gorm:"type:jsonb" json:"options"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	DisplayMode  string    `gorm:"type:varchar(20);default:'row'" json:"display_mode"`
	ShowForOTP   bool      `gorm:"column:show_for_otp;default:true" json:"show_for_otp"`
	ShowForVTP   bool      `gorm:"column:show_for_vtp;default:true" json:"show_for_vtp"`
	IsEnabled    bool      `gorm:"default:true" json:"is_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 表名
func (ModifierGroup) TableName() string {
	return "modifier_groups"
}

// ProductTag 商品标签
type ProductTag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Color     string    `gorm:"type:varchar(20);default:'#6366f1'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 表名
func (ProductTag) TableName() string {
	return "product_tags"
}

// Product 商品（菜品）
type Product struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string     `gorm:"type:varchar(200);not null" json:"name"`
	CategoryID          int64      `gorm:"not null;index" json:"category_id"`
	Price               float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Description         string     `gorm:"type:text" json:"description"`
	Image               string     `gorm:"type:varchar(500);default:'/static/img/placeholder.svg'" json:"image"`
	Weight              string     `gorm:"type:varchar(50)" json:"weight"`
	CookTime            string     `gorm:"type:varchar(50)" json:"cook_time"`
	Available           bool       `gorm:"default:true" json:"available"`
	ModifierGroupIDs    Int64Array `gorm:"type:jsonb" json:"modifier_groups"`
	TagIDs              Int64Array `gorm:"type:jsonb" json:"tags"`
	DailyProductionNorm *int       `json:"daily_production_norm,omitempty"`
	IsAlcohol           bool       `gorm:"default:false" json:"is_alcohol"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName 表名
func (Product) TableName() string {
	return "products"
}

// Combo 套餐组合
// Items 为 [{"product_id": 1, "product_name": "...", "qty": 1}] 结构
type Combo struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Image        string    `gorm:"type:varchar(500);default:'/static/img/placeholder.svg'" json:"image"`
	Items        JSONArray `gorm:"type:jsonb" json:"items"`
	RegularPrice float64   `gorm:"type:decimal(10,2);not null" json:"regular_price"`
	ComboPrice   float64   `gorm:"type:decimal(10,2);not null" json:"combo_price"`
	Available    bool      `gorm:"default:true" json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 表名
func (Combo) TableName() string {
	return "combos"
}

// 菜单项类型
const (
	MenuItemTypeProduct = "product"
	MenuItemTypeCombo   = "combo"
)

// MenuItem 店面菜单项，引用商品或套餐
type MenuItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemType   string    `gorm:"type:varchar(20);not null;default:'product'" json:"item_type"`
	ProductID  *int64    `gorm:"index" json:"product_id,omitempty"`
	ComboID    *int64    `gorm:"index" json:"combo_id,omitempty"`
	CategoryID *int64    `json:"category_id,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 表名
func (MenuItem) TableName() string {
	return "menu_items"
}
