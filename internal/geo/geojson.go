// Package geo 提供配送区几何计算：圆转多边形、质心、点包含判定
//
// 坐标统一使用 GeoJSON 约定：多边形坐标为 [经度, 纬度]。
// API 层的单独坐标参数使用 (lat, lng)，本包是两种顺序的唯一转换点。
package geo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Point 地理坐标点
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Position GeoJSON 位置，[lng, lat] 顺序
type Position [2]float64

// Lng 经度
func (p Position) Lng() float64 { return p[0] }

// Lat 纬度
func (p Position) Lat() float64 { return p[1] }

// Polygon GeoJSON Polygon 几何体
// Coordinates[0] 为外环，首尾坐标相同（闭合环）
type Polygon struct {
	Type        string       `json:"type"`
	Coordinates [][]Position `json:"coordinates"`
}

// 多边形约束
const (
	// MaxVertices 单个环允许的最大顶点数
	MaxVertices = 1000
	// MinRingPoints 闭合环的最小坐标数（三角形 + 闭合点）
	MinRingPoints = 4
)

// Ring 返回外环坐标，多边形为空时返回 nil
func (p *Polygon) Ring() []Position {
	if p == nil || len(p.Coordinates) == 0 {
		return nil
	}
	return p.Coordinates[0]
}

// Validate 校验多边形结构：类型、环闭合、顶点数量
func (p *Polygon) Validate() error {
	if p == nil {
		return fmt.Errorf("geometry is required")
	}
	if p.Type != "Polygon" {
		return fmt.Errorf("geometry type must be Polygon, got %q", p.Type)
	}
	ring := p.Ring()
	if len(ring) < MinRingPoints {
		return fmt.Errorf("polygon ring must contain at least %d points, got %d", MinRingPoints, len(ring))
	}
	if len(ring) > MaxVertices {
		return fmt.Errorf("polygon ring exceeds %d vertices", MaxVertices)
	}
	if ring[0] != ring[len(ring)-1] {
		return fmt.Errorf("polygon ring must be closed")
	}
	return nil
}

// Contains 射线法判定点是否位于多边形外环内
// 边界上的点判定结果与射线方向相关，不作保证
func (p *Polygon) Contains(pt Point) bool {
	ring := p.Ring()
	if len(ring) < MinRingPoints {
		return false
	}
	// 闭合环的末尾点与起点重复，遍历时跳过
	n := len(ring) - 1
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i].Lng(), ring[i].Lat()
		xj, yj := ring[j].Lng(), ring[j].Lat()
		if (yi > pt.Lat) != (yj > pt.Lat) &&
			pt.Lng < (xj-xi)*(pt.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Value 实现 driver.Valuer，序列化为 jsonb
func (p Polygon) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner，从 jsonb 反序列化
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		*p = Polygon{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Polygon: %T", value)
	}
	return json.Unmarshal(data, p)
}
