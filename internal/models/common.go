// Package models 定义数据库模型
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 通用 JSON 字段类型，映射到 jsonb 列
type JSON map[string]interface{}

// Value 实现 driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSON: %T", value)
	}
	return json.Unmarshal(data, j)
}

// JSONArray JSON 数组字段类型，映射到 jsonb 列
type JSONArray []interface{}

// Value 实现 driver.Valuer
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONArray: %T", value)
	}
	return json.Unmarshal(data, j)
}

// Int64Array int64 数组字段类型，映射到 jsonb 列
// 用于存储关联 ID 列表（商品的修饰组、客户的分类等）
type Int64Array []int64

// Value 实现 driver.Valuer
func (a Int64Array) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]int64{})
	}
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner
func (a *Int64Array) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Int64Array: %T", value)
	}
	return json.Unmarshal(data, a)
}

// Contains 判断数组是否包含指定 ID
func (a Int64Array) Contains(id int64) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}
