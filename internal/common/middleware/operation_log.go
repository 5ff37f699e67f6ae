// Package middleware 提供 HTTP 中间件
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
)

// OperationLogger 操作审计日志中间件
// 记录对管理资源（菜单、配送区、促销码等）的写操作
type OperationLogger struct {
	repo *repository.OperationLogRepository
}

// NewOperationLogger 创建操作审计日志中间件
func NewOperationLogger(repo *repository.OperationLogRepository) *OperationLogger {
	return &OperationLogger{repo: repo}
}

// OperationConfig 操作配置
type OperationConfig struct {
	Module      string
	Action      string
	TargetType  string
	GetTargetID func(*gin.Context) *int64
}

// moduleActionMap 模块操作映射
var moduleActionMap = map[string]OperationConfig{
	"POST /api/categories": {
		Module:     "catalog",
		Action:     "create",
		TargetType: "category",
	},
	"PUT /api/categories/:id": {
		Module:     "catalog",
		Action:     "update",
		TargetType: "category",
	},
	"DELETE /api/categories/:id": {
		Module:     "catalog",
		Action:     "delete",
		TargetType: "category",
	},
	"POST /api/products": {
		Module:     "catalog",
		Action:     "create",
		TargetType: "product",
	},
	"PUT /api/products/:id": {
		Module:     "catalog",
		Action:     "update",
		TargetType: "product",
	},
	"PUT /api/products/:id/availability": {
		Module:     "catalog",
		Action:     "set_availability",
		TargetType: "product",
	},
	"DELETE /api/products/:id": {
		Module:     "catalog",
		Action:     "delete",
		TargetType: "product",
	},
	"POST /api/delivery-zones": {
		Module:     "delivery",
		Action:     "create",
		TargetType: "zone",
	},
	"PUT /api/delivery-zones/:id": {
		Module:     "delivery",
		Action:     "update",
		TargetType: "zone",
	},
	"DELETE /api/delivery-zones/:id": {
		Module:     "delivery",
		Action:     "delete",
		TargetType: "zone",
	},
	"PUT /api/delivery-zones/center": {
		Module: "delivery",
		Action: "update_center",
	},
	"POST /api/delivery-zones/recalculate-all": {
		Module: "delivery",
		Action: "recalculate",
	},
	"POST /api/promo-codes": {
		Module:     "promo",
		Action:     "create",
		TargetType: "promo_code",
	},
	"PUT /api/promo-codes/:id": {
		Module:     "promo",
		Action:     "update",
		TargetType: "promo_code",
	},
	"DELETE /api/promo-codes/:id": {
		Module:     "promo",
		Action:     "delete",
		TargetType: "promo_code",
	},
	"PUT /api/storefront/config": {
		Module: "storefront",
		Action: "update_config",
	},
}

// Log 操作审计日志中间件处理函数
func (l *OperationLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只记录写操作
		if !l.shouldLog(c) {
			c.Next()
			return
		}

		// 读取请求体
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// 执行处理
		c.Next()

		// 记录日志（异步）
		go l.logOperation(c, requestBody, c.Writer.Status())
	}
}

// shouldLog 判断是否需要记录日志
func (l *OperationLogger) shouldLog(c *gin.Context) bool {
	method := c.Request.Method
	// 只记录写操作
	return method == "POST" || method == "PUT" || method == "DELETE" || method == "PATCH"
}

// logOperation 记录操作日志
func (l *OperationLogger) logOperation(c *gin.Context, requestBody []byte, statusCode int) {
	if l.repo == nil {
		return
	}

	// 获取路由配置
	path := c.FullPath()
	routeKey := c.Request.Method + " " + path
	config, ok := moduleActionMap[routeKey]
	if !ok {
		// 尝试获取通用配置
		config = l.getDefaultConfig(c)
	}

	// 构建日志记录
	log := &models.OperationLog{
		Module:     config.Module,
		Action:     config.Action,
		Method:     c.Request.Method,
		Path:       path,
		IP:         c.ClientIP(),
		StatusCode: statusCode,
	}

	// 设置 User-Agent
	userAgent := c.Request.UserAgent()
	if userAgent != "" {
		log.UserAgent = &userAgent
	}

	// 设置目标类型和 ID
	if config.TargetType != "" {
		log.TargetType = &config.TargetType
		if config.GetTargetID != nil {
			log.TargetID = config.GetTargetID(c)
		} else if targetID := l.getTargetID(c); targetID != nil {
			log.TargetID = targetID
		}
	}

	// 设置请求数据
	if len(requestBody) > 0 {
		var data interface{}
		if err := json.Unmarshal(requestBody, &data); err == nil {
			// 过滤敏感字段
			filteredData := l.filterSensitiveData(data)
			if mapData, ok := filteredData.(map[string]interface{}); ok {
				log.RequestData = mapData
			}
		}
	}

	// 保存日志
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = l.repo.Create(ctx, log)
}

// getDefaultConfig 获取默认配置
func (l *OperationLogger) getDefaultConfig(c *gin.Context) OperationConfig {
	path := c.FullPath()
	method := c.Request.Method

	// 从路径推断模块
	module := "unknown"
	if strings.Contains(path, "/categories") || strings.Contains(path, "/products") ||
		strings.Contains(path, "/modifiers") || strings.Contains(path, "/product-tags") ||
		strings.Contains(path, "/combos") || strings.Contains(path, "/menu-items") {
		module = "catalog"
	} else if strings.Contains(path, "/delivery-zones") {
		module = "delivery"
	} else if strings.Contains(path, "/promo-codes") {
		module = "promo"
	} else if strings.Contains(path, "/customer") {
		module = "customer"
	} else if strings.Contains(path, "/storefront") {
		module = "storefront"
	} else if strings.Contains(path, "/orders") {
		module = "order"
	}

	// 从方法推断操作
	action := "unknown"
	switch method {
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	}

	return OperationConfig{
		Module: module,
		Action: action,
	}
}

// getTargetID 从路径参数获取目标 ID
func (l *OperationLogger) getTargetID(c *gin.Context) *int64 {
	idStr := c.Param("id")
	if idStr == "" {
		return nil
	}

	if id, err := json.Number(idStr).Int64(); err == nil {
		return &id
	}
	return nil
}

// filterSensitiveData 过滤敏感数据
func (l *OperationLogger) filterSensitiveData(data interface{}) interface{} {
	sensitiveFields := []string{
		"password", "token", "access_token",
		"secret", "api_key", "api_secret",
	}

	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for key, value := range v {
			lowerKey := strings.ToLower(key)
			isSensitive := false
			for _, sf := range sensitiveFields {
				if strings.Contains(lowerKey, sf) {
					isSensitive = true
					break
				}
			}
			if isSensitive {
				result[key] = "***"
			} else {
				result[key] = l.filterSensitiveData(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = l.filterSensitiveData(item)
		}
		return result
	default:
		return data
	}
}
