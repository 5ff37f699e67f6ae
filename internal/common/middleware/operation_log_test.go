package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/repository"
)

func setupOperationLogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(&models.OperationLog{}))
	return db
}

func waitForOperationLog(t *testing.T, db *gorm.DB, where string, args ...interface{}) *models.OperationLog {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var log models.OperationLog
		err := db.Where(where, args...).Order("id DESC").First(&log).Error
		if err == nil {
			return &log
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("operation log not created: %s", where)
	return nil
}

func TestOperationLogger_LogsWriteOperations_WithActionMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupOperationLogTestDB(t)

	repo := repository.NewOperationLogRepository(db)
	op := NewOperationLogger(repo)

	r := gin.New()
	api := r.Group("/api")
	api.Use(op.Log())

	api.POST("/products", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"code": 0}) })
	api.PUT("/products/:id/availability", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"code": 0}) })

	body, _ := json.Marshal(map[string]interface{}{"name": "Борщ", "price": 145})
	req, _ := http.NewRequest("POST", "/api/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	log := waitForOperationLog(t, db, "module = ? AND action = ?", "catalog", "create")
	require.NotNil(t, log.TargetType)
	assert.Equal(t, "product", *log.TargetType)
	assert.Nil(t, log.TargetID)
	assert.Equal(t, http.StatusOK, log.StatusCode)
	assert.Equal(t, "Борщ", log.RequestData["name"])

	availBody, _ := json.Marshal(map[string]interface{}{"available": false})
	req2, _ := http.NewRequest("PUT", "/api/products/123/availability", bytes.NewBuffer(availBody))
	req2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)

	log2 := waitForOperationLog(t, db, "module = ? AND action = ? AND target_id = ?", "catalog", "set_availability", 123)
	require.NotNil(t, log2.TargetID)
	assert.Equal(t, int64(123), *log2.TargetID)
}

func TestOperationLogger_SkipsReadOperations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupOperationLogTestDB(t)

	repo := repository.NewOperationLogRepository(db)
	op := NewOperationLogger(repo)

	r := gin.New()
	api := r.Group("/api")
	api.Use(op.Log())
	api.GET("/products", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"code": 0}) })

	req, _ := http.NewRequest("GET", "/api/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(100 * time.Millisecond)
	var count int64
	require.NoError(t, db.Model(&models.OperationLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOperationLogger_FallbackConfigForUnmappedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupOperationLogTestDB(t)

	repo := repository.NewOperationLogRepository(db)
	op := NewOperationLogger(repo)

	r := gin.New()
	api := r.Group("/api")
	api.Use(op.Log())
	api.DELETE("/customer-categories/:id", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"code": 0}) })

	req, _ := http.NewRequest("DELETE", "/api/customer-categories/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	log := waitForOperationLog(t, db, "module = ? AND action = ?", "customer", "delete")
	assert.Equal(t, "DELETE", log.Method)
}
