// Package main 是应用程序入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/common/cache"
	"github.com/VladDeliar/PoS/internal/common/config"
	"github.com/VladDeliar/PoS/internal/common/database"
	"github.com/VladDeliar/PoS/internal/common/logger"
	"github.com/VladDeliar/PoS/internal/common/metrics"
	"github.com/VladDeliar/PoS/internal/common/tracing"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/scheduler"
	"github.com/VladDeliar/PoS/internal/store"
	"github.com/VladDeliar/PoS/internal/store/demo"
)

func main() {
	// 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting POS Backend",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Mode),
	)

	// 初始化监控
	if cfg.Metrics.Enabled {
		metrics.Init("pos")
	}

	// 初始化链路追踪
	if cfg.Tracing.Enabled {
		tracer, err := tracing.Init(&tracing.Config{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: "1.0.0",
			Environment:    cfg.Server.Mode,
			Endpoint:       cfg.Tracing.Endpoint,
			SampleRate:     cfg.Tracing.SampleRate,
			Enabled:        true,
		})
		if err != nil {
			log.Warn("Failed to init tracing", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tracer.Shutdown(ctx)
			}()
		}
	}

	// 初始化数据库连接；不可用且开启演示模式时回退到内置演示数据
	var (
		db     *gorm.DB
		stores *store.Stores
	)
	db, err = database.Init(&cfg.Database)
	if err != nil {
		if !cfg.Business.DemoMode {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		log.Warn("Database unavailable, falling back to demo data", zap.Error(err))
		stores = demo.NewStores(
			cfg.Business.Delivery.DefaultCenterLat,
			cfg.Business.Delivery.DefaultCenterLng,
			cfg.Business.Delivery.DefaultCenterAddress,
		)
	} else {
		log.Info("Database connected successfully")
		if err := migrate(db); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		stores = store.NewGormStores(db)
	}

	// 初始化 Redis 连接；失败时缓存降级为直读数据库
	var redisClient *redis.Client
	redisClient, err = cache.Init(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info("Redis connected successfully")
	}

	// 初始化业务服务
	svcs := buildServices(cfg, log, stores)

	// 启动定时任务
	sched := scheduler.NewScheduler()
	scheduler.SetupTasks(sched, scheduler.NewTaskHandler(stores.Promos, svcs.Menu))
	sched.Start()
	defer sched.Stop()

	// 设置 Gin 模式
	if cfg.Server.Mode == "production" || cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 设置路由
	setupRouter(engine, cfg, log, svcs, db, redisClient)

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 创建超时上下文用于优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 关闭数据库连接
	if db != nil {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}

	log.Info("Server exited")
}

// migrate 执行数据库结构迁移
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ModifierGroup{},
		&models.ProductTag{},
		&models.Combo{},
		&models.MenuItem{},
		&models.DeliveryZone{},
		&models.DeliveryCenter{},
		&models.PromoCode{},
		&models.Customer{},
		&models.CustomerCategory{},
		&models.Order{},
		&models.OrderCounter{},
		&models.Feedback{},
		&models.StorefrontConfig{},
		&models.OperationLog{},
	)
}
