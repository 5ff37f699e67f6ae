// Package main 是应用程序入口
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VladDeliar/PoS/internal/common/config"
	"github.com/VladDeliar/PoS/internal/common/metrics"
	commonMiddleware "github.com/VladDeliar/PoS/internal/common/middleware"
	catalogHandler "github.com/VladDeliar/PoS/internal/handler/catalog"
	customerHandler "github.com/VladDeliar/PoS/internal/handler/customer"
	deliveryHandler "github.com/VladDeliar/PoS/internal/handler/delivery"
	marketingHandler "github.com/VladDeliar/PoS/internal/handler/marketing"
	orderHandler "github.com/VladDeliar/PoS/internal/handler/order"
	storefrontHandler "github.com/VladDeliar/PoS/internal/handler/storefront"
	"github.com/VladDeliar/PoS/internal/middleware"
	"github.com/VladDeliar/PoS/internal/repository"
	catalogService "github.com/VladDeliar/PoS/internal/service/catalog"
	customerService "github.com/VladDeliar/PoS/internal/service/customer"
	deliveryService "github.com/VladDeliar/PoS/internal/service/delivery"
	feedbackService "github.com/VladDeliar/PoS/internal/service/feedback"
	marketingService "github.com/VladDeliar/PoS/internal/service/marketing"
	orderService "github.com/VladDeliar/PoS/internal/service/order"
	storefrontService "github.com/VladDeliar/PoS/internal/service/storefront"
	tableService "github.com/VladDeliar/PoS/internal/service/table"
	"github.com/VladDeliar/PoS/internal/store"
	"github.com/VladDeliar/PoS/pkg/geocode"
	"github.com/VladDeliar/PoS/pkg/telegram"
)

// services 聚合全部业务服务，供路由与调度器共用
type services struct {
	Zone       *deliveryService.ZoneService
	Customer   *customerService.CustomerService
	Promo      *marketingService.PromoService
	Order      *orderService.OrderService
	Category   *catalogService.CategoryService
	Product    *catalogService.ProductService
	Modifier   *catalogService.ModifierService
	Combo      *catalogService.ComboService
	Menu       *catalogService.MenuService
	Feedback   *feedbackService.FeedbackService
	Storefront *storefrontService.StorefrontService
	TableQR    *tableService.QRService
}

// buildServices 初始化全部业务服务
func buildServices(cfg *config.Config, logger *zap.Logger, stores *store.Stores) *services {
	// 地理编码客户端：无 API 密钥时使用 Mock（本地开发）
	var geocoder geocode.Geocoder
	if cfg.Business.Geocoder.APIKey != "" {
		geocoder = geocode.NewGoogleGeocoder(geocode.Config{
			APIKey:   cfg.Business.Geocoder.APIKey,
			Locality: cfg.Business.Geocoder.Locality,
			Region:   cfg.Business.Geocoder.Region,
			Language: cfg.Business.Geocoder.Language,
			Timeout:  cfg.Business.Geocoder.TimeoutDuration(),
		})
	} else {
		logger.Warn("Geocoder API key not set, using mock geocoder")
		geocoder = geocode.NewMockGeocoder()
	}

	// Telegram 通知
	var notifier telegram.Sender
	if cfg.Business.Telegram.Enabled {
		sender, err := telegram.NewBotSender(cfg.Business.Telegram.Token, cfg.Business.Telegram.ChatID)
		if err != nil {
			logger.Warn("Failed to init telegram notifier", zap.Error(err))
		} else {
			notifier = sender
		}
	}

	zoneSvc := deliveryService.NewZoneService(stores.Zones, stores.Center, geocoder, &cfg.Business.Delivery)
	customerSvc := customerService.NewCustomerService(stores.Customers, stores.CustomerCategories)
	promoSvc := marketingService.NewPromoService(stores.Promos)
	orderSvc := orderService.NewOrderService(stores, customerSvc, zoneSvc, &cfg.Business.Payment, notifier)

	categorySvc := catalogService.NewCategoryService(stores.Categories)
	productSvc := catalogService.NewProductService(stores.Products, stores.Categories)
	modifierSvc := catalogService.NewModifierService(stores.Modifiers, stores.Tags)
	comboSvc := catalogService.NewComboService(stores.Combos, stores.Products, stores.MenuItems)
	menuSvc := catalogService.NewMenuService(categorySvc, modifierSvc, stores.Products, stores.Combos, stores.MenuItems)

	return &services{
		Zone:       zoneSvc,
		Customer:   customerSvc,
		Promo:      promoSvc,
		Order:      orderSvc,
		Category:   categorySvc,
		Product:    productSvc,
		Modifier:   modifierSvc,
		Combo:      comboSvc,
		Menu:       menuSvc,
		Feedback:   feedbackService.NewFeedbackService(stores.Feedbacks),
		Storefront: storefrontService.NewStorefrontService(stores.Storefront, &cfg.Business.Restaurant),
		TableQR:    tableService.NewQRService(cfg.Server.PublicBaseURL),
	}
}

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	svcs *services,
	db *gorm.DB,
	redisClient *redis.Client,
) {
	// 初始化处理器
	catalogH := catalogHandler.NewCatalogHandler(svcs.Category, svcs.Product, svcs.Modifier, svcs.Combo, svcs.Menu)
	orderH := orderHandler.NewOrderHandler(svcs.Order)
	zoneH := deliveryHandler.NewZoneHandler(svcs.Zone)
	promoH := marketingHandler.NewPromoHandler(svcs.Promo)
	customerH := customerHandler.NewCustomerHandler(svcs.Customer)
	storefrontH := storefrontHandler.NewStorefrontHandler(svcs.Storefront, svcs.Feedback, svcs.TableQR)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(&middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	r.Use(middleware.AccessLog(logger))

	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
		}))
	}

	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			rateCfg := middleware.DefaultRateLimitConfig(redisClient)
			rateCfg.Limit = cfg.RateLimit.RequestsPerSecond
			r.Use(middleware.RateLimit(rateCfg))
		} else {
			r.Use(middleware.LocalRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// 店面配置文档是最大的合法请求体，1 MB 足够
	api.Use(middleware.RequestSizeLimiter(1 << 20))

	// 管理写操作审计日志（仅数据库可用时）
	if db != nil {
		opLogger := commonMiddleware.NewOperationLogger(repository.NewOperationLogRepository(db))
		api.Use(opLogger.Log())
	}

	{
		// ==================== 店面公开接口 ====================
		api.GET("/menu", catalogH.GetMenu)
		api.GET("/storefront", storefrontH.GetStorefront)
		api.POST("/feedbacks", storefrontH.CreateFeedback)
		api.GET("/feedbacks", storefrontH.ListFeedbacks)
		api.PUT("/storefront/config", storefrontH.PutConfig)

		// 餐桌二维码
		api.GET("/tables/:number/qr", storefrontH.GetTableQR)
		api.GET("/tables/:number/qr/image", storefrontH.GetTableQRImage)

		// ==================== 菜单目录 ====================
		api.GET("/categories", catalogH.ListCategories)
		api.POST("/categories", catalogH.CreateCategory)
		api.PUT("/categories/:id", catalogH.UpdateCategory)
		api.DELETE("/categories/:id", catalogH.DeleteCategory)

		api.GET("/products", catalogH.ListProducts)
		api.POST("/products", catalogH.CreateProduct)
		api.GET("/products/:id", catalogH.GetProduct)
		api.PUT("/products/:id", catalogH.UpdateProduct)
		api.DELETE("/products/:id", catalogH.DeleteProduct)
		api.PUT("/products/:id/availability", catalogH.SetAvailability)

		api.GET("/modifiers", catalogH.ListModifiers)
		api.POST("/modifiers", catalogH.CreateModifier)
		api.GET("/modifiers/:id", catalogH.GetModifier)
		api.PUT("/modifiers/:id", catalogH.UpdateModifier)
		api.DELETE("/modifiers/:id", catalogH.DeleteModifier)

		api.GET("/product-tags", catalogH.ListTags)
		api.POST("/product-tags", catalogH.CreateTag)
		api.PUT("/product-tags/:id", catalogH.UpdateTag)
		api.DELETE("/product-tags/:id", catalogH.DeleteTag)

		api.GET("/combos", catalogH.ListCombos)
		api.POST("/combos", catalogH.CreateCombo)
		api.GET("/combos/:id", catalogH.GetCombo)
		api.PUT("/combos/:id", catalogH.UpdateCombo)
		api.DELETE("/combos/:id", catalogH.DeleteCombo)

		api.GET("/menu-items", catalogH.ListMenuItems)
		api.POST("/menu-items", catalogH.CreateMenuItem)
		api.PUT("/menu-items/:id", catalogH.UpdateMenuItem)
		api.DELETE("/menu-items/:id", catalogH.DeleteMenuItem)

		// ==================== 订单 ====================
		api.POST("/orders", orderH.CreateOrder)
		api.GET("/orders", orderH.ListOrders)
		api.GET("/orders/:id", orderH.GetOrder)
		api.GET("/orders/track/:number", orderH.TrackOrder)
		api.PUT("/orders/:id/status", orderH.UpdateStatus)
		api.PUT("/orders/:id/payment", orderH.UpdatePayment)
		api.POST("/orders/:id/call-waiter", orderH.CallWaiter)

		api.GET("/production-status", orderH.ProductionStatus)
		api.GET("/stats/dashboard", orderH.Dashboard)

		// ==================== 配送区 ====================
		api.GET("/delivery-zones", zoneH.ListZones)
		api.POST("/delivery-zones", zoneH.CreateZone)
		api.GET("/delivery-zones/center", zoneH.GetCenter)
		api.PUT("/delivery-zones/center", zoneH.UpdateCenter)
		api.POST("/delivery-zones/recalculate-all", zoneH.RecalculateAll)
		api.POST("/delivery-zones/detect", zoneH.DetectByAddress)
		api.POST("/delivery-zones/detect-coordinates", zoneH.DetectByCoordinates)
		api.GET("/delivery-zones/:id", zoneH.GetZone)
		api.PUT("/delivery-zones/:id", zoneH.UpdateZone)
		api.DELETE("/delivery-zones/:id", zoneH.DeleteZone)

		// ==================== 促销码 ====================
		api.GET("/promo-codes", promoH.ListPromos)
		api.POST("/promo-codes", promoH.CreatePromo)
		api.POST("/promo-codes/validate", promoH.ValidatePromo)
		api.GET("/promo-codes/:id", promoH.GetPromo)
		api.PUT("/promo-codes/:id", promoH.UpdatePromo)
		api.DELETE("/promo-codes/:id", promoH.DeletePromo)

		// ==================== 客户 ====================
		api.GET("/customers", customerH.ListCustomers)
		api.POST("/customers", customerH.CreateCustomer)
		api.GET("/customers/lookup/:phone", customerH.Lookup)
		api.GET("/customers/:id", customerH.GetCustomer)
		api.PUT("/customers/:id", customerH.UpdateCustomer)
		api.DELETE("/customers/:id", customerH.DeleteCustomer)

		api.GET("/customer-categories", customerH.ListCategories)
		api.POST("/customer-categories", customerH.CreateCategory)
		api.PUT("/customer-categories/:id", customerH.UpdateCategory)
		api.DELETE("/customer-categories/:id", customerH.DeleteCategory)
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "Маршрут не знайдено",
		})
	})
}
