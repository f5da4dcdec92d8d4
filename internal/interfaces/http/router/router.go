package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/infrastructure/config"
	"github.com/liquotrack/stocksip/internal/infrastructure/logger"
	"github.com/liquotrack/stocksip/internal/interfaces/http/handler"
	"github.com/liquotrack/stocksip/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers mounted on the router
type Handlers struct {
	System        *handler.SystemHandler
	Catalog       *handler.CatalogHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	SalesOrder    *handler.SalesOrderHandler
	Inventory     *handler.InventoryHandler
	Alert         *handler.AlertHandler
}

// New builds the gin engine with the full middleware chain and all routes
func New(cfg *config.Config, log *zap.Logger, handlers Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	accountConfig := middleware.DefaultAccountConfig()
	accountConfig.Logger = log
	engine.Use(middleware.AccountMiddlewareWithConfig(accountConfig))

	// Health endpoints live outside the versioned API and skip account checks
	engine.GET("/health", handlers.System.Health)
	engine.GET("/healthz", handlers.System.Health)

	api := engine.Group("/api/v1")

	registerSystemRoutes(api, handlers.System)
	registerCatalogRoutes(api, handlers.Catalog)
	registerPurchaseOrderRoutes(api, handlers.PurchaseOrder)
	registerSalesOrderRoutes(api, handlers.SalesOrder)
	registerInventoryRoutes(api, handlers.Inventory)
	registerAlertRoutes(api, handlers.Alert)

	return engine
}

func registerSystemRoutes(api *gin.RouterGroup, h *handler.SystemHandler) {
	system := api.Group("/system")
	system.GET("/info", h.GetSystemInfo)
	system.GET("/ping", h.Ping)
	system.GET("/db-stats", h.DBStats)
}

func registerCatalogRoutes(api *gin.RouterGroup, h *handler.CatalogHandler) {
	api.POST("/catalogs", h.Create)
	api.GET("/catalogs", h.List)
	api.GET("/catalogs/published", h.ListPublished)
	api.GET("/catalogs/published/:id", h.GetPublished)
	api.GET("/catalogs/:id", h.GetByID)
	api.PUT("/catalogs/:id", h.Update)
	api.POST("/catalogs/:id/items", h.AddItem)
	api.DELETE("/catalogs/:id/items/:product_id", h.RemoveItem)
	api.POST("/catalogs/:id/publish", h.Publish)
	api.POST("/catalogs/:id/unpublish", h.Unpublish)
}

func registerPurchaseOrderRoutes(api *gin.RouterGroup, h *handler.PurchaseOrderHandler) {
	api.POST("/purchase-orders", h.Create)
	api.GET("/purchase-orders", h.List)
	api.GET("/purchase-orders/code/:order_code", h.GetByOrderCode)
	api.GET("/purchase-orders/:id", h.GetByID)
	api.POST("/purchase-orders/:id/items", h.AddItem)
	api.PUT("/purchase-orders/:id/items/:product_id", h.UpdateItem)
	api.DELETE("/purchase-orders/:id/items/:product_id", h.RemoveItem)
	api.POST("/purchase-orders/:id/confirm", h.Confirm)
	api.POST("/purchase-orders/:id/ship", h.Ship)
	api.POST("/purchase-orders/:id/receive", h.Receive)
	api.POST("/purchase-orders/:id/send", h.MarkAsSent)
	api.POST("/purchase-orders/:id/cancel", h.Cancel)
	api.POST("/purchase-orders/:id/convert", h.ConvertToSalesOrder)
}

func registerSalesOrderRoutes(api *gin.RouterGroup, h *handler.SalesOrderHandler) {
	api.POST("/sales-orders", h.Create)
	api.GET("/sales-orders", h.List)
	api.GET("/sales-orders/code/:order_code", h.GetByOrderCode)
	api.GET("/sales-orders/:id", h.GetByID)
	api.POST("/sales-orders/:id/items", h.AddItem)
	api.DELETE("/sales-orders/:id/items/:product_id", h.RemoveItem)
	api.POST("/sales-orders/:id/delivery-proposal", h.ProposeDeliverySchedule)
	api.POST("/sales-orders/:id/delivery-proposal/respond", h.RespondToDeliveryProposal)
	api.PUT("/sales-orders/:id/status", h.UpdateStatus)
	api.POST("/sales-orders/:id/cancel", h.Cancel)
	api.POST("/sales-orders/replenishment/:catalog_id", h.GenerateReplenishment)
}

func registerInventoryRoutes(api *gin.RouterGroup, h *handler.InventoryHandler) {
	api.GET("/inventory", h.List)
	api.POST("/inventory/add", h.AddStock)
	api.POST("/inventory/decrease", h.DecreaseStock)
	api.POST("/inventory/transfer", h.Transfer)
	api.GET("/inventory/expiring", h.ListExpiring)
	api.GET("/inventory/exits", h.ListExits)
	api.GET("/inventory/transfers", h.ListTransfers)
	api.GET("/inventory/low-stock", h.ListLowStock)
	api.GET("/inventory/:id", h.GetByID)
	api.PUT("/inventory/:id/minimum-stock", h.SetMinimumStock)
}

func registerAlertRoutes(api *gin.RouterGroup, h *handler.AlertHandler) {
	api.GET("/alerts", h.List)
	api.GET("/alerts/unacknowledged/count", h.CountUnacknowledged)
	api.GET("/alerts/inventory/:inventory_id", h.ListByInventory)
	api.GET("/alerts/:id", h.GetByID)
	api.POST("/alerts/:id/acknowledge", h.Acknowledge)
	api.POST("/alerts/purge", h.Purge)
}
