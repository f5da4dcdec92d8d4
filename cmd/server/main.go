package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	alertingapp "github.com/liquotrack/stocksip/internal/application/alerting"
	inventoryapp "github.com/liquotrack/stocksip/internal/application/inventory"
	procurementapp "github.com/liquotrack/stocksip/internal/application/procurement"
	salesapp "github.com/liquotrack/stocksip/internal/application/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/infrastructure/cache"
	"github.com/liquotrack/stocksip/internal/infrastructure/config"
	"github.com/liquotrack/stocksip/internal/infrastructure/event"
	"github.com/liquotrack/stocksip/internal/infrastructure/logger"
	"github.com/liquotrack/stocksip/internal/infrastructure/persistence"
	"github.com/liquotrack/stocksip/internal/infrastructure/scheduler"
	"github.com/liquotrack/stocksip/internal/infrastructure/telemetry"
	"github.com/liquotrack/stocksip/internal/interfaces/http/handler"
	"github.com/liquotrack/stocksip/internal/interfaces/http/router"
)

// version is injected at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting StockSip",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database query tracing via otelgorm
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// OpenTelemetry metrics
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Initialize repositories
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	exitRepo := persistence.NewGormProductExitRepository(db.DB)
	transferRepo := persistence.NewGormProductTransferRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Inject outbox publisher into repositories that persist domain events
	catalogRepo.SetOutboxEventSaver(outboxPublisher)
	purchaseOrderRepo.SetOutboxEventSaver(outboxPublisher)
	salesOrderRepo.SetOutboxEventSaver(outboxPublisher)
	inventoryRepo.SetOutboxEventSaver(outboxPublisher)

	// Initialize application services
	catalogService := procurementapp.NewCatalogService(catalogRepo)
	purchaseOrderService := procurementapp.NewPurchaseOrderService(purchaseOrderRepo, catalogRepo)
	salesOrderService := salesapp.NewSalesOrderService(salesOrderRepo, purchaseOrderRepo, catalogRepo)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, exitRepo, transferRepo)
	alertService := alertingapp.NewAlertService(alertRepo)

	// Replenishment proposals read the inventory ledger across contexts
	salesOrderService.SetLowStockProvider(inventoryService)

	// Business metrics (order counters plus periodic inventory gauges)
	if meterProvider.IsEnabled() {
		meter := meterProvider.Meter("stocksip")
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:           meter,
			Logger:          log,
			CollectInterval: cfg.Telemetry.MetricsCollectInterval,
			InventoryProvider: &inventoryMetricsProvider{
				inventoryService: inventoryService,
				alertService:     alertService,
			},
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			purchaseOrderService.SetBusinessMetrics(businessMetrics)
			salesOrderService.SetBusinessMetrics(businessMetrics)
			alertService.SetBusinessMetrics(businessMetrics)

			businessMetrics.StartPeriodicCollection(
				context.Background(),
				&ledgerAccountProvider{inventoryRepo: inventoryRepo},
				cfg.Telemetry.MetricsCollectInterval,
			)
			defer businessMetrics.Stop()
		}
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Idempotency store keeps redelivered outbox events from double-applying.
	// Redis when reachable, in-memory otherwise.
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Cross-context event handlers
	purchaseOrderConfirmedHandler := salesapp.NewPurchaseOrderConfirmedHandler(salesOrderService, log)
	salesOrderDeliveredHandler := salesapp.NewSalesOrderDeliveredHandler(catalogService, log)
	purchaseOrderReceivedHandler := inventoryapp.NewPurchaseOrderReceivedHandler(inventoryService, log)
	productLowStockHandler := alertingapp.NewProductLowStockHandler(alertService, log)
	productWithoutStockHandler := alertingapp.NewProductWithoutStockHandler(alertService, log)

	handlersToWrap := []shared.EventHandler{
		purchaseOrderConfirmedHandler,
		salesOrderDeliveredHandler,
		purchaseOrderReceivedHandler,
		productLowStockHandler,
		productWithoutStockHandler,
	}
	for _, h := range event.WrapHandlersWithIdempotency(handlersToWrap, idempotencyStore, log) {
		eventBus.Subscribe(h)
	}

	log.Info("Event handlers registered",
		zap.Strings("purchase_order_confirmed_events", purchaseOrderConfirmedHandler.EventTypes()),
		zap.Strings("sales_order_delivered_events", salesOrderDeliveredHandler.EventTypes()),
		zap.Strings("purchase_order_received_events", purchaseOrderReceivedHandler.EventTypes()),
		zap.Strings("product_low_stock_events", productLowStockHandler.EventTypes()),
		zap.Strings("product_without_stock_events", productWithoutStockHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor drains persisted events onto the bus
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		}
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Acknowledged alert housekeeping
	alertPurgeScheduler := scheduler.NewAlertPurgeScheduler(alertService, log, scheduler.AlertPurgeSchedulerConfig{
		Enabled:   cfg.Alert.PurgeEnabled,
		Interval:  cfg.Alert.PurgeInterval,
		Retention: cfg.Alert.PurgeRetention,
	})
	if err := alertPurgeScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start alert purge scheduler", zap.Error(err))
	}
	defer func() {
		if err := alertPurgeScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping alert purge scheduler", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers and router
	engine := router.New(cfg, log, router.Handlers{
		System:        handler.NewSystemHandler(db, version),
		Catalog:       handler.NewCatalogHandler(catalogService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService, salesOrderService),
		SalesOrder:    handler.NewSalesOrderHandler(salesOrderService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Alert:         handler.NewAlertHandler(alertService),
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// inventoryMetricsProvider feeds the inventory gauges from the application
// services.
type inventoryMetricsProvider struct {
	inventoryService *inventoryapp.InventoryService
	alertService     *alertingapp.AlertService
}

func (p *inventoryMetricsProvider) GetLowStockCount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	items, err := p.inventoryService.GetLowStockItems(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (p *inventoryMetricsProvider) GetUnacknowledgedAlertCount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return p.alertService.CountUnacknowledged(ctx, accountID)
}

// ledgerAccountProvider enumerates accounts with ledger records so the
// periodic collector knows which accounts to sample.
type ledgerAccountProvider struct {
	inventoryRepo *persistence.GormInventoryRepository
}

func (p *ledgerAccountProvider) GetActiveAccountIDs(ctx context.Context) ([]uuid.UUID, error) {
	return p.inventoryRepo.ListAccountIDs(ctx)
}
