package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the supply platform.
// It tracks order creation, stock alerts, and inventory health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal *Counter
	orderAmountTotal  *Counter
	stockAlertTotal   *Counter

	// Gauge metrics (point-in-time values)
	inventoryLowStockCount  *Gauge
	unacknowledgedAlerts    *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	inventoryProvider InventoryMetricsProvider
}

// InventoryMetricsProvider provides inventory data for periodic metrics
// collection. The interface lets the telemetry layer query inventory state
// without depending on the inventory domain directly.
type InventoryMetricsProvider interface {
	// GetLowStockCount returns the count of ledger records at or below
	// their minimum threshold for an account.
	GetLowStockCount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// GetUnacknowledgedAlertCount returns the number of open alerts for an account.
	GetUnacknowledgedAlertCount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	InventoryProvider InventoryMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		inventoryProvider: cfg.InventoryProvider,
	}

	var err error

	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"stocksip_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"stocksip_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockAlertTotal, err = NewCounter(
		cfg.Meter,
		"stocksip_stock_alert_total",
		"Total number of stock alerts raised",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	bm.inventoryLowStockCount, err = NewGauge(
		cfg.Meter,
		"stocksip_inventory_low_stock_count",
		"Number of ledger records below minimum stock threshold",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	bm.unacknowledgedAlerts, err = NewGauge(
		cfg.Meter,
		"stocksip_alerts_unacknowledged",
		"Number of alerts awaiting acknowledgement",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// OrderType represents the type of order for metrics labeling.
type OrderType string

const (
	OrderTypeSales    OrderType = "sales"
	OrderTypePurchase OrderType = "purchase"
)

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, accountID uuid.UUID, orderType OrderType) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrAccountID.String(accountID.String()),
		AttrOrderType.String(string(orderType)),
	)
}

// RecordOrderAmount records the order amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, accountID uuid.UUID, orderType OrderType, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents,
		AttrAccountID.String(accountID.String()),
		AttrOrderType.String(string(orderType)),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, accountID uuid.UUID, orderType OrderType, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, accountID, orderType)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, accountID, orderType, amountCents)
}

// =============================================================================
// Alert Metrics
// =============================================================================

// RecordStockAlert records a stock alert being raised.
// This should be called when the alerting context creates an alert.
func (bm *BusinessMetrics) RecordStockAlert(ctx context.Context, accountID uuid.UUID, severity string) {
	bm.stockAlertTotal.Inc(ctx,
		AttrAccountID.String(accountID.String()),
		AttrAlertSeverity.String(severity),
	)
}

// RecordLowStockCount records the number of ledger records below their
// minimum threshold. This is a gauge metric updated periodically.
func (bm *BusinessMetrics) RecordLowStockCount(ctx context.Context, accountID uuid.UUID, count int64) {
	bm.inventoryLowStockCount.Record(ctx, count,
		AttrAccountID.String(accountID.String()),
	)
}

// RecordUnacknowledgedAlerts records the number of open alerts for an account.
func (bm *BusinessMetrics) RecordUnacknowledgedAlerts(ctx context.Context, accountID uuid.UUID, count int64) {
	bm.unacknowledgedAlerts.Record(ctx, count,
		AttrAccountID.String(accountID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// AccountProvider provides account IDs for periodic metrics collection.
type AccountProvider interface {
	GetActiveAccountIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, accountProvider AccountProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, accountProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, accountProvider AccountProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectInventoryMetrics(ctx, accountProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectInventoryMetrics(ctx, accountProvider)
		}
	}
}

func (bm *BusinessMetrics) collectInventoryMetrics(ctx context.Context, accountProvider AccountProvider) {
	if bm.inventoryProvider == nil {
		bm.logger.Debug("No inventory provider configured, skipping inventory metrics collection")
		return
	}

	accountIDs, err := accountProvider.GetActiveAccountIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get account IDs for metrics collection", zap.Error(err))
		return
	}

	for _, accountID := range accountIDs {
		bm.collectAccountInventoryMetrics(ctx, accountID)
	}
}

func (bm *BusinessMetrics) collectAccountInventoryMetrics(ctx context.Context, accountID uuid.UUID) {
	lowStockCount, err := bm.inventoryProvider.GetLowStockCount(ctx, accountID)
	if err != nil {
		bm.logger.Warn("Failed to get low stock count for account",
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordLowStockCount(ctx, accountID, lowStockCount)
	}

	alertCount, err := bm.inventoryProvider.GetUnacknowledgedAlertCount(ctx, accountID)
	if err != nil {
		bm.logger.Warn("Failed to get unacknowledged alert count for account",
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordUnacknowledgedAlerts(ctx, accountID, alertCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
