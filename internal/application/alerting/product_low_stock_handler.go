package alerting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// ProductLowStockHandler handles ProductWithLowStockDetectedEvent and
// raises a warning low-stock alert
type ProductLowStockHandler struct {
	alertCreator alerting.AlertCreator
	logger       *zap.Logger
}

// NewProductLowStockHandler creates a new handler for low-stock events
func NewProductLowStockHandler(
	alertCreator alerting.AlertCreator,
	logger *zap.Logger,
) *ProductLowStockHandler {
	return &ProductLowStockHandler{
		alertCreator: alertCreator,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductLowStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeProductWithLowStockDetected}
}

// Handle processes a ProductWithLowStockDetectedEvent by creating a
// warning alert for the ledger record that crossed its threshold
func (h *ProductLowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	stockEvent, ok := event.(*inventory.ProductWithLowStockDetectedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeProductWithLowStockDetected),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeProductWithLowStockDetected, event.EventType())
	}

	title := "Product running low on stock"
	message := fmt.Sprintf("Product %s in warehouse %s is running low: %s remaining (minimum %s).",
		stockEvent.ProductID, stockEvent.WarehouseID,
		stockEvent.Quantity.String(), stockEvent.MinimumStock.String())

	alertID, err := h.alertCreator.CreateAlert(ctx, event.AccountID(), stockEvent.InventoryID,
		title, message, alerting.SeverityWarning, alerting.AlertTypeProductLowStock)
	if err != nil {
		h.logger.Error("failed to create low-stock alert",
			zap.String("inventory_id", stockEvent.InventoryID.String()),
			zap.String("product_id", stockEvent.ProductID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to create alert: %w", err)
	}

	h.logger.Info("low-stock alert created",
		zap.String("alert_id", alertID.String()),
		zap.String("inventory_id", stockEvent.InventoryID.String()),
		zap.String("product_id", stockEvent.ProductID.String()),
		zap.String("warehouse_id", stockEvent.WarehouseID.String()),
		zap.String("quantity", stockEvent.Quantity.String()),
	)

	return nil
}

// Ensure ProductLowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductLowStockHandler)(nil)
