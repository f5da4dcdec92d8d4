package alerting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// ProductWithoutStockHandler handles ProductWithoutStockDetectedEvent and
// raises a critical out-of-stock alert
type ProductWithoutStockHandler struct {
	alertCreator alerting.AlertCreator
	logger       *zap.Logger
}

// NewProductWithoutStockHandler creates a new handler for out-of-stock events
func NewProductWithoutStockHandler(
	alertCreator alerting.AlertCreator,
	logger *zap.Logger,
) *ProductWithoutStockHandler {
	return &ProductWithoutStockHandler{
		alertCreator: alertCreator,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductWithoutStockHandler) EventTypes() []string {
	return []string{inventory.EventTypeProductWithoutStockDetected}
}

// Handle processes a ProductWithoutStockDetectedEvent by creating a
// critical alert for the emptied ledger record
func (h *ProductWithoutStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	stockEvent, ok := event.(*inventory.ProductWithoutStockDetectedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeProductWithoutStockDetected),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeProductWithoutStockDetected, event.EventType())
	}

	title := "Product out of stock"
	message := fmt.Sprintf("Product %s in warehouse %s does not have any stock left.",
		stockEvent.ProductID, stockEvent.WarehouseID)

	alertID, err := h.alertCreator.CreateAlert(ctx, event.AccountID(), stockEvent.InventoryID,
		title, message, alerting.SeverityCritical, alerting.AlertTypeProductOutOfStock)
	if err != nil {
		h.logger.Error("failed to create out-of-stock alert",
			zap.String("inventory_id", stockEvent.InventoryID.String()),
			zap.String("product_id", stockEvent.ProductID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to create alert: %w", err)
	}

	h.logger.Info("out-of-stock alert created",
		zap.String("alert_id", alertID.String()),
		zap.String("inventory_id", stockEvent.InventoryID.String()),
		zap.String("product_id", stockEvent.ProductID.String()),
		zap.String("warehouse_id", stockEvent.WarehouseID.String()),
	)

	return nil
}

// Ensure ProductWithoutStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductWithoutStockHandler)(nil)
