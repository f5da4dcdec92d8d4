package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// PurchaseOrderReceivedHandler handles PurchaseOrderReceivedEvent and adds
// the received goods to the buyer's warehouse ledger
type PurchaseOrderReceivedHandler struct {
	inventoryService *InventoryService
	logger           *zap.Logger
}

// NewPurchaseOrderReceivedHandler creates a new handler for purchase order received events
func NewPurchaseOrderReceivedHandler(
	inventoryService *InventoryService,
	logger *zap.Logger,
) *PurchaseOrderReceivedHandler {
	return &PurchaseOrderReceivedHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderReceivedHandler) EventTypes() []string {
	return []string{procurement.EventTypePurchaseOrderReceived}
}

// Handle processes a PurchaseOrderReceivedEvent by stocking each received
// line item into the order's destination warehouse. Orders without a
// destination warehouse are skipped; the stock must be booked manually.
func (h *PurchaseOrderReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	receivedEvent, ok := event.(*procurement.PurchaseOrderReceivedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", procurement.EventTypePurchaseOrderReceived),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypePurchaseOrderReceived, event.EventType())
	}

	if receivedEvent.WarehouseID == nil {
		h.logger.Warn("received order has no destination warehouse, skipping stock booking",
			zap.String("order_id", receivedEvent.OrderID.String()),
			zap.String("order_code", receivedEvent.OrderCode),
		)
		return nil
	}

	h.logger.Info("processing purchase order received event",
		zap.String("order_id", receivedEvent.OrderID.String()),
		zap.String("order_code", receivedEvent.OrderCode),
		zap.String("warehouse_id", receivedEvent.WarehouseID.String()),
		zap.Int("items_count", len(receivedEvent.Items)),
	)

	var lastErr error
	successCount := 0
	for _, item := range receivedEvent.Items {
		req := AddStockRequest{
			ProductID:   item.ProductID,
			WarehouseID: *receivedEvent.WarehouseID,
			Quantity:    item.Quantity,
		}

		if _, err := h.inventoryService.AddStock(ctx, event.AccountID(), req); err != nil {
			h.logger.Error("failed to add stock for received item",
				zap.String("order_id", receivedEvent.OrderID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.String("quantity", item.Quantity.String()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		successCount++
	}

	h.logger.Info("purchase order stock booking completed",
		zap.String("order_id", receivedEvent.OrderID.String()),
		zap.Int("total_items", len(receivedEvent.Items)),
		zap.Int("success_count", successCount),
		zap.Bool("has_errors", lastErr != nil),
	)

	if lastErr != nil {
		return fmt.Errorf("some items failed to book into the ledger: %w", lastErr)
	}

	return nil
}

// Ensure PurchaseOrderReceivedHandler implements shared.EventHandler
var _ shared.EventHandler = (*PurchaseOrderReceivedHandler)(nil)
