package sales

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// PurchaseOrderConfirmedHandler handles PurchaseOrderConfirmedEvent and
// generates the sales order that fulfills the confirmed purchase order
type PurchaseOrderConfirmedHandler struct {
	converter procurement.SalesOrderConverter
	logger    *zap.Logger
}

// NewPurchaseOrderConfirmedHandler creates a new handler for purchase order confirmed events
func NewPurchaseOrderConfirmedHandler(
	converter procurement.SalesOrderConverter,
	logger *zap.Logger,
) *PurchaseOrderConfirmedHandler {
	return &PurchaseOrderConfirmedHandler{
		converter: converter,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderConfirmedHandler) EventTypes() []string {
	return []string{procurement.EventTypePurchaseOrderConfirmed}
}

// Handle processes a PurchaseOrderConfirmedEvent by converting the purchase
// order into a sales order. The conversion is idempotent, so redelivery of
// the event is safe.
func (h *PurchaseOrderConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmedEvent, ok := event.(*procurement.PurchaseOrderConfirmedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", procurement.EventTypePurchaseOrderConfirmed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypePurchaseOrderConfirmed, event.EventType())
	}

	h.logger.Info("processing purchase order confirmed event",
		zap.String("purchase_order_id", confirmedEvent.AggregateID().String()),
		zap.String("order_code", confirmedEvent.OrderCode),
	)

	salesOrderID, err := h.converter.ConvertPurchaseOrderToSalesOrder(ctx, event.AccountID(), confirmedEvent.AggregateID())
	if err != nil {
		h.logger.Error("failed to convert purchase order to sales order",
			zap.String("purchase_order_id", confirmedEvent.AggregateID().String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to convert purchase order: %w", err)
	}

	h.logger.Info("sales order generated from purchase order",
		zap.String("purchase_order_id", confirmedEvent.AggregateID().String()),
		zap.String("sales_order_id", salesOrderID.String()),
	)

	return nil
}

// Ensure PurchaseOrderConfirmedHandler implements shared.EventHandler
var _ shared.EventHandler = (*PurchaseOrderConfirmedHandler)(nil)
