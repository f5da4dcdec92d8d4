package sales

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// SalesOrderDeliveredHandler handles SalesOrderDeliveredEvent and reduces
// the listed stock of the catalog the order was bought from
type SalesOrderDeliveredHandler struct {
	stockReducer sales.CatalogStockReducer
	logger       *zap.Logger
}

// NewSalesOrderDeliveredHandler creates a new handler for sales order delivered events
func NewSalesOrderDeliveredHandler(
	stockReducer sales.CatalogStockReducer,
	logger *zap.Logger,
) *SalesOrderDeliveredHandler {
	return &SalesOrderDeliveredHandler{
		stockReducer: stockReducer,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SalesOrderDeliveredHandler) EventTypes() []string {
	return []string{sales.EventTypeSalesOrderDelivered}
}

// Handle processes a SalesOrderDeliveredEvent by reducing catalog stock
// for each delivered line item. A catalog listing that no longer carries
// the product is skipped rather than failing the whole delivery.
func (h *SalesOrderDeliveredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deliveredEvent, ok := event.(*sales.SalesOrderDeliveredEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", sales.EventTypeSalesOrderDelivered),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSalesOrderDelivered, event.EventType())
	}

	h.logger.Info("processing sales order delivered event",
		zap.String("order_id", deliveredEvent.AggregateID().String()),
		zap.String("order_code", deliveredEvent.OrderCode),
		zap.String("catalog_id", deliveredEvent.CatalogToBuyFrom.String()),
		zap.Int("items_count", len(deliveredEvent.Items)),
	)

	var lastErr error
	successCount := 0
	for _, item := range deliveredEvent.Items {
		err := h.stockReducer.ReduceCatalogItemStock(ctx, event.AccountID(), deliveredEvent.CatalogToBuyFrom, item.ProductID, item.Quantity)
		if err != nil {
			h.logger.Error("failed to reduce catalog stock for delivered item",
				zap.String("order_id", deliveredEvent.AggregateID().String()),
				zap.String("product_id", item.ProductID.String()),
				zap.String("quantity", item.Quantity.String()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		successCount++
	}

	h.logger.Info("catalog stock reduction completed",
		zap.String("order_id", deliveredEvent.AggregateID().String()),
		zap.Int("total_items", len(deliveredEvent.Items)),
		zap.Int("success_count", successCount),
		zap.Bool("has_errors", lastErr != nil),
	)

	if lastErr != nil {
		return fmt.Errorf("some items failed to reduce catalog stock: %w", lastErr)
	}

	return nil
}

// Ensure SalesOrderDeliveredHandler implements shared.EventHandler
var _ shared.EventHandler = (*SalesOrderDeliveredHandler)(nil)
