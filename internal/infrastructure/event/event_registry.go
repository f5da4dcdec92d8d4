package event

import (
	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/sales"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Procurement domain - Purchase Order events
	serializer.Register("PurchaseOrderCreated", &procurement.PurchaseOrderCreatedEvent{})
	serializer.Register("PurchaseOrderConfirmed", &procurement.PurchaseOrderConfirmedEvent{})
	serializer.Register("PurchaseOrderShipped", &procurement.PurchaseOrderShippedEvent{})
	serializer.Register("PurchaseOrderReceived", &procurement.PurchaseOrderReceivedEvent{})
	serializer.Register("PurchaseOrderCancelled", &procurement.PurchaseOrderCancelledEvent{})

	// Procurement domain - Catalog events
	serializer.Register("CatalogPublished", &procurement.CatalogPublishedEvent{})
	serializer.Register("CatalogUnpublished", &procurement.CatalogUnpublishedEvent{})

	// Sales domain - Sales Order events
	serializer.Register("SalesOrderCreated", &sales.SalesOrderCreatedEvent{})
	serializer.Register("SalesOrderStatusChanged", &sales.SalesOrderStatusChangedEvent{})
	serializer.Register("SalesOrderDelivered", &sales.SalesOrderDeliveredEvent{})
	serializer.Register("SalesOrderCancelled", &sales.SalesOrderCancelledEvent{})

	// Sales domain - Delivery Proposal events
	serializer.Register("DeliveryScheduleProposed", &sales.DeliveryScheduleProposedEvent{})
	serializer.Register("DeliveryProposalResponded", &sales.DeliveryProposalRespondedEvent{})

	// Inventory domain events
	serializer.Register("StockAdded", &inventory.StockAddedEvent{})
	serializer.Register("StockDecreased", &inventory.StockDecreasedEvent{})
	serializer.Register("StockTransferred", &inventory.StockTransferredEvent{})
	serializer.Register("ProductWithoutStockDetected", &inventory.ProductWithoutStockDetectedEvent{})
	serializer.Register("ProductWithLowStockDetected", &inventory.ProductWithLowStockDetectedEvent{})
}
