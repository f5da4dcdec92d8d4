package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeCatalog       = "Catalog"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderConfirmed = "PurchaseOrderConfirmed"
	EventTypePurchaseOrderShipped   = "PurchaseOrderShipped"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
	EventTypeCatalogPublished       = "CatalogPublished"
	EventTypeCatalogUnpublished     = "CatalogUnpublished"
)

// PurchaseOrderItemInfo represents item information carried in events
type PurchaseOrderItemInfo struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

func purchaseOrderItemInfos(order *PurchaseOrder) []PurchaseOrderItemInfo {
	items := make([]PurchaseOrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = PurchaseOrderItemInfo{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Amount:    item.Amount,
		}
	}
	return items
}

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	OrderCode string    `json:"order_code"`
	CatalogID uuid.UUID `json:"catalog_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.AccountID),
		OrderID:         order.ID,
		OrderCode:       order.OrderCode,
		CatalogID:       order.CatalogID,
		BuyerID:         order.AccountID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderConfirmedEvent is raised when a purchase order is confirmed.
// The sales context consumes it to generate the supplier-side sales order.
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID               `json:"order_id"`
	OrderCode   string                  `json:"order_code"`
	CatalogID   uuid.UUID               `json:"catalog_id"`
	BuyerID     uuid.UUID               `json:"buyer_id"`
	Items       []PurchaseOrderItemInfo `json:"items"`
	Currency    string                  `json:"currency"`
	TotalAmount decimal.Decimal         `json:"total_amount"`
}

// NewPurchaseOrderConfirmedEvent creates a new PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, AggregateTypePurchaseOrder, order.ID, order.AccountID),
		OrderID:         order.ID,
		OrderCode:       order.OrderCode,
		CatalogID:       order.CatalogID,
		BuyerID:         order.AccountID,
		Items:           purchaseOrderItemInfos(order),
		Currency:        string(order.Currency),
		TotalAmount:     order.CalculateTotal().Amount(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderConfirmedEvent) EventType() string {
	return EventTypePurchaseOrderConfirmed
}

// PurchaseOrderShippedEvent is raised when the supplier ships the order
type PurchaseOrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	OrderCode string    `json:"order_code"`
}

// NewPurchaseOrderShippedEvent creates a new PurchaseOrderShippedEvent
func NewPurchaseOrderShippedEvent(order *PurchaseOrder) *PurchaseOrderShippedEvent {
	return &PurchaseOrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderShipped, AggregateTypePurchaseOrder, order.ID, order.AccountID),
		OrderID:         order.ID,
		OrderCode:       order.OrderCode,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderShippedEvent) EventType() string {
	return EventTypePurchaseOrderShipped
}

// PurchaseOrderReceivedEvent is raised when the buyer receives the goods.
// The inventory context consumes it to add the received stock to the
// buyer's warehouse ledger.
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID               `json:"order_id"`
	OrderCode   string                  `json:"order_code"`
	CatalogID   uuid.UUID               `json:"catalog_id"`
	BuyerID     uuid.UUID               `json:"buyer_id"`
	WarehouseID *uuid.UUID              `json:"warehouse_id,omitempty"`
	Items       []PurchaseOrderItemInfo `json:"items"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID, order.AccountID),
		OrderID:         order.ID,
		OrderCode:       order.OrderCode,
		CatalogID:       order.CatalogID,
		BuyerID:         order.AccountID,
		WarehouseID:     order.WarehouseID,
		Items:           purchaseOrderItemInfos(order),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderCode    string    `json:"order_code"`
	CancelReason string    `json:"cancel_reason"`
	WasConfirmed bool      `json:"was_confirmed"` // If true, the supplier may need to be notified
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, wasConfirmed bool) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.AccountID),
		OrderID:         order.ID,
		OrderCode:       order.OrderCode,
		CancelReason:    order.CancelReason,
		WasConfirmed:    wasConfirmed,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}

// CatalogPublishedEvent is raised when a supplier publishes a catalog
type CatalogPublishedEvent struct {
	shared.BaseDomainEvent
	CatalogID uuid.UUID `json:"catalog_id"`
	Name      string    `json:"name"`
}

// NewCatalogPublishedEvent creates a new CatalogPublishedEvent
func NewCatalogPublishedEvent(catalog *Catalog) *CatalogPublishedEvent {
	return &CatalogPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogPublished, AggregateTypeCatalog, catalog.ID, catalog.AccountID),
		CatalogID:       catalog.ID,
		Name:            catalog.Name,
	}
}

// EventType returns the event type name
func (e *CatalogPublishedEvent) EventType() string {
	return EventTypeCatalogPublished
}

// CatalogUnpublishedEvent is raised when a supplier unpublishes a catalog
type CatalogUnpublishedEvent struct {
	shared.BaseDomainEvent
	CatalogID uuid.UUID `json:"catalog_id"`
	Name      string    `json:"name"`
}

// NewCatalogUnpublishedEvent creates a new CatalogUnpublishedEvent
func NewCatalogUnpublishedEvent(catalog *Catalog) *CatalogUnpublishedEvent {
	return &CatalogUnpublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogUnpublished, AggregateTypeCatalog, catalog.ID, catalog.AccountID),
		CatalogID:       catalog.ID,
		Name:            catalog.Name,
	}
}

// EventType returns the event type name
func (e *CatalogUnpublishedEvent) EventType() string {
	return EventTypeCatalogUnpublished
}
