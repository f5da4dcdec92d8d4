package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeInventory = "Inventory"
)

// Event type constants
const (
	EventTypeStockAdded                  = "StockAdded"
	EventTypeStockDecreased              = "StockDecreased"
	EventTypeStockTransferred            = "StockTransferred"
	EventTypeProductWithoutStockDetected = "ProductWithoutStockDetected"
	EventTypeProductWithLowStockDetected = "ProductWithLowStockDetected"
)

// StockAddedEvent is raised when stock is added to a ledger record
type StockAddedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockAddedEvent creates a new StockAddedEvent
func NewStockAddedEvent(record *Inventory, quantity decimal.Decimal) *StockAddedEvent {
	return &StockAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdded, AggregateTypeInventory, record.ID, record.AccountID),
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		Quantity:        quantity,
		NewQuantity:     record.Quantity,
	}
}

// EventType returns the event type name
func (e *StockAddedEvent) EventType() string {
	return EventTypeStockAdded
}

// StockDecreasedEvent is raised when stock is removed from a ledger record
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(record *Inventory, quantity decimal.Decimal) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, AggregateTypeInventory, record.ID, record.AccountID),
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		Quantity:        quantity,
		NewQuantity:     record.Quantity,
	}
}

// EventType returns the event type name
func (e *StockDecreasedEvent) EventType() string {
	return EventTypeStockDecreased
}

// StockTransferredEvent is raised after an atomic warehouse-to-warehouse transfer
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID       `json:"product_id"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	TransferredAt   time.Time       `json:"transferred_at"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(source *Inventory, toWarehouseID uuid.UUID, quantity decimal.Decimal) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeInventory, source.ID, source.AccountID),
		ProductID:       source.ProductID,
		FromWarehouseID: source.WarehouseID,
		ToWarehouseID:   toWarehouseID,
		Quantity:        quantity,
		TransferredAt:   time.Now(),
	}
}

// EventType returns the event type name
func (e *StockTransferredEvent) EventType() string {
	return EventTypeStockTransferred
}

// ProductWithoutStockDetectedEvent is raised when a decrease empties a
// ledger record. Consumed by alerting with at-least-once delivery.
type ProductWithoutStockDetectedEvent struct {
	shared.BaseDomainEvent
	InventoryID uuid.UUID `json:"inventory_id"`
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewProductWithoutStockDetectedEvent creates a new ProductWithoutStockDetectedEvent
func NewProductWithoutStockDetectedEvent(record *Inventory) *ProductWithoutStockDetectedEvent {
	return &ProductWithoutStockDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductWithoutStockDetected, AggregateTypeInventory, record.ID, record.AccountID),
		InventoryID:     record.ID,
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
	}
}

// EventType returns the event type name
func (e *ProductWithoutStockDetectedEvent) EventType() string {
	return EventTypeProductWithoutStockDetected
}

// ProductWithLowStockDetectedEvent is raised when a decrease leaves a
// record at or below its minimum stock while still positive.
type ProductWithLowStockDetectedEvent struct {
	shared.BaseDomainEvent
	InventoryID  uuid.UUID       `json:"inventory_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// NewProductWithLowStockDetectedEvent creates a new ProductWithLowStockDetectedEvent
func NewProductWithLowStockDetectedEvent(record *Inventory) *ProductWithLowStockDetectedEvent {
	return &ProductWithLowStockDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductWithLowStockDetected, AggregateTypeInventory, record.ID, record.AccountID),
		InventoryID:     record.ID,
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		Quantity:        record.Quantity,
		MinimumStock:    record.MinimumStock,
	}
}

// EventType returns the event type name
func (e *ProductWithLowStockDetectedEvent) EventType() string {
	return EventTypeProductWithLowStockDetected
}
