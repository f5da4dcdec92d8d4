package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusProcessing PurchaseOrderStatus = "PROCESSING"
	PurchaseOrderStatusConfirmed  PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusShipped    PurchaseOrderStatus = "SHIPPED"
	PurchaseOrderStatusReceived   PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled  PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusProcessing, PurchaseOrderStatusConfirmed, PurchaseOrderStatusShipped,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusProcessing:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusShipped || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusShipped:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, unitPrice valueobject.Money, quantity decimal.Decimal) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		UnitPrice: unitPrice.Amount(),
		Quantity:  quantity,
		Amount:    quantity.Mul(unitPrice.Amount()),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *PurchaseOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// PurchaseOrder represents a buyer-initiated order against a supplier catalog.
// It is the aggregate root for the procurement order lifecycle.
type PurchaseOrder struct {
	shared.AccountAggregateRoot
	OrderCode        string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_account_code,priority:2"`
	CatalogID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	WarehouseID      *uuid.UUID           `gorm:"type:uuid;index"`
	Items            []PurchaseOrderItem  `gorm:"foreignKey:OrderID;references:ID"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null"`
	Status           PurchaseOrderStatus  `gorm:"type:varchar(20);not null;default:'PROCESSING'"`
	GenerationDate   time.Time            `gorm:"not null"`
	ConfirmationDate *time.Time           `gorm:"index"`
	ShippedAt        *time.Time
	ReceivedAt       *time.Time
	CancelledAt      *time.Time
	CancelReason     string `gorm:"type:varchar(500)"`
	IsOrderSent      bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order for a buyer account.
// The order starts in PROCESSING status with its generation date fixed
// at creation time.
func NewPurchaseOrder(buyerAccountID uuid.UUID, orderCode string, catalogID uuid.UUID, currency valueobject.Currency) (*PurchaseOrder, error) {
	if orderCode == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot be empty")
	}
	if len(orderCode) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot exceed 50 characters")
	}
	if buyerAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer account ID cannot be empty")
	}
	if catalogID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATALOG", "Catalog ID cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency code %q", currency))
	}

	order := &PurchaseOrder{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(buyerAccountID),
		OrderCode:            orderCode,
		CatalogID:            catalogID,
		Items:                make([]PurchaseOrderItem, 0),
		Currency:             currency,
		Status:               PurchaseOrderStatusProcessing,
		GenerationDate:       time.Now(),
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line item to the order.
// Only allowed while the order is in PROCESSING status. The item price
// must be denominated in the order currency, and a product may appear at
// most once per order.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, unitPrice valueobject.Money, quantity decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusProcessing {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to an order that is no longer processing")
	}
	if unitPrice.Currency() != o.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Item price is in %s but the order is denominated in %s", unitPrice.Currency(), o.Currency))
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, unitPrice, quantity)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line item
// Only allowed in PROCESSING status
func (o *PurchaseOrder) UpdateItemQuantity(productID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in an order that is no longer processing")
	}

	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes the line item for the given product.
// Only allowed in PROCESSING status. Removing a product that is not in
// the order is a no-op.
func (o *PurchaseOrder) RemoveItem(productID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from an order that is no longer processing")
	}

	for idx, item := range o.Items {
		if item.ProductID == productID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return nil
}

// Confirm confirms the order, transitioning from PROCESSING to CONFIRMED.
// The confirmation date is set exactly once.
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmationDate = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// Ship marks the order as shipped by the supplier
func (o *PurchaseOrder) Ship() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderShippedEvent(o))

	return nil
}

// Receive marks the order as received by the buyer (terminal state)
func (o *PurchaseOrder) Receive() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusReceived
	o.ReceivedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))

	return nil
}

// Cancel cancels the order.
// Allowed from any status except RECEIVED.
func (o *PurchaseOrder) Cancel(reason string) error {
	if o.Status == PurchaseOrderStatusReceived {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an order that has been received")
	}
	if o.Status == PurchaseOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Order is already cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasConfirmed := o.Status == PurchaseOrderStatusConfirmed || o.Status == PurchaseOrderStatusShipped
	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, wasConfirmed))

	return nil
}

// SetDestinationWarehouse records which warehouse the received goods will
// be stocked into. The destination can only change while the order is modifiable.
func (o *PurchaseOrder) SetDestinationWarehouse(warehouseID uuid.UUID) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Destination warehouse can only be set while the order is processing")
	}
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	o.WarehouseID = &warehouseID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkAsSent records that the order has been transmitted to the supplier
func (o *PurchaseOrder) MarkAsSent() {
	o.IsOrderSent = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// CalculateTotal returns the sum of unitPrice * quantity over all items,
// denominated in the order currency.
func (o *PurchaseOrder) CalculateTotal() valueobject.Money {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	money, err := valueobject.NewMoney(total, o.Currency)
	if err != nil {
		// The order currency is validated at construction; an invalid
		// currency here indicates corrupted state.
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	return money
}

// ItemCount returns the number of line items in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// GetItemByProduct returns the line item for a product, or nil
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsProcessing returns true if the order is still being assembled
func (o *PurchaseOrder) IsProcessing() bool {
	return o.Status == PurchaseOrderStatusProcessing
}

// IsConfirmed returns true if the order is confirmed
func (o *PurchaseOrder) IsConfirmed() bool {
	return o.Status == PurchaseOrderStatusConfirmed
}

// IsShipped returns true if the order is shipped
func (o *PurchaseOrder) IsShipped() bool {
	return o.Status == PurchaseOrderStatusShipped
}

// IsReceived returns true if the order has been received
func (o *PurchaseOrder) IsReceived() bool {
	return o.Status == PurchaseOrderStatusReceived
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if the order is in a terminal state
func (o *PurchaseOrder) IsTerminal() bool {
	return o.IsReceived() || o.IsCancelled()
}

// CanModify returns true if line items can still be changed
func (o *PurchaseOrder) CanModify() bool {
	return o.IsProcessing()
}
