package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusCreated    SalesOrderStatus = "CREATED"
	SalesOrderStatusProcessing SalesOrderStatus = "PROCESSING"
	SalesOrderStatusShipped    SalesOrderStatus = "SHIPPED"
	SalesOrderStatusDelivered  SalesOrderStatus = "DELIVERED"
	SalesOrderStatusCancelled  SalesOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusCreated, SalesOrderStatusProcessing, SalesOrderStatusShipped,
		SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusCreated:
		return target == SalesOrderStatusProcessing || target == SalesOrderStatusCancelled
	case SalesOrderStatusProcessing:
		return target == SalesOrderStatusShipped || target == SalesOrderStatusCancelled
	case SalesOrderStatusShipped:
		return target == SalesOrderStatusDelivered || target == SalesOrderStatusCancelled
	case SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true for terminal statuses
func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesOrderStatusDelivered || s == SalesOrderStatusCancelled
}

// SalesOrderItem represents a line item in a sales order.
// InventoryID stays nil until the item is resolved against a ledger record.
type SalesOrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	InventoryID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a new sales order item
func NewSalesOrderItem(orderID, productID uuid.UUID, unitPrice valueobject.Money, quantity decimal.Decimal) (*SalesOrderItem, error) {
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
	return &SalesOrderItem{
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

// ResolveInventory binds the item to the ledger record backing it
func (i *SalesOrderItem) ResolveInventory(inventoryID uuid.UUID) error {
	if inventoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory ID cannot be empty")
	}
	i.InventoryID = &inventoryID
	i.UpdatedAt = time.Now()
	return nil
}

// SalesOrder represents a sales order aggregate root.
// It is created either directly, from a confirmed purchase order, or by
// automatic low-stock replenishment, and moves through its lifecycle only
// once an accepted delivery proposal exists.
type SalesOrder struct {
	shared.AccountAggregateRoot
	OrderCode        string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_order_account_code"`
	PurchaseOrderID  *uuid.UUID           `gorm:"type:uuid;index"`
	CatalogToBuyFrom uuid.UUID            `gorm:"type:uuid;not null"`
	Items            []SalesOrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	Currency         valueobject.Currency `gorm:"type:varchar(3);not null"`
	Status           SalesOrderStatus     `gorm:"type:varchar(20);not null;index"`
	DeliveryProposal *DeliveryProposal    `gorm:"serializer:json"`
	ReceiptDate      time.Time            `gorm:"not null"`
	CompletionDate   *time.Time
	ShippedAt        *time.Time
	CancelledAt      *time.Time
	CancelReason     string `gorm:"type:varchar(500)"`
	StatusReason     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in CREATED status.
// CREATED is assigned at generation time, not reached by a guarded
// transition, so no delivery proposal is required yet.
func NewSalesOrder(buyerAccountID uuid.UUID, orderCode string, catalogToBuyFrom uuid.UUID, currency valueobject.Currency) (*SalesOrder, error) {
	if buyerAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer account ID cannot be empty")
	}
	if orderCode == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot be empty")
	}
	if len(orderCode) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot exceed 50 characters")
	}
	if catalogToBuyFrom == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATALOG", "Catalog ID cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency code: %s", currency))
	}

	order := &SalesOrder{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(buyerAccountID),
		OrderCode:            orderCode,
		CatalogToBuyFrom:     catalogToBuyFrom,
		Items:                make([]SalesOrderItem, 0),
		Currency:             currency,
		Status:               SalesOrderStatusCreated,
		ReceiptDate:          time.Now(),
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// LinkPurchaseOrder records the purchase order this sales order was converted from
func (o *SalesOrder) LinkPurchaseOrder(purchaseOrderID uuid.UUID) error {
	if purchaseOrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order ID cannot be empty")
	}
	o.PurchaseOrderID = &purchaseOrderID
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem adds a new line item to the order
// Only allowed in CREATED status
func (o *SalesOrder) AddItem(productID uuid.UUID, unitPrice valueobject.Money, quantity decimal.Decimal) (*SalesOrderItem, error) {
	if o.Status != SalesOrderStatusCreated {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items once the order lifecycle has started")
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

	item, err := NewSalesOrderItem(o.ID, productID, unitPrice, quantity)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return &o.Items[len(o.Items)-1], nil
}

// RemoveItem removes a line item from the order
// Only allowed in CREATED status
func (o *SalesOrder) RemoveItem(productID uuid.UUID) error {
	if o.Status != SalesOrderStatusCreated {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items once the order lifecycle has started")
	}

	for idx, item := range o.Items {
		if item.ProductID == productID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ProposeDeliverySchedule attaches a new delivery proposal in PROPOSED status.
// An accepted proposal cannot be overwritten; a rejected or pending one can
// be superseded by a fresh proposal.
func (o *SalesOrder) ProposeDeliverySchedule(proposedDate time.Time, notes string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot propose delivery for order in %s status", o.Status))
	}
	if o.DeliveryProposal != nil && o.DeliveryProposal.IsAccepted() {
		return shared.NewDomainError("INVALID_STATE", "An accepted delivery proposal cannot be replaced")
	}

	proposal, err := NewDeliveryProposal(proposedDate, notes)
	if err != nil {
		return err
	}

	o.DeliveryProposal = proposal
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewDeliveryScheduleProposedEvent(o))

	return nil
}

// RespondToDeliveryProposal accepts or rejects the pending proposal
func (o *SalesOrder) RespondToDeliveryProposal(accept bool, notes string) error {
	if o.DeliveryProposal == nil {
		return shared.NewDomainError("NO_PROPOSAL", "Order has no delivery proposal to respond to")
	}

	var err error
	if accept {
		err = o.DeliveryProposal.Accept(notes)
	} else {
		err = o.DeliveryProposal.Reject(notes)
	}
	if err != nil {
		return err
	}

	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewDeliveryProposalRespondedEvent(o, accept))

	return nil
}

// HasAcceptedProposal returns true when a delivery proposal exists and is accepted
func (o *SalesOrder) HasAcceptedProposal() bool {
	return o.DeliveryProposal != nil && o.DeliveryProposal.IsAccepted()
}

// UpdateStatus transitions the order to a new status.
// Lifecycle transitions require an accepted delivery proposal; cancellation
// does not, since a buyer can abandon an order the supplier never scheduled.
func (o *SalesOrder) UpdateStatus(newStatus SalesOrderStatus, reason string) error {
	if !newStatus.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown sales order status: %s", newStatus))
	}
	if o.Status == SalesOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a cancelled order")
	}
	if !o.Status.CanTransitionTo(newStatus) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, newStatus))
	}
	if newStatus != SalesOrderStatusCancelled && !o.HasAcceptedProposal() {
		return shared.NewDomainError("PROPOSAL_NOT_ACCEPTED", "Order requires an accepted delivery proposal before it can progress")
	}

	now := time.Now()
	previous := o.Status
	o.Status = newStatus
	o.StatusReason = reason
	o.UpdatedAt = now

	switch newStatus {
	case SalesOrderStatusShipped:
		o.ShippedAt = &now
	case SalesOrderStatusDelivered:
		o.CompletionDate = &now
	case SalesOrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = reason
	}

	o.IncrementVersion()

	if newStatus == SalesOrderStatusCancelled {
		o.AddDomainEvent(NewSalesOrderCancelledEvent(o, previous))
	} else {
		o.AddDomainEvent(NewSalesOrderStatusChangedEvent(o, previous))
	}
	if newStatus == SalesOrderStatusDelivered {
		o.AddDomainEvent(NewSalesOrderDeliveredEvent(o))
	}

	return nil
}

// Cancel cancels the order from any non-terminal state
func (o *SalesOrder) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	return o.UpdateStatus(SalesOrderStatusCancelled, reason)
}

// CalculateTotal returns the order total in the order's currency
func (o *SalesOrder) CalculateTotal() valueobject.Money {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	money, err := valueobject.NewMoney(total, o.Currency)
	if err != nil {
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	return money
}

// ItemCount returns the number of items in the order
func (o *SalesOrder) ItemCount() int {
	return len(o.Items)
}

// GetItemByProduct returns an item by product ID
func (o *SalesOrder) GetItemByProduct(productID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// IsCreated returns true if the order has not started its lifecycle
func (o *SalesOrder) IsCreated() bool {
	return o.Status == SalesOrderStatusCreated
}

// IsProcessing returns true if the order is being processed
func (o *SalesOrder) IsProcessing() bool {
	return o.Status == SalesOrderStatusProcessing
}

// IsShipped returns true if the order was shipped
func (o *SalesOrder) IsShipped() bool {
	return o.Status == SalesOrderStatusShipped
}

// IsDelivered returns true if the order was delivered
func (o *SalesOrder) IsDelivered() bool {
	return o.Status == SalesOrderStatusDelivered
}

// IsCancelled returns true if the order was cancelled
func (o *SalesOrder) IsCancelled() bool {
	return o.Status == SalesOrderStatusCancelled
}

// IsTerminal returns true if the order reached a terminal state
func (o *SalesOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}
