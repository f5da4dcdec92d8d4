package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder = "SalesOrder"
)

// Event type constants
const (
	EventTypeSalesOrderCreated         = "SalesOrderCreated"
	EventTypeSalesOrderStatusChanged   = "SalesOrderStatusChanged"
	EventTypeSalesOrderDelivered       = "SalesOrderDelivered"
	EventTypeSalesOrderCancelled       = "SalesOrderCancelled"
	EventTypeDeliveryScheduleProposed  = "DeliveryScheduleProposed"
	EventTypeDeliveryProposalResponded = "DeliveryProposalResponded"
)

// SalesOrderItemInfo carries line item data inside events
type SalesOrderItemInfo struct {
	ProductID   uuid.UUID       `json:"product_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	InventoryID *uuid.UUID      `json:"inventory_id,omitempty"`
}

func salesOrderItemInfos(items []SalesOrderItem) []SalesOrderItemInfo {
	infos := make([]SalesOrderItemInfo, 0, len(items))
	for _, item := range items {
		infos = append(infos, SalesOrderItemInfo{
			ProductID:   item.ProductID,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			InventoryID: item.InventoryID,
		})
	}
	return infos
}

// SalesOrderCreatedEvent is raised when a sales order is generated
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderCode        string     `json:"order_code"`
	CatalogToBuyFrom uuid.UUID  `json:"catalog_to_buy_from"`
	PurchaseOrderID  *uuid.UUID `json:"purchase_order_id,omitempty"`
	Currency         string     `json:"currency"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID, order.AccountID),
		OrderCode:        order.OrderCode,
		CatalogToBuyFrom: order.CatalogToBuyFrom,
		PurchaseOrderID:  order.PurchaseOrderID,
		Currency:         string(order.Currency),
	}
}

// EventType returns the event type name
func (e *SalesOrderCreatedEvent) EventType() string {
	return EventTypeSalesOrderCreated
}

// SalesOrderStatusChangedEvent is raised on a lifecycle transition
type SalesOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderCode      string `json:"order_code"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Reason         string `json:"reason,omitempty"`
}

// NewSalesOrderStatusChangedEvent creates a new SalesOrderStatusChangedEvent
func NewSalesOrderStatusChangedEvent(order *SalesOrder, previous SalesOrderStatus) *SalesOrderStatusChangedEvent {
	return &SalesOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderStatusChanged, AggregateTypeSalesOrder, order.ID, order.AccountID),
		OrderCode:       order.OrderCode,
		PreviousStatus:  string(previous),
		NewStatus:       string(order.Status),
		Reason:          order.StatusReason,
	}
}

// EventType returns the event type name
func (e *SalesOrderStatusChangedEvent) EventType() string {
	return EventTypeSalesOrderStatusChanged
}

// SalesOrderDeliveredEvent is raised when an order reaches DELIVERED.
// Consumed by procurement to reduce the catalog's listed stock.
type SalesOrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderCode        string               `json:"order_code"`
	CatalogToBuyFrom uuid.UUID            `json:"catalog_to_buy_from"`
	Items            []SalesOrderItemInfo `json:"items"`
	DeliveredAt      time.Time            `json:"delivered_at"`
}

// NewSalesOrderDeliveredEvent creates a new SalesOrderDeliveredEvent
func NewSalesOrderDeliveredEvent(order *SalesOrder) *SalesOrderDeliveredEvent {
	deliveredAt := time.Now()
	if order.CompletionDate != nil {
		deliveredAt = *order.CompletionDate
	}
	return &SalesOrderDeliveredEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeSalesOrderDelivered, AggregateTypeSalesOrder, order.ID, order.AccountID),
		OrderCode:        order.OrderCode,
		CatalogToBuyFrom: order.CatalogToBuyFrom,
		Items:            salesOrderItemInfos(order.Items),
		DeliveredAt:      deliveredAt,
	}
}

// EventType returns the event type name
func (e *SalesOrderDeliveredEvent) EventType() string {
	return EventTypeSalesOrderDelivered
}

// SalesOrderCancelledEvent is raised when an order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderCode      string `json:"order_code"`
	PreviousStatus string `json:"previous_status"`
	Reason         string `json:"reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder, previous SalesOrderStatus) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, AggregateTypeSalesOrder, order.ID, order.AccountID),
		OrderCode:       order.OrderCode,
		PreviousStatus:  string(previous),
		Reason:          order.CancelReason,
	}
}

// EventType returns the event type name
func (e *SalesOrderCancelledEvent) EventType() string {
	return EventTypeSalesOrderCancelled
}

// DeliveryScheduleProposedEvent is raised when a supplier proposes a schedule
type DeliveryScheduleProposedEvent struct {
	shared.BaseDomainEvent
	OrderCode    string    `json:"order_code"`
	ProposedDate time.Time `json:"proposed_date"`
	Notes        string    `json:"notes,omitempty"`
}

// NewDeliveryScheduleProposedEvent creates a new DeliveryScheduleProposedEvent
func NewDeliveryScheduleProposedEvent(order *SalesOrder) *DeliveryScheduleProposedEvent {
	event := &DeliveryScheduleProposedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryScheduleProposed, AggregateTypeSalesOrder, order.ID, order.AccountID),
		OrderCode:       order.OrderCode,
	}
	if order.DeliveryProposal != nil {
		event.ProposedDate = order.DeliveryProposal.ProposedDate
		event.Notes = order.DeliveryProposal.Notes
	}
	return event
}

// EventType returns the event type name
func (e *DeliveryScheduleProposedEvent) EventType() string {
	return EventTypeDeliveryScheduleProposed
}

// DeliveryProposalRespondedEvent is raised when a buyer responds to a proposal
type DeliveryProposalRespondedEvent struct {
	shared.BaseDomainEvent
	OrderCode string `json:"order_code"`
	Accepted  bool   `json:"accepted"`
	Notes     string `json:"notes,omitempty"`
}

// NewDeliveryProposalRespondedEvent creates a new DeliveryProposalRespondedEvent
func NewDeliveryProposalRespondedEvent(order *SalesOrder, accepted bool) *DeliveryProposalRespondedEvent {
	event := &DeliveryProposalRespondedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryProposalResponded, AggregateTypeSalesOrder, order.ID, order.AccountID),
		OrderCode:       order.OrderCode,
		Accepted:        accepted,
	}
	if order.DeliveryProposal != nil {
		event.Notes = order.DeliveryProposal.Notes
	}
	return event
}

// EventType returns the event type name
func (e *DeliveryProposalRespondedEvent) EventType() string {
	return EventTypeDeliveryProposalResponded
}
