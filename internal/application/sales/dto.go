package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/sales"
)

// CreateSalesOrderRequest represents a request to create a sales order directly
type CreateSalesOrderRequest struct {
	CatalogID uuid.UUID                   `json:"catalog_id" binding:"required"`
	Currency  string                      `json:"currency" binding:"omitempty,len=3"`
	Items     []CreateSalesOrderItemInput `json:"items" binding:"omitempty,dive"`
}

// CreateSalesOrderItemInput represents a line item in a create request
type CreateSalesOrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required,dpositive"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// AddSalesOrderItemRequest represents a request to add an item to an order
type AddSalesOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required,dpositive"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// ProposeDeliveryScheduleRequest represents a supplier's delivery proposal
type ProposeDeliveryScheduleRequest struct {
	ProposedDate time.Time `json:"proposed_date" binding:"required"`
	Notes        string    `json:"notes" binding:"max=500"`
}

// RespondToProposalRequest represents a buyer's response to a delivery proposal
type RespondToProposalRequest struct {
	Accept bool   `json:"accept"`
	Notes  string `json:"notes" binding:"max=500"`
}

// UpdateSalesOrderStatusRequest represents a request to advance the order lifecycle
type UpdateSalesOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelSalesOrderRequest represents a request to cancel a sales order
type CancelSalesOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SalesOrderListFilter represents filter options for sales order list
type SalesOrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=CREATED PROCESSING SHIPPED DELIVERED CANCELLED"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesOrderItemResponse represents a sales order item in API responses
type SalesOrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	InventoryID *uuid.UUID      `json:"inventory_id,omitempty"`
}

// DeliveryProposalResponse represents a delivery proposal in API responses
type DeliveryProposalResponse struct {
	ProposedDate time.Time  `json:"proposed_date"`
	Notes        string     `json:"notes,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID               uuid.UUID                 `json:"id"`
	OrderCode        string                    `json:"order_code"`
	PurchaseOrderID  *uuid.UUID                `json:"purchase_order_id,omitempty"`
	CatalogToBuyFrom uuid.UUID                 `json:"catalog_to_buy_from"`
	Status           string                    `json:"status"`
	Currency         string                    `json:"currency"`
	TotalAmount      decimal.Decimal           `json:"total_amount"`
	ItemCount        int                       `json:"item_count"`
	Items            []SalesOrderItemResponse  `json:"items,omitempty"`
	DeliveryProposal *DeliveryProposalResponse `json:"delivery_proposal,omitempty"`
	ReceiptDate      time.Time                 `json:"receipt_date"`
	CompletionDate   *time.Time                `json:"completion_date,omitempty"`
	ShippedAt        *time.Time                `json:"shipped_at,omitempty"`
	CancelledAt      *time.Time                `json:"cancelled_at,omitempty"`
	CancelReason     string                    `json:"cancel_reason,omitempty"`
	Version          int                       `json:"version"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// ToSalesOrderResponse converts a domain sales order to a response DTO
func ToSalesOrderResponse(order *sales.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, SalesOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
			InventoryID: item.InventoryID,
		})
	}

	response := SalesOrderResponse{
		ID:               order.ID,
		OrderCode:        order.OrderCode,
		PurchaseOrderID:  order.PurchaseOrderID,
		CatalogToBuyFrom: order.CatalogToBuyFrom,
		Status:           string(order.Status),
		Currency:         string(order.Currency),
		TotalAmount:      order.CalculateTotal().Amount(),
		ItemCount:        order.ItemCount(),
		Items:            items,
		ReceiptDate:      order.ReceiptDate,
		CompletionDate:   order.CompletionDate,
		ShippedAt:        order.ShippedAt,
		CancelledAt:      order.CancelledAt,
		CancelReason:     order.CancelReason,
		Version:          order.GetVersion(),
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}

	if order.DeliveryProposal != nil {
		response.DeliveryProposal = &DeliveryProposalResponse{
			ProposedDate: order.DeliveryProposal.ProposedDate,
			Notes:        order.DeliveryProposal.Notes,
			Status:       string(order.DeliveryProposal.Status),
			CreatedAt:    order.DeliveryProposal.CreatedAt,
			RespondedAt:  order.DeliveryProposal.RespondedAt,
		}
	}

	return response
}

// ToSalesOrderResponses converts a slice of domain sales orders to response DTOs
func ToSalesOrderResponses(orders []sales.SalesOrder) []SalesOrderResponse {
	responses := make([]SalesOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToSalesOrderResponse(&orders[i]))
	}
	return responses
}

// ReplenishmentResult reports the outcome of an automatic replenishment run
type ReplenishmentResult struct {
	Order        *SalesOrderResponse `json:"order,omitempty"`
	ItemsOrdered int                 `json:"items_ordered"`
	ItemsSkipped int                 `json:"items_skipped"`
}
