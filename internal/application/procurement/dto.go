package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	CatalogID   uuid.UUID                      `json:"catalog_id" binding:"required"`
	WarehouseID *uuid.UUID                     `json:"warehouse_id"`
	Currency    string                         `json:"currency" binding:"omitempty,len=3"`
	Items       []CreatePurchaseOrderItemInput `json:"items"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required,dpositive"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// AddPurchaseOrderItemRequest represents a request to add an item to a purchase order
type AddPurchaseOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required,dpositive"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// UpdatePurchaseOrderItemRequest represents a request to update an item's quantity
type UpdatePurchaseOrderItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// CancelPurchaseOrderRequest represents a request to cancel a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Search    string                           `form:"search"`
	CatalogID *uuid.UUID                       `form:"-"`
	Status    *procurement.PurchaseOrderStatus `form:"status"`
	StartDate *time.Time                       `form:"start_date"`
	EndDate   *time.Time                       `form:"end_date"`
	Page      int                              `form:"page" binding:"min=0"`
	PageSize  int                              `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string                           `form:"order_by"`
	OrderDir  string                           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID               uuid.UUID                   `json:"id"`
	AccountID        uuid.UUID                   `json:"account_id"`
	OrderCode        string                      `json:"order_code"`
	CatalogID        uuid.UUID                   `json:"catalog_id"`
	WarehouseID      *uuid.UUID                  `json:"warehouse_id,omitempty"`
	Items            []PurchaseOrderItemResponse `json:"items"`
	ItemCount        int                         `json:"item_count"`
	Currency         string                      `json:"currency"`
	TotalAmount      decimal.Decimal             `json:"total_amount"`
	Status           string                      `json:"status"`
	IsOrderSent      bool                        `json:"is_order_sent"`
	GenerationDate   time.Time                   `json:"generation_date"`
	ConfirmationDate *time.Time                  `json:"confirmation_date,omitempty"`
	ShippedAt        *time.Time                  `json:"shipped_at,omitempty"`
	ReceivedAt       *time.Time                  `json:"received_at,omitempty"`
	CancelledAt      *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason     string                      `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	Version          int                         `json:"version"`
}

// PurchaseOrderItemResponse represents a purchase order item in API responses
type PurchaseOrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToPurchaseOrderResponse converts a domain purchase order to a response DTO
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Amount:    item.Amount,
		})
	}

	return PurchaseOrderResponse{
		ID:               order.ID,
		AccountID:        order.AccountID,
		OrderCode:        order.OrderCode,
		CatalogID:        order.CatalogID,
		WarehouseID:      order.WarehouseID,
		Items:            items,
		ItemCount:        len(items),
		Currency:         string(order.Currency),
		TotalAmount:      order.CalculateTotal().Amount(),
		Status:           order.Status.String(),
		IsOrderSent:      order.IsOrderSent,
		GenerationDate:   order.GenerationDate,
		ConfirmationDate: order.ConfirmationDate,
		ShippedAt:        order.ShippedAt,
		ReceivedAt:       order.ReceivedAt,
		CancelledAt:      order.CancelledAt,
		CancelReason:     order.CancelReason,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		Version:          order.GetVersion(),
	}
}

// ToPurchaseOrderResponses converts a slice of purchase orders
func ToPurchaseOrderResponses(orders []procurement.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[idx]))
	}
	return responses
}

// ==================== Catalog DTOs ====================

// CreateCatalogRequest represents a request to create a catalog
type CreateCatalogRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Description  string `json:"description" binding:"max=2000"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
}

// UpdateCatalogRequest represents a request to update catalog info
type UpdateCatalogRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Description  string `json:"description" binding:"max=2000"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
}

// AddCatalogItemRequest represents a request to list a product in a catalog
type AddCatalogItemRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	ProductName    string          `json:"product_name" binding:"required,min=1,max=200"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required,dpositive"`
	Currency       string          `json:"currency" binding:"omitempty,len=3"`
	ImageURL       string          `json:"image_url" binding:"omitempty,url,max=500"`
	AvailableStock decimal.Decimal `json:"available_stock"`
}

// CatalogListFilter represents filter options for catalog list
type CatalogListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CatalogResponse represents a catalog in API responses
type CatalogResponse struct {
	ID           uuid.UUID             `json:"id"`
	AccountID    uuid.UUID             `json:"account_id"`
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	ContactEmail string                `json:"contact_email"`
	Items        []CatalogItemResponse `json:"items"`
	ItemCount    int                   `json:"item_count"`
	IsPublished  bool                  `json:"is_published"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// CatalogItemResponse represents a catalog item in API responses
type CatalogItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Currency       string          `json:"currency"`
	ImageURL       string          `json:"image_url,omitempty"`
	AvailableStock decimal.Decimal `json:"available_stock"`
	AddedAt        time.Time       `json:"added_at"`
}

// ToCatalogResponse converts a domain catalog to a response DTO
func ToCatalogResponse(catalog *procurement.Catalog) CatalogResponse {
	items := make([]CatalogItemResponse, 0, len(catalog.Items))
	for _, item := range catalog.Items {
		items = append(items, CatalogItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPrice:      item.UnitPrice,
			Currency:       item.Currency,
			ImageURL:       item.ImageURL,
			AvailableStock: item.AvailableStock,
			AddedAt:        item.AddedAt,
		})
	}

	return CatalogResponse{
		ID:           catalog.ID,
		AccountID:    catalog.AccountID,
		Name:         catalog.Name,
		Description:  catalog.Description,
		ContactEmail: catalog.ContactEmail.Address(),
		Items:        items,
		ItemCount:    len(items),
		IsPublished:  catalog.IsPublished,
		CreatedAt:    catalog.CreatedAt,
		UpdatedAt:    catalog.UpdatedAt,
		Version:      catalog.GetVersion(),
	}
}

// ToCatalogResponses converts a slice of catalogs
func ToCatalogResponses(catalogs []procurement.Catalog) []CatalogResponse {
	responses := make([]CatalogResponse, 0, len(catalogs))
	for idx := range catalogs {
		responses = append(responses, ToCatalogResponse(&catalogs[idx]))
	}
	return responses
}
