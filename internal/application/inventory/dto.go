package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/inventory"
)

// AddStockRequest represents a request to add stock to a ledger record.
// The record is created on first use of a ledger key.
type AddStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID    uuid.UUID       `json:"warehouse_id" binding:"required"`
	ExpirationDate *time.Time      `json:"expiration_date"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// DecreaseStockRequest represents a request to take stock out of a ledger record
type DecreaseStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID    uuid.UUID       `json:"warehouse_id" binding:"required"`
	ExpirationDate *time.Time      `json:"expiration_date"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required,dpositive"`
	Reason         string          `json:"reason" binding:"max=200"`
}

// SetMinimumStockRequest represents a request to change the low-stock threshold
type SetMinimumStockRequest struct {
	MinimumStock decimal.Decimal `json:"minimum_stock" binding:"required"`
}

// TransferStockRequest represents a request to move stock between warehouses
type TransferStockRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	ExpirationDate  *time.Time      `json:"expiration_date"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required,dpositive"`
}

// InventoryListFilter represents filter options for ledger record list
type InventoryListFilter struct {
	WarehouseID *uuid.UUID `form:"-"`
	ProductID   *uuid.UUID `form:"-"`
	Page        int        `form:"page" binding:"min=0"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InventoryResponse represents a ledger record in API responses
type InventoryResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	MinimumStock   decimal.Decimal `json:"minimum_stock"`
	IsBelowMinimum bool            `json:"is_below_minimum"`
	IsEmpty        bool            `json:"is_empty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToInventoryResponse converts a domain ledger record to a response DTO
func ToInventoryResponse(record *inventory.Inventory) InventoryResponse {
	return InventoryResponse{
		ID:             record.ID,
		ProductID:      record.ProductID,
		WarehouseID:    record.WarehouseID,
		ExpirationDate: record.ExpirationDate,
		Quantity:       record.Quantity,
		MinimumStock:   record.MinimumStock,
		IsBelowMinimum: record.IsBelowMinimum(),
		IsEmpty:        record.IsEmpty(),
		Version:        record.GetVersion(),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

// ToInventoryResponses converts a slice of ledger records to response DTOs
func ToInventoryResponses(records []inventory.Inventory) []InventoryResponse {
	responses := make([]InventoryResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToInventoryResponse(&records[i]))
	}
	return responses
}

// TransferResponse represents a completed transfer in API responses
type TransferResponse struct {
	TransferID      uuid.UUID         `json:"transfer_id"`
	ProductID       uuid.UUID         `json:"product_id"`
	FromWarehouseID uuid.UUID         `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID         `json:"to_warehouse_id"`
	Quantity        decimal.Decimal   `json:"quantity"`
	TransferredAt   time.Time         `json:"transferred_at"`
	Source          InventoryResponse `json:"source"`
	Destination     InventoryResponse `json:"destination"`
}

// ProductExitResponse represents an exit audit row in API responses
type ProductExitResponse struct {
	ID          uuid.UUID       `json:"id"`
	InventoryID uuid.UUID       `json:"inventory_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason,omitempty"`
	ExitedAt    time.Time       `json:"exited_at"`
}

// ToProductExitResponses converts exit audit rows to response DTOs
func ToProductExitResponses(exits []inventory.ProductExit) []ProductExitResponse {
	responses := make([]ProductExitResponse, 0, len(exits))
	for _, exit := range exits {
		responses = append(responses, ProductExitResponse{
			ID:          exit.ID,
			InventoryID: exit.InventoryID,
			ProductID:   exit.ProductID,
			WarehouseID: exit.WarehouseID,
			Quantity:    exit.Quantity,
			Reason:      exit.Reason,
			ExitedAt:    exit.ExitedAt,
		})
	}
	return responses
}

// ProductTransferResponse represents a transfer audit row in API responses
type ProductTransferResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	TransferredAt   time.Time       `json:"transferred_at"`
}

// ToProductTransferResponses converts transfer audit rows to response DTOs
func ToProductTransferResponses(transfers []inventory.ProductTransfer) []ProductTransferResponse {
	responses := make([]ProductTransferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		responses = append(responses, ProductTransferResponse{
			ID:              transfer.ID,
			ProductID:       transfer.ProductID,
			FromWarehouseID: transfer.FromWarehouseID,
			ToWarehouseID:   transfer.ToWarehouseID,
			Quantity:        transfer.Quantity,
			TransferredAt:   transfer.TransferredAt,
		})
	}
	return responses
}
