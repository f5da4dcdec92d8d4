package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockItem is a replenishment suggestion sourced from the inventory ledger
type LowStockItem struct {
	ProductID         uuid.UUID
	WarehouseID       uuid.UUID
	CurrentQuantity   decimal.Decimal
	MinimumStock      decimal.Decimal
	SuggestedQuantity decimal.Decimal
}

// LowStockProvider is the cross-context entry point into inventory.
// It backs automatic replenishment order generation.
type LowStockProvider interface {
	// GetLowStockItems returns the account's ledger records at or below
	// their minimum stock, with a suggested reorder quantity
	GetLowStockItems(ctx context.Context, accountID uuid.UUID) ([]LowStockItem, error)
}

// CatalogStockReducer is the cross-context entry point into procurement.
// It decrements a catalog's listed stock when a sales order is delivered.
type CatalogStockReducer interface {
	ReduceCatalogItemStock(ctx context.Context, accountID, catalogID, productID uuid.UUID, quantity decimal.Decimal) error
}
