package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// Inventory represents a stock ledger record for a product at a warehouse.
// The composite identifier is AccountID + ProductID + WarehouseID +
// ExpirationDate (nullable for non-perishable stock). Quantity never goes
// negative; a decrease that would cross zero fails before any mutation.
type Inventory struct {
	shared.AccountAggregateRoot
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_ledger_key,priority:2"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_ledger_key,priority:3"`
	ExpirationDate *time.Time      `gorm:"uniqueIndex:idx_inventory_ledger_key,priority:4"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Threshold for low-stock alerts
}

// TableName returns the table name for GORM
func (Inventory) TableName() string {
	return "inventories"
}

// NewInventory creates a new empty ledger record for a product-warehouse combination
func NewInventory(accountID, productID, warehouseID uuid.UUID, expirationDate *time.Time) (*Inventory, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &Inventory{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		ProductID:            productID,
		WarehouseID:          warehouseID,
		ExpirationDate:       expirationDate,
		Quantity:             decimal.Zero,
		MinimumStock:         decimal.Zero,
	}, nil
}

// AddStock increases the ledger quantity
func (i *Inventory) AddStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = i.Quantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockAddedEvent(i, quantity))

	return nil
}

// DecreaseStock decreases the ledger quantity. The guard runs before any
// mutation, so a failed decrease leaves the record untouched. Threshold
// events are recorded on the aggregate after a successful decrease and
// reach consumers through the outbox, not the call stack.
func (i *Inventory) DecreaseStock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.Quantity.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Cannot decrease stock below zero")
	}

	i.Quantity = i.Quantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockDecreasedEvent(i, quantity))

	if i.Quantity.IsZero() {
		i.AddDomainEvent(NewProductWithoutStockDetectedEvent(i))
	} else if i.IsBelowMinimum() {
		i.AddDomainEvent(NewProductWithLowStockDetectedEvent(i))
	}

	return nil
}

// SetMinimumStock sets the low-stock alert threshold
func (i *Inventory) SetMinimumStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}

	i.MinimumStock = quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsBelowMinimum returns true when 0 < quantity <= minimum stock
func (i *Inventory) IsBelowMinimum() bool {
	return i.MinimumStock.GreaterThan(decimal.Zero) &&
		i.Quantity.GreaterThan(decimal.Zero) &&
		i.Quantity.LessThanOrEqual(i.MinimumStock)
}

// IsEmpty returns true when the record holds no stock
func (i *Inventory) IsEmpty() bool {
	return i.Quantity.IsZero()
}

// CanFulfill returns true if the quantity can be decreased without going negative
func (i *Inventory) CanFulfill(quantity decimal.Decimal) bool {
	return i.Quantity.GreaterThanOrEqual(quantity)
}

// IsExpirable returns true when the record tracks an expiration date
func (i *Inventory) IsExpirable() bool {
	return i.ExpirationDate != nil
}

// IsExpired returns true when the tracked expiration date has passed
func (i *Inventory) IsExpired(now time.Time) bool {
	return i.ExpirationDate != nil && i.ExpirationDate.Before(now)
}
