package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// ProductExit is an append-only audit record created alongside every stock
// decrease. It is never mutated or deleted.
type ProductExit struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	InventoryID uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null" json:"warehouse_id"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Reason      string          `gorm:"type:varchar(200)" json:"reason"`
	ExitedAt    time.Time       `gorm:"not null" json:"exited_at"`
}

// TableName returns the table name for GORM
func (ProductExit) TableName() string {
	return "product_exits"
}

// NewProductExit records a stock decrease for historical reporting
func NewProductExit(record *Inventory, quantity decimal.Decimal, reason string) (*ProductExit, error) {
	if record == nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY", "Inventory record is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &ProductExit{
		ID:          uuid.New(),
		AccountID:   record.AccountID,
		InventoryID: record.ID,
		ProductID:   record.ProductID,
		WarehouseID: record.WarehouseID,
		Quantity:    quantity,
		Reason:      reason,
		ExitedAt:    time.Now(),
	}, nil
}

// ProductTransfer is an append-only audit record created alongside every
// warehouse-to-warehouse transfer. It is never mutated or deleted.
type ProductTransfer struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	FromWarehouseID uuid.UUID       `gorm:"type:uuid;not null" json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `gorm:"type:uuid;not null" json:"to_warehouse_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	TransferredAt   time.Time       `gorm:"not null" json:"transferred_at"`
}

// TableName returns the table name for GORM
func (ProductTransfer) TableName() string {
	return "product_transfers"
}

// NewProductTransfer records a warehouse-to-warehouse stock movement
func NewProductTransfer(accountID, productID, fromWarehouseID, toWarehouseID uuid.UUID, quantity decimal.Decimal) (*ProductTransfer, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if fromWarehouseID == uuid.Nil || toWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse IDs cannot be empty")
	}
	if fromWarehouseID == toWarehouseID {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &ProductTransfer{
		ID:              uuid.New(),
		AccountID:       accountID,
		ProductID:       productID,
		FromWarehouseID: fromWarehouseID,
		ToWarehouseID:   toWarehouseID,
		Quantity:        quantity,
		TransferredAt:   time.Now(),
	}, nil
}
