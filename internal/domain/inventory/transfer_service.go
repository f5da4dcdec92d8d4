package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// TransferService moves stock between two ledger records of the same
// product. It mutates both aggregates and builds the audit row; the
// caller persists all three in a single transaction so the transfer
// either fully applies or not at all.
type TransferService struct{}

// NewTransferService creates a new TransferService
func NewTransferService() *TransferService {
	return &TransferService{}
}

// TransferResult holds the mutated records and the audit row to persist together
type TransferResult struct {
	Source      *Inventory
	Destination *Inventory
	Transfer    *ProductTransfer
}

// Transfer decreases the source record and increases the destination
// record. Guards run before any mutation, so a failed transfer leaves
// both records untouched.
func (s *TransferService) Transfer(source, destination *Inventory, quantity decimal.Decimal) (*TransferResult, error) {
	if source == nil || destination == nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY", "Source and destination records are required")
	}
	if source.AccountID != destination.AccountID {
		return nil, shared.NewDomainError("INVALID_INVENTORY", "Transfer must stay within one account")
	}
	if source.ProductID != destination.ProductID {
		return nil, shared.NewDomainError("INVALID_INVENTORY", "Transfer must move a single product")
	}
	if source.WarehouseID == destination.WarehouseID {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !source.CanFulfill(quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Source warehouse does not hold enough stock")
	}

	transfer, err := NewProductTransfer(source.AccountID, source.ProductID, source.WarehouseID, destination.WarehouseID, quantity)
	if err != nil {
		return nil, err
	}

	if err := source.DecreaseStock(quantity); err != nil {
		return nil, err
	}
	if err := destination.AddStock(quantity); err != nil {
		return nil, err
	}

	source.AddDomainEvent(NewStockTransferredEvent(source, destination.WarehouseID, quantity))

	return &TransferResult{
		Source:      source,
		Destination: destination,
		Transfer:    transfer,
	}, nil
}
