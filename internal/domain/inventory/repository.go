package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// InventoryRepository defines the interface for stock ledger persistence
type InventoryRepository interface {
	// FindByID finds a ledger record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Inventory, error)

	// FindByIDForAccount finds a ledger record by ID for a specific account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Inventory, error)

	// FindByLedgerKey finds the record for (account, product, warehouse, expirationDate|null)
	FindByLedgerKey(ctx context.Context, accountID, productID, warehouseID uuid.UUID, expirationDate *time.Time) (*Inventory, error)

	// FindByProduct finds all ledger records for a product across warehouses
	FindByProduct(ctx context.Context, accountID, productID uuid.UUID) ([]Inventory, error)

	// FindByWarehouse finds all ledger records in a warehouse
	FindByWarehouse(ctx context.Context, accountID, warehouseID uuid.UUID, filter shared.Filter) ([]Inventory, error)

	// FindAllForAccount finds all ledger records for an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Inventory, error)

	// FindLowStock finds records with 0 < quantity <= minimum stock
	FindLowStock(ctx context.Context, accountID uuid.UUID) ([]Inventory, error)

	// FindWithoutStock finds records whose quantity reached zero
	FindWithoutStock(ctx context.Context, accountID uuid.UUID) ([]Inventory, error)

	// FindExpiringBefore finds expirable records with an expiration date before the cutoff
	FindExpiringBefore(ctx context.Context, accountID uuid.UUID, cutoff time.Time) ([]Inventory, error)

	// Save creates or updates a ledger record
	Save(ctx context.Context, record *Inventory) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, record *Inventory) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	// This implements the transactional outbox pattern - events are saved to the outbox table
	// in the same transaction as the aggregate, ensuring guaranteed event delivery
	SaveWithLockAndEvents(ctx context.Context, record *Inventory, events []shared.DomainEvent) error

	// SaveTransfer atomically persists both mutated records, the transfer audit
	// row, and the given domain events in one transaction
	SaveTransfer(ctx context.Context, result *TransferResult, events []shared.DomainEvent) error

	// SaveDecrease atomically persists the mutated record, the exit audit row,
	// and the given domain events in one transaction
	SaveDecrease(ctx context.Context, record *Inventory, exit *ProductExit, events []shared.DomainEvent) error

	// Delete deletes a ledger record
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForAccount counts ledger records for an account
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
}

// ProductExitRepository defines the interface for exit audit persistence.
// Exits are append-only; there is no update or delete.
type ProductExitRepository interface {
	// Save appends an exit record
	Save(ctx context.Context, exit *ProductExit) error

	// FindByInventory finds exits for a ledger record
	FindByInventory(ctx context.Context, accountID, inventoryID uuid.UUID, filter shared.Filter) ([]ProductExit, error)

	// FindAllForAccount finds exits for an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]ProductExit, error)
}

// ProductTransferRepository defines the interface for transfer audit persistence.
// Transfers are append-only; there is no update or delete.
type ProductTransferRepository interface {
	// Save appends a transfer record
	Save(ctx context.Context, transfer *ProductTransfer) error

	// FindByProduct finds transfers for a product
	FindByProduct(ctx context.Context, accountID, productID uuid.UUID, filter shared.Filter) ([]ProductTransfer, error)

	// FindAllForAccount finds transfers for an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]ProductTransfer, error)
}
