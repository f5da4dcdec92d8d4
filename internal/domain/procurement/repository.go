package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForAccount finds a purchase order by ID for a specific account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderCode finds a purchase order by order code for an account
	FindByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*PurchaseOrder, error)

	// FindAllForAccount finds all purchase orders for an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByCatalog finds purchase orders placed against a catalog
	FindByCatalog(ctx context.Context, accountID, catalogID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status for an account
	FindByStatus(ctx context.Context, accountID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	// This implements the transactional outbox pattern - events are saved to the outbox table
	// in the same transaction as the aggregate, ensuring guaranteed event delivery
	SaveWithLockAndEvents(ctx context.Context, order *PurchaseOrder, events []shared.DomainEvent) error

	// Delete deletes a purchase order
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForAccount deletes a purchase order for an account
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// CountForAccount counts purchase orders for an account with optional filters
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts purchase orders by status for an account
	CountByStatus(ctx context.Context, accountID uuid.UUID, status PurchaseOrderStatus) (int64, error)

	// ExistsByOrderCode checks if an order code exists for an account
	ExistsByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (bool, error)

	// GenerateOrderCode generates a unique order code for an account
	GenerateOrderCode(ctx context.Context, accountID uuid.UUID) (string, error)
}

// CatalogRepository defines the interface for catalog persistence
type CatalogRepository interface {
	// FindByID finds a catalog by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Catalog, error)

	// FindByIDForAccount finds a catalog by ID for a specific owner account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Catalog, error)

	// FindAllForAccount finds all catalogs owned by an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Catalog, error)

	// FindPublished finds published catalogs visible to buyers
	FindPublished(ctx context.Context, filter shared.Filter) ([]Catalog, error)

	// Save creates or updates a catalog
	Save(ctx context.Context, catalog *Catalog) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, catalog *Catalog) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	SaveWithLockAndEvents(ctx context.Context, catalog *Catalog, events []shared.DomainEvent) error

	// Delete deletes a catalog
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForAccount deletes a catalog for an owner account
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// CountForAccount counts catalogs owned by an account
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
}
