package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID finds a sales order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByIDForAccount finds a sales order by ID for a specific account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderCode finds a sales order by order code for an account
	FindByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*SalesOrder, error)

	// FindByPurchaseOrder finds the sales order converted from a purchase order
	FindByPurchaseOrder(ctx context.Context, accountID, purchaseOrderID uuid.UUID) (*SalesOrder, error)

	// FindAllForAccount finds all sales orders for an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByStatus finds sales orders by status for an account
	FindByStatus(ctx context.Context, accountID uuid.UUID, status SalesOrderStatus, filter shared.Filter) ([]SalesOrder, error)

	// FindByCatalog finds sales orders placed against a catalog
	FindByCatalog(ctx context.Context, accountID, catalogID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// Save creates or updates a sales order
	Save(ctx context.Context, order *SalesOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// SaveWithLockAndEvents saves with optimistic locking and persists domain events atomically
	// This implements the transactional outbox pattern - events are saved to the outbox table
	// in the same transaction as the aggregate, ensuring guaranteed event delivery
	SaveWithLockAndEvents(ctx context.Context, order *SalesOrder, events []shared.DomainEvent) error

	// Delete deletes a sales order
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForAccount deletes a sales order for an account
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// CountForAccount counts sales orders for an account with optional filters
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts sales orders by status for an account
	CountByStatus(ctx context.Context, accountID uuid.UUID, status SalesOrderStatus) (int64, error)

	// ExistsByOrderCode checks if an order code exists for an account
	ExistsByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (bool, error)

	// GenerateOrderCode generates a unique order code for an account
	GenerateOrderCode(ctx context.Context, accountID uuid.UUID) (string, error)
}
