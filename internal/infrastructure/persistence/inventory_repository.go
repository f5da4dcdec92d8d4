package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// GormInventoryRepository implements inventory.InventoryRepository using GORM.
// The ledger has one row per (account, product, warehouse, expiration date)
// and every quantity change goes through a version-checked update.
type GormInventoryRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormInventoryRepository creates a new GORM-based inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event persistence.
func (r *GormInventoryRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a ledger record by ID.
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Inventory, error) {
	var record inventory.Inventory
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForAccount finds a ledger record by ID scoped to an account.
func (r *GormInventoryRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*inventory.Inventory, error) {
	var record inventory.Inventory
	err := r.db.WithContext(ctx).
		First(&record, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLedgerKey finds the record for (account, product, warehouse, expiration date).
// A nil expiration date matches the non-expirable row for that key.
func (r *GormInventoryRepository) FindByLedgerKey(ctx context.Context, accountID, productID, warehouseID uuid.UUID, expirationDate *time.Time) (*inventory.Inventory, error) {
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ? AND warehouse_id = ?", accountID, productID, warehouseID)
	if expirationDate == nil {
		query = query.Where("expiration_date IS NULL")
	} else {
		query = query.Where("expiration_date = ?", *expirationDate)
	}

	var record inventory.Inventory
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds all ledger records for a product across warehouses.
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, accountID, productID uuid.UUID) ([]inventory.Inventory, error) {
	var records []inventory.Inventory
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Order("warehouse_id, expiration_date").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindByWarehouse finds all ledger records in a warehouse.
func (r *GormInventoryRepository) FindByWarehouse(ctx context.Context, accountID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.Inventory, error) {
	var records []inventory.Inventory
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND warehouse_id = ?", accountID, warehouseID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForAccount finds all ledger records for an account with filtering.
func (r *GormInventoryRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]inventory.Inventory, error) {
	var records []inventory.Inventory
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindLowStock finds records whose quantity is above zero but at or below
// the configured minimum stock.
func (r *GormInventoryRepository) FindLowStock(ctx context.Context, accountID uuid.UUID) ([]inventory.Inventory, error) {
	var records []inventory.Inventory
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND quantity > 0 AND minimum_stock > 0 AND quantity <= minimum_stock", accountID).
		Order("quantity ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindWithoutStock finds records whose quantity reached zero.
func (r *GormInventoryRepository) FindWithoutStock(ctx context.Context, accountID uuid.UUID) ([]inventory.Inventory, error) {
	var records []inventory.Inventory
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND quantity = 0", accountID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpiringBefore finds expirable records with an expiration date before the cutoff.
func (r *GormInventoryRepository) FindExpiringBefore(ctx context.Context, accountID uuid.UUID, cutoff time.Time) ([]inventory.Inventory, error) {
	var records []inventory.Inventory
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND expiration_date IS NOT NULL AND expiration_date < ?", accountID, cutoff).
		Order("expiration_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a ledger record without optimistic locking.
func (r *GormInventoryRepository) Save(ctx context.Context, record *inventory.Inventory) error {
	record.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves a ledger record with optimistic locking.
func (r *GormInventoryRepository) SaveWithLock(ctx context.Context, record *inventory.Inventory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(ctx, tx, record)
	})
}

// SaveWithLockAndEvents saves a ledger record with optimistic locking and
// persists the given domain events to the outbox in the same transaction.
func (r *GormInventoryRepository) SaveWithLockAndEvents(ctx context.Context, record *inventory.Inventory, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(ctx, tx, record); err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
}

// SaveTransfer atomically persists both mutated ledger records, the transfer
// audit row, and the given domain events in a single transaction. A version
// conflict on either record rolls back the whole transfer.
func (r *GormInventoryRepository) SaveTransfer(ctx context.Context, result *inventory.TransferResult, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(ctx, tx, result.Source); err != nil {
			return err
		}
		if err := r.saveWithLockTx(ctx, tx, result.Destination); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Create(result.Transfer).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
}

// SaveDecrease atomically persists the mutated ledger record, the exit audit
// row, and the given domain events in a single transaction. A version
// conflict rolls back the whole decrease, exit row included.
func (r *GormInventoryRepository) SaveDecrease(ctx context.Context, record *inventory.Inventory, exit *inventory.ProductExit, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(ctx, tx, record); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Create(exit).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}
		return nil
	})
}

func (r *GormInventoryRepository) saveWithLockTx(ctx context.Context, tx *gorm.DB, record *inventory.Inventory) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&inventory.Inventory{}).
		Where("id = ?", record.ID).Count(&count).Error; err != nil {
		return err
	}

	record.UpdatedAt = time.Now()

	if count == 0 {
		return tx.WithContext(ctx).Create(record).Error
	}

	result := tx.WithContext(ctx).Model(&inventory.Inventory{}).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity":      record.Quantity,
			"minimum_stock": record.MinimumStock,
			"version":       record.Version,
			"updated_at":    record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a ledger record.
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&inventory.Inventory{}, "id = ?", id).Error
}

// CountForAccount counts ledger records for an account.
func (r *GormInventoryRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Inventory{}).Where("account_id = ?", accountID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListAccountIDs returns the distinct account IDs that hold ledger records.
// Used by periodic metrics collection to know which accounts to sample.
func (r *GormInventoryRepository) ListAccountIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&inventory.Inventory{}).
		Distinct("account_id").
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormInventoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := validateSortField(filter.OrderBy, inventorySortFields)
	orderDir := validateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	return query
}

func (r *GormInventoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "expirable":
			if expirable, ok := value.(bool); ok {
				if expirable {
					query = query.Where("expiration_date IS NOT NULL")
				} else {
					query = query.Where("expiration_date IS NULL")
				}
			}
		}
	}
	return query
}

var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)
