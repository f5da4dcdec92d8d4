package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository
// using GORM. Lifecycle writes go through optimistic locking and the
// transactional outbox so state changes and their events commit together.
type GormPurchaseOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormPurchaseOrderRepository creates a new GORM-based purchase order repository.
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event persistence.
func (r *GormPurchaseOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a purchase order by ID.
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForAccount finds a purchase order by ID scoped to an account.
func (r *GormPurchaseOrderRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").
		First(&order, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderCode finds a purchase order by its order code for an account.
func (r *GormPurchaseOrderRepository) FindByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Items").
		First(&order, "account_id = ? AND order_code = ?", accountID, orderCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForAccount finds all purchase orders for an account with filtering.
func (r *GormPurchaseOrderRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.db.WithContext(ctx).Preload("Items").Where("account_id = ?", accountID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCatalog finds purchase orders placed against a catalog.
func (r *GormPurchaseOrderRepository) FindByCatalog(ctx context.Context, accountID, catalogID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.db.WithContext(ctx).Preload("Items").
		Where("account_id = ? AND catalog_id = ?", accountID, catalogID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders by status for an account.
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, accountID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder
	query := r.db.WithContext(ctx).Preload("Items").
		Where("account_id = ? AND status = ?", accountID, status)
	query = r.applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order without optimistic locking.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	order.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves a purchase order with optimistic locking.
// Returns shared.ErrConcurrencyConflict if the stored version does not match.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(ctx, tx, order)
	})
}

// SaveWithLockAndEvents saves a purchase order with optimistic locking and
// persists the given domain events to the outbox in the same transaction.
func (r *GormPurchaseOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *procurement.PurchaseOrder, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(ctx, tx, order); err != nil {
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

// saveWithLockTx performs the version-checked write inside an open transaction.
// New aggregates are inserted; existing ones are updated only when the stored
// version matches the version the aggregate was loaded at.
func (r *GormPurchaseOrderRepository) saveWithLockTx(ctx context.Context, tx *gorm.DB, order *procurement.PurchaseOrder) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}

	order.UpdatedAt = time.Now()

	if count == 0 {
		return tx.WithContext(ctx).Create(order).Error
	}

	// Domain methods increment the version before saving, so the stored
	// row must still hold the previous version for the CAS to succeed.
	result := tx.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"warehouse_id":      order.WarehouseID,
			"status":            order.Status,
			"confirmation_date": order.ConfirmationDate,
			"shipped_at":        order.ShippedAt,
			"received_at":       order.ReceivedAt,
			"cancelled_at":      order.CancelledAt,
			"cancel_reason":     order.CancelReason,
			"is_order_sent":     order.IsOrderSent,
			"version":           order.Version,
			"updated_at":        order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	return r.reconcileItems(ctx, tx, order)
}

// reconcileItems syncs the order_items rows with the aggregate's current items.
func (r *GormPurchaseOrderRepository) reconcileItems(ctx context.Context, tx *gorm.DB, order *procurement.PurchaseOrder) error {
	itemIDs := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		itemIDs = append(itemIDs, order.Items[i].ID)
	}

	del := tx.WithContext(ctx).Where("order_id = ?", order.ID)
	if len(itemIDs) > 0 {
		del = del.Where("id NOT IN ?", itemIDs)
	}
	if err := del.Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		if err := tx.WithContext(ctx).Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a purchase order and its items.
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&procurement.PurchaseOrder{}, "id = ?", id).Error
	})
}

// DeleteForAccount deletes a purchase order scoped to an account.
func (r *GormPurchaseOrderRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND account_id = ?", id, accountID).Delete(&procurement.PurchaseOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&procurement.PurchaseOrderItem{}).Error
	})
}

// CountForAccount counts purchase orders for an account with optional filters.
func (r *GormPurchaseOrderRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).Where("account_id = ?", accountID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts purchase orders by status for an account.
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context, accountID uuid.UUID, status procurement.PurchaseOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("account_id = ? AND status = ?", accountID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderCode checks if an order code exists for an account.
func (r *GormPurchaseOrderRepository) ExistsByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("account_id = ? AND order_code = ?", accountID, orderCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderCode generates the next sequential order code for an account
// in the form PO-YYYY-NNNNN. The sequence restarts each year.
func (r *GormPurchaseOrderRepository) GenerateOrderCode(ctx context.Context, accountID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastCode string
	err := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("account_id = ? AND order_code LIKE ?", accountID, prefix+"%").
		Order("order_code DESC").
		Limit(1).
		Pluck("order_code", &lastCode).Error
	if err != nil {
		return "", err
	}

	sequence := 1
	if lastCode != "" {
		parts := strings.Split(lastCode, "-")
		if len(parts) == 3 {
			if n, err := strconv.Atoi(parts[2]); err == nil {
				sequence = n + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, sequence), nil
}

// applyFilter applies filtering, sorting and pagination to a query.
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := validateSortField(filter.OrderBy, purchaseOrderSortFields)
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

// applyFilterWithoutPagination applies search and field filters only,
// for queries that count rather than list.
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_code LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "catalog_id":
			query = query.Where("catalog_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "is_order_sent":
			query = query.Where("is_order_sent = ?", value)
		}
	}

	return query
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
