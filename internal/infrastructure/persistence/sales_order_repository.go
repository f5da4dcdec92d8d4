package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM.
type GormSalesOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormSalesOrderRepository creates a new GORM-based sales order repository.
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event persistence.
func (r *GormSalesOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a sales order by ID.
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForAccount finds a sales order by ID scoped to an account.
func (r *GormSalesOrderRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
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

// FindByOrderCode finds a sales order by its order code for an account.
func (r *GormSalesOrderRepository) FindByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
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

// FindByPurchaseOrder finds the sales order converted from a purchase order.
// Used for idempotent conversion: converting the same purchase order twice
// returns the existing sales order instead of creating a duplicate.
func (r *GormSalesOrderRepository) FindByPurchaseOrder(ctx context.Context, accountID, purchaseOrderID uuid.UUID) (*sales.SalesOrder, error) {
	var order sales.SalesOrder
	err := r.db.WithContext(ctx).Preload("Items").
		First(&order, "account_id = ? AND purchase_order_id = ?", accountID, purchaseOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForAccount finds all sales orders for an account with filtering.
func (r *GormSalesOrderRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := r.db.WithContext(ctx).Preload("Items").Where("account_id = ?", accountID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds sales orders by status for an account.
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, accountID uuid.UUID, status sales.SalesOrderStatus, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := r.db.WithContext(ctx).Preload("Items").
		Where("account_id = ? AND status = ?", accountID, status)
	query = r.applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCatalog finds sales orders placed against a catalog.
func (r *GormSalesOrderRepository) FindByCatalog(ctx context.Context, accountID, catalogID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	var orders []sales.SalesOrder
	query := r.db.WithContext(ctx).Preload("Items").
		Where("account_id = ? AND catalog_to_buy_from = ?", accountID, catalogID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a sales order without optimistic locking.
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.SalesOrder) error {
	order.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves a sales order with optimistic locking.
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(ctx, tx, order)
	})
}

// SaveWithLockAndEvents saves a sales order with optimistic locking and
// persists the given domain events to the outbox in the same transaction.
func (r *GormSalesOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *sales.SalesOrder, events []shared.DomainEvent) error {
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

func (r *GormSalesOrderRepository) saveWithLockTx(ctx context.Context, tx *gorm.DB, order *sales.SalesOrder) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&sales.SalesOrder{}).
		Where("id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}

	order.UpdatedAt = time.Now()

	if count == 0 {
		return tx.WithContext(ctx).Create(order).Error
	}

	result := tx.WithContext(ctx).Model(&sales.SalesOrder{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"purchase_order_id": order.PurchaseOrderID,
			"status":            order.Status,
			"delivery_proposal": deliveryProposalValue(order),
			"completion_date":   order.CompletionDate,
			"shipped_at":        order.ShippedAt,
			"cancelled_at":      order.CancelledAt,
			"cancel_reason":     order.CancelReason,
			"status_reason":     order.StatusReason,
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

// deliveryProposalValue serializes the proposal for a raw column update.
// The json serializer tag only applies on struct-based writes, so map
// updates must marshal explicitly.
func deliveryProposalValue(order *sales.SalesOrder) interface{} {
	if order.DeliveryProposal == nil {
		return nil
	}
	data, err := json.Marshal(order.DeliveryProposal)
	if err != nil {
		return nil
	}
	return string(data)
}

func (r *GormSalesOrderRepository) reconcileItems(ctx context.Context, tx *gorm.DB, order *sales.SalesOrder) error {
	itemIDs := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		itemIDs = append(itemIDs, order.Items[i].ID)
	}

	del := tx.WithContext(ctx).Where("order_id = ?", order.ID)
	if len(itemIDs) > 0 {
		del = del.Where("id NOT IN ?", itemIDs)
	}
	if err := del.Delete(&sales.SalesOrderItem{}).Error; err != nil {
		return err
	}

	for i := range order.Items {
		if err := tx.WithContext(ctx).Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a sales order and its items.
func (r *GormSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&sales.SalesOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sales.SalesOrder{}, "id = ?", id).Error
	})
}

// DeleteForAccount deletes a sales order scoped to an account.
func (r *GormSalesOrderRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND account_id = ?", id, accountID).Delete(&sales.SalesOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("order_id = ?", id).Delete(&sales.SalesOrderItem{}).Error
	})
}

// CountForAccount counts sales orders for an account with optional filters.
func (r *GormSalesOrderRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&sales.SalesOrder{}).Where("account_id = ?", accountID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts sales orders by status for an account.
func (r *GormSalesOrderRepository) CountByStatus(ctx context.Context, accountID uuid.UUID, status sales.SalesOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sales.SalesOrder{}).
		Where("account_id = ? AND status = ?", accountID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderCode checks if an order code exists for an account.
func (r *GormSalesOrderRepository) ExistsByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&sales.SalesOrder{}).
		Where("account_id = ? AND order_code = ?", accountID, orderCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderCode generates the next sequential order code for an account
// in the form SO-YYYY-NNNNN. The sequence restarts each year.
func (r *GormSalesOrderRepository) GenerateOrderCode(ctx context.Context, accountID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SO-%d-", year)

	var lastCode string
	err := r.db.WithContext(ctx).Model(&sales.SalesOrder{}).
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

func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := validateSortField(filter.OrderBy, salesOrderSortFields)
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

func (r *GormSalesOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_code LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "catalog_id":
			query = query.Where("catalog_to_buy_from = ?", value)
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		}
	}

	return query
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
