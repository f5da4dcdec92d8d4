package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// GormProductExitRepository implements inventory.ProductExitRepository.
// Exit rows are an append-only audit trail; there is no update or delete.
type GormProductExitRepository struct {
	db *gorm.DB
}

// NewGormProductExitRepository creates a new GORM-based product exit repository.
func NewGormProductExitRepository(db *gorm.DB) *GormProductExitRepository {
	return &GormProductExitRepository{db: db}
}

// Save appends an exit record.
func (r *GormProductExitRepository) Save(ctx context.Context, exit *inventory.ProductExit) error {
	return r.db.WithContext(ctx).Create(exit).Error
}

// FindByInventory finds exits for a ledger record.
func (r *GormProductExitRepository) FindByInventory(ctx context.Context, accountID, inventoryID uuid.UUID, filter shared.Filter) ([]inventory.ProductExit, error) {
	var exits []inventory.ProductExit
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND inventory_id = ?", accountID, inventoryID)
	query = applyMovementFilter(query, filter, "exited_at")
	if err := query.Find(&exits).Error; err != nil {
		return nil, err
	}
	return exits, nil
}

// FindAllForAccount finds exits for an account with filtering.
func (r *GormProductExitRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]inventory.ProductExit, error) {
	var exits []inventory.ProductExit
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	query = applyMovementFilter(query, filter, "exited_at")
	if err := query.Find(&exits).Error; err != nil {
		return nil, err
	}
	return exits, nil
}

// GormProductTransferRepository implements inventory.ProductTransferRepository.
// Transfer rows are an append-only audit trail; there is no update or delete.
type GormProductTransferRepository struct {
	db *gorm.DB
}

// NewGormProductTransferRepository creates a new GORM-based product transfer repository.
func NewGormProductTransferRepository(db *gorm.DB) *GormProductTransferRepository {
	return &GormProductTransferRepository{db: db}
}

// Save appends a transfer record.
func (r *GormProductTransferRepository) Save(ctx context.Context, transfer *inventory.ProductTransfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// FindByProduct finds transfers for a product.
func (r *GormProductTransferRepository) FindByProduct(ctx context.Context, accountID, productID uuid.UUID, filter shared.Filter) ([]inventory.ProductTransfer, error) {
	var transfers []inventory.ProductTransfer
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND product_id = ?", accountID, productID)
	query = applyMovementFilter(query, filter, "transferred_at")
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// FindAllForAccount finds transfers for an account with filtering.
func (r *GormProductTransferRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]inventory.ProductTransfer, error) {
	var transfers []inventory.ProductTransfer
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	query = applyMovementFilter(query, filter, "transferred_at")
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// applyMovementFilter applies pagination and time-ordering to a movement
// query. Movement rows have a fixed timestamp column and no mutable fields,
// so sorting is restricted to that column.
func applyMovementFilter(query *gorm.DB, filter shared.Filter, timeColumn string) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}

	query = query.Order(fmt.Sprintf("%s %s", timeColumn, validateSortOrder(filter.OrderDir)))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	return query
}

var (
	_ inventory.ProductExitRepository     = (*GormProductExitRepository)(nil)
	_ inventory.ProductTransferRepository = (*GormProductTransferRepository)(nil)
)
