package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// GormCatalogRepository implements procurement.CatalogRepository using GORM.
type GormCatalogRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormCatalogRepository creates a new GORM-based catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event persistence.
func (r *GormCatalogRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a catalog by ID.
func (r *GormCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Catalog, error) {
	var catalog procurement.Catalog
	err := r.db.WithContext(ctx).Preload("Items").First(&catalog, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &catalog, nil
}

// FindByIDForAccount finds a catalog by ID scoped to its owner account.
func (r *GormCatalogRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*procurement.Catalog, error) {
	var catalog procurement.Catalog
	err := r.db.WithContext(ctx).Preload("Items").
		First(&catalog, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &catalog, nil
}

// FindAllForAccount finds all catalogs owned by an account with filtering.
func (r *GormCatalogRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]procurement.Catalog, error) {
	var catalogs []procurement.Catalog
	query := r.db.WithContext(ctx).Preload("Items").Where("account_id = ?", accountID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&catalogs).Error; err != nil {
		return nil, err
	}
	return catalogs, nil
}

// FindPublished finds published catalogs visible to buyers, across accounts.
func (r *GormCatalogRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]procurement.Catalog, error) {
	var catalogs []procurement.Catalog
	query := r.db.WithContext(ctx).Preload("Items").Where("is_published = ?", true)
	query = r.applyFilter(query, filter)
	if err := query.Find(&catalogs).Error; err != nil {
		return nil, err
	}
	return catalogs, nil
}

// Save creates or updates a catalog without optimistic locking.
func (r *GormCatalogRepository) Save(ctx context.Context, catalog *procurement.Catalog) error {
	catalog.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(catalog).Error
}

// SaveWithLock saves a catalog with optimistic locking.
func (r *GormCatalogRepository) SaveWithLock(ctx context.Context, catalog *procurement.Catalog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithLockTx(ctx, tx, catalog)
	})
}

// SaveWithLockAndEvents saves a catalog with optimistic locking and persists
// the given domain events to the outbox in the same transaction.
func (r *GormCatalogRepository) SaveWithLockAndEvents(ctx context.Context, catalog *procurement.Catalog, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.saveWithLockTx(ctx, tx, catalog); err != nil {
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

func (r *GormCatalogRepository) saveWithLockTx(ctx context.Context, tx *gorm.DB, catalog *procurement.Catalog) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&procurement.Catalog{}).
		Where("id = ?", catalog.ID).Count(&count).Error; err != nil {
		return err
	}

	catalog.UpdatedAt = time.Now()

	if count == 0 {
		return tx.WithContext(ctx).Create(catalog).Error
	}

	result := tx.WithContext(ctx).Model(&procurement.Catalog{}).
		Where("id = ? AND version = ?", catalog.ID, catalog.Version-1).
		Updates(map[string]interface{}{
			"name":          catalog.Name,
			"description":   catalog.Description,
			"contact_email": catalog.ContactEmail,
			"is_published":  catalog.IsPublished,
			"version":       catalog.Version,
			"updated_at":    catalog.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	return r.reconcileItems(ctx, tx, catalog)
}

func (r *GormCatalogRepository) reconcileItems(ctx context.Context, tx *gorm.DB, catalog *procurement.Catalog) error {
	itemIDs := make([]uuid.UUID, 0, len(catalog.Items))
	for i := range catalog.Items {
		itemIDs = append(itemIDs, catalog.Items[i].ID)
	}

	del := tx.WithContext(ctx).Where("catalog_id = ?", catalog.ID)
	if len(itemIDs) > 0 {
		del = del.Where("id NOT IN ?", itemIDs)
	}
	if err := del.Delete(&procurement.CatalogItem{}).Error; err != nil {
		return err
	}

	for i := range catalog.Items {
		if err := tx.WithContext(ctx).Save(&catalog.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a catalog and its items.
func (r *GormCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("catalog_id = ?", id).Delete(&procurement.CatalogItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&procurement.Catalog{}, "id = ?", id).Error
	})
}

// DeleteForAccount deletes a catalog scoped to its owner account.
func (r *GormCatalogRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND account_id = ?", id, accountID).Delete(&procurement.Catalog{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("catalog_id = ?", id).Delete(&procurement.CatalogItem{}).Error
	})
}

// CountForAccount counts catalogs owned by an account.
func (r *GormCatalogRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.Catalog{}).Where("account_id = ?", accountID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCatalogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := validateSortField(filter.OrderBy, catalogSortFields)
	// "published" sorts on the actual column name
	if orderBy == "published" {
		orderBy = "is_published"
	}
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

func (r *GormCatalogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_published":
			query = query.Where("is_published = ?", value)
		}
	}

	return query
}

var _ procurement.CatalogRepository = (*GormCatalogRepository)(nil)
