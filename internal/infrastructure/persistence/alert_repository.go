package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// GormAlertRepository implements alerting.AlertRepository using GORM.
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GORM-based alert repository.
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by ID.
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alerting.Alert, error) {
	var alert alerting.Alert
	err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindByIDForAccount finds an alert by ID scoped to an account.
func (r *GormAlertRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*alerting.Alert, error) {
	var alert alerting.Alert
	err := r.db.WithContext(ctx).
		First(&alert, "id = ? AND account_id = ?", id, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindAllForAccount finds all alerts for an account with filtering.
func (r *GormAlertRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByInventory finds alerts for an inventory record.
func (r *GormAlertRepository) FindByInventory(ctx context.Context, accountID, inventoryID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND inventory_id = ?", accountID, inventoryID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindBySeverity finds alerts by severity for an account.
func (r *GormAlertRepository) FindBySeverity(ctx context.Context, accountID uuid.UUID, severity alerting.Severity, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND severity = ?", accountID, severity)
	query = r.applyFilter(query, filter)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindUnacknowledged finds alerts not yet acknowledged for an account.
func (r *GormAlertRepository) FindUnacknowledged(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	var alerts []alerting.Alert
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND acknowledged = ?", accountID, false)
	query = r.applyFilter(query, filter)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Save creates or updates an alert.
func (r *GormAlertRepository) Save(ctx context.Context, alert *alerting.Alert) error {
	alert.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(alert).Error
}

// SaveWithLock saves an alert with optimistic locking. Acknowledging is the
// only mutation alerts support, so a conflict means it was already acknowledged
// concurrently.
func (r *GormAlertRepository) SaveWithLock(ctx context.Context, alert *alerting.Alert) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&alerting.Alert{}).
		Where("id = ?", alert.ID).Count(&count).Error; err != nil {
		return err
	}

	alert.UpdatedAt = time.Now()

	if count == 0 {
		return r.db.WithContext(ctx).Create(alert).Error
	}

	result := r.db.WithContext(ctx).Model(&alerting.Alert{}).
		Where("id = ? AND version = ?", alert.ID, alert.Version-1).
		Updates(map[string]interface{}{
			"acknowledged":    alert.Acknowledged,
			"acknowledged_at": alert.AcknowledgedAt,
			"version":         alert.Version,
			"updated_at":      alert.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForAccount counts alerts for an account.
func (r *GormAlertRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&alerting.Alert{}).Where("account_id = ?", accountID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnacknowledged counts unacknowledged alerts for an account.
func (r *GormAlertRepository) CountUnacknowledged(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&alerting.Alert{}).
		Where("account_id = ? AND acknowledged = ?", accountID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan removes acknowledged alerts generated before the cutoff.
// Returns the number of alerts removed.
func (r *GormAlertRepository) DeleteOlderThan(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND acknowledged = ? AND generated_at < ?", accountID, true, cutoff).
		Delete(&alerting.Alert{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteAcknowledgedBefore removes acknowledged alerts generated before the
// cutoff for every account. Returns the number of alerts removed.
func (r *GormAlertRepository) DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("acknowledged = ? AND generated_at < ?", true, cutoff).
		Delete(&alerting.Alert{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := validateSortField(filter.OrderBy, alertSortFields)
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

func (r *GormAlertRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("title LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "severity":
			query = query.Where("severity = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "acknowledged":
			query = query.Where("acknowledged = ?", value)
		case "inventory_id":
			query = query.Where("inventory_id = ?", value)
		}
	}

	return query
}

var _ alerting.AlertRepository = (*GormAlertRepository)(nil)
