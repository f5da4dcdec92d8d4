package alerting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// AlertRepository defines the interface for alert persistence
type AlertRepository interface {
	// FindByID finds an alert by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// FindByIDForAccount finds an alert by ID for a specific account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Alert, error)

	// FindAllForAccount finds all alerts for an account with filtering
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// FindByInventory finds alerts for an inventory record
	FindByInventory(ctx context.Context, accountID, inventoryID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// FindBySeverity finds alerts by severity for an account
	FindBySeverity(ctx context.Context, accountID uuid.UUID, severity Severity, filter shared.Filter) ([]Alert, error)

	// FindUnacknowledged finds alerts not yet acknowledged for an account
	FindUnacknowledged(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Alert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *Alert) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, alert *Alert) error

	// CountForAccount counts alerts for an account
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// CountUnacknowledged counts unacknowledged alerts for an account
	CountUnacknowledged(ctx context.Context, accountID uuid.UUID) (int64, error)

	// DeleteOlderThan removes acknowledged alerts generated before the cutoff
	DeleteOlderThan(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (int64, error)

	// DeleteAcknowledgedBefore removes acknowledged alerts generated before the
	// cutoff across all accounts. Used by background housekeeping.
	DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
