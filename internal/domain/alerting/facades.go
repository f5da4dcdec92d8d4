package alerting

import (
	"context"

	"github.com/google/uuid"
)

// AlertCreator is the cross-context entry point into alerting. Inventory
// event handlers go through it instead of the alert repository.
type AlertCreator interface {
	CreateAlert(ctx context.Context, accountID, inventoryID uuid.UUID, title, message string, severity Severity, alertType AlertType) (uuid.UUID, error)
}
