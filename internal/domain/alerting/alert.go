package alerting

import (
	"time"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// Severity classifies how urgent an alert is. The enum is closed; unknown
// values are rejected at the boundary.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// IsValid checks if the severity is a known value
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// AlertType classifies what condition produced an alert. The enum is
// closed; unknown values are rejected at the boundary.
type AlertType string

const (
	AlertTypeProductOutOfStock AlertType = "ProductOutOfStock"
	AlertTypeProductLowStock   AlertType = "ProductLowStock"
	AlertTypeProductExpiring   AlertType = "ProductExpiring"
)

// IsValid checks if the alert type is a known value
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeProductOutOfStock, AlertTypeProductLowStock, AlertTypeProductExpiring:
		return true
	}
	return false
}

// String returns the string representation of AlertType
func (t AlertType) String() string {
	return string(t)
}

// Alert is an append-only notification produced by consumed domain events
// or direct facade calls. It is queried by account or inventory record and
// never mutated after creation, except to be acknowledged.
type Alert struct {
	shared.AccountAggregateRoot
	Title       string    `gorm:"type:varchar(200);not null"`
	Message     string    `gorm:"type:varchar(1000);not null"`
	Severity    Severity  `gorm:"type:varchar(20);not null;index"`
	Type        AlertType `gorm:"type:varchar(50);not null;index"`
	InventoryID    uuid.UUID `gorm:"type:uuid;not null;index"`
	GeneratedAt    time.Time `gorm:"not null"`
	Acknowledged   bool      `gorm:"not null;default:false"`
	AcknowledgedAt *time.Time
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "alerts"
}

// NewAlert creates a new alert for an account's inventory record
func NewAlert(accountID, inventoryID uuid.UUID, title, message string, severity Severity, alertType AlertType) (*Alert, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if inventoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY", "Inventory ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Alert title cannot be empty")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Alert message cannot be empty")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown alert severity: "+string(severity))
	}
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown alert type: "+string(alertType))
	}

	return &Alert{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Title:                title,
		Message:              message,
		Severity:             severity,
		Type:                 alertType,
		InventoryID:          inventoryID,
		GeneratedAt:          time.Now(),
	}, nil
}

// Acknowledge marks the alert as seen
func (a *Alert) Acknowledge() error {
	if a.Acknowledged {
		return shared.NewDomainError("INVALID_STATE", "Alert has already been acknowledged")
	}

	now := time.Now()
	a.Acknowledged = true
	a.AcknowledgedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}

// IsCritical returns true for critical alerts
func (a *Alert) IsCritical() bool {
	return a.Severity == SeverityCritical
}
