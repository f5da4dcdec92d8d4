package alerting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

func TestSeverity_IsValid(t *testing.T) {
	assert.True(t, SeverityInfo.IsValid())
	assert.True(t, SeverityWarning.IsValid())
	assert.True(t, SeverityCritical.IsValid())
	assert.False(t, Severity("FATAL").IsValid())
	assert.False(t, Severity("").IsValid())
}

func TestAlertType_IsValid(t *testing.T) {
	assert.True(t, AlertTypeProductOutOfStock.IsValid())
	assert.True(t, AlertTypeProductLowStock.IsValid())
	assert.True(t, AlertTypeProductExpiring.IsValid())
	assert.False(t, AlertType("SomethingElse").IsValid())
}

func TestNewAlert(t *testing.T) {
	accountID := uuid.New()
	inventoryID := uuid.New()

	alert, err := NewAlert(accountID, inventoryID, "Out of stock",
		"Product Quebranta Pisco in warehouse Lima Central does not have any stock left.",
		SeverityCritical, AlertTypeProductOutOfStock)

	require.NoError(t, err)
	assert.Equal(t, accountID, alert.AccountID)
	assert.Equal(t, inventoryID, alert.InventoryID)
	assert.Equal(t, SeverityCritical, alert.Severity)
	assert.Equal(t, AlertTypeProductOutOfStock, alert.Type)
	assert.True(t, alert.IsCritical())
	assert.False(t, alert.Acknowledged)
	assert.False(t, alert.GeneratedAt.IsZero())
}

func TestNewAlert_Validation(t *testing.T) {
	tests := []struct {
		name      string
		accountID uuid.UUID
		invID     uuid.UUID
		title     string
		message   string
		severity  Severity
		alertType AlertType
		wantCode  string
	}{
		{"empty account", uuid.Nil, uuid.New(), "t", "m", SeverityInfo, AlertTypeProductLowStock, "INVALID_ACCOUNT"},
		{"empty inventory", uuid.New(), uuid.Nil, "t", "m", SeverityInfo, AlertTypeProductLowStock, "INVALID_INVENTORY"},
		{"empty title", uuid.New(), uuid.New(), "", "m", SeverityInfo, AlertTypeProductLowStock, "INVALID_TITLE"},
		{"empty message", uuid.New(), uuid.New(), "t", "", SeverityInfo, AlertTypeProductLowStock, "INVALID_MESSAGE"},
		{"unknown severity", uuid.New(), uuid.New(), "t", "m", Severity("LOUD"), AlertTypeProductLowStock, "INVALID_INPUT"},
		{"unknown type", uuid.New(), uuid.New(), "t", "m", SeverityInfo, AlertType("Other"), "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAlert(tt.accountID, tt.invID, tt.title, tt.message, tt.severity, tt.alertType)
			var derr *shared.DomainError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.wantCode, derr.Code)
		})
	}
}

func TestAlert_Acknowledge(t *testing.T) {
	alert, err := NewAlert(uuid.New(), uuid.New(), "Low stock", "running low", SeverityWarning, AlertTypeProductLowStock)
	require.NoError(t, err)

	require.NoError(t, alert.Acknowledge())
	assert.True(t, alert.Acknowledged)
	assert.NotNil(t, alert.AcknowledgedAt)

	err = alert.Acknowledge()
	assert.Error(t, err)
}
