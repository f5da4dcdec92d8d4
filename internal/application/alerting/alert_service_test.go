package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// MockAlertRepository is a mock implementation of AlertRepository
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alerting.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alerting.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*alerting.Alert, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alerting.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alerting.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindByInventory(ctx context.Context, accountID, inventoryID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	args := m.Called(ctx, accountID, inventoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alerting.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindBySeverity(ctx context.Context, accountID uuid.UUID, severity alerting.Severity, filter shared.Filter) ([]alerting.Alert, error) {
	args := m.Called(ctx, accountID, severity, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alerting.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindUnacknowledged(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]alerting.Alert, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alerting.Alert), args.Error(1)
}

func (m *MockAlertRepository) Save(ctx context.Context, alert *alerting.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) SaveWithLock(ctx context.Context, alert *alerting.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) CountUnacknowledged(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) DeleteOlderThan(ctx context.Context, accountID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, accountID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) DeleteAcknowledgedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Test helpers
var (
	testAccountID   = uuid.New()
	testInventoryID = uuid.New()
)

func TestAlertService_CreateAlert(t *testing.T) {
	t.Run("create alert successfully", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)
		ctx := context.Background()

		var saved *alerting.Alert
		repo.On("Save", ctx, mock.AnythingOfType("*alerting.Alert")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*alerting.Alert)
			}).Return(nil)

		alertID, err := service.CreateAlert(ctx, testAccountID, testInventoryID,
			"Product out of stock", "No stock left", alerting.SeverityCritical, alerting.AlertTypeProductOutOfStock)

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, alertID)
		require.NotNil(t, saved)
		assert.Equal(t, alerting.SeverityCritical, saved.Severity)
		assert.False(t, saved.Acknowledged)
		repo.AssertExpectations(t)
	})

	t.Run("reject unknown severity", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)

		_, err := service.CreateAlert(context.Background(), testAccountID, testInventoryID,
			"Title", "Message", alerting.Severity("FATAL"), alerting.AlertTypeProductLowStock)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_INPUT", derr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAlertService_Acknowledge(t *testing.T) {
	t.Run("acknowledge open alert", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)
		ctx := context.Background()

		alert, err := alerting.NewAlert(testAccountID, testInventoryID,
			"Product running low on stock", "3 remaining", alerting.SeverityWarning, alerting.AlertTypeProductLowStock)
		require.NoError(t, err)

		repo.On("FindByIDForAccount", ctx, testAccountID, alert.ID).Return(alert, nil)
		repo.On("SaveWithLock", ctx, alert).Return(nil)

		result, err := service.Acknowledge(ctx, testAccountID, alert.ID)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.Acknowledged)
		assert.NotNil(t, result.AcknowledgedAt)
	})

	t.Run("fail on already acknowledged alert", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)
		ctx := context.Background()

		alert, err := alerting.NewAlert(testAccountID, testInventoryID,
			"Title", "Message", alerting.SeverityInfo, alerting.AlertTypeProductExpiring)
		require.NoError(t, err)
		require.NoError(t, alert.Acknowledge())

		repo.On("FindByIDForAccount", ctx, testAccountID, alert.ID).Return(alert, nil)

		_, err = service.Acknowledge(ctx, testAccountID, alert.ID)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func newLedgerRecord(t *testing.T, quantity, minimum int64) *inventory.Inventory {
	t.Helper()
	record, err := inventory.NewInventory(testAccountID, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, record.AddStock(decimal.NewFromInt(quantity)))
	}
	require.NoError(t, record.SetMinimumStock(decimal.NewFromInt(minimum)))
	record.ClearDomainEvents()
	return record
}

func TestProductWithoutStockHandler_Handle(t *testing.T) {
	t.Run("create critical alert when stock runs out", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)
		handler := NewProductWithoutStockHandler(service, zap.NewNop())
		ctx := context.Background()

		record := newLedgerRecord(t, 5, 2)
		require.NoError(t, record.DecreaseStock(decimal.NewFromInt(5)))
		events := record.GetDomainEvents()
		require.Len(t, events, 2) // decrease + without-stock

		var saved *alerting.Alert
		repo.On("Save", ctx, mock.AnythingOfType("*alerting.Alert")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*alerting.Alert)
			}).Return(nil)

		err := handler.Handle(ctx, events[1])

		assert.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, alerting.SeverityCritical, saved.Severity)
		assert.Equal(t, alerting.AlertTypeProductOutOfStock, saved.Type)
		assert.Equal(t, record.ID, saved.InventoryID)
		assert.Contains(t, saved.Message, "does not have any stock left")
	})

	t.Run("propagate alert creation failure", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)
		handler := NewProductWithoutStockHandler(service, zap.NewNop())
		ctx := context.Background()

		record := newLedgerRecord(t, 1, 0)
		require.NoError(t, record.DecreaseStock(decimal.NewFromInt(1)))
		events := record.GetDomainEvents()

		repo.On("Save", ctx, mock.Anything).Return(errors.New("db error"))

		err := handler.Handle(ctx, events[1])

		assert.Error(t, err)
	})

	t.Run("subscribes to without-stock events", func(t *testing.T) {
		handler := NewProductWithoutStockHandler(NewAlertService(new(MockAlertRepository)), zap.NewNop())
		assert.Equal(t, []string{inventory.EventTypeProductWithoutStockDetected}, handler.EventTypes())
	})
}

func TestProductLowStockHandler_Handle(t *testing.T) {
	t.Run("create warning alert when stock crosses threshold", func(t *testing.T) {
		repo := new(MockAlertRepository)
		service := NewAlertService(repo)
		handler := NewProductLowStockHandler(service, zap.NewNop())
		ctx := context.Background()

		record := newLedgerRecord(t, 10, 4)
		require.NoError(t, record.DecreaseStock(decimal.NewFromInt(7)))
		events := record.GetDomainEvents()
		require.Len(t, events, 2) // decrease + low-stock

		var saved *alerting.Alert
		repo.On("Save", ctx, mock.AnythingOfType("*alerting.Alert")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*alerting.Alert)
			}).Return(nil)

		err := handler.Handle(ctx, events[1])

		assert.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, alerting.SeverityWarning, saved.Severity)
		assert.Equal(t, alerting.AlertTypeProductLowStock, saved.Type)
		assert.Contains(t, saved.Message, "is running low: 3 remaining (minimum 4)")
	})

	t.Run("subscribes to low-stock events", func(t *testing.T) {
		handler := NewProductLowStockHandler(NewAlertService(new(MockAlertRepository)), zap.NewNop())
		assert.Equal(t, []string{inventory.EventTypeProductWithLowStockDetected}, handler.EventTypes())
	})
}
