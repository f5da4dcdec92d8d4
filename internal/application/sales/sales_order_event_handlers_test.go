package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// MockSalesOrderConverter is a mock implementation of procurement.SalesOrderConverter
type MockSalesOrderConverter struct {
	mock.Mock
}

func (m *MockSalesOrderConverter) ConvertPurchaseOrderToSalesOrder(ctx context.Context, accountID, purchaseOrderID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, accountID, purchaseOrderID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockCatalogStockReducer is a mock implementation of sales.CatalogStockReducer
type MockCatalogStockReducer struct {
	mock.Mock
}

func (m *MockCatalogStockReducer) ReduceCatalogItemStock(ctx context.Context, accountID, catalogID, productID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, accountID, catalogID, productID, quantity)
	return args.Error(0)
}

func newConfirmedEvent(t *testing.T) *procurement.PurchaseOrderConfirmedEvent {
	t.Helper()
	po, err := procurement.NewPurchaseOrder(testAccountID, "PO-2026-00010", testCatalogID, valueobject.USD)
	require.NoError(t, err)
	_, err = po.AddItem(testProductID, mustMoneyUSD(t, "30.00"), decimal.NewFromInt(4))
	require.NoError(t, err)
	require.NoError(t, po.Confirm())
	return procurement.NewPurchaseOrderConfirmedEvent(po)
}

func TestPurchaseOrderConfirmedHandler_Handle(t *testing.T) {
	t.Run("convert purchase order on confirmation", func(t *testing.T) {
		converter := new(MockSalesOrderConverter)
		handler := NewPurchaseOrderConfirmedHandler(converter, zap.NewNop())
		ctx := context.Background()
		event := newConfirmedEvent(t)

		converter.On("ConvertPurchaseOrderToSalesOrder", ctx, testAccountID, event.AggregateID()).Return(uuid.New(), nil)

		err := handler.Handle(ctx, event)

		assert.NoError(t, err)
		converter.AssertExpectations(t)
	})

	t.Run("propagate conversion failure", func(t *testing.T) {
		converter := new(MockSalesOrderConverter)
		handler := NewPurchaseOrderConfirmedHandler(converter, zap.NewNop())
		ctx := context.Background()
		event := newConfirmedEvent(t)

		converter.On("ConvertPurchaseOrderToSalesOrder", ctx, testAccountID, event.AggregateID()).Return(uuid.Nil, errors.New("db error"))

		err := handler.Handle(ctx, event)

		assert.Error(t, err)
	})

	t.Run("reject unexpected event type", func(t *testing.T) {
		converter := new(MockSalesOrderConverter)
		handler := NewPurchaseOrderConfirmedHandler(converter, zap.NewNop())

		order := newTestSalesOrder(t)
		err := handler.Handle(context.Background(), sales.NewSalesOrderCreatedEvent(order))

		assert.Error(t, err)
		converter.AssertNotCalled(t, "ConvertPurchaseOrderToSalesOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("subscribes to purchase order confirmed", func(t *testing.T) {
		handler := NewPurchaseOrderConfirmedHandler(new(MockSalesOrderConverter), zap.NewNop())
		assert.Equal(t, []string{procurement.EventTypePurchaseOrderConfirmed}, handler.EventTypes())
	})
}

func newDeliveredEvent(t *testing.T) *sales.SalesOrderDeliveredEvent {
	t.Helper()
	order := newTestSalesOrder(t)
	_, err := order.AddItem(testProductID, mustMoneyUSD(t, "45.50"), decimal.NewFromInt(3))
	require.NoError(t, err)
	return sales.NewSalesOrderDeliveredEvent(order)
}

func TestSalesOrderDeliveredHandler_Handle(t *testing.T) {
	t.Run("reduce catalog stock for delivered items", func(t *testing.T) {
		reducer := new(MockCatalogStockReducer)
		handler := NewSalesOrderDeliveredHandler(reducer, zap.NewNop())
		ctx := context.Background()
		event := newDeliveredEvent(t)

		reducer.On("ReduceCatalogItemStock", ctx, testAccountID, testCatalogID, testProductID, decimal.NewFromInt(3)).Return(nil)

		err := handler.Handle(ctx, event)

		assert.NoError(t, err)
		reducer.AssertExpectations(t)
	})

	t.Run("report failure when reduction fails", func(t *testing.T) {
		reducer := new(MockCatalogStockReducer)
		handler := NewSalesOrderDeliveredHandler(reducer, zap.NewNop())
		ctx := context.Background()
		event := newDeliveredEvent(t)

		reducer.On("ReduceCatalogItemStock", ctx, testAccountID, testCatalogID, testProductID, decimal.NewFromInt(3)).Return(errors.New("item not found"))

		err := handler.Handle(ctx, event)

		assert.Error(t, err)
	})

	t.Run("subscribes to sales order delivered", func(t *testing.T) {
		handler := NewSalesOrderDeliveredHandler(new(MockCatalogStockReducer), zap.NewNop())
		assert.Equal(t, []string{sales.EventTypeSalesOrderDelivered}, handler.EventTypes())
	})
}
