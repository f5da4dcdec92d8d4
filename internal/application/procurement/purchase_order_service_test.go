package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, accountID, orderCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByCatalog(ctx context.Context, accountID, catalogID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, accountID, catalogID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, accountID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, accountID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLockAndEvents(ctx context.Context, order *procurement.PurchaseOrder, events []shared.DomainEvent) error {
	args := m.Called(ctx, order, events)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountByStatus(ctx context.Context, accountID uuid.UUID, status procurement.PurchaseOrderStatus) (int64, error) {
	args := m.Called(ctx, accountID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ExistsByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (bool, error) {
	args := m.Called(ctx, accountID, orderCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) GenerateOrderCode(ctx context.Context, accountID uuid.UUID) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Catalog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*procurement.Catalog, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]procurement.Catalog, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) FindPublished(ctx context.Context, filter shared.Filter) ([]procurement.Catalog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) Save(ctx context.Context, catalog *procurement.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveWithLock(ctx context.Context, catalog *procurement.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveWithLockAndEvents(ctx context.Context, catalog *procurement.Catalog, events []shared.DomainEvent) error {
	args := m.Called(ctx, catalog, events)
	return args.Error(0)
}

func (m *MockCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Test helpers
var (
	testAccountID   = uuid.New()
	testCatalogID   = uuid.New()
	testProductID   = uuid.New()
	testWarehouseID = uuid.New()
	testOrderCode   = "PO-2026-00001"
)

func newTestService() (*PurchaseOrderService, *MockPurchaseOrderRepository, *MockCatalogRepository) {
	orderRepo := new(MockPurchaseOrderRepository)
	catalogRepo := new(MockCatalogRepository)
	return NewPurchaseOrderService(orderRepo, catalogRepo), orderRepo, catalogRepo
}

func newPublishedCatalog(t *testing.T) *procurement.Catalog {
	t.Helper()
	email, err := valueobject.NewEmail("sales@bodega.example")
	require.NoError(t, err)
	catalog, err := procurement.NewCatalog(testAccountID, "Premium Spirits", "Imported liquors", email)
	require.NoError(t, err)
	catalog.ID = testCatalogID
	price := valueobject.NewMoneyUSD(decimal.RequireFromString("45.50"))
	_, err = catalog.AddItem(testProductID, "Single Malt 12y", price, "", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, catalog.Publish())
	catalog.ClearDomainEvents()
	return catalog
}

func newProcessingOrder(t *testing.T) *procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(testAccountID, testOrderCode, testCatalogID, valueobject.USD)
	require.NoError(t, err)
	price := valueobject.NewMoneyUSD(decimal.RequireFromString("45.50"))
	_, err = order.AddItem(testProductID, price, decimal.NewFromInt(10))
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestPurchaseOrderService_Create(t *testing.T) {
	t.Run("create order against published catalog", func(t *testing.T) {
		service, orderRepo, catalogRepo := newTestService()
		ctx := context.Background()

		catalogRepo.On("FindByID", ctx, testCatalogID).Return(newPublishedCatalog(t), nil)
		orderRepo.On("GenerateOrderCode", ctx, testAccountID).Return(testOrderCode, nil)

		var savedEvents []shared.DomainEvent
		orderRepo.On("SaveWithLockAndEvents", ctx, mock.AnythingOfType("*procurement.PurchaseOrder"), mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).Return(nil)

		resp, err := service.Create(ctx, testAccountID, CreatePurchaseOrderRequest{
			CatalogID:   testCatalogID,
			WarehouseID: &testWarehouseID,
			Currency:    "USD",
			Items: []CreatePurchaseOrderItemInput{
				{ProductID: testProductID, UnitPrice: decimal.RequireFromString("45.50"), Quantity: decimal.NewFromInt(10)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testOrderCode, resp.OrderCode)
		assert.Equal(t, string(procurement.PurchaseOrderStatusProcessing), resp.Status)
		require.NotNil(t, resp.WarehouseID)
		assert.Equal(t, testWarehouseID, *resp.WarehouseID)
		assert.True(t, decimal.RequireFromString("455.00").Equal(resp.TotalAmount))
		require.Len(t, savedEvents, 1)
		assert.Equal(t, procurement.EventTypePurchaseOrderCreated, savedEvents[0].EventType())
		orderRepo.AssertExpectations(t)
	})

	t.Run("reject order against unpublished catalog", func(t *testing.T) {
		service, orderRepo, catalogRepo := newTestService()
		ctx := context.Background()

		email, err := valueobject.NewEmail("sales@bodega.example")
		require.NoError(t, err)
		draft, err := procurement.NewCatalog(testAccountID, "Draft", "", email)
		require.NoError(t, err)
		catalogRepo.On("FindByID", ctx, testCatalogID).Return(draft, nil)

		_, err = service.Create(ctx, testAccountID, CreatePurchaseOrderRequest{CatalogID: testCatalogID})

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
		orderRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagate order code generation failure", func(t *testing.T) {
		service, orderRepo, catalogRepo := newTestService()
		ctx := context.Background()

		catalogRepo.On("FindByID", ctx, testCatalogID).Return(newPublishedCatalog(t), nil)
		orderRepo.On("GenerateOrderCode", ctx, testAccountID).Return("", errors.New("sequence unavailable"))

		_, err := service.Create(ctx, testAccountID, CreatePurchaseOrderRequest{CatalogID: testCatalogID})

		assert.Error(t, err)
	})
}

func TestPurchaseOrderService_Confirm(t *testing.T) {
	t.Run("confirm processing order emits event", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		var savedEvents []shared.DomainEvent
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).Return(nil)

		resp, err := service.Confirm(ctx, testAccountID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, string(procurement.PurchaseOrderStatusConfirmed), resp.Status)
		assert.NotNil(t, resp.ConfirmationDate)
		require.Len(t, savedEvents, 1)
		assert.Equal(t, procurement.EventTypePurchaseOrderConfirmed, savedEvents[0].EventType())
		assert.Empty(t, order.GetDomainEvents())
	})

	t.Run("fail to confirm order without items", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order, err := procurement.NewPurchaseOrder(testAccountID, testOrderCode, testCatalogID, valueobject.USD)
		require.NoError(t, err)
		order.ClearDomainEvents()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		_, err = service.Confirm(ctx, testAccountID, order.ID)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NO_ITEMS", derr.Code)
		orderRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fail to confirm cancelled order", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)
		require.NoError(t, order.Cancel("supplier out of business"))
		order.ClearDomainEvents()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		_, err := service.Confirm(ctx, testAccountID, order.ID)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})
}

func TestPurchaseOrderService_Receive(t *testing.T) {
	t.Run("receive shipped order emits event", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Ship())
		order.ClearDomainEvents()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		var savedEvents []shared.DomainEvent
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).
			Run(func(args mock.Arguments) {
				savedEvents = args.Get(2).([]shared.DomainEvent)
			}).Return(nil)

		resp, err := service.Receive(ctx, testAccountID, order.ID)

		require.NoError(t, err)
		assert.Equal(t, string(procurement.PurchaseOrderStatusReceived), resp.Status)
		require.Len(t, savedEvents, 1)
		assert.Equal(t, procurement.EventTypePurchaseOrderReceived, savedEvents[0].EventType())
	})

	t.Run("fail to receive order that was never shipped", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		_, err := service.Receive(ctx, testAccountID, order.ID)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})
}

func TestPurchaseOrderService_Cancel(t *testing.T) {
	t.Run("cancel with reason", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLockAndEvents", ctx, order, mock.Anything).Return(nil)

		resp, err := service.Cancel(ctx, testAccountID, order.ID, CancelPurchaseOrderRequest{Reason: "ordered by mistake"})

		require.NoError(t, err)
		assert.Equal(t, string(procurement.PurchaseOrderStatusCancelled), resp.Status)
		assert.Equal(t, "ordered by mistake", resp.CancelReason)
	})

	t.Run("fail to cancel received order", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Ship())
		require.NoError(t, order.Receive())
		order.ClearDomainEvents()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		_, err := service.Cancel(ctx, testAccountID, order.ID, CancelPurchaseOrderRequest{Reason: "too late"})

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "SaveWithLockAndEvents", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService_AddItem(t *testing.T) {
	t.Run("add item to processing order", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)
		secondProduct := uuid.New()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		resp, err := service.AddItem(ctx, testAccountID, order.ID, AddPurchaseOrderItemRequest{
			ProductID: secondProduct,
			UnitPrice: decimal.RequireFromString("12.00"),
			Quantity:  decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.ItemCount)
		assert.True(t, decimal.RequireFromString("503.00").Equal(resp.TotalAmount))
	})

	t.Run("fail to add item after confirmation", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		order := newProcessingOrder(t)
		require.NoError(t, order.Confirm())
		order.ClearDomainEvents()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, order.ID).Return(order, nil)

		_, err := service.AddItem(ctx, testAccountID, order.ID, AddPurchaseOrderItemRequest{
			ProductID: uuid.New(),
			UnitPrice: decimal.RequireFromString("12.00"),
			Quantity:  decimal.NewFromInt(4),
		})

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		service, orderRepo, _ := newTestService()
		ctx := context.Background()
		orderID := uuid.New()

		orderRepo.On("FindByIDForAccount", ctx, testAccountID, orderID).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(ctx, testAccountID, orderID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
