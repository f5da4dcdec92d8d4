package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// Test helpers for PurchaseOrder
func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	accountID := uuid.New()
	catalogID := uuid.New()
	order, err := NewPurchaseOrder(accountID, "PO-2026-001", catalogID, valueobject.USD)
	require.NoError(t, err)
	return order
}

func addTestPurchaseOrderItem(t *testing.T, order *PurchaseOrder, quantity float64, price float64) *PurchaseOrderItem {
	productID := uuid.New()
	unitPrice := valueobject.NewMoneyUSDFromFloat(price)
	item, err := order.AddItem(productID, unitPrice, decimal.NewFromFloat(quantity))
	require.NoError(t, err)
	return item
}

// ============================================
// PurchaseOrderStatus Tests
// ============================================

func TestPurchaseOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PurchaseOrderStatus
		isValid bool
	}{
		{PurchaseOrderStatusProcessing, true},
		{PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusShipped, true},
		{PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatus("INVALID"), false},
		{PurchaseOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		// From PROCESSING
		{PurchaseOrderStatusProcessing, PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusProcessing, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusProcessing, PurchaseOrderStatusShipped, false},
		{PurchaseOrderStatusProcessing, PurchaseOrderStatusReceived, false},
		// From CONFIRMED
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusShipped, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusProcessing, false},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusReceived, false},
		// From SHIPPED
		{PurchaseOrderStatusShipped, PurchaseOrderStatusReceived, true},
		{PurchaseOrderStatusShipped, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusShipped, PurchaseOrderStatusProcessing, false},
		{PurchaseOrderStatusShipped, PurchaseOrderStatusConfirmed, false},
		// From RECEIVED (terminal)
		{PurchaseOrderStatusReceived, PurchaseOrderStatusProcessing, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusConfirmed, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusShipped, false},
		{PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled, false},
		// From CANCELLED (terminal)
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusProcessing, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusConfirmed, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusShipped, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusReceived, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// PurchaseOrder Creation Tests
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	accountID := uuid.New()
	catalogID := uuid.New()

	order, err := NewPurchaseOrder(accountID, "PO-2026-001", catalogID, valueobject.USD)

	require.NoError(t, err)
	assert.Equal(t, accountID, order.AccountID)
	assert.Equal(t, "PO-2026-001", order.OrderCode)
	assert.Equal(t, catalogID, order.CatalogID)
	assert.Equal(t, PurchaseOrderStatusProcessing, order.Status)
	assert.Equal(t, valueobject.USD, order.Currency)
	assert.False(t, order.IsOrderSent)
	assert.Empty(t, order.Items)
	assert.Equal(t, 1, order.GetVersion())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePurchaseOrderCreated, events[0].EventType())
}

func TestNewPurchaseOrder_EmptyAccount(t *testing.T) {
	_, err := NewPurchaseOrder(uuid.Nil, "PO-2026-001", uuid.New(), valueobject.USD)
	assert.Error(t, err)
}

func TestNewPurchaseOrder_EmptyOrderCode(t *testing.T) {
	_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), valueobject.USD)
	assert.Error(t, err)
}

func TestNewPurchaseOrder_DefaultsCurrency(t *testing.T) {
	order, err := NewPurchaseOrder(uuid.New(), "PO-2026-001", uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, valueobject.DefaultCurrency, order.Currency)
}

// ============================================
// Item Management Tests
// ============================================

func TestPurchaseOrder_AddItem(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestPurchaseOrderItem(t, order, 10, 25.50)

	assert.Equal(t, 1, order.ItemCount())
	assert.True(t, decimal.NewFromFloat(255.0).Equal(item.Amount))
}

func TestPurchaseOrder_AddItem_DuplicateProduct(t *testing.T) {
	order := createTestPurchaseOrder(t)
	productID := uuid.New()
	unitPrice := valueobject.NewMoneyUSDFromFloat(10)

	_, err := order.AddItem(productID, unitPrice, decimal.NewFromInt(5))
	require.NoError(t, err)

	_, err = order.AddItem(productID, unitPrice, decimal.NewFromInt(3))
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "DUPLICATE_PRODUCT", derr.Code)
}

func TestPurchaseOrder_AddItem_CurrencyMismatch(t *testing.T) {
	order := createTestPurchaseOrder(t)
	price, err := valueobject.NewMoney(decimal.NewFromInt(10), valueobject.EUR)
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), price, decimal.NewFromInt(1))
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "CURRENCY_MISMATCH", derr.Code)
}

func TestPurchaseOrder_AddItem_AfterConfirm(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 10)
	require.NoError(t, order.Confirm())

	_, err := order.AddItem(uuid.New(), valueobject.NewMoneyUSDFromFloat(10), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestPurchaseOrder_UpdateItemQuantity(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestPurchaseOrderItem(t, order, 5, 20)

	err := order.UpdateItemQuantity(item.ProductID, decimal.NewFromInt(8))
	require.NoError(t, err)

	updated := order.GetItemByProduct(item.ProductID)
	require.NotNil(t, updated)
	assert.True(t, decimal.NewFromInt(8).Equal(updated.Quantity))
	assert.True(t, decimal.NewFromInt(160).Equal(updated.Amount))
}

func TestPurchaseOrder_UpdateItemQuantity_NotFound(t *testing.T) {
	order := createTestPurchaseOrder(t)
	err := order.UpdateItemQuantity(uuid.New(), decimal.NewFromInt(2))
	assert.Error(t, err)
}

func TestPurchaseOrder_RemoveItem(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestPurchaseOrderItem(t, order, 5, 20)

	err := order.RemoveItem(item.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 0, order.ItemCount())
}

func TestPurchaseOrder_RemoveItem_Absent(t *testing.T) {
	order := createTestPurchaseOrder(t)
	// Removing an unlisted product is a no-op
	err := order.RemoveItem(uuid.New())
	assert.NoError(t, err)
}

func TestPurchaseOrder_RemoveItem_AfterConfirm(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestPurchaseOrderItem(t, order, 5, 20)
	require.NoError(t, order.Confirm())

	err := order.RemoveItem(item.ProductID)
	assert.Error(t, err)
}

// ============================================
// Lifecycle Tests
// ============================================

func TestPurchaseOrder_Confirm(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 20)
	order.ClearDomainEvents()

	err := order.Confirm()

	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmationDate)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePurchaseOrderConfirmed, events[0].EventType())
}

func TestPurchaseOrder_Confirm_NoItems(t *testing.T) {
	order := createTestPurchaseOrder(t)
	err := order.Confirm()
	assert.Error(t, err)
}

func TestPurchaseOrder_Confirm_Twice(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 20)
	require.NoError(t, order.Confirm())

	err := order.Confirm()
	assert.Error(t, err)
}

func TestPurchaseOrder_Ship(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 20)
	require.NoError(t, order.Confirm())
	order.ClearDomainEvents()

	err := order.Ship()

	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusShipped, order.Status)
	assert.NotNil(t, order.ShippedAt)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePurchaseOrderShipped, events[0].EventType())
}

func TestPurchaseOrder_Ship_FromProcessing(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 20)

	err := order.Ship()
	assert.Error(t, err)
}

func TestPurchaseOrder_Receive(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 20)
	require.NoError(t, order.Confirm())
	require.NoError(t, order.Ship())
	order.ClearDomainEvents()

	err := order.Receive()

	require.NoError(t, err)
	assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
	assert.NotNil(t, order.ReceivedAt)
	assert.True(t, order.IsTerminal())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePurchaseOrderReceived, events[0].EventType())
}

func TestPurchaseOrder_Receive_BeforeShip(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 5, 20)
	require.NoError(t, order.Confirm())

	err := order.Receive()
	assert.Error(t, err)
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, o *PurchaseOrder)
		wantErr bool
	}{
		{"from processing", func(t *testing.T, o *PurchaseOrder) {}, false},
		{"from confirmed", func(t *testing.T, o *PurchaseOrder) {
			require.NoError(t, o.Confirm())
		}, false},
		{"from shipped", func(t *testing.T, o *PurchaseOrder) {
			require.NoError(t, o.Confirm())
			require.NoError(t, o.Ship())
		}, false},
		{"from received", func(t *testing.T, o *PurchaseOrder) {
			require.NoError(t, o.Confirm())
			require.NoError(t, o.Ship())
			require.NoError(t, o.Receive())
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := createTestPurchaseOrder(t)
			addTestPurchaseOrderItem(t, order, 5, 20)
			tt.prepare(t, order)
			order.ClearDomainEvents()

			err := order.Cancel("supplier out of business")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
			assert.Equal(t, "supplier out of business", order.CancelReason)
			assert.NotNil(t, order.CancelledAt)

			events := order.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, EventTypePurchaseOrderCancelled, events[0].EventType())
		})
	}
}

func TestPurchaseOrder_Cancel_Twice(t *testing.T) {
	order := createTestPurchaseOrder(t)
	require.NoError(t, order.Cancel("first"))

	err := order.Cancel("second")
	assert.Error(t, err)
	assert.Equal(t, "first", order.CancelReason)
}

func TestPurchaseOrder_MarkAsSent(t *testing.T) {
	order := createTestPurchaseOrder(t)
	assert.False(t, order.IsOrderSent)

	order.MarkAsSent()
	assert.True(t, order.IsOrderSent)
}

func TestPurchaseOrder_CalculateTotal(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestPurchaseOrderItem(t, order, 10, 25.50) // 255.00
	addTestPurchaseOrderItem(t, order, 3, 100)    // 300.00

	total := order.CalculateTotal()

	assert.True(t, decimal.NewFromFloat(555.0).Equal(total.Amount()))
	assert.Equal(t, valueobject.USD, total.Currency())
}

func TestPurchaseOrder_CalculateTotal_Empty(t *testing.T) {
	order := createTestPurchaseOrder(t)
	total := order.CalculateTotal()
	assert.True(t, total.IsZero())
}

func TestPurchaseOrder_VersionIncrements(t *testing.T) {
	order := createTestPurchaseOrder(t)
	v := order.GetVersion()

	addTestPurchaseOrderItem(t, order, 5, 20)
	assert.Equal(t, v+1, order.GetVersion())

	require.NoError(t, order.Confirm())
	assert.Equal(t, v+2, order.GetVersion())
}
