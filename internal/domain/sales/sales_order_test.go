package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// Test helpers for SalesOrder
func createTestSalesOrder(t *testing.T) *SalesOrder {
	order, err := NewSalesOrder(uuid.New(), "SO-2026-001", uuid.New(), valueobject.USD)
	require.NoError(t, err)
	return order
}

func addTestSalesOrderItem(t *testing.T, order *SalesOrder, quantity float64, price float64) *SalesOrderItem {
	item, err := order.AddItem(uuid.New(), valueobject.NewMoneyUSDFromFloat(price), decimal.NewFromFloat(quantity))
	require.NoError(t, err)
	return item
}

func acceptTestProposal(t *testing.T, order *SalesOrder) {
	require.NoError(t, order.ProposeDeliverySchedule(time.Now().Add(72*time.Hour), "standard route"))
	require.NoError(t, order.RespondToDeliveryProposal(true, ""))
}

// ============================================
// SalesOrderStatus Tests
// ============================================

func TestSalesOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  SalesOrderStatus
		isValid bool
	}{
		{SalesOrderStatusCreated, true},
		{SalesOrderStatusProcessing, true},
		{SalesOrderStatusShipped, true},
		{SalesOrderStatusDelivered, true},
		{SalesOrderStatusCancelled, true},
		{SalesOrderStatus("INVALID"), false},
		{SalesOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestSalesOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     SalesOrderStatus
		to       SalesOrderStatus
		canTrans bool
	}{
		// From CREATED
		{SalesOrderStatusCreated, SalesOrderStatusProcessing, true},
		{SalesOrderStatusCreated, SalesOrderStatusCancelled, true},
		{SalesOrderStatusCreated, SalesOrderStatusShipped, false},
		{SalesOrderStatusCreated, SalesOrderStatusDelivered, false},
		// From PROCESSING
		{SalesOrderStatusProcessing, SalesOrderStatusShipped, true},
		{SalesOrderStatusProcessing, SalesOrderStatusCancelled, true},
		{SalesOrderStatusProcessing, SalesOrderStatusDelivered, false},
		{SalesOrderStatusProcessing, SalesOrderStatusCreated, false},
		// From SHIPPED
		{SalesOrderStatusShipped, SalesOrderStatusDelivered, true},
		{SalesOrderStatusShipped, SalesOrderStatusCancelled, true},
		{SalesOrderStatusShipped, SalesOrderStatusProcessing, false},
		// Terminal states
		{SalesOrderStatusDelivered, SalesOrderStatusCancelled, false},
		{SalesOrderStatusDelivered, SalesOrderStatusProcessing, false},
		{SalesOrderStatusCancelled, SalesOrderStatusProcessing, false},
		{SalesOrderStatusCancelled, SalesOrderStatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// SalesOrder Creation Tests
// ============================================

func TestNewSalesOrder(t *testing.T) {
	accountID := uuid.New()
	catalogID := uuid.New()

	order, err := NewSalesOrder(accountID, "SO-2026-001", catalogID, valueobject.USD)

	require.NoError(t, err)
	assert.Equal(t, accountID, order.AccountID)
	assert.Equal(t, "SO-2026-001", order.OrderCode)
	assert.Equal(t, catalogID, order.CatalogToBuyFrom)
	assert.Equal(t, SalesOrderStatusCreated, order.Status)
	assert.Nil(t, order.DeliveryProposal)
	assert.Nil(t, order.PurchaseOrderID)
	assert.False(t, order.ReceiptDate.IsZero())

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSalesOrderCreated, events[0].EventType())
}

func TestNewSalesOrder_Validation(t *testing.T) {
	_, err := NewSalesOrder(uuid.Nil, "SO-2026-001", uuid.New(), valueobject.USD)
	assert.Error(t, err)

	_, err = NewSalesOrder(uuid.New(), "", uuid.New(), valueobject.USD)
	assert.Error(t, err)

	_, err = NewSalesOrder(uuid.New(), "SO-2026-001", uuid.Nil, valueobject.USD)
	assert.Error(t, err)
}

func TestSalesOrder_LinkPurchaseOrder(t *testing.T) {
	order := createTestSalesOrder(t)
	poID := uuid.New()

	require.NoError(t, order.LinkPurchaseOrder(poID))
	require.NotNil(t, order.PurchaseOrderID)
	assert.Equal(t, poID, *order.PurchaseOrderID)

	assert.Error(t, order.LinkPurchaseOrder(uuid.Nil))
}

// ============================================
// Item Tests
// ============================================

func TestSalesOrder_AddItem(t *testing.T) {
	order := createTestSalesOrder(t)
	item := addTestSalesOrderItem(t, order, 12, 30)

	assert.Equal(t, 1, order.ItemCount())
	assert.True(t, decimal.NewFromInt(360).Equal(item.Amount))
	assert.Nil(t, item.InventoryID)
}

func TestSalesOrder_AddItem_Duplicate(t *testing.T) {
	order := createTestSalesOrder(t)
	productID := uuid.New()
	price := valueobject.NewMoneyUSDFromFloat(30)

	_, err := order.AddItem(productID, price, decimal.NewFromInt(5))
	require.NoError(t, err)

	_, err = order.AddItem(productID, price, decimal.NewFromInt(2))
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "DUPLICATE_PRODUCT", derr.Code)
}

func TestSalesOrder_AddItem_AfterLifecycleStart(t *testing.T) {
	order := createTestSalesOrder(t)
	addTestSalesOrderItem(t, order, 5, 30)
	acceptTestProposal(t, order)
	require.NoError(t, order.UpdateStatus(SalesOrderStatusProcessing, "picked up"))

	_, err := order.AddItem(uuid.New(), valueobject.NewMoneyUSDFromFloat(30), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestSalesOrderItem_ResolveInventory(t *testing.T) {
	order := createTestSalesOrder(t)
	item := addTestSalesOrderItem(t, order, 5, 30)

	invID := uuid.New()
	require.NoError(t, item.ResolveInventory(invID))
	require.NotNil(t, item.InventoryID)
	assert.Equal(t, invID, *item.InventoryID)

	assert.Error(t, item.ResolveInventory(uuid.Nil))
}

// ============================================
// DeliveryProposal Tests
// ============================================

func TestSalesOrder_ProposeDeliverySchedule(t *testing.T) {
	order := createTestSalesOrder(t)
	order.ClearDomainEvents()

	err := order.ProposeDeliverySchedule(time.Now().Add(48*time.Hour), "morning delivery")

	require.NoError(t, err)
	require.NotNil(t, order.DeliveryProposal)
	assert.Equal(t, DeliveryProposalStatusProposed, order.DeliveryProposal.Status)
	assert.Nil(t, order.DeliveryProposal.RespondedAt)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDeliveryScheduleProposed, events[0].EventType())
}

func TestSalesOrder_ProposeDeliverySchedule_ZeroDate(t *testing.T) {
	order := createTestSalesOrder(t)
	err := order.ProposeDeliverySchedule(time.Time{}, "")
	assert.Error(t, err)
}

func TestSalesOrder_RespondToDeliveryProposal_Accept(t *testing.T) {
	order := createTestSalesOrder(t)
	require.NoError(t, order.ProposeDeliverySchedule(time.Now().Add(48*time.Hour), ""))
	order.ClearDomainEvents()

	err := order.RespondToDeliveryProposal(true, "works for us")

	require.NoError(t, err)
	assert.True(t, order.HasAcceptedProposal())
	assert.NotNil(t, order.DeliveryProposal.RespondedAt)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDeliveryProposalResponded, events[0].EventType())
}

func TestSalesOrder_RespondToDeliveryProposal_NoProposal(t *testing.T) {
	order := createTestSalesOrder(t)
	err := order.RespondToDeliveryProposal(true, "")
	assert.Error(t, err)
}

func TestSalesOrder_RespondToDeliveryProposal_AlreadyResponded(t *testing.T) {
	order := createTestSalesOrder(t)
	require.NoError(t, order.ProposeDeliverySchedule(time.Now().Add(48*time.Hour), ""))
	require.NoError(t, order.RespondToDeliveryProposal(true, ""))

	err := order.RespondToDeliveryProposal(false, "changed our mind")
	assert.Error(t, err)
	assert.True(t, order.HasAcceptedProposal())
}

func TestSalesOrder_RejectedProposalCanBeSuperseded(t *testing.T) {
	order := createTestSalesOrder(t)
	require.NoError(t, order.ProposeDeliverySchedule(time.Now().Add(48*time.Hour), "first attempt"))
	require.NoError(t, order.RespondToDeliveryProposal(false, "too late"))
	assert.True(t, order.DeliveryProposal.IsRejected())

	err := order.ProposeDeliverySchedule(time.Now().Add(24*time.Hour), "second attempt")

	require.NoError(t, err)
	assert.True(t, order.DeliveryProposal.IsPending())
	assert.Equal(t, "second attempt", order.DeliveryProposal.Notes)
}

func TestSalesOrder_AcceptedProposalCannotBeReplaced(t *testing.T) {
	order := createTestSalesOrder(t)
	acceptTestProposal(t, order)

	err := order.ProposeDeliverySchedule(time.Now().Add(24*time.Hour), "retry")
	assert.Error(t, err)
	assert.True(t, order.HasAcceptedProposal())
}

// ============================================
// Lifecycle Tests
// ============================================

func TestSalesOrder_UpdateStatus_RequiresAcceptedProposal(t *testing.T) {
	order := createTestSalesOrder(t)
	addTestSalesOrderItem(t, order, 5, 30)

	err := order.UpdateStatus(SalesOrderStatusProcessing, "start")

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "PROPOSAL_NOT_ACCEPTED", derr.Code)
	assert.Equal(t, SalesOrderStatusCreated, order.Status)
}

func TestSalesOrder_UpdateStatus_RejectedProposalBlocks(t *testing.T) {
	order := createTestSalesOrder(t)
	require.NoError(t, order.ProposeDeliverySchedule(time.Now().Add(48*time.Hour), ""))
	require.NoError(t, order.RespondToDeliveryProposal(false, "no"))

	err := order.UpdateStatus(SalesOrderStatusProcessing, "start")
	assert.Error(t, err)
}

func TestSalesOrder_FullLifecycle(t *testing.T) {
	order := createTestSalesOrder(t)
	addTestSalesOrderItem(t, order, 5, 30)
	acceptTestProposal(t, order)
	order.ClearDomainEvents()

	require.NoError(t, order.UpdateStatus(SalesOrderStatusProcessing, "preparing shipment"))
	assert.Equal(t, SalesOrderStatusProcessing, order.Status)

	require.NoError(t, order.UpdateStatus(SalesOrderStatusShipped, "left warehouse"))
	assert.NotNil(t, order.ShippedAt)

	require.NoError(t, order.UpdateStatus(SalesOrderStatusDelivered, "signed for"))
	assert.NotNil(t, order.CompletionDate)
	assert.True(t, order.IsTerminal())

	var types []string
	for _, e := range order.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{
		EventTypeSalesOrderStatusChanged,
		EventTypeSalesOrderStatusChanged,
		EventTypeSalesOrderStatusChanged,
		EventTypeSalesOrderDelivered,
	}, types)
}

func TestSalesOrder_UpdateStatus_InvalidTransition(t *testing.T) {
	order := createTestSalesOrder(t)
	acceptTestProposal(t, order)

	err := order.UpdateStatus(SalesOrderStatusDelivered, "skip ahead")
	assert.Error(t, err)
	assert.Equal(t, SalesOrderStatusCreated, order.Status)
}

func TestSalesOrder_UpdateStatus_UnknownStatus(t *testing.T) {
	order := createTestSalesOrder(t)
	acceptTestProposal(t, order)

	err := order.UpdateStatus(SalesOrderStatus("TELEPORTED"), "")
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INPUT", derr.Code)
}

func TestSalesOrder_Cancel_WithoutProposal(t *testing.T) {
	// A buyer can abandon an order the supplier never scheduled
	order := createTestSalesOrder(t)
	order.ClearDomainEvents()

	err := order.Cancel("supplier unresponsive")

	require.NoError(t, err)
	assert.Equal(t, SalesOrderStatusCancelled, order.Status)
	assert.Equal(t, "supplier unresponsive", order.CancelReason)
	assert.NotNil(t, order.CancelledAt)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSalesOrderCancelled, events[0].EventType())
}

func TestSalesOrder_Cancel_RequiresReason(t *testing.T) {
	order := createTestSalesOrder(t)
	err := order.Cancel("")
	assert.Error(t, err)
}

func TestSalesOrder_Cancel_AfterDelivered(t *testing.T) {
	order := createTestSalesOrder(t)
	addTestSalesOrderItem(t, order, 5, 30)
	acceptTestProposal(t, order)
	require.NoError(t, order.UpdateStatus(SalesOrderStatusProcessing, ""))
	require.NoError(t, order.UpdateStatus(SalesOrderStatusShipped, ""))
	require.NoError(t, order.UpdateStatus(SalesOrderStatusDelivered, ""))

	err := order.Cancel("too late")
	assert.Error(t, err)
}

func TestSalesOrder_UpdateStatus_AfterCancel(t *testing.T) {
	order := createTestSalesOrder(t)
	acceptTestProposal(t, order)
	require.NoError(t, order.Cancel("abandoned"))

	err := order.UpdateStatus(SalesOrderStatusProcessing, "revive")
	assert.Error(t, err)
}

func TestSalesOrder_CalculateTotal(t *testing.T) {
	order := createTestSalesOrder(t)
	addTestSalesOrderItem(t, order, 12, 30)  // 360
	addTestSalesOrderItem(t, order, 4, 12.5) // 50

	total := order.CalculateTotal()

	assert.True(t, decimal.NewFromInt(410).Equal(total.Amount()))
	assert.Equal(t, valueobject.USD, total.Currency())
}
