package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

func TestEventSerializer_SerializeDeserialize(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	original := newTestEvent("TestEvent", uuid.New())

	data, err := serializer.Serialize(original)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	restored, err := serializer.Deserialize("TestEvent", data)
	require.NoError(t, err)

	typed, ok := restored.(*testEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), typed.EventID())
	assert.Equal(t, original.AccountID(), typed.AccountID())
	assert.Equal(t, original.Data, typed.Data)
}

func TestEventSerializer_Deserialize_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("UnknownEvent", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_Deserialize_InvalidPayload(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	_, err := serializer.Deserialize("TestEvent", []byte("not json"))
	require.Error(t, err)
}

func TestEventSerializer_IsRegistered(t *testing.T) {
	serializer := NewEventSerializer()

	assert.False(t, serializer.IsRegistered("TestEvent"))

	serializer.Register("TestEvent", &testEvent{})
	assert.True(t, serializer.IsRegistered("TestEvent"))
}

func TestEventSerializer_RegisteredTypes(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("EventA", &testEvent{})
	serializer.Register("EventB", &testEvent{})

	types := serializer.RegisteredTypes()
	assert.Len(t, types, 2)
	assert.ElementsMatch(t, []string{"EventA", "EventB"}, types)
}

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	expected := []string{
		"PurchaseOrderCreated",
		"PurchaseOrderConfirmed",
		"PurchaseOrderShipped",
		"PurchaseOrderReceived",
		"PurchaseOrderCancelled",
		"CatalogPublished",
		"CatalogUnpublished",
		"SalesOrderCreated",
		"SalesOrderStatusChanged",
		"SalesOrderDelivered",
		"SalesOrderCancelled",
		"DeliveryScheduleProposed",
		"DeliveryProposalResponded",
		"StockAdded",
		"StockDecreased",
		"StockTransferred",
		"ProductWithoutStockDetected",
		"ProductWithLowStockDetected",
	}

	for _, eventType := range expected {
		assert.True(t, serializer.IsRegistered(eventType), "event type %s should be registered", eventType)
	}
}

func TestRegisterAllEvents_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	record, err := inventory.NewInventory(uuid.New(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, record.AddStock(decimal.NewFromInt(25)))

	events := record.GetDomainEvents()
	require.NotEmpty(t, events)

	original := events[0]
	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(original.EventType(), data)
	require.NoError(t, err)

	typed, ok := restored.(*inventory.StockAddedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), typed.EventID())
	assert.Equal(t, original.(*inventory.StockAddedEvent).ProductID, typed.ProductID)
	assert.True(t, typed.Quantity.Equal(decimal.NewFromInt(25)))
}

var _ shared.DomainEvent = (*testEvent)(nil)
