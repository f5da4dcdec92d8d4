package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/shared"
)

func createTestInventory(t *testing.T) *Inventory {
	record, err := NewInventory(uuid.New(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	return record
}

func TestNewInventory(t *testing.T) {
	accountID := uuid.New()
	productID := uuid.New()
	warehouseID := uuid.New()

	record, err := NewInventory(accountID, productID, warehouseID, nil)

	require.NoError(t, err)
	assert.Equal(t, accountID, record.AccountID)
	assert.Equal(t, productID, record.ProductID)
	assert.Equal(t, warehouseID, record.WarehouseID)
	assert.Nil(t, record.ExpirationDate)
	assert.True(t, record.Quantity.IsZero())
	assert.False(t, record.IsExpirable())
}

func TestNewInventory_Validation(t *testing.T) {
	_, err := NewInventory(uuid.Nil, uuid.New(), uuid.New(), nil)
	assert.Error(t, err)

	_, err = NewInventory(uuid.New(), uuid.Nil, uuid.New(), nil)
	assert.Error(t, err)

	_, err = NewInventory(uuid.New(), uuid.New(), uuid.Nil, nil)
	assert.Error(t, err)
}

func TestNewInventory_Expirable(t *testing.T) {
	exp := time.Now().Add(90 * 24 * time.Hour)
	record, err := NewInventory(uuid.New(), uuid.New(), uuid.New(), &exp)

	require.NoError(t, err)
	assert.True(t, record.IsExpirable())
	assert.False(t, record.IsExpired(time.Now()))
	assert.True(t, record.IsExpired(exp.Add(time.Hour)))
}

func TestInventory_AddStock(t *testing.T) {
	record := createTestInventory(t)
	record.ClearDomainEvents()

	err := record.AddStock(decimal.NewFromInt(50))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(record.Quantity))

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockAdded, events[0].EventType())
}

func TestInventory_AddStock_NonPositive(t *testing.T) {
	record := createTestInventory(t)

	assert.Error(t, record.AddStock(decimal.Zero))
	assert.Error(t, record.AddStock(decimal.NewFromInt(-5)))
	assert.True(t, record.Quantity.IsZero())
}

func TestInventory_DecreaseStock(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.AddStock(decimal.NewFromInt(50)))
	record.ClearDomainEvents()

	err := record.DecreaseStock(decimal.NewFromInt(20))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(record.Quantity))

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockDecreased, events[0].EventType())
}

func TestInventory_DecreaseStock_Insufficient(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.AddStock(decimal.NewFromInt(10)))
	record.ClearDomainEvents()
	v := record.GetVersion()

	err := record.DecreaseStock(decimal.NewFromInt(11))

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INSUFFICIENT_STOCK", derr.Code)
	// Failed guard leaves the record untouched
	assert.True(t, decimal.NewFromInt(10).Equal(record.Quantity))
	assert.Equal(t, v, record.GetVersion())
	assert.Empty(t, record.GetDomainEvents())
}

func TestInventory_DecreaseStock_ToZeroRaisesWithoutStock(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.AddStock(decimal.NewFromInt(10)))
	record.ClearDomainEvents()

	require.NoError(t, record.DecreaseStock(decimal.NewFromInt(10)))

	var types []string
	for _, e := range record.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{EventTypeStockDecreased, EventTypeProductWithoutStockDetected}, types)
	assert.True(t, record.IsEmpty())
}

func TestInventory_DecreaseStock_BelowMinimumRaisesLowStock(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.AddStock(decimal.NewFromInt(20)))
	require.NoError(t, record.SetMinimumStock(decimal.NewFromInt(5)))
	record.ClearDomainEvents()

	require.NoError(t, record.DecreaseStock(decimal.NewFromInt(16)))

	var types []string
	for _, e := range record.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{EventTypeStockDecreased, EventTypeProductWithLowStockDetected}, types)

	low, ok := record.GetDomainEvents()[1].(*ProductWithLowStockDetectedEvent)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(4).Equal(low.Quantity))
	assert.True(t, decimal.NewFromInt(5).Equal(low.MinimumStock))
}

func TestInventory_DecreaseStock_AboveMinimumNoThresholdEvent(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.AddStock(decimal.NewFromInt(20)))
	require.NoError(t, record.SetMinimumStock(decimal.NewFromInt(5)))
	record.ClearDomainEvents()

	require.NoError(t, record.DecreaseStock(decimal.NewFromInt(10)))

	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockDecreased, events[0].EventType())
}

func TestInventory_IsBelowMinimum(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.SetMinimumStock(decimal.NewFromInt(5)))

	// Zero quantity is out-of-stock, not low-stock
	assert.False(t, record.IsBelowMinimum())

	require.NoError(t, record.AddStock(decimal.NewFromInt(3)))
	assert.True(t, record.IsBelowMinimum())

	require.NoError(t, record.AddStock(decimal.NewFromInt(10)))
	assert.False(t, record.IsBelowMinimum())
}

func TestInventory_SetMinimumStock_Negative(t *testing.T) {
	record := createTestInventory(t)
	assert.Error(t, record.SetMinimumStock(decimal.NewFromInt(-1)))
}

func TestNewProductExit(t *testing.T) {
	record := createTestInventory(t)
	require.NoError(t, record.AddStock(decimal.NewFromInt(10)))

	exit, err := NewProductExit(record, decimal.NewFromInt(4), "sales order fulfillment")

	require.NoError(t, err)
	assert.Equal(t, record.ID, exit.InventoryID)
	assert.Equal(t, record.ProductID, exit.ProductID)
	assert.Equal(t, record.WarehouseID, exit.WarehouseID)
	assert.True(t, decimal.NewFromInt(4).Equal(exit.Quantity))
}

func TestNewProductExit_Validation(t *testing.T) {
	record := createTestInventory(t)

	_, err := NewProductExit(nil, decimal.NewFromInt(1), "")
	assert.Error(t, err)

	_, err = NewProductExit(record, decimal.Zero, "")
	assert.Error(t, err)
}

func TestNewProductTransfer_Validation(t *testing.T) {
	warehouse := uuid.New()

	_, err := NewProductTransfer(uuid.New(), uuid.New(), warehouse, warehouse, decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewProductTransfer(uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.Zero)
	assert.Error(t, err)
}
