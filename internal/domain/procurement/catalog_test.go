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

func createTestCatalog(t *testing.T) *Catalog {
	email, err := valueobject.NewEmail("sales@andeanspirits.example")
	require.NoError(t, err)
	catalog, err := NewCatalog(uuid.New(), "Andean Spirits Wholesale", "Pisco and wine wholesale", email)
	require.NoError(t, err)
	return catalog
}

func addTestCatalogItem(t *testing.T, catalog *Catalog, name string, stock int64) *CatalogItem {
	item, err := catalog.AddItem(uuid.New(), name, valueobject.NewMoneyUSDFromFloat(30), "", decimal.NewFromInt(stock))
	require.NoError(t, err)
	return item
}

func TestNewCatalog(t *testing.T) {
	catalog := createTestCatalog(t)

	assert.Equal(t, "Andean Spirits Wholesale", catalog.Name)
	assert.False(t, catalog.IsPublished)
	assert.Empty(t, catalog.Items)
	assert.Equal(t, 1, catalog.GetVersion())
}

func TestNewCatalog_EmptyName(t *testing.T) {
	email, err := valueobject.NewEmail("sales@example.com")
	require.NoError(t, err)

	_, err = NewCatalog(uuid.New(), "", "desc", email)
	assert.Error(t, err)
}

func TestCatalog_AddItem(t *testing.T) {
	catalog := createTestCatalog(t)
	item := addTestCatalogItem(t, catalog, "Quebranta Pisco 750ml", 120)

	assert.Equal(t, 1, catalog.ItemCount())
	assert.Equal(t, "Quebranta Pisco 750ml", item.ProductName)
	assert.True(t, decimal.NewFromInt(120).Equal(item.AvailableStock))
}

func TestCatalog_AddItem_DuplicateProduct(t *testing.T) {
	catalog := createTestCatalog(t)
	productID := uuid.New()
	price := valueobject.NewMoneyUSDFromFloat(30)

	_, err := catalog.AddItem(productID, "Quebranta Pisco 750ml", price, "", decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = catalog.AddItem(productID, "Quebranta Pisco 750ml", price, "", decimal.NewFromInt(5))
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "DUPLICATE_PRODUCT", derr.Code)
	assert.Equal(t, 1, catalog.ItemCount())
}

func TestCatalog_AddItem_NegativePrice(t *testing.T) {
	catalog := createTestCatalog(t)
	price := valueobject.NewMoneyUSD(decimal.NewFromInt(-1))

	_, err := catalog.AddItem(uuid.New(), "Bad", price, "", decimal.Zero)
	assert.Error(t, err)
}

func TestCatalog_RemoveItem(t *testing.T) {
	catalog := createTestCatalog(t)
	item := addTestCatalogItem(t, catalog, "Torontel Pisco 750ml", 40)

	require.NoError(t, catalog.RemoveItem(item.ProductID))
	assert.Equal(t, 0, catalog.ItemCount())

	err := catalog.RemoveItem(item.ProductID)
	assert.Error(t, err)
}

func TestCatalog_UpdateInfo(t *testing.T) {
	catalog := createTestCatalog(t)
	email, err := valueobject.NewEmail("contact@newsupplier.example")
	require.NoError(t, err)

	err = catalog.UpdateInfo("New Name", "New description", email)

	require.NoError(t, err)
	assert.Equal(t, "New Name", catalog.Name)
	assert.Equal(t, "New description", catalog.Description)
}

func TestCatalog_PublishEmpty(t *testing.T) {
	catalog := createTestCatalog(t)

	err := catalog.Publish()

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_ITEMS", derr.Code)
	assert.False(t, catalog.IsPublished)
	assert.Empty(t, catalog.GetDomainEvents())
}

func TestCatalog_PublishUnpublish(t *testing.T) {
	catalog := createTestCatalog(t)
	addTestCatalogItem(t, catalog, "Quebranta Pisco 750ml", 120)
	catalog.ClearDomainEvents()

	require.NoError(t, catalog.Publish())
	assert.True(t, catalog.IsPublished)

	events := catalog.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeCatalogPublished, events[0].EventType())

	err := catalog.Publish()
	assert.Error(t, err)

	catalog.ClearDomainEvents()
	require.NoError(t, catalog.Unpublish())
	assert.False(t, catalog.IsPublished)

	events = catalog.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeCatalogUnpublished, events[0].EventType())

	err = catalog.Unpublish()
	assert.Error(t, err)
}

func TestCatalog_ReduceItemStock(t *testing.T) {
	catalog := createTestCatalog(t)
	item := addTestCatalogItem(t, catalog, "Quebranta Pisco 750ml", 100)

	err := catalog.ReduceItemStock(item.ProductID, decimal.NewFromInt(30))

	require.NoError(t, err)
	updated := catalog.GetItemByProduct(item.ProductID)
	require.NotNil(t, updated)
	assert.True(t, decimal.NewFromInt(70).Equal(updated.AvailableStock))
}

func TestCatalog_ReduceItemStock_Insufficient(t *testing.T) {
	catalog := createTestCatalog(t)
	item := addTestCatalogItem(t, catalog, "Quebranta Pisco 750ml", 10)

	err := catalog.ReduceItemStock(item.ProductID, decimal.NewFromInt(15))

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INSUFFICIENT_STOCK", derr.Code)
	assert.True(t, decimal.NewFromInt(10).Equal(catalog.GetItemByProduct(item.ProductID).AvailableStock))
}

func TestCatalog_ReduceItemStock_UnknownProduct(t *testing.T) {
	catalog := createTestCatalog(t)
	err := catalog.ReduceItemStock(uuid.New(), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestCatalog_ReduceItemStock_NonPositiveQuantity(t *testing.T) {
	catalog := createTestCatalog(t)
	item := addTestCatalogItem(t, catalog, "Quebranta Pisco 750ml", 10)

	err := catalog.ReduceItemStock(item.ProductID, decimal.Zero)
	assert.Error(t, err)
}

func TestCatalog_UpdateItemStock(t *testing.T) {
	catalog := createTestCatalog(t)
	item := addTestCatalogItem(t, catalog, "Quebranta Pisco 750ml", 10)

	require.NoError(t, catalog.UpdateItemStock(item.ProductID, decimal.NewFromInt(55)))
	assert.True(t, decimal.NewFromInt(55).Equal(catalog.GetItemByProduct(item.ProductID).AvailableStock))

	err := catalog.UpdateItemStock(item.ProductID, decimal.NewFromInt(-1))
	assert.Error(t, err)
}
