package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

func TestGormProductExitRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductExitRepository(db)
	accountID := uuid.New()

	record, err := inventory.NewInventory(accountID, uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	require.NoError(t, record.AddStock(decimal.NewFromInt(100)))

	exit, err := inventory.NewProductExit(record, decimal.NewFromInt(10), "breakage")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), exit))

	t.Run("finds exits by inventory", func(t *testing.T) {
		exits, err := repo.FindByInventory(context.Background(), accountID, record.ID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, exits, 1)
		assert.Equal(t, "breakage", exits[0].Reason)
		assert.True(t, exits[0].Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("finds exits for account", func(t *testing.T) {
		exits, err := repo.FindAllForAccount(context.Background(), accountID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, exits, 1)
	})

	t.Run("scopes exits to the owning account", func(t *testing.T) {
		exits, err := repo.FindAllForAccount(context.Background(), uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Empty(t, exits)
	})
}

func TestGormProductTransferRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductTransferRepository(db)
	accountID := uuid.New()
	productID := uuid.New()

	transfer, err := inventory.NewProductTransfer(accountID, productID, uuid.New(), uuid.New(), decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), transfer))

	t.Run("finds transfers by product", func(t *testing.T) {
		transfers, err := repo.FindByProduct(context.Background(), accountID, productID, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.True(t, transfers[0].Quantity.Equal(decimal.NewFromInt(25)))
	})

	t.Run("filters by product via filter map", func(t *testing.T) {
		transfers, err := repo.FindAllForAccount(context.Background(), accountID, shared.Filter{
			Filters: map[string]interface{}{"product_id": uuid.New()},
		})
		require.NoError(t, err)
		assert.Empty(t, transfers)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		second, err := inventory.NewProductTransfer(accountID, productID, uuid.New(), uuid.New(), decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), second))

		transfers, err := repo.FindAllForAccount(context.Background(), accountID, shared.Filter{Page: 1, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, transfers, 1)
	})
}
