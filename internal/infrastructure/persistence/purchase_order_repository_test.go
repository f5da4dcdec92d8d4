package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
	"github.com/liquotrack/stocksip/internal/infrastructure/event"
)

func newTestPurchaseOrder(t *testing.T, accountID uuid.UUID, orderCode string) *procurement.PurchaseOrder {
	t.Helper()

	order, err := procurement.NewPurchaseOrder(accountID, orderCode, uuid.New(), valueobject.USD)
	require.NoError(t, err)

	_, err = order.AddItem(uuid.New(), valueobject.NewMoneyUSD(decimal.NewFromInt(25)), decimal.NewFromInt(10))
	require.NoError(t, err)

	return order
}

// saveOrder persists a freshly created order the way the service layer does:
// events captured, cleared, and handed to the locking save.
func saveOrder(t *testing.T, repo *GormPurchaseOrderRepository, order *procurement.PurchaseOrder) {
	t.Helper()

	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	require.NoError(t, repo.SaveWithLockAndEvents(context.Background(), order, events))
}

func newPurchaseOrderRepoWithOutbox(t *testing.T) *GormPurchaseOrderRepository {
	t.Helper()

	db := newTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	repo.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))
	return repo
}

func TestGormPurchaseOrderRepository_SaveAndFind(t *testing.T) {
	t.Run("creates order with items and outbox entry", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00001")
		saveOrder(t, repo, order)

		found, err := repo.FindByIDForAccount(context.Background(), accountID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "PO-2026-00001", found.OrderCode)
		assert.Equal(t, procurement.PurchaseOrderStatusProcessing, found.Status)
		assert.Len(t, found.Items, 1)

		assert.Equal(t, int64(1), countOutboxEntries(t, repo.db, "PurchaseOrderCreated"))
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("does not leak orders across accounts", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)

		order := newTestPurchaseOrder(t, uuid.New(), "PO-2026-00001")
		saveOrder(t, repo, order)

		_, err := repo.FindByIDForAccount(context.Background(), uuid.New(), order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("finds by order code", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00042")
		saveOrder(t, repo, order)

		found, err := repo.FindByOrderCode(context.Background(), accountID, "PO-2026-00042")
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})
}

func TestGormPurchaseOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("updates status with matching version", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00001")
		saveOrder(t, repo, order)

		require.NoError(t, order.Confirm())
		saveOrder(t, repo, order)

		found, err := repo.FindByIDForAccount(context.Background(), accountID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusConfirmed, found.Status)
		assert.NotNil(t, found.ConfirmationDate)
		assert.Equal(t, int64(1), countOutboxEntries(t, repo.db, "PurchaseOrderConfirmed"))
	})

	t.Run("rejects stale version with concurrency conflict", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00001")
		saveOrder(t, repo, order)

		// Two copies loaded at the same version
		first, err := repo.FindByIDForAccount(context.Background(), accountID, order.ID)
		require.NoError(t, err)
		second, err := repo.FindByIDForAccount(context.Background(), accountID, order.ID)
		require.NoError(t, err)

		require.NoError(t, first.Confirm())
		first.ClearDomainEvents()
		require.NoError(t, repo.SaveWithLock(context.Background(), first))

		require.NoError(t, second.Confirm())
		second.ClearDomainEvents()
		err = repo.SaveWithLock(context.Background(), second)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
	})

	t.Run("reconciles removed items", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00001")
		secondProduct := uuid.New()
		_, err := order.AddItem(secondProduct, valueobject.NewMoneyUSD(decimal.NewFromInt(40)), decimal.NewFromInt(5))
		require.NoError(t, err)
		saveOrder(t, repo, order)

		require.NoError(t, order.RemoveItem(secondProduct))
		order.ClearDomainEvents()
		require.NoError(t, repo.SaveWithLock(context.Background(), order))

		found, err := repo.FindByIDForAccount(context.Background(), accountID, order.ID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 1)
	})
}

func TestGormPurchaseOrderRepository_Queries(t *testing.T) {
	t.Run("finds by status with pagination", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		for i := 1; i <= 3; i++ {
			order := newTestPurchaseOrder(t, accountID, fmt.Sprintf("PO-2026-%05d", i))
			saveOrder(t, repo, order)
		}

		orders, err := repo.FindByStatus(context.Background(), accountID, procurement.PurchaseOrderStatusProcessing, shared.Filter{
			Page:     1,
			PageSize: 2,
			OrderBy:  "order_code",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "PO-2026-00001", orders[0].OrderCode)
	})

	t.Run("counts by status", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00001")
		saveOrder(t, repo, order)

		count, err := repo.CountByStatus(context.Background(), accountID, procurement.PurchaseOrderStatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountByStatus(context.Background(), accountID, procurement.PurchaseOrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("checks order code existence", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00007")
		saveOrder(t, repo, order)

		exists, err := repo.ExistsByOrderCode(context.Background(), accountID, "PO-2026-00007")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByOrderCode(context.Background(), accountID, "PO-2026-99999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormPurchaseOrderRepository_GenerateOrderCode(t *testing.T) {
	t.Run("starts sequence at one", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)

		code, err := repo.GenerateOrderCode(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%d-00001", time.Now().Year()), code)
	})

	t.Run("continues sequence from highest code", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()
		year := time.Now().Year()

		order := newTestPurchaseOrder(t, accountID, fmt.Sprintf("PO-%d-00011", year))
		saveOrder(t, repo, order)

		code, err := repo.GenerateOrderCode(context.Background(), accountID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%d-00012", year), code)
	})

	t.Run("sequences are per account", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		year := time.Now().Year()

		order := newTestPurchaseOrder(t, uuid.New(), fmt.Sprintf("PO-%d-00050", year))
		saveOrder(t, repo, order)

		code, err := repo.GenerateOrderCode(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PO-%d-00001", year), code)
	})
}

func TestGormPurchaseOrderRepository_Delete(t *testing.T) {
	t.Run("deletes order and items for account", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)
		accountID := uuid.New()

		order := newTestPurchaseOrder(t, accountID, "PO-2026-00001")
		saveOrder(t, repo, order)

		require.NoError(t, repo.DeleteForAccount(context.Background(), accountID, order.ID))

		_, err := repo.FindByID(context.Background(), order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		var itemCount int64
		require.NoError(t, repo.db.Model(&procurement.PurchaseOrderItem{}).
			Where("order_id = ?", order.ID).Count(&itemCount).Error)
		assert.Equal(t, int64(0), itemCount)
	})

	t.Run("returns ErrNotFound when deleting for wrong account", func(t *testing.T) {
		repo := newPurchaseOrderRepoWithOutbox(t)

		order := newTestPurchaseOrder(t, uuid.New(), "PO-2026-00001")
		saveOrder(t, repo, order)

		err := repo.DeleteForAccount(context.Background(), uuid.New(), order.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
