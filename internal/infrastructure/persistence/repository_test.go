package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// newTestDB opens an in-memory SQLite database with the full schema migrated.
// The pool is pinned to a single connection so every query sees the same
// in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&procurement.PurchaseOrder{},
		&procurement.PurchaseOrderItem{},
		&procurement.Catalog{},
		&procurement.CatalogItem{},
		&sales.SalesOrder{},
		&sales.SalesOrderItem{},
		&inventory.Inventory{},
		&inventory.ProductExit{},
		&inventory.ProductTransfer{},
		&alerting.Alert{},
		&shared.OutboxEntry{},
	)
	require.NoError(t, err)

	return db
}

// countOutboxEntries returns the number of outbox rows of the given event type.
func countOutboxEntries(t *testing.T, db *gorm.DB, eventType string) int64 {
	t.Helper()

	var count int64
	err := db.Model(&shared.OutboxEntry{}).Where("event_type = ?", eventType).Count(&count).Error
	require.NoError(t, err)
	return count
}
