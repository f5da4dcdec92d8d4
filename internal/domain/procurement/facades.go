package procurement

import (
	"context"

	"github.com/google/uuid"
)

// SalesOrderConverter is the cross-context entry point into sales.
// It converts a confirmed purchase order into the supplier-side sales
// order that fulfills it, and returns the new sales order ID.
type SalesOrderConverter interface {
	ConvertPurchaseOrderToSalesOrder(ctx context.Context, accountID, purchaseOrderID uuid.UUID) (uuid.UUID, error)
}
