package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/inventory"
	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
)

// InventoryService handles stock ledger operations. It also implements
// the sales-facing low-stock provider backing automatic replenishment.
type InventoryService struct {
	inventoryRepo   inventory.InventoryRepository
	exitRepo        inventory.ProductExitRepository
	transferRepo    inventory.ProductTransferRepository
	transferService *inventory.TransferService
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	inventoryRepo inventory.InventoryRepository,
	exitRepo inventory.ProductExitRepository,
	transferRepo inventory.ProductTransferRepository,
) *InventoryService {
	return &InventoryService{
		inventoryRepo:   inventoryRepo,
		exitRepo:        exitRepo,
		transferRepo:    transferRepo,
		transferService: inventory.NewTransferService(),
	}
}

// AddStock increases the quantity of a ledger record, creating the record
// on first use of its ledger key
func (s *InventoryService) AddStock(ctx context.Context, accountID uuid.UUID, req AddStockRequest) (*InventoryResponse, error) {
	record, err := s.findOrCreate(ctx, accountID, req.ProductID, req.WarehouseID, req.ExpirationDate)
	if err != nil {
		return nil, err
	}

	if err := record.AddStock(req.Quantity); err != nil {
		return nil, err
	}

	events := record.GetDomainEvents()
	record.ClearDomainEvents()

	if err := s.inventoryRepo.SaveWithLockAndEvents(ctx, record, events); err != nil {
		return nil, err
	}

	response := ToInventoryResponse(record)
	return &response, nil
}

// DecreaseStock takes stock out of a ledger record and appends the exit
// audit row in the same transaction. Threshold events recorded by the
// aggregate reach consumers through the outbox.
func (s *InventoryService) DecreaseStock(ctx context.Context, accountID uuid.UUID, req DecreaseStockRequest) (*InventoryResponse, error) {
	record, err := s.inventoryRepo.FindByLedgerKey(ctx, accountID, req.ProductID, req.WarehouseID, req.ExpirationDate)
	if err != nil {
		return nil, err
	}

	if err := record.DecreaseStock(req.Quantity); err != nil {
		return nil, err
	}

	exit, err := inventory.NewProductExit(record, req.Quantity, req.Reason)
	if err != nil {
		return nil, err
	}

	events := record.GetDomainEvents()
	record.ClearDomainEvents()

	if err := s.inventoryRepo.SaveDecrease(ctx, record, exit, events); err != nil {
		return nil, err
	}

	response := ToInventoryResponse(record)
	return &response, nil
}

// Transfer moves stock between two warehouses in a single transaction.
// The destination record is created on first use of its ledger key.
func (s *InventoryService) Transfer(ctx context.Context, accountID uuid.UUID, req TransferStockRequest) (*TransferResponse, error) {
	source, err := s.inventoryRepo.FindByLedgerKey(ctx, accountID, req.ProductID, req.FromWarehouseID, req.ExpirationDate)
	if err != nil {
		return nil, err
	}

	destination, err := s.findOrCreate(ctx, accountID, req.ProductID, req.ToWarehouseID, req.ExpirationDate)
	if err != nil {
		return nil, err
	}

	result, err := s.transferService.Transfer(source, destination, req.Quantity)
	if err != nil {
		return nil, err
	}

	events := append(source.GetDomainEvents(), destination.GetDomainEvents()...)
	source.ClearDomainEvents()
	destination.ClearDomainEvents()

	if err := s.inventoryRepo.SaveTransfer(ctx, result, events); err != nil {
		return nil, err
	}

	return &TransferResponse{
		TransferID:      result.Transfer.ID,
		ProductID:       result.Transfer.ProductID,
		FromWarehouseID: result.Transfer.FromWarehouseID,
		ToWarehouseID:   result.Transfer.ToWarehouseID,
		Quantity:        result.Transfer.Quantity,
		TransferredAt:   result.Transfer.TransferredAt,
		Source:          ToInventoryResponse(result.Source),
		Destination:     ToInventoryResponse(result.Destination),
	}, nil
}

// SetMinimumStock changes the low-stock alert threshold of a ledger record
func (s *InventoryService) SetMinimumStock(ctx context.Context, accountID, inventoryID uuid.UUID, req SetMinimumStockRequest) (*InventoryResponse, error) {
	record, err := s.inventoryRepo.FindByIDForAccount(ctx, accountID, inventoryID)
	if err != nil {
		return nil, err
	}

	if err := record.SetMinimumStock(req.MinimumStock); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	response := ToInventoryResponse(record)
	return &response, nil
}

// GetByID retrieves a ledger record by ID
func (s *InventoryService) GetByID(ctx context.Context, accountID, inventoryID uuid.UUID) (*InventoryResponse, error) {
	record, err := s.inventoryRepo.FindByIDForAccount(ctx, accountID, inventoryID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryResponse(record)
	return &response, nil
}

// List retrieves ledger records for an account with filtering and pagination
func (s *InventoryService) List(ctx context.Context, accountID uuid.UUID, filter InventoryListFilter) ([]InventoryResponse, int64, error) {
	domainFilter := buildInventoryFilter(filter)

	var records []inventory.Inventory
	var err error
	switch {
	case filter.WarehouseID != nil:
		records, err = s.inventoryRepo.FindByWarehouse(ctx, accountID, *filter.WarehouseID, domainFilter)
	case filter.ProductID != nil:
		records, err = s.inventoryRepo.FindByProduct(ctx, accountID, *filter.ProductID)
	default:
		records, err = s.inventoryRepo.FindAllForAccount(ctx, accountID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.inventoryRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInventoryResponses(records), total, nil
}

// ListExpiring retrieves expirable records whose expiration date falls before the cutoff
func (s *InventoryService) ListExpiring(ctx context.Context, accountID uuid.UUID, cutoff time.Time) ([]InventoryResponse, error) {
	records, err := s.inventoryRepo.FindExpiringBefore(ctx, accountID, cutoff)
	if err != nil {
		return nil, err
	}
	return ToInventoryResponses(records), nil
}

// ListExits retrieves exit audit rows for an account
func (s *InventoryService) ListExits(ctx context.Context, accountID uuid.UUID, filter InventoryListFilter) ([]ProductExitResponse, error) {
	exits, err := s.exitRepo.FindAllForAccount(ctx, accountID, buildInventoryFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToProductExitResponses(exits), nil
}

// ListTransfers retrieves transfer audit rows for an account
func (s *InventoryService) ListTransfers(ctx context.Context, accountID uuid.UUID, filter InventoryListFilter) ([]ProductTransferResponse, error) {
	transfers, err := s.transferRepo.FindAllForAccount(ctx, accountID, buildInventoryFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToProductTransferResponses(transfers), nil
}

// GetLowStockItems returns the account's ledger records at or below their
// minimum stock. The suggested quantity restocks the record to twice its
// minimum, so a fulfilled suggestion does not land back on the threshold.
func (s *InventoryService) GetLowStockItems(ctx context.Context, accountID uuid.UUID) ([]sales.LowStockItem, error) {
	records, err := s.inventoryRepo.FindLowStock(ctx, accountID)
	if err != nil {
		return nil, err
	}

	items := make([]sales.LowStockItem, 0, len(records))
	for _, record := range records {
		suggested := record.MinimumStock.Mul(decimal.NewFromInt(2)).Sub(record.Quantity)
		if suggested.LessThanOrEqual(decimal.Zero) {
			continue
		}
		items = append(items, sales.LowStockItem{
			ProductID:         record.ProductID,
			WarehouseID:       record.WarehouseID,
			CurrentQuantity:   record.Quantity,
			MinimumStock:      record.MinimumStock,
			SuggestedQuantity: suggested,
		})
	}

	return items, nil
}

func (s *InventoryService) findOrCreate(ctx context.Context, accountID, productID, warehouseID uuid.UUID, expirationDate *time.Time) (*inventory.Inventory, error) {
	record, err := s.inventoryRepo.FindByLedgerKey(ctx, accountID, productID, warehouseID, expirationDate)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return inventory.NewInventory(accountID, productID, warehouseID, expirationDate)
}

func buildInventoryFilter(filter InventoryListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	return domainFilter
}

// Ensure InventoryService implements the sales-facing facade
var _ sales.LowStockProvider = (*InventoryService)(nil)
