package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
	"github.com/liquotrack/stocksip/internal/infrastructure/telemetry"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo       procurement.PurchaseOrderRepository
	catalogRepo     procurement.CatalogRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo procurement.PurchaseOrderRepository, catalogRepo procurement.CatalogRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new purchase order against a published catalog
func (s *PurchaseOrderService) Create(ctx context.Context, accountID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	catalog, err := s.catalogRepo.FindByID(ctx, req.CatalogID)
	if err != nil {
		return nil, err
	}
	if !catalog.IsPublished {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot order from an unpublished catalog")
	}

	orderCode, err := s.orderRepo.GenerateOrderCode(ctx, accountID)
	if err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(accountID, orderCode, req.CatalogID, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	if req.WarehouseID != nil {
		if err := order.SetDestinationWarehouse(*req.WarehouseID); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, order.Currency)
		if err != nil {
			return nil, err
		}
		if _, err := order.AddItem(item.ProductID, unitPrice, item.Quantity); err != nil {
			return nil, err
		}
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, accountID, telemetry.OrderTypePurchase, order.CalculateTotal().Amount())
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, accountID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderCode retrieves a purchase order by order code
func (s *PurchaseOrderService) GetByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderCode(ctx, accountID, orderCode)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, accountID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.CatalogID != nil {
		domainFilter.Filters["catalog_id"] = *filter.CatalogID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderResponses(orders), total, nil
}

// AddItem adds an item to a purchase order
func (s *PurchaseOrderService) AddItem(ctx context.Context, accountID, orderID uuid.UUID, req AddPurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := valueobject.NewMoney(req.UnitPrice, order.Currency)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddItem(req.ProductID, unitPrice, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateItem updates an item's quantity on a purchase order
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, accountID, orderID, productID uuid.UUID, req UpdatePurchaseOrderItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveItem removes an item from a purchase order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, accountID, orderID, productID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm confirms a purchase order. The confirmation event reaches the
// sales context through the outbox and triggers the conversion into a
// supplier-side sales order.
func (s *PurchaseOrderService) Confirm(ctx context.Context, accountID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Ship marks a purchase order as shipped by the supplier
func (s *PurchaseOrderService) Ship(ctx context.Context, accountID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Ship(); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive marks a purchase order as received. The received event reaches
// the inventory context through the outbox and stocks the buyer's ledger.
func (s *PurchaseOrderService) Receive(ctx context.Context, accountID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Receive(); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels a purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, accountID, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// MarkAsSent records that the order document was delivered to the supplier
func (s *PurchaseOrderService) MarkAsSent(ctx context.Context, accountID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	order.MarkAsSent()

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}
