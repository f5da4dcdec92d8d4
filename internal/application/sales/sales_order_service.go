package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
	"github.com/liquotrack/stocksip/internal/infrastructure/telemetry"
)

// SalesOrderService handles sales order business operations.
// Orders are generated three ways: directly by a buyer, by converting a
// confirmed purchase order, or by the automatic low-stock replenishment run.
type SalesOrderService struct {
	orderRepo         sales.SalesOrderRepository
	purchaseOrderRepo procurement.PurchaseOrderRepository
	catalogRepo       procurement.CatalogRepository
	lowStockProvider  sales.LowStockProvider
	businessMetrics   *telemetry.BusinessMetrics
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo sales.SalesOrderRepository,
	purchaseOrderRepo procurement.PurchaseOrderRepository,
	catalogRepo procurement.CatalogRepository,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:         orderRepo,
		purchaseOrderRepo: purchaseOrderRepo,
		catalogRepo:       catalogRepo,
	}
}

// SetLowStockProvider wires the inventory low-stock source used by replenishment
func (s *SalesOrderService) SetLowStockProvider(provider sales.LowStockProvider) {
	s.lowStockProvider = provider
}

// SetBusinessMetrics sets the business metrics recorder
func (s *SalesOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new sales order directly against a published catalog
func (s *SalesOrderService) Create(ctx context.Context, accountID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	catalog, err := s.catalogRepo.FindByID(ctx, req.CatalogID)
	if err != nil {
		return nil, err
	}
	if !catalog.IsPublished {
		return nil, shared.NewDomainError("CATALOG_NOT_PUBLISHED", "Cannot order from an unpublished catalog")
	}

	orderCode, err := s.orderRepo.GenerateOrderCode(ctx, accountID)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewSalesOrder(accountID, orderCode, req.CatalogID, valueobject.Currency(req.Currency))
	if err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		unitPrice, err := valueobject.NewMoney(input.UnitPrice, order.Currency)
		if err != nil {
			return nil, err
		}
		if _, err := order.AddItem(input.ProductID, unitPrice, input.Quantity); err != nil {
			return nil, err
		}
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, accountID, telemetry.OrderTypeSales, order.CalculateTotal().Amount())
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// ConvertPurchaseOrderToSalesOrder generates the sales order that fulfills a
// confirmed purchase order. The conversion is idempotent: a purchase order
// converts at most once, repeat calls return the existing sales order ID.
func (s *SalesOrderService) ConvertPurchaseOrderToSalesOrder(ctx context.Context, accountID, purchaseOrderID uuid.UUID) (uuid.UUID, error) {
	if existing, err := s.orderRepo.FindByPurchaseOrder(ctx, accountID, purchaseOrderID); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, err
	}

	purchaseOrder, err := s.purchaseOrderRepo.FindByIDForAccount(ctx, accountID, purchaseOrderID)
	if err != nil {
		return uuid.Nil, err
	}
	if !purchaseOrder.IsConfirmed() {
		return uuid.Nil, shared.NewDomainError("INVALID_STATE", "Only confirmed purchase orders can be converted")
	}

	orderCode, err := s.orderRepo.GenerateOrderCode(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}

	order, err := sales.NewSalesOrder(accountID, orderCode, purchaseOrder.CatalogID, purchaseOrder.Currency)
	if err != nil {
		return uuid.Nil, err
	}
	if err := order.LinkPurchaseOrder(purchaseOrder.ID); err != nil {
		return uuid.Nil, err
	}

	for _, item := range purchaseOrder.Items {
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, purchaseOrder.Currency)
		if err != nil {
			return uuid.Nil, err
		}
		if _, err := order.AddItem(item.ProductID, unitPrice, item.Quantity); err != nil {
			return uuid.Nil, err
		}
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return uuid.Nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, accountID, telemetry.OrderTypeSales, order.CalculateTotal().Amount())
	}

	return order.ID, nil
}

// GenerateReplenishment creates a sales order covering the account's
// low-stock ledger records that are listed in the given catalog. Records not
// listed in the catalog are skipped. A run with nothing to order succeeds
// without creating an order.
func (s *SalesOrderService) GenerateReplenishment(ctx context.Context, accountID, catalogID uuid.UUID) (*ReplenishmentResult, error) {
	if s.lowStockProvider == nil {
		return nil, shared.NewDomainError("REPLENISHMENT_UNAVAILABLE", "Low stock provider is not configured")
	}

	catalog, err := s.catalogRepo.FindByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if !catalog.IsPublished {
		return nil, shared.NewDomainError("CATALOG_NOT_PUBLISHED", "Cannot order from an unpublished catalog")
	}

	lowStock, err := s.lowStockProvider.GetLowStockItems(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := &ReplenishmentResult{}
	if len(lowStock) == 0 {
		return result, nil
	}

	orderCode, err := s.orderRepo.GenerateOrderCode(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var order *sales.SalesOrder
	for _, item := range lowStock {
		listing := catalog.GetItemByProduct(item.ProductID)
		if listing == nil {
			result.ItemsSkipped++
			continue
		}

		if order == nil {
			order, err = sales.NewSalesOrder(accountID, orderCode, catalogID, valueobject.Currency(listing.Currency))
			if err != nil {
				return nil, err
			}
		}

		unitPrice, err := valueobject.NewMoney(listing.UnitPrice, order.Currency)
		if err != nil {
			result.ItemsSkipped++
			continue
		}
		if _, err := order.AddItem(item.ProductID, unitPrice, item.SuggestedQuantity); err != nil {
			result.ItemsSkipped++
			continue
		}
		result.ItemsOrdered++
	}

	if order == nil || result.ItemsOrdered == 0 {
		return result, nil
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, accountID, telemetry.OrderTypeSales, order.CalculateTotal().Amount())
	}

	response := ToSalesOrderResponse(order)
	result.Order = &response
	return result, nil
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, accountID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// GetByOrderCode retrieves a sales order by its code
func (s *SalesOrderService) GetByOrderCode(ctx context.Context, accountID uuid.UUID, orderCode string) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderCode(ctx, accountID, orderCode)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves sales orders for an account with filtering and pagination
func (s *SalesOrderService) List(ctx context.Context, accountID uuid.UUID, filter SalesOrderListFilter) ([]SalesOrderResponse, int64, error) {
	domainFilter := buildSalesOrderFilter(filter)

	var orders []sales.SalesOrder
	var err error
	if filter.Status != "" {
		orders, err = s.orderRepo.FindByStatus(ctx, accountID, sales.SalesOrderStatus(filter.Status), domainFilter)
	} else {
		orders, err = s.orderRepo.FindAllForAccount(ctx, accountID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSalesOrderResponses(orders), total, nil
}

// AddItem adds an item to a sales order still in CREATED status
func (s *SalesOrderService) AddItem(ctx context.Context, accountID, orderID uuid.UUID, req AddSalesOrderItemRequest) (*SalesOrderResponse, error) {
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

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// RemoveItem removes an item from a sales order still in CREATED status
func (s *SalesOrderService) RemoveItem(ctx context.Context, accountID, orderID, productID uuid.UUID) (*SalesOrderResponse, error) {
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

	response := ToSalesOrderResponse(order)
	return &response, nil
}

// ProposeDeliverySchedule records a supplier's proposed delivery date
func (s *SalesOrderService) ProposeDeliverySchedule(ctx context.Context, accountID, orderID uuid.UUID, req ProposeDeliveryScheduleRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.ProposeDeliverySchedule(req.ProposedDate, req.Notes); err != nil {
		return nil, err
	}

	return s.saveWithEvents(ctx, order)
}

// RespondToDeliveryProposal records the buyer's accept or reject decision
func (s *SalesOrderService) RespondToDeliveryProposal(ctx context.Context, accountID, orderID uuid.UUID, req RespondToProposalRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RespondToDeliveryProposal(req.Accept, req.Notes); err != nil {
		return nil, err
	}

	return s.saveWithEvents(ctx, order)
}

// UpdateStatus advances the sales order lifecycle
func (s *SalesOrderService) UpdateStatus(ctx context.Context, accountID, orderID uuid.UUID, req UpdateSalesOrderStatusRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateStatus(sales.SalesOrderStatus(req.Status), req.Reason); err != nil {
		return nil, err
	}

	return s.saveWithEvents(ctx, order)
}

// Cancel cancels a sales order
func (s *SalesOrderService) Cancel(ctx context.Context, accountID, orderID uuid.UUID, req CancelSalesOrderRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForAccount(ctx, accountID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	return s.saveWithEvents(ctx, order)
}

func (s *SalesOrderService) saveWithEvents(ctx context.Context, order *sales.SalesOrder) (*SalesOrderResponse, error) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToSalesOrderResponse(order)
	return &response, nil
}

func buildSalesOrderFilter(filter SalesOrderListFilter) shared.Filter {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}

// Ensure SalesOrderService implements the procurement-facing facade
var _ procurement.SalesOrderConverter = (*SalesOrderService)(nil)
