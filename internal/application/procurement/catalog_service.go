package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/procurement"
	"github.com/liquotrack/stocksip/internal/domain/sales"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// CatalogService handles supplier catalog operations. It also implements
// the sales-facing stock reducer facade invoked on order delivery.
type CatalogService struct {
	catalogRepo procurement.CatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogRepo procurement.CatalogRepository) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
	}
}

// Create creates a new unpublished catalog for a supplier account
func (s *CatalogService) Create(ctx context.Context, accountID uuid.UUID, req CreateCatalogRequest) (*CatalogResponse, error) {
	email, err := valueobject.NewEmail(req.ContactEmail)
	if err != nil {
		return nil, err
	}

	catalog, err := procurement.NewCatalog(accountID, req.Name, req.Description, email)
	if err != nil {
		return nil, err
	}

	if err := s.catalogRepo.Save(ctx, catalog); err != nil {
		return nil, err
	}

	response := ToCatalogResponse(catalog)
	return &response, nil
}

// GetByID retrieves a catalog by ID for its owner account
func (s *CatalogService) GetByID(ctx context.Context, accountID, catalogID uuid.UUID) (*CatalogResponse, error) {
	catalog, err := s.catalogRepo.FindByIDForAccount(ctx, accountID, catalogID)
	if err != nil {
		return nil, err
	}
	response := ToCatalogResponse(catalog)
	return &response, nil
}

// GetPublished retrieves a published catalog visible to any buyer
func (s *CatalogService) GetPublished(ctx context.Context, catalogID uuid.UUID) (*CatalogResponse, error) {
	catalog, err := s.catalogRepo.FindByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if !catalog.IsPublished {
		return nil, shared.ErrNotFound
	}
	response := ToCatalogResponse(catalog)
	return &response, nil
}

// List retrieves catalogs owned by an account with filtering and pagination
func (s *CatalogService) List(ctx context.Context, accountID uuid.UUID, filter CatalogListFilter) ([]CatalogResponse, int64, error) {
	domainFilter := buildCatalogFilter(filter)

	catalogs, err := s.catalogRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.catalogRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCatalogResponses(catalogs), total, nil
}

// ListPublished retrieves published catalogs across all suppliers
func (s *CatalogService) ListPublished(ctx context.Context, filter CatalogListFilter) ([]CatalogResponse, error) {
	catalogs, err := s.catalogRepo.FindPublished(ctx, buildCatalogFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToCatalogResponses(catalogs), nil
}

// Update replaces the catalog's name, description and contact email
func (s *CatalogService) Update(ctx context.Context, accountID, catalogID uuid.UUID, req UpdateCatalogRequest) (*CatalogResponse, error) {
	catalog, err := s.catalogRepo.FindByIDForAccount(ctx, accountID, catalogID)
	if err != nil {
		return nil, err
	}

	email, err := valueobject.NewEmail(req.ContactEmail)
	if err != nil {
		return nil, err
	}

	if err := catalog.UpdateInfo(req.Name, req.Description, email); err != nil {
		return nil, err
	}

	if err := s.catalogRepo.SaveWithLock(ctx, catalog); err != nil {
		return nil, err
	}

	response := ToCatalogResponse(catalog)
	return &response, nil
}

// AddItem lists a product in the catalog
func (s *CatalogService) AddItem(ctx context.Context, accountID, catalogID uuid.UUID, req AddCatalogItemRequest) (*CatalogResponse, error) {
	catalog, err := s.catalogRepo.FindByIDForAccount(ctx, accountID, catalogID)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	unitPrice, err := valueobject.NewMoney(req.UnitPrice, currency)
	if err != nil {
		return nil, err
	}

	if _, err := catalog.AddItem(req.ProductID, req.ProductName, unitPrice, req.ImageURL, req.AvailableStock); err != nil {
		return nil, err
	}

	if err := s.catalogRepo.SaveWithLock(ctx, catalog); err != nil {
		return nil, err
	}

	response := ToCatalogResponse(catalog)
	return &response, nil
}

// RemoveItem removes a product listing from the catalog
func (s *CatalogService) RemoveItem(ctx context.Context, accountID, catalogID, productID uuid.UUID) (*CatalogResponse, error) {
	catalog, err := s.catalogRepo.FindByIDForAccount(ctx, accountID, catalogID)
	if err != nil {
		return nil, err
	}

	if err := catalog.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.catalogRepo.SaveWithLock(ctx, catalog); err != nil {
		return nil, err
	}

	response := ToCatalogResponse(catalog)
	return &response, nil
}

// Publish makes the catalog visible to buyers
func (s *CatalogService) Publish(ctx context.Context, accountID, catalogID uuid.UUID) (*CatalogResponse, error) {
	return s.togglePublish(ctx, accountID, catalogID, true)
}

// Unpublish hides the catalog from buyers
func (s *CatalogService) Unpublish(ctx context.Context, accountID, catalogID uuid.UUID) (*CatalogResponse, error) {
	return s.togglePublish(ctx, accountID, catalogID, false)
}

func (s *CatalogService) togglePublish(ctx context.Context, accountID, catalogID uuid.UUID, publish bool) (*CatalogResponse, error) {
	catalog, err := s.catalogRepo.FindByIDForAccount(ctx, accountID, catalogID)
	if err != nil {
		return nil, err
	}

	if publish {
		err = catalog.Publish()
	} else {
		err = catalog.Unpublish()
	}
	if err != nil {
		return nil, err
	}

	events := catalog.GetDomainEvents()
	catalog.ClearDomainEvents()

	if err := s.catalogRepo.SaveWithLockAndEvents(ctx, catalog, events); err != nil {
		return nil, err
	}

	response := ToCatalogResponse(catalog)
	return &response, nil
}

// ReduceCatalogItemStock decrements the listed stock of a catalog item.
// This is the only path that ties catalog stock to order fulfillment; it
// is called by the sales context when an order is delivered.
func (s *CatalogService) ReduceCatalogItemStock(ctx context.Context, accountID, catalogID, productID uuid.UUID, quantity decimal.Decimal) error {
	catalog, err := s.catalogRepo.FindByIDForAccount(ctx, accountID, catalogID)
	if err != nil {
		return err
	}

	if err := catalog.ReduceItemStock(productID, quantity); err != nil {
		return err
	}

	return s.catalogRepo.SaveWithLock(ctx, catalog)
}

func buildCatalogFilter(filter CatalogListFilter) shared.Filter {
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

	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
}

// Ensure CatalogService implements the sales-facing facade
var _ sales.CatalogStockReducer = (*CatalogService)(nil)
