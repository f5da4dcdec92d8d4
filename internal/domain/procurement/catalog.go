package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/domain/shared/valueobject"
)

// CatalogItem represents a sellable product listed in a supplier catalog.
// Price and available stock are cached snapshots, not live inventory.
type CatalogItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	CatalogID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_catalog_item_product,priority:1"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_catalog_item_product,priority:2"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	ImageURL       string          `gorm:"type:varchar(500)"`
	AvailableStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AddedAt        time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (i *CatalogItem) GetUnitPriceMoney() valueobject.Money {
	money, err := valueobject.NewMoney(i.UnitPrice, valueobject.Currency(i.Currency))
	if err != nil {
		return valueobject.NewMoneyUSD(i.UnitPrice)
	}
	return money
}

// Catalog represents a supplier-owned publishable list of sellable items.
// It is the aggregate root for catalog management.
type Catalog struct {
	shared.AccountAggregateRoot
	Name         string            `gorm:"type:varchar(200);not null"`
	Description  string            `gorm:"type:text"`
	ContactEmail valueobject.Email `gorm:"type:varchar(254)"`
	Items        []CatalogItem     `gorm:"foreignKey:CatalogID;references:ID"`
	IsPublished  bool              `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Catalog) TableName() string {
	return "catalogs"
}

// NewCatalog creates a new unpublished catalog for a supplier account
func NewCatalog(ownerAccountID uuid.UUID, name, description string, contactEmail valueobject.Email) (*Catalog, error) {
	if ownerAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner account ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Catalog name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Catalog name cannot exceed 200 characters")
	}

	return &Catalog{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(ownerAccountID),
		Name:                 name,
		Description:          description,
		ContactEmail:         contactEmail,
		Items:                make([]CatalogItem, 0),
		IsPublished:          false,
	}, nil
}

// AddItem adds a product to the catalog.
// A product may be listed at most once per catalog.
func (c *Catalog) AddItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, imageURL string, availableStock decimal.Decimal) (*CatalogItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if availableStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK", "Available stock cannot be negative")
	}

	for _, item := range c.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product is already listed in this catalog")
		}
	}

	now := time.Now()
	item := CatalogItem{
		ID:             uuid.New(),
		CatalogID:      c.ID,
		ProductID:      productID,
		ProductName:    productName,
		UnitPrice:      unitPrice.Amount(),
		Currency:       string(unitPrice.Currency()),
		ImageURL:       imageURL,
		AvailableStock: availableStock,
		AddedAt:        now,
		UpdatedAt:      now,
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	c.IncrementVersion()

	return &c.Items[len(c.Items)-1], nil
}

// RemoveItem removes the listing for a product from the catalog
func (c *Catalog) RemoveItem(productID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not listed in this catalog")
}

// UpdateInfo replaces name, description and contact email atomically
func (c *Catalog) UpdateInfo(name, description string, contactEmail valueobject.Email) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Catalog name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Catalog name cannot exceed 200 characters")
	}

	c.Name = name
	c.Description = description
	c.ContactEmail = contactEmail
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Publish makes the catalog visible to buyers
func (c *Catalog) Publish() error {
	if c.IsPublished {
		return shared.NewDomainError("INVALID_STATE", "Catalog is already published")
	}
	if len(c.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot publish catalog without items")
	}

	c.IsPublished = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCatalogPublishedEvent(c))

	return nil
}

// Unpublish hides the catalog from buyers.
// Orders already placed against the catalog are unaffected.
func (c *Catalog) Unpublish() error {
	if !c.IsPublished {
		return shared.NewDomainError("INVALID_STATE", "Catalog is not published")
	}

	c.IsPublished = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCatalogUnpublishedEvent(c))

	return nil
}

// ReduceItemStock decrements the cached available-stock snapshot for a
// listed product. It is invoked through the cross-context facade when a
// sales order against this catalog is delivered, never as an implicit
// side effect of an order transition.
func (c *Catalog) ReduceItemStock(productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			if c.Items[idx].AvailableStock.LessThan(quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Cannot reduce stock by %s, only %s listed", quantity.String(), c.Items[idx].AvailableStock.String()))
			}
			c.Items[idx].AvailableStock = c.Items[idx].AvailableStock.Sub(quantity)
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not listed in this catalog")
}

// UpdateItemStock replaces the cached available-stock snapshot for a product
func (c *Catalog) UpdateItemStock(productID uuid.UUID, availableStock decimal.Decimal) error {
	if availableStock.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Available stock cannot be negative")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].AvailableStock = availableStock
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not listed in this catalog")
}

// GetItemByProduct returns the catalog item for a product, or nil
func (c *Catalog) GetItemByProduct(productID uuid.UUID) *CatalogItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of listed products
func (c *Catalog) ItemCount() int {
	return len(c.Items)
}
