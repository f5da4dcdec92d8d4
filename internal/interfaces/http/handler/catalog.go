package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/liquotrack/stocksip/internal/application/procurement"
)

// CatalogHandler handles supplier catalog API endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *procurementapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *procurementapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// Create godoc
// @Summary      Create a new catalog
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body procurementapp.CreateCatalogRequest true "Catalog creation request"
// @Success      201 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalogs [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req procurementapp.CreateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	catalog, err := h.catalogService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, catalog)
}

// List godoc
// @Summary      List the account's catalogs
// @Tags         catalogs
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Success      200 {object} dto.Response{data=[]procurementapp.CatalogResponse,meta=dto.Meta}
// @Router       /catalogs [get]
func (h *CatalogHandler) List(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter procurementapp.CatalogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	catalogs, total, err := h.catalogService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, catalogs, total, page, pageSize)
}

// ListPublished godoc
// @Summary      List published catalogs across all suppliers
// @Description  Marketplace view used by buyers to find suppliers to order from
// @Tags         catalogs
// @Produce      json
// @Success      200 {object} dto.Response{data=[]procurementapp.CatalogResponse}
// @Router       /catalogs/published [get]
func (h *CatalogHandler) ListPublished(c *gin.Context) {
	var filter procurementapp.CatalogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	catalogs, err := h.catalogService.ListPublished(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalogs)
}

// GetByID godoc
// @Summary      Get a catalog by ID
// @Tags         catalogs
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Catalog ID"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalogs/{id} [get]
func (h *CatalogHandler) GetByID(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	catalog, err := h.catalogService.GetByID(c.Request.Context(), accountID, catalogID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalog)
}

// GetPublished godoc
// @Summary      Get a published catalog by ID
// @Description  Buyer-facing lookup, only resolves catalogs that are published
// @Tags         catalogs
// @Produce      json
// @Param        id path string true "Catalog ID"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Router       /catalogs/published/{id} [get]
func (h *CatalogHandler) GetPublished(c *gin.Context) {
	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	catalog, err := h.catalogService.GetPublished(c.Request.Context(), catalogID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalog)
}

// Update godoc
// @Summary      Update catalog information
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Catalog ID"
// @Param        request body procurementapp.UpdateCatalogRequest true "Catalog update request"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Router       /catalogs/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	var req procurementapp.UpdateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	catalog, err := h.catalogService.Update(c.Request.Context(), accountID, catalogID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalog)
}

// AddItem godoc
// @Summary      List a product in a catalog
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Catalog ID"
// @Param        request body procurementapp.AddCatalogItemRequest true "Product listing"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Router       /catalogs/{id}/items [post]
func (h *CatalogHandler) AddItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	var req procurementapp.AddCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	catalog, err := h.catalogService.AddItem(c.Request.Context(), accountID, catalogID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalog)
}

// RemoveItem godoc
// @Summary      Remove a product listing from a catalog
// @Tags         catalogs
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Catalog ID"
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Router       /catalogs/{id}/items/{product_id} [delete]
func (h *CatalogHandler) RemoveItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	catalog, err := h.catalogService.RemoveItem(c.Request.Context(), accountID, catalogID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalog)
}

// Publish godoc
// @Summary      Publish a catalog
// @Tags         catalogs
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Catalog ID"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalogs/{id}/publish [post]
func (h *CatalogHandler) Publish(c *gin.Context) {
	h.togglePublish(c, true)
}

// Unpublish godoc
// @Summary      Unpublish a catalog
// @Tags         catalogs
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Catalog ID"
// @Success      200 {object} dto.Response{data=procurementapp.CatalogResponse}
// @Router       /catalogs/{id}/unpublish [post]
func (h *CatalogHandler) Unpublish(c *gin.Context) {
	h.togglePublish(c, false)
}

func (h *CatalogHandler) togglePublish(c *gin.Context, publish bool) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	catalogID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	var catalog *procurementapp.CatalogResponse
	if publish {
		catalog, err = h.catalogService.Publish(c.Request.Context(), accountID, catalogID)
	} else {
		catalog, err = h.catalogService.Unpublish(c.Request.Context(), accountID, catalogID)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, catalog)
}
