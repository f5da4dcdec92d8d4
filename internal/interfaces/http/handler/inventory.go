package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/liquotrack/stocksip/internal/application/inventory"
)

// InventoryHandler handles stock ledger API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// AddStock godoc
// @Summary      Add stock to a ledger record
// @Description  Creates the ledger record on first use of a product/warehouse/expiration key
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body inventoryapp.AddStockRequest true "Stock addition"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /inventory/add [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req inventoryapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.inventoryService.AddStock(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// DecreaseStock godoc
// @Summary      Take stock out of a ledger record
// @Description  Records a product exit with the given reason and may raise stock alerts
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body inventoryapp.DecreaseStockRequest true "Stock decrease"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /inventory/decrease [post]
func (h *InventoryHandler) DecreaseStock(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req inventoryapp.DecreaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.inventoryService.DecreaseStock(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Transfer godoc
// @Summary      Move stock between warehouses
// @Description  Atomically decreases the source record and increases the destination record
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body inventoryapp.TransferStockRequest true "Stock transfer"
// @Success      200 {object} dto.Response{data=inventoryapp.TransferResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req inventoryapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.inventoryService.Transfer(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SetMinimumStock godoc
// @Summary      Change the low-stock threshold of a ledger record
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Ledger record ID"
// @Param        request body inventoryapp.SetMinimumStockRequest true "New threshold"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Router       /inventory/{id}/minimum-stock [put]
func (h *InventoryHandler) SetMinimumStock(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	inventoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory ID format")
		return
	}

	var req inventoryapp.SetMinimumStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.inventoryService.SetMinimumStock(c.Request.Context(), accountID, inventoryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByID godoc
// @Summary      Get a ledger record by ID
// @Tags         inventory
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Ledger record ID"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	inventoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory ID format")
		return
	}

	record, err := h.inventoryService.GetByID(c.Request.Context(), accountID, inventoryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// List godoc
// @Summary      List ledger records
// @Tags         inventory
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        warehouse_id query string false "Filter by warehouse"
// @Param        product_id query string false "Filter by product"
// @Success      200 {object} dto.Response{data=[]inventoryapp.InventoryResponse,meta=dto.Meta}
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter inventoryapp.InventoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if filter.WarehouseID, err = queryUUID(c, "warehouse_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ProductID, err = queryUUID(c, "product_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	records, total, err := h.inventoryService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, records, total, page, pageSize)
}

// ListExpiring godoc
// @Summary      List ledger records expiring before a cutoff date
// @Tags         inventory
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        before query string true "Cutoff date (RFC3339 or YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]inventoryapp.InventoryResponse}
// @Router       /inventory/expiring [get]
func (h *InventoryHandler) ListExpiring(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	cutoff, err := parseDate(c.Query("before"))
	if err != nil {
		h.BadRequest(c, "Invalid cutoff date, expected RFC3339 or YYYY-MM-DD")
		return
	}

	records, err := h.inventoryService.ListExpiring(c.Request.Context(), accountID, cutoff)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// ListExits godoc
// @Summary      List product exit audit rows
// @Tags         inventory
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        product_id query string false "Filter by product"
// @Success      200 {object} dto.Response{data=[]inventoryapp.ProductExitResponse}
// @Router       /inventory/exits [get]
func (h *InventoryHandler) ListExits(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter inventoryapp.InventoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if filter.WarehouseID, err = queryUUID(c, "warehouse_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ProductID, err = queryUUID(c, "product_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	exits, err := h.inventoryService.ListExits(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, exits)
}

// ListTransfers godoc
// @Summary      List stock transfer audit rows
// @Tags         inventory
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        product_id query string false "Filter by product"
// @Success      200 {object} dto.Response{data=[]inventoryapp.ProductTransferResponse}
// @Router       /inventory/transfers [get]
func (h *InventoryHandler) ListTransfers(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter inventoryapp.InventoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if filter.WarehouseID, err = queryUUID(c, "warehouse_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.ProductID, err = queryUUID(c, "product_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transfers, err := h.inventoryService.ListTransfers(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transfers)
}

// ListLowStock godoc
// @Summary      List ledger records at or below their minimum stock
// @Tags         inventory
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Success      200 {object} dto.Response
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	items, err := h.inventoryService.GetLowStockItems(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, items)
}
