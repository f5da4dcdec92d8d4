package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procurementapp "github.com/liquotrack/stocksip/internal/application/procurement"
	salesapp "github.com/liquotrack/stocksip/internal/application/sales"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurementapp.PurchaseOrderService
	salesService *salesapp.SalesOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *procurementapp.PurchaseOrderService, salesService *salesapp.SalesOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
		salesService: salesService,
	}
}

// Create godoc
// @Summary      Create a new purchase order
// @Description  Create a purchase order against a published catalog
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body procurementapp.CreatePurchaseOrderRequest true "Purchase order creation request"
// @Success      201 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req procurementapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// List godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        status query string false "Filter by status"
// @Param        catalog_id query string false "Filter by catalog"
// @Success      200 {object} dto.Response{data=[]procurementapp.PurchaseOrderResponse,meta=dto.Meta}
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter procurementapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if filter.CatalogID, err = queryUUID(c, "catalog_id"); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get a purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), accountID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByOrderCode godoc
// @Summary      Get a purchase order by order code
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        order_code path string true "Order code (e.g. PO-2026-00001)"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/code/{order_code} [get]
func (h *PurchaseOrderHandler) GetByOrderCode(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	order, err := h.orderService.GetByOrderCode(c.Request.Context(), accountID, c.Param("order_code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// AddItem godoc
// @Summary      Add an item to a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Param        request body procurementapp.AddPurchaseOrderItemRequest true "Item to add"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/items [post]
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req procurementapp.AddPurchaseOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.AddItem(c.Request.Context(), accountID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem godoc
// @Summary      Update an item's quantity on a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Param        product_id path string true "Product ID"
// @Param        request body procurementapp.UpdatePurchaseOrderItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/items/{product_id} [put]
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req procurementapp.UpdatePurchaseOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateItem(c.Request.Context(), accountID, orderID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem godoc
// @Summary      Remove an item from a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/items/{product_id} [delete]
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), accountID, orderID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Confirm godoc
// @Summary      Confirm a purchase order
// @Description  Moves the order to CONFIRMED and creates the supplier's sales order
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	h.lifecycle(c, h.orderService.Confirm)
}

// Ship godoc
// @Summary      Mark a purchase order as shipped
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/ship [post]
func (h *PurchaseOrderHandler) Ship(c *gin.Context) {
	h.lifecycle(c, h.orderService.Ship)
}

// Receive godoc
// @Summary      Mark a purchase order as received
// @Description  Moves the order to RECEIVED and books the goods into inventory
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	h.lifecycle(c, h.orderService.Receive)
}

// MarkAsSent godoc
// @Summary      Mark a purchase order as sent to the supplier
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) MarkAsSent(c *gin.Context) {
	h.lifecycle(c, h.orderService.MarkAsSent)
}

// Cancel godoc
// @Summary      Cancel a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Param        request body procurementapp.CancelPurchaseOrderRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseOrderResponse}
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req procurementapp.CancelPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), accountID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// ConvertToSalesOrder godoc
// @Summary      Convert a confirmed purchase order into a sales order
// @Description  Idempotent: returns the existing sales order when the conversion already ran
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Purchase order ID"
// @Success      200 {object} dto.Response
// @Router       /purchase-orders/{id}/convert [post]
func (h *PurchaseOrderHandler) ConvertToSalesOrder(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	salesOrderID, err := h.salesService.ConvertPurchaseOrderToSalesOrder(c.Request.Context(), accountID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"sales_order_id": salesOrderID})
}

// lifecycle runs a state transition that takes no request body
func (h *PurchaseOrderHandler) lifecycle(c *gin.Context, fn func(ctx context.Context, accountID, orderID uuid.UUID) (*procurementapp.PurchaseOrderResponse, error)) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := fn(c.Request.Context(), accountID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
