package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/liquotrack/stocksip/internal/application/sales"
)

// SalesOrderHandler handles sales order API endpoints
type SalesOrderHandler struct {
	BaseHandler
	orderService *salesapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *salesapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @Summary      Create a new sales order
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body salesapp.CreateSalesOrderRequest true "Sales order creation request"
// @Success      201 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req salesapp.CreateSalesOrderRequest
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
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        status query string false "Filter by status"
// @Success      200 {object} dto.Response{data=[]salesapp.SalesOrderResponse,meta=dto.Meta}
// @Router       /sales-orders [get]
func (h *SalesOrderHandler) List(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter salesapp.SalesOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
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
// @Summary      Get a sales order by ID
// @Tags         sales-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
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
// @Summary      Get a sales order by order code
// @Tags         sales-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        order_code path string true "Order code (e.g. SO-2026-00001)"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Router       /sales-orders/code/{order_code} [get]
func (h *SalesOrderHandler) GetByOrderCode(c *gin.Context) {
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
// @Summary      Add an item to a sales order
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Param        request body salesapp.AddSalesOrderItemRequest true "Item to add"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Router       /sales-orders/{id}/items [post]
func (h *SalesOrderHandler) AddItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req salesapp.AddSalesOrderItemRequest
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

// RemoveItem godoc
// @Summary      Remove an item from a sales order
// @Tags         sales-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Router       /sales-orders/{id}/items/{product_id} [delete]
func (h *SalesOrderHandler) RemoveItem(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
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

// ProposeDeliverySchedule godoc
// @Summary      Propose a delivery date for a sales order
// @Description  Supplier-side action, the buyer then accepts or rejects the proposal
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Param        request body salesapp.ProposeDeliveryScheduleRequest true "Delivery proposal"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders/{id}/delivery-proposal [post]
func (h *SalesOrderHandler) ProposeDeliverySchedule(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req salesapp.ProposeDeliveryScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.ProposeDeliverySchedule(c.Request.Context(), accountID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RespondToDeliveryProposal godoc
// @Summary      Accept or reject a delivery proposal
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Param        request body salesapp.RespondToProposalRequest true "Proposal response"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Router       /sales-orders/{id}/delivery-proposal/respond [post]
func (h *SalesOrderHandler) RespondToDeliveryProposal(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req salesapp.RespondToProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.RespondToDeliveryProposal(c.Request.Context(), accountID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @Summary      Advance a sales order through its lifecycle
// @Description  Delivery requires an accepted delivery proposal
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Param        request body salesapp.UpdateSalesOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales-orders/{id}/status [put]
func (h *SalesOrderHandler) UpdateStatus(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req salesapp.UpdateSalesOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), accountID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel a sales order
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Sales order ID"
// @Param        request body salesapp.CancelSalesOrderRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=salesapp.SalesOrderResponse}
// @Router       /sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req salesapp.CancelSalesOrderRequest
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

// GenerateReplenishment godoc
// @Summary      Generate a replenishment order from low-stock items
// @Description  Builds a sales order for every tracked product at or below its minimum stock
// @Tags         sales-orders
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        catalog_id path string true "Catalog to order from"
// @Success      200 {object} dto.Response{data=salesapp.ReplenishmentResult}
// @Router       /sales-orders/replenishment/{catalog_id} [post]
func (h *SalesOrderHandler) GenerateReplenishment(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	catalogID, err := uuid.Parse(c.Param("catalog_id"))
	if err != nil {
		h.BadRequest(c, "Invalid catalog ID format")
		return
	}

	result, err := h.orderService.GenerateReplenishment(c.Request.Context(), accountID, catalogID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
