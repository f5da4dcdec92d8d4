package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	alertingapp "github.com/liquotrack/stocksip/internal/application/alerting"
)

// AlertHandler handles stock alert API endpoints
type AlertHandler struct {
	BaseHandler
	alertService *alertingapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *alertingapp.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// PurgeAlertsRequest represents a request to purge acknowledged alerts
type PurgeAlertsRequest struct {
	RetentionDays int `json:"retention_days" binding:"required,min=1,max=365"`
}

// List godoc
// @Summary      List alerts
// @Tags         alerts
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        severity query string false "Filter by severity (INFO, WARNING, CRITICAL)"
// @Param        unacknowledged query bool false "Only open alerts"
// @Success      200 {object} dto.Response{data=[]alertingapp.AlertResponse,meta=dto.Meta}
// @Router       /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var filter alertingapp.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	alerts, total, err := h.alertService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, alerts, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get an alert by ID
// @Tags         alerts
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Alert ID"
// @Success      200 {object} dto.Response{data=alertingapp.AlertResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /alerts/{id} [get]
func (h *AlertHandler) GetByID(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	alert, err := h.alertService.GetByID(c.Request.Context(), accountID, alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alert)
}

// ListByInventory godoc
// @Summary      List alerts raised for a ledger record
// @Tags         alerts
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        inventory_id path string true "Ledger record ID"
// @Success      200 {object} dto.Response{data=[]alertingapp.AlertResponse}
// @Router       /alerts/inventory/{inventory_id} [get]
func (h *AlertHandler) ListByInventory(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	inventoryID, err := uuid.Parse(c.Param("inventory_id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory ID format")
		return
	}

	var filter alertingapp.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	alerts, err := h.alertService.ListByInventory(c.Request.Context(), accountID, inventoryID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

// CountUnacknowledged godoc
// @Summary      Count open alerts
// @Tags         alerts
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Success      200 {object} dto.Response
// @Router       /alerts/unacknowledged/count [get]
func (h *AlertHandler) CountUnacknowledged(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	count, err := h.alertService.CountUnacknowledged(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// Acknowledge godoc
// @Summary      Acknowledge an alert
// @Tags         alerts
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        id path string true "Alert ID"
// @Success      200 {object} dto.Response{data=alertingapp.AlertResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	alert, err := h.alertService.Acknowledge(c.Request.Context(), accountID, alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alert)
}

// Purge godoc
// @Summary      Delete acknowledged alerts older than the retention window
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        X-Account-ID header string true "Account ID"
// @Param        request body PurgeAlertsRequest true "Retention window in days"
// @Success      200 {object} dto.Response
// @Router       /alerts/purge [post]
func (h *AlertHandler) Purge(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req PurgeAlertsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	removed, err := h.alertService.PurgeAcknowledged(c.Request.Context(), accountID,
		time.Duration(req.RetentionDays)*24*time.Hour)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"removed": removed})
}
