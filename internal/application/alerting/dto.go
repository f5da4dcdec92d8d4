package alerting

import (
	"time"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
)

// AlertListFilter represents filter options for alert list
type AlertListFilter struct {
	Severity       string `form:"severity" binding:"omitempty,oneof=INFO WARNING CRITICAL"`
	Unacknowledged bool   `form:"unacknowledged"`
	Page           int    `form:"page" binding:"min=0"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AlertResponse represents an alert in API responses
type AlertResponse struct {
	ID             uuid.UUID  `json:"id"`
	InventoryID    uuid.UUID  `json:"inventory_id"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Severity       string     `json:"severity"`
	Type           string     `json:"type"`
	GeneratedAt    time.Time  `json:"generated_at"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// ToAlertResponse converts a domain alert to a response DTO
func ToAlertResponse(alert *alerting.Alert) AlertResponse {
	return AlertResponse{
		ID:             alert.ID,
		InventoryID:    alert.InventoryID,
		Title:          alert.Title,
		Message:        alert.Message,
		Severity:       string(alert.Severity),
		Type:           string(alert.Type),
		GeneratedAt:    alert.GeneratedAt,
		Acknowledged:   alert.Acknowledged,
		AcknowledgedAt: alert.AcknowledgedAt,
	}
}

// ToAlertResponses converts a slice of domain alerts to response DTOs
func ToAlertResponses(alerts []alerting.Alert) []AlertResponse {
	responses := make([]AlertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, ToAlertResponse(&alerts[i]))
	}
	return responses
}
