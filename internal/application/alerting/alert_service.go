package alerting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/liquotrack/stocksip/internal/domain/alerting"
	"github.com/liquotrack/stocksip/internal/domain/shared"
	"github.com/liquotrack/stocksip/internal/infrastructure/telemetry"
)

// AlertService handles alert operations. It implements the cross-context
// alert creator used by the inventory event handlers.
type AlertService struct {
	alertRepo       alerting.AlertRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo alerting.AlertRepository) *AlertService {
	return &AlertService{
		alertRepo: alertRepo,
	}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *AlertService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CreateAlert creates a new alert. Severity and type are closed enums,
// validated by the aggregate.
func (s *AlertService) CreateAlert(ctx context.Context, accountID, inventoryID uuid.UUID, title, message string, severity alerting.Severity, alertType alerting.AlertType) (uuid.UUID, error) {
	alert, err := alerting.NewAlert(accountID, inventoryID, title, message, severity, alertType)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return uuid.Nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockAlert(ctx, accountID, string(severity))
	}

	return alert.ID, nil
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, accountID, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForAccount(ctx, accountID, alertID)
	if err != nil {
		return nil, err
	}
	response := ToAlertResponse(alert)
	return &response, nil
}

// List retrieves alerts for an account with filtering and pagination
func (s *AlertService) List(ctx context.Context, accountID uuid.UUID, filter AlertListFilter) ([]AlertResponse, int64, error) {
	domainFilter := buildAlertFilter(filter)

	var alerts []alerting.Alert
	var err error
	switch {
	case filter.Unacknowledged:
		alerts, err = s.alertRepo.FindUnacknowledged(ctx, accountID, domainFilter)
	case filter.Severity != "":
		alerts, err = s.alertRepo.FindBySeverity(ctx, accountID, alerting.Severity(filter.Severity), domainFilter)
	default:
		alerts, err = s.alertRepo.FindAllForAccount(ctx, accountID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.alertRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToAlertResponses(alerts), total, nil
}

// ListByInventory retrieves alerts raised for a ledger record
func (s *AlertService) ListByInventory(ctx context.Context, accountID, inventoryID uuid.UUID, filter AlertListFilter) ([]AlertResponse, error) {
	alerts, err := s.alertRepo.FindByInventory(ctx, accountID, inventoryID, buildAlertFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToAlertResponses(alerts), nil
}

// CountUnacknowledged returns the number of open alerts for an account
func (s *AlertService) CountUnacknowledged(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return s.alertRepo.CountUnacknowledged(ctx, accountID)
}

// Acknowledge marks an alert as seen
func (s *AlertService) Acknowledge(ctx context.Context, accountID, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByIDForAccount(ctx, accountID, alertID)
	if err != nil {
		return nil, err
	}

	if err := alert.Acknowledge(); err != nil {
		return nil, err
	}

	if err := s.alertRepo.SaveWithLock(ctx, alert); err != nil {
		return nil, err
	}

	response := ToAlertResponse(alert)
	return &response, nil
}

// PurgeAcknowledged removes acknowledged alerts older than the retention cutoff
func (s *AlertService) PurgeAcknowledged(ctx context.Context, accountID uuid.UUID, retention time.Duration) (int64, error) {
	return s.alertRepo.DeleteOlderThan(ctx, accountID, time.Now().Add(-retention))
}

// PurgeAllAcknowledged removes acknowledged alerts older than the retention
// cutoff for every account. Called by the background purge scheduler.
func (s *AlertService) PurgeAllAcknowledged(ctx context.Context, retention time.Duration) (int64, error) {
	return s.alertRepo.DeleteAcknowledgedBefore(ctx, time.Now().Add(-retention))
}

func buildAlertFilter(filter AlertListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "generated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Severity != "" {
		domainFilter.Filters["severity"] = filter.Severity
	}
	return domainFilter
}

// Ensure AlertService implements the inventory-facing facade
var _ alerting.AlertCreator = (*AlertService)(nil)
