package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AcknowledgedAlertPurger removes acknowledged alerts older than the
// retention cutoff and reports how many were removed.
type AcknowledgedAlertPurger interface {
	PurgeAllAcknowledged(ctx context.Context, retention time.Duration) (int64, error)
}

// AlertPurgeSchedulerConfig holds configuration for the alert purge scheduler
type AlertPurgeSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often the purge runs
	Interval time.Duration

	// Retention is how long acknowledged alerts are kept
	Retention time.Duration

	// PurgeTimeout is the maximum time for a single purge run
	PurgeTimeout time.Duration
}

// DefaultAlertPurgeSchedulerConfig returns default configuration
func DefaultAlertPurgeSchedulerConfig() AlertPurgeSchedulerConfig {
	return AlertPurgeSchedulerConfig{
		Enabled:      true,
		Interval:     24 * time.Hour,
		Retention:    30 * 24 * time.Hour,
		PurgeTimeout: 5 * time.Minute,
	}
}

// AlertPurgeScheduler periodically removes acknowledged alerts that have
// aged past their retention window.
type AlertPurgeScheduler struct {
	purger    AcknowledgedAlertPurger
	logger    *zap.Logger
	config    AlertPurgeSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewAlertPurgeScheduler creates a new alert purge scheduler
func NewAlertPurgeScheduler(
	purger AcknowledgedAlertPurger,
	logger *zap.Logger,
	config AlertPurgeSchedulerConfig,
) *AlertPurgeScheduler {
	if config.Interval <= 0 {
		config.Interval = 24 * time.Hour
	}
	if config.Retention <= 0 {
		config.Retention = 30 * 24 * time.Hour
	}
	if config.PurgeTimeout <= 0 {
		config.PurgeTimeout = 5 * time.Minute
	}
	return &AlertPurgeScheduler{
		purger: purger,
		logger: logger,
		config: config,
	}
}

// Start starts the purge loop
func (s *AlertPurgeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Alert purge scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Alert purge scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("retention", s.config.Retention),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *AlertPurgeScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Alert purge scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Alert purge scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *AlertPurgeScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.purgeOnce(ctx)
		}
	}
}

// RunNow triggers a purge immediately, outside the ticker cadence.
func (s *AlertPurgeScheduler) RunNow(ctx context.Context) {
	s.purgeOnce(ctx)
}

func (s *AlertPurgeScheduler) purgeOnce(ctx context.Context) {
	purgeCtx, cancel := context.WithTimeout(ctx, s.config.PurgeTimeout)
	defer cancel()

	removed, err := s.purger.PurgeAllAcknowledged(purgeCtx, s.config.Retention)
	if err != nil {
		s.logger.Error("Alert purge run failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("Purged acknowledged alerts",
			zap.Int64("removed", removed),
			zap.Duration("retention", s.config.Retention),
		)
	}
}
