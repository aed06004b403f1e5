package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hookline/hookline/config"
	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/metrics"
	"github.com/hookline/hookline/pkg/logger"
)

// RetentionSweeper periodically prunes delivery attempt logs older than the
// configured retention window. Delivery and subscription rows are never
// pruned, only the attempt history.
type RetentionSweeper struct {
	attemptRepo domain.AttemptRepository
	cfg         config.RetentionConfig
	metrics     *metrics.Metrics
	logger      logger.Logger

	now func() time.Time
}

// NewRetentionSweeper creates a new retention sweeper
func NewRetentionSweeper(attemptRepo domain.AttemptRepository, cfg config.RetentionConfig, m *metrics.Metrics, log logger.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		attemptRepo: attemptRepo,
		cfg:         cfg,
		metrics:     m,
		logger:      log,
		now:         time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled. A non-positive
// retention disables the sweeper entirely.
func (s *RetentionSweeper) Start(ctx context.Context) {
	if s.cfg.AttemptLogHours <= 0 {
		s.logger.Info("Attempt log retention disabled")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"retention_hours": s.cfg.AttemptLogHours,
		"sweep_interval":  s.cfg.SweepInterval.String(),
	}).Info("Starting retention sweeper")

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error(fmt.Sprintf("Retention sweep failed: %v", err))
			}
		}
	}
}

// Sweep deletes attempt rows older than the retention window once.
func (s *RetentionSweeper) Sweep(ctx context.Context) error {
	cutoff := s.now().UTC().Add(-time.Duration(s.cfg.AttemptLogHours) * time.Hour)

	deleted, err := s.attemptRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune attempt logs: %w", err)
	}

	if s.metrics != nil {
		s.metrics.AttemptsPruned.Add(float64(deleted))
	}

	if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("Pruned old attempt logs")
	}

	return nil
}
