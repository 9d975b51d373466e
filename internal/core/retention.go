package core

// retention.go runs the background job that removes stored reports once
// they are older than the retention period.
//
// The job is long-running and stops with its context. A failed pass is
// logged and retried on the next tick.

import (
	"context"
	"time"
)

// RetentionConfig controls report pruning.
type RetentionConfig struct {
	Retention time.Duration // Age after which a report is removed
	Interval  time.Duration // How often to prune
}

// StartRetention prunes immediately, then every cfg.Interval until ctx is
// cancelled. It returns at once when either duration is not positive.
func (s *Service) StartRetention(ctx context.Context, cfg RetentionConfig) {
	if cfg.Retention <= 0 || cfg.Interval <= 0 {
		s.logger.Info("report retention disabled")
		return
	}

	s.logger.Info("report retention started",
		"retention", cfg.Retention.String(),
		"interval", cfg.Interval.String(),
	)

	s.runRetention(ctx, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("report retention stopped")
			return
		case <-ticker.C:
			s.runRetention(ctx, cfg.Retention)
		}
	}
}

func (s *Service) runRetention(ctx context.Context, retention time.Duration) {
	start := time.Now()

	n, err := s.PruneReports(ctx, retention)
	if err != nil {
		s.logger.Error("prune reports failed", "error", err)
		return
	}

	s.logger.Info("pruned reports",
		"reports_pruned", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// PruneReports removes reports created more than retention ago.
func (s *Service) PruneReports(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.store.Prune(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	s.metrics.ObservePruned(n)
	return n, nil
}
