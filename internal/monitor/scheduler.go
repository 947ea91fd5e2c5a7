package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/polodad/clima-tracker-service/internal/observability"
)

// CycleRunner is the unit of work the scheduler invokes each period.
type CycleRunner interface {
	RunCycle(ctx context.Context)
}

// Scheduler invokes the evaluator on a fixed interval until its context is
// cancelled. A cycle is expected to finish within one period; cycleTimeout
// bounds the stragglers.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewScheduler creates a Scheduler running one cycle every interval.
func NewScheduler(runner CycleRunner, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes an immediate first cycle, then one per interval, until ctx is
// cancelled. Always returns nil: cycles cannot fail, only log.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)
	s.metrics.EvaluatorRunning.Set(1)
	defer s.metrics.EvaluatorRunning.Set(0)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()
	s.runner.RunCycle(cycleCtx)
}
