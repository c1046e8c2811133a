package continuity

import (
	"context"
	"log/slog"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/metrics"
	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/worker"
)

// LocalSubmitter runs jobs on the in-process worker pool.
type LocalSubmitter struct {
	pool   *worker.Pool
	runner Runner
}

// NewLocalSubmitter creates a LocalSubmitter.
func NewLocalSubmitter(pool *worker.Pool, runner Runner) *LocalSubmitter {
	return &LocalSubmitter{pool: pool, runner: runner}
}

// Submit never blocks. A full or closed pool drops the job.
func (s *LocalSubmitter) Submit(job Job) bool {
	ok := s.pool.Submit(func(ctx context.Context) {
		s.runner.Run(ctx, job)
	})
	if !ok {
		slog.Warn("continuity: extraction queue full, dropping", "request_id", job.RequestID)
		metrics.ExtractionsTotal.WithLabelValues(OutcomeDropped).Inc()
	}
	return ok
}
