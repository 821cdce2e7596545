package service

import (
	"context"
	"log/slog"
	"time"

	assignmentmetrics "talentflow/internal/assignment/metrics"
	"talentflow/internal/assignment/ports"
)

// ExpiryWorker periodically transitions past-due active assignments to
// expired. The scan is idempotent, so overlapping runs (or multiple
// replicas) are harmless.
type ExpiryWorker struct {
	store    ports.Store
	interval time.Duration
	logger   *slog.Logger
	metrics  *assignmentmetrics.Metrics
}

func NewExpiryWorker(store ports.Store, interval time.Duration, logger *slog.Logger, metrics *assignmentmetrics.Metrics) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpiryWorker{store: store, interval: interval, logger: logger, metrics: metrics}
}

// Run scans on a ticker until ctx is cancelled. Store errors are logged
// and retried on the next tick.
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	expired, err := w.store.MarkExpired(ctx, time.Now())
	if err != nil {
		if w.logger != nil {
			w.logger.ErrorContext(ctx, "assignment expiry sweep failed", "error", err)
		}
		return
	}
	if expired > 0 {
		if w.metrics != nil {
			w.metrics.AddExpired(expired)
		}
		if w.logger != nil {
			w.logger.InfoContext(ctx, "expired past-due assignments", "count", expired)
		}
	}
}
