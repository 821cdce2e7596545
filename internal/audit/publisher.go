package audit

import (
	"context"
	"log/slog"
	"time"

	"talentflow/pkg/requestcontext"
)

// Publisher accepts audit entries from domain code and hands them to the
// background worker through a buffered channel.
//
// Emit deliberately has no error return: audit logging is a side effect,
// never a gate. The triggering business operation has already completed or
// failed on its own merits by the time Emit runs, so the contract "never
// blocks or fails the caller" is enforced by the signature rather than by a
// try/catch left implicit at each call site. When the buffer is full the
// entry is dropped, counted, and logged locally.
type Publisher struct {
	inbox   chan Entry
	logger  *slog.Logger
	metrics *Metrics
}

// NewPublisher creates a publisher with the given buffer size. The returned
// channel must be drained by a Worker.
func NewPublisher(bufferSize int, logger *slog.Logger, metrics *Metrics) *Publisher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Publisher{
		inbox:   make(chan Entry, bufferSize),
		logger:  logger,
		metrics: metrics,
	}
}

// Emit enqueues an entry for persistence. Fire-and-forget: never blocks,
// never returns an error.
func (p *Publisher) Emit(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	if entry.Client == "" {
		entry.Client = ClientLabel(requestcontext.UserAgent(ctx))
	}

	select {
	case p.inbox <- entry:
		if p.metrics != nil {
			p.metrics.EntriesEmitted.Inc()
		}
	default:
		if p.metrics != nil {
			p.metrics.EntriesDropped.Inc()
		}
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, entry dropped",
				"action", entry.Action,
				"classification", entry.Classification,
			)
		}
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Entry {
	return p.inbox
}

// Worker consumes audit entries from the publisher and persists them to
// every configured sink. Sink failures are logged and counted, never
// propagated; audit persistence must not take the service down.
type Worker struct {
	inbox   <-chan Entry
	sinks   []Store
	logger  *slog.Logger
	metrics *Metrics
}

func NewWorker(inbox <-chan Entry, logger *slog.Logger, metrics *Metrics, sinks ...Store) *Worker {
	return &Worker{inbox: inbox, sinks: sinks, logger: logger, metrics: metrics}
}

// Run drains the inbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case entry := <-w.inbox:
			w.persist(ctx, entry)
		}
	}
}

// drain flushes whatever is buffered at shutdown with a short deadline so
// graceful stops do not lose queued entries.
func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case entry := <-w.inbox:
			w.persist(ctx, entry)
		default:
			return
		}
	}
}

func (w *Worker) persist(ctx context.Context, entry Entry) {
	for _, sink := range w.sinks {
		if err := sink.Append(ctx, entry); err != nil {
			if w.metrics != nil {
				w.metrics.WriteFailures.Inc()
			}
			if w.logger != nil {
				w.logger.ErrorContext(ctx, "audit write failed",
					"error", err,
					"action", entry.Action,
					"classification", entry.Classification,
				)
			}
		}
	}
}
