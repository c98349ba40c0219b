package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker drains the outbox into the publisher on a fixed interval. Failed
// batches stay unpublished and are retried on the next tick.
type Worker struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// WorkerOption configures the worker.
type WorkerOption func(*Worker)

// WithInterval overrides the default 1s poll interval.
func WithInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.interval = d
	}
}

// WithBatchSize overrides the default batch size of 100.
func WithBatchSize(n int) WorkerOption {
	return func(w *Worker) {
		w.batchSize = n
	}
}

// NewWorker constructs the outbox worker.
func NewWorker(store Store, publisher Publisher, logger *slog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		store:     store,
		publisher: publisher,
		logger:    logger,
		interval:  time.Second,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.DrainOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed, will retry", "error", err)
			}
		}
	}
}

// DrainOnce publishes one batch of pending events and marks them. It
// returns the number of events published; a failed batch stays unpublished.
func (w *Worker) DrainOnce(ctx context.Context) (int, error) {
	batch, err := w.store.FetchUnpublished(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := w.publisher.Publish(ctx, batch); err != nil {
		return 0, fmt.Errorf("publish batch of %d: %w", len(batch), err)
	}

	ids := make([]string, len(batch))
	for i, e := range batch {
		ids[i] = e.ID
	}
	if err := w.store.MarkPublished(ctx, ids); err != nil {
		// The batch will be re-published next tick; consumers must
		// deduplicate by event id.
		return len(batch), fmt.Errorf("mark published: %w", err)
	}
	return len(batch), nil
}
