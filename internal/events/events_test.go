package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, eventType, projectID string) Event {
	t.Helper()
	e, err := New(eventType, projectID, "", map[string]string{"k": "v"}, time.Now().UTC())
	require.NoError(t, err)
	return e
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch returns only unpublished events in append order", func(t *testing.T) {
		store := NewMemoryStore()
		first := mustEvent(t, TypeRequirementCreated, "p1")
		second := mustEvent(t, TypeRequirementStatusChanged, "p1")
		require.NoError(t, store.Append(ctx, first))
		require.NoError(t, store.Append(ctx, second))

		batch, err := store.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		assert.Equal(t, first.ID, batch[0].ID)
		assert.Equal(t, second.ID, batch[1].ID)

		require.NoError(t, store.MarkPublished(ctx, []string{first.ID}))

		batch, err = store.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, second.ID, batch[0].ID)
	})

	t.Run("fetch honors the batch limit", func(t *testing.T) {
		store := NewMemoryStore()
		for range 5 {
			require.NoError(t, store.Append(ctx, mustEvent(t, TypeProjectAnalyzed, "p1")))
		}

		batch, err := store.FetchUnpublished(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, batch, 3)
	})
}

type recordingPublisher struct {
	batches [][]Event
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, events []Event) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, events)
	return nil
}

func (p *recordingPublisher) Close() {}

func TestWorkerDrainOnce(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("publishes pending events and marks them", func(t *testing.T) {
		store := NewMemoryStore()
		event := mustEvent(t, TypeRequirementCreated, "p1")
		require.NoError(t, store.Append(ctx, event))

		pub := &recordingPublisher{}
		worker := NewWorker(store, pub, logger)
		published, err := worker.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, published)

		require.Len(t, pub.batches, 1)
		assert.Equal(t, event.ID, pub.batches[0][0].ID)

		remaining, err := store.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("keeps events unpublished when publishing fails", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Append(ctx, mustEvent(t, TypeRequirementCreated, "p1")))

		pub := &recordingPublisher{err: errors.New("broker down")}
		worker := NewWorker(store, pub, logger)
		_, err := worker.DrainOnce(ctx)
		require.Error(t, err)

		remaining, err := store.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})

	t.Run("no-op when outbox is empty", func(t *testing.T) {
		pub := &recordingPublisher{}
		worker := NewWorker(NewMemoryStore(), pub, logger)
		published, err := worker.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, published)
		assert.Empty(t, pub.batches)
	})
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	worker := NewWorker(NewMemoryStore(), &recordingPublisher{}, slog.New(slog.DiscardHandler),
		WithInterval(time.Millisecond))

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
