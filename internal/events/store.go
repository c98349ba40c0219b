package events

import (
	"context"
	"sync"
)

// Store is the outbox contract: append events durably, fetch a batch of
// unpublished ones, and mark them published once delivered.
type Store interface {
	Append(ctx context.Context, event Event) error
	FetchUnpublished(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, eventIDs []string) error
}

// MemoryStore is the in-memory outbox used in development and tests.
type MemoryStore struct {
	mu        sync.Mutex
	events    []Event
	published map[string]bool
}

// NewMemoryStore constructs an empty in-memory outbox.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{published: make(map[string]bool)}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) FetchUnpublished(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if s.published[e.ID] {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, eventIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range eventIDs {
		s.published[id] = true
	}
	return nil
}
