package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/petrijr/cascade/pkg/api"
)

// MemoryEventStore keeps trace events in memory, grouped by environment ID.
// It is safe for concurrent use.
type MemoryEventStore struct {
	mu     sync.Mutex
	events map[string][]api.TraceEvent
}

// Ensure MemoryEventStore implements EventStore.
var _ api.EventStore = (*MemoryEventStore)(nil)

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		events: make(map[string][]api.TraceEvent),
	}
}

func (s *MemoryEventStore) AppendEvent(ctx context.Context, ev api.TraceEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.EnvID] = append(s.events[ev.EnvID], ev)
	return nil
}

func (s *MemoryEventStore) ListEvents(ctx context.Context, envID string) ([]api.TraceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evs := s.events[envID]
	out := make([]api.TraceEvent, len(evs))
	copy(out, evs)
	return out, nil
}
