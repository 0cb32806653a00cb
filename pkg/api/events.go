package api

import (
	"context"
	"time"
)

// EventType identifies a trace history event.
type EventType string

const (
	EventChainStarted   EventType = "chain.started"
	EventChainCompleted EventType = "chain.completed"
	EventStepStarted    EventType = "step.started"
	EventThrow          EventType = "throw"
)

// TraceEvent is a minimal append-only history record for audit/debugging of
// an invocation. It is intentionally small and stable; richer history can be
// layered later.
type TraceEvent struct {
	EnvID string
	At    time.Time
	Type  EventType

	// Optional context.
	Chain  string
	Kind   Kind
	Step   string
	Branch int

	// Small, human-oriented details (e.g. the error string for a throw).
	// Keep this low-volume: do NOT dump large payloads here.
	Detail string
}

// EventStore is an append-only history store for trace events.
type EventStore interface {
	AppendEvent(ctx context.Context, ev TraceEvent) error
	ListEvents(ctx context.Context, envID string) ([]TraceEvent, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev TraceEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, envID string) ([]TraceEvent, error) {
	return nil, nil
}

// RecordingObserver appends one TraceEvent per lifecycle callback to an
// EventStore. Store errors are dropped; recording is best-effort and must
// never disturb execution.
type RecordingObserver struct {
	Store EventStore
}

// NewRecordingObserver creates an Observer that records lifecycle events
// into store.
func NewRecordingObserver(store EventStore) Observer {
	if store == nil {
		return NoopObserver{}
	}
	return &RecordingObserver{Store: store}
}

func (r *RecordingObserver) append(env *Env, ev TraceEvent) {
	ev.EnvID = env.ID()
	ev.At = time.Now()
	ev.Branch = env.Branch()
	_ = r.Store.AppendEvent(context.Background(), ev)
}

func (r *RecordingObserver) OnChainStart(env *Env, name string, kind Kind) {
	r.append(env, TraceEvent{Type: EventChainStarted, Chain: name, Kind: kind})
}

func (r *RecordingObserver) OnChainCompleted(env *Env, name string, kind Kind) {
	r.append(env, TraceEvent{Type: EventChainCompleted, Chain: name, Kind: kind})
}

func (r *RecordingObserver) OnStepStart(env *Env, chain string, step string, idx int) {
	r.append(env, TraceEvent{Type: EventStepStarted, Chain: chain, Step: step})
}

func (r *RecordingObserver) OnThrow(env *Env, err error) {
	r.append(env, TraceEvent{Type: EventThrow, Detail: err.Error()})
}
