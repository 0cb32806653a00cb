package cascade

import (
	"database/sql"

	"github.com/petrijr/cascade/internal/persistence"
	"github.com/petrijr/cascade/internal/ticker"
	"github.com/petrijr/cascade/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Env                  = api.Env
	EnvOption            = api.EnvOption
	Step                 = api.Step
	Callable             = api.Callable
	Continuation         = api.Continuation
	Handler              = api.Handler
	Composition          = api.Composition
	Kind                 = api.Kind
	Scheduler            = api.Scheduler
	TraceEntry           = api.TraceEntry
	ThrownError          = api.ThrownError
	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	CompositeObserver    = api.CompositeObserver
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	EventType            = api.EventType
	TraceEvent           = api.TraceEvent
	EventStore           = api.EventStore
)

// Re-export kind tags for convenience.

const (
	KindSerial   = api.KindSerial
	KindLoop     = api.KindLoop
	KindParallel = api.KindParallel
	KindBranch   = api.KindBranch
)

// Re-export trace event types for convenience.

const (
	EventChainStarted   = api.EventChainStarted
	EventChainCompleted = api.EventChainCompleted
	EventStepStarted    = api.EventStepStarted
	EventThrow          = api.EventThrow
)

// Re-export common helpers.

var (
	MakeStep             = api.MakeStep
	FormatCallTree       = api.FormatCallTree
	FormatStackTrace     = api.FormatStackTrace
	BackTraceOf          = api.BackTraceOf
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	NewRecordingObserver = api.NewRecordingObserver
	WithLogger           = api.WithLogger
	WithObserver         = api.WithObserver
)

// Scheduler constructors
// These wrap the internal/ticker package so external callers never need to
// import internal packages.

// NewTicker returns the default asynchronous batching scheduler. Safe for
// concurrent use; all scheduled callbacks run on one drain goroutine at a
// time.
func NewTicker() Scheduler {
	return ticker.New()
}

// NewSynchronousScheduler returns a scheduler that drains in-line on the
// calling goroutine, for deterministic tests and single-shot tooling.
func NewSynchronousScheduler() Scheduler {
	return ticker.NewSynchronous()
}

// NewEnv creates an Environment for one top-level invocation. A nil sched
// gets a fresh Ticker.
func NewEnv(sched Scheduler, opts ...EnvOption) *Env {
	if sched == nil {
		sched = ticker.New()
	}
	return api.NewEnv(sched, opts...)
}

// Event store constructors
// These wrap the internal/persistence package so external callers never need
// to import internal packages.

// NewMemoryEventStore returns an EventStore backed entirely by memory.
func NewMemoryEventStore() EventStore {
	return persistence.NewMemoryEventStore()
}

// NewSQLiteEventStore returns an EventStore that persists trace events in a
// SQLite database.
func NewSQLiteEventStore(db *sql.DB) (EventStore, error) {
	return persistence.NewSQLiteEventStore(db)
}
