package api

import (
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from the engine for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay composition execution. Observers are
// invoked on the scheduler goroutine.
type Observer interface {
	// OnChainStart is called once when a composition's Invoke begins,
	// before its first step is scheduled.
	OnChainStart(env *Env, name string, kind Kind)

	// OnChainCompleted is called when a composition's terminal
	// continuation fires, on both the normal and the handled-exception
	// resume path.
	OnChainCompleted(env *Env, name string, kind Kind)

	// OnStepStart is called before invoking a step's callable.
	// stepIndex is the 0-based index into the composition's step list.
	OnStepStart(env *Env, chain string, step string, stepIndex int)

	// OnThrow is called whenever an exception is raised through
	// ThrowException, before handler dispatch.
	OnThrow(env *Env, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnChainStart(env *Env, name string, kind Kind)            {}
func (NoopObserver) OnChainCompleted(env *Env, name string, kind Kind)        {}
func (NoopObserver) OnStepStart(env *Env, chain string, step string, idx int) {}
func (NoopObserver) OnThrow(env *Env, err error)                              {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnChainStart(env *Env, name string, kind Kind) {
	for _, o := range c.observers {
		o.OnChainStart(env, name, kind)
	}
}

func (c *CompositeObserver) OnChainCompleted(env *Env, name string, kind Kind) {
	for _, o := range c.observers {
		o.OnChainCompleted(env, name, kind)
	}
}

func (c *CompositeObserver) OnStepStart(env *Env, chain string, step string, idx int) {
	for _, o := range c.observers {
		o.OnStepStart(env, chain, step, idx)
	}
}

func (c *CompositeObserver) OnThrow(env *Env, err error) {
	for _, o := range c.observers {
		o.OnThrow(env, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs composition / step
// lifecycle events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnChainStart(env *Env, name string, kind Kind) {
	o.Logger.Debug("chain_start",
		slog.String("env_id", env.ID()),
		slog.String("chain", name),
		slog.String("kind", string(kind)),
	)
}

func (o *LoggingObserver) OnChainCompleted(env *Env, name string, kind Kind) {
	o.Logger.Debug("chain_completed",
		slog.String("env_id", env.ID()),
		slog.String("chain", name),
		slog.String("kind", string(kind)),
	)
}

func (o *LoggingObserver) OnStepStart(env *Env, chain string, step string, idx int) {
	o.Logger.Debug("step_start",
		slog.String("env_id", env.ID()),
		slog.String("chain", chain),
		slog.String("step", step),
		slog.Int("step_index", idx),
		slog.Int("branch", env.Branch()),
	)
}

func (o *LoggingObserver) OnThrow(env *Env, err error) {
	o.Logger.Error("throw",
		slog.String("env_id", env.ID()),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters. It implements Observer, and can be
// combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	chainsStarted   atomic.Int64
	chainsCompleted atomic.Int64
	stepsStarted    atomic.Int64
	throws          atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	ChainsStarted   int64
	ChainsCompleted int64
	PendingChains   int64
	StepsStarted    int64
	Throws          int64
}

func (m *BasicMetrics) OnChainStart(env *Env, name string, kind Kind) {
	m.chainsStarted.Add(1)
}

func (m *BasicMetrics) OnChainCompleted(env *Env, name string, kind Kind) {
	m.chainsCompleted.Add(1)
}

func (m *BasicMetrics) OnStepStart(env *Env, chain string, step string, idx int) {
	m.stepsStarted.Add(1)
}

func (m *BasicMetrics) OnThrow(env *Env, err error) {
	m.throws.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.chainsStarted.Load()
	completed := m.chainsCompleted.Load()
	return BasicMetricsSnapshot{
		ChainsStarted:   started,
		ChainsCompleted: completed,
		PendingChains:   started - completed,
		StepsStarted:    m.stepsStarted.Load(),
		Throws:          m.throws.Load(),
	}
}
