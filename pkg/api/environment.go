package api

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// ThrownError annotates a raised error with the formatted back-trace of the
// throw site. It wraps the original error; use errors.As / errors.Is to
// inspect it.
type ThrownError struct {
	Err       error
	BackTrace string
}

func (e *ThrownError) Error() string { return e.Err.Error() }

func (e *ThrownError) Unwrap() error { return e.Err }

// BackTraceOf returns the back-trace attached to err at throw time, if any.
func BackTraceOf(err error) (string, bool) {
	var t *ThrownError
	if errors.As(err, &t) {
		return t.BackTrace, true
	}
	return "", false
}

type handlerEntry struct {
	invoke Handler
	resume Continuation
}

// Env is the shared, mutable per-invocation execution context. It owns the
// value stack, the exception-handler stack, and the call-context tree, and
// carries the scheduler, logger, and observer for the invocation.
//
// An Env is created once per top-level invocation and must not be reused
// across independent invocations. Its state is mutated only by the
// currently-executing step's continuation machinery; step bodies that hand
// control to a foreign goroutine must route back through Schedule before
// touching the Env or invoking their continuation.
type Env struct {
	id       string
	sched    Scheduler
	logger   *slog.Logger
	observer Observer

	// Local environments (Parallel branches) keep a non-owning
	// back-reference to the parent and a branch index.
	parent *Env
	branch int

	values   []any
	handlers []handlerEntry

	arena        *arena
	current      int
	saved        []int
	pendingCatch Continuation
}

// EnvOption configures an Env at construction time.
type EnvOption func(*Env)

// WithLogger sets the Env's logging sink. Defaults to slog.Default().
func WithLogger(l *slog.Logger) EnvOption {
	return func(e *Env) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the Env's lifecycle observer. Defaults to NoopObserver.
func WithObserver(o Observer) EnvOption {
	return func(e *Env) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEnv creates an Environment for one top-level invocation, dispatching
// deferred work through sched.
func NewEnv(sched Scheduler, opts ...EnvOption) *Env {
	if sched == nil {
		panic("cascade: NewEnv requires a scheduler")
	}
	e := &Env{
		id:       uuid.NewString(),
		sched:    sched,
		logger:   slog.Default(),
		observer: NoopObserver{},
		arena:    newArena(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewLocal derives the per-branch environment used inside a Parallel chain.
// The local environment owns its own value stack, handler stack, and context
// subtree; traces are composed with the parent's.
func (e *Env) NewLocal(branch int) *Env {
	return &Env{
		id:       e.id,
		sched:    e.sched,
		logger:   e.logger,
		observer: e.observer,
		parent:   e,
		branch:   branch,
		arena:    newArena(),
	}
}

// ID returns the invocation's unique identifier. Local environments share
// their parent's ID.
func (e *Env) ID() string { return e.id }

// Parent returns the parent environment, or nil for a top-level Env.
func (e *Env) Parent() *Env { return e.parent }

// Branch returns the branch index of a local environment, 0 otherwise.
func (e *Env) Branch() int { return e.branch }

// Logger returns the Env's logging sink.
func (e *Env) Logger() *slog.Logger { return e.logger }

// Observer returns the Env's lifecycle observer.
func (e *Env) Observer() Observer { return e.observer }

// Schedule defers fn through the Env's scheduler.
func (e *Env) Schedule(fn func()) { e.sched.Schedule(fn) }

// PushValue pushes v onto the auxiliary value stack.
func (e *Env) PushValue(v any) { e.values = append(e.values, v) }

// PopValue pops the most recently pushed value. Popping an empty stack
// yields nil, not an error.
func (e *Env) PopValue() any {
	if len(e.values) == 0 {
		return nil
	}
	v := e.values[len(e.values)-1]
	e.values = e.values[:len(e.values)-1]
	return v
}

// ValueDepth returns the number of values currently stashed.
func (e *Env) ValueDepth() int { return len(e.values) }

// PushHandler pushes an exception-handler entry: the handler invoked when an
// exception unwinds to this entry, and the continuation CatchException
// resumes at. Compositions push one entry on invocation; the stack depth
// always equals the nesting depth of currently-active compositions.
func (e *Env) PushHandler(h Handler, resume Continuation) {
	e.handlers = append(e.handlers, handlerEntry{invoke: h, resume: resume})
}

// DropHandler discards the topmost handler entry. Called on the
// normal-completion path; the exception path consumes entries through
// ThrowException instead.
func (e *Env) DropHandler() {
	if len(e.handlers) > 0 {
		e.handlers = e.handlers[:len(e.handlers)-1]
	}
}

// HandlerDepth returns the number of active handler entries.
func (e *Env) HandlerDepth() int { return len(e.handlers) }

// ThrowException raises err through the handler stack. The topmost handler
// entry is popped and its handler invoked with (env, err, extra...); the
// error is annotated with a formatted back-trace, the entry's resume
// continuation is recorded for CatchException, and a context entry is
// recorded for the throw site.
//
// With no handler on the stack the exception is uncaught: it is logged with
// a back-trace and propagation halts. The invocation never completes; no
// crash, and no cleanup beyond what already ran.
func (e *Env) ThrowException(err error, extra ...any) {
	if err == nil {
		err = errors.New("nil exception")
	}
	e.observer.OnThrow(e, err)
	if len(e.handlers) == 0 {
		e.logger.Error("uncaught exception",
			slog.String("env_id", e.id),
			slog.Any("error", err),
			slog.String("backtrace", FormatStackTrace(e.BackTrace())),
		)
		return
	}
	entry := e.handlers[len(e.handlers)-1]
	e.handlers = e.handlers[:len(e.handlers)-1]

	e.pendingCatch = entry.resume
	var t *ThrownError
	if !errors.As(err, &t) {
		err = &ThrownError{Err: err, BackTrace: FormatStackTrace(e.BackTrace())}
	}
	e.RecordCall("throw")
	entry.invoke(e, err, extra...)
}

// CatchException is invoked by a handler that considers the exception
// handled; it resumes execution at the pending resume continuation recorded
// by ThrowException. With nothing recorded it logs and halts, mirroring the
// uncaught-exception behavior.
func (e *Env) CatchException(args ...any) {
	if e.pendingCatch == nil {
		e.logger.Error("no after() to resume",
			slog.String("env_id", e.id),
		)
		return
	}
	resume := e.pendingCatch
	e.pendingCatch = nil
	resume(args...)
}

// CheckError adapts a foreign callback-style API: the returned callback
// raises through ThrowException when err is non-nil and otherwise forwards
// the remaining values to after.
func (e *Env) CheckError(after Continuation) func(err error, rest ...any) {
	return func(err error, rest ...any) {
		if err != nil {
			e.ThrowException(err)
			return
		}
		after(rest...)
	}
}

// RecordCall appends a call-context entry under the current frame and makes
// it the current node.
func (e *Env) RecordCall(name string) {
	idx := e.arena.add(nodeCall, name)
	e.current = e.arena.attach(e.current, idx)
}

// EnterFrame records a printable frame named after the composition, anchors
// its children under a fresh head node, and saves the current pointer so
// LeaveFrame can restore it when the composition's continuation fires.
func (e *Env) EnterFrame(name string) {
	e.RecordCall(name)
	head := e.arena.add(nodeHead, name)
	e.arena.nodes[e.current].child = head
	e.saved = append(e.saved, e.current)
	e.current = head
}

// LeaveFrame pops the composition's call-context frame.
func (e *Env) LeaveFrame() {
	if len(e.saved) == 0 {
		e.current = 0
		return
	}
	e.current = e.saved[len(e.saved)-1]
	e.saved = e.saved[:len(e.saved)-1]
}

// ExecutionTrace returns the full depth-first traversal of the call-context
// tree, children before siblings, skipping head nodes. A local environment
// returns the parent's trace followed by its own subtree.
func (e *Env) ExecutionTrace() []TraceEntry {
	local := e.arena.executionTrace()
	if e.parent == nil {
		return local
	}
	return append(e.parent.ExecutionTrace(), local...)
}

// BackTrace returns the most direct path from the root to the currently
// active frame, omitting sibling compositions' bodies. A local environment
// returns the parent's back-trace followed by its own.
func (e *Env) BackTrace() []TraceEntry {
	local := e.arena.backTrace()
	if e.parent == nil {
		return local
	}
	return append(e.parent.BackTrace(), local...)
}
