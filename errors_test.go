package cascade

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExceptionPropagatesToEnclosingScope verifies that a throw in a nested
// chain with no handler of its own unwinds to the enclosing chain's handler,
// consuming both frames.
func TestExceptionPropagatesToEnclosingScope(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	boom := errors.New("boom")
	inner := NewSerial("inner", MakeStep(func(env *Env, after Continuation, args ...any) {
		env.ThrowException(boom)
	}, 0, "explode"))

	outer := NewSerial("outer", inner.AsStep())

	var caught error
	outer.OnError(func(e *Env, err error, extra ...any) { caught = err })

	fired := 0
	outer.Invoke(env, func(vals ...any) { fired++ })

	require.ErrorIs(t, caught, boom)
	require.Equal(t, 0, fired)
	require.Equal(t, 0, env.HandlerDepth(), "both entries must be consumed")
}

// TestHandlerCatchResumes verifies the recovery path: a handler that calls
// CatchException resumes the chain's terminal continuation with substitute
// values, and the chain counts as completed.
func TestHandlerCatchResumes(t *testing.T) {
	t.Parallel()

	metrics := &BasicMetrics{}
	env := syncEnv(t, WithObserver(metrics))

	s := NewSerial("recoverable", MakeStep(func(env *Env, after Continuation, args ...any) {
		env.ThrowException(errors.New("transient"))
	}, 0, "flaky"))

	s.OnError(func(e *Env, err error, extra ...any) {
		e.CatchException("fallback")
	})

	var out []any
	fired := 0
	s.Invoke(env, func(vals ...any) {
		fired++
		out = vals
	})

	require.Equal(t, 1, fired)
	require.Equal(t, []any{"fallback"}, out)

	snap := metrics.Snapshot()
	require.Equal(t, int64(1), snap.ChainsCompleted, "a caught chain completes")
	require.Equal(t, int64(1), snap.Throws)
}

// TestHandlerReceivesExtras verifies that extra throw values reach the
// handler alongside the error.
func TestHandlerReceivesExtras(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	s := NewSerial("detailed", MakeStep(func(env *Env, after Continuation, args ...any) {
		env.ThrowException(errors.New("boom"), "ctx-1", 42)
	}, 0, "explode"))

	var extras []any
	s.OnError(func(e *Env, err error, extra ...any) { extras = extra })

	s.Invoke(env, nil)

	require.Equal(t, []any{"ctx-1", 42}, extras)
}

// TestPanicCoercion verifies that synchronous panics from step bodies take
// the same path as explicit throws, preserving error values.
func TestPanicCoercion(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	boom := errors.New("typed panic")
	s := NewSerial("panicky",
		MakeStep(func(env *Env, after Continuation, args ...any) {
			panic(boom)
		}, 0, "throws-error"),
	)

	var caught error
	s.OnError(func(e *Env, err error, extra ...any) { caught = err })

	s.Invoke(env, nil)

	require.ErrorIs(t, caught, boom, "panic with an error value must unwrap to it")
}

// TestUncaughtExceptionHaltsAndLogsOnce verifies the top-of-stack behavior:
// no handler anywhere means the invocation never completes, and the logging
// sink receives exactly one uncaught-exception record carrying a back-trace
// that names the failing step.
func TestUncaughtExceptionHaltsAndLogsOnce(t *testing.T) {
	t.Parallel()

	capture := &logCapture{}
	env := syncEnv(t, WithLogger(slog.New(capture)))

	s := NewSerial("doomed", MakeStep(func(env *Env, after Continuation, args ...any) {
		env.ThrowException(errors.New("boom"))
	}, 0, "failing-step"))

	fired := 0
	s.Invoke(env, func(vals ...any) { fired++ })

	require.Equal(t, 0, fired)
	require.Equal(t, []string{"uncaught exception"}, capture.messages())

	var backtrace string
	capture.records[0].Attrs(func(a slog.Attr) bool {
		if a.Key == "backtrace" {
			backtrace = a.Value.String()
			return false
		}
		return true
	})
	require.Contains(t, backtrace, "failing-step")
	require.Contains(t, backtrace, "doomed")
}

// TestBackTraceOnThrownError verifies that handlers can read the throw-site
// back-trace off the error itself.
func TestBackTraceOnThrownError(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	inner := NewSerial("inner-chain", MakeStep(func(env *Env, after Continuation, args ...any) {
		env.ThrowException(errors.New("boom"))
	}, 0, "deep-step"))
	outer := NewSerial("outer-chain", inner.AsStep())

	var caught error
	outer.OnError(func(e *Env, err error, extra ...any) { caught = err })

	outer.Invoke(env, nil)

	bt, ok := BackTraceOf(caught)
	require.True(t, ok)
	require.Contains(t, bt, "deep-step")
	require.Contains(t, bt, "inner-chain")
	require.Contains(t, bt, "outer-chain")

	var thrown *ThrownError
	require.ErrorAs(t, caught, &thrown)
}

// TestNamedHandlerAppearsInTrace verifies that dispatching to a named handler
// records it in the call context.
func TestNamedHandlerAppearsInTrace(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	s := NewSerial("traced", MakeStep(func(env *Env, after Continuation, args ...any) {
		env.ThrowException(errors.New("boom"))
	}, 0, "explode"))
	s.OnError(noteFailure)

	s.Invoke(env, nil)

	tree := FormatCallTree(env.ExecutionTrace())
	require.Contains(t, tree, "throw")
	require.Contains(t, tree, "noteFailure")
}

func noteFailure(env *Env, err error, extra ...any) {}
