package cascade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDelayStep verifies that the delay step waits before continuing and
// routes its continuation back through the scheduler.
func TestDelayStep(t *testing.T) {
	t.Parallel()

	runner := NewRunner()
	flow := New("paced").
		Add(DelayStep(20 * time.Millisecond)).
		Step("mark", 0, func(env *Env, after Continuation, args ...any) {
			after("done")
		}).
		Build()

	start := time.Now()
	out, err := runner.Run(context.Background(), flow)
	require.NoError(t, err)
	require.Equal(t, []any{"done"}, out)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

// TestDelayStepZero verifies that a non-positive delay continues immediately.
func TestDelayStepZero(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	fired := 0
	NewSerial("instant", DelayStep(0)).Invoke(env, func(vals ...any) { fired++ })
	require.Equal(t, 1, fired)
}

func double(env *Env, after Continuation, args ...any) {
	after(args[0].(int) * 2)
}

// TestMapStep verifies per-element fan-out with input-ordered results.
func TestMapStep(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	flow := NewSerial("mapped", MapStep("double-all", MakeStep(double, 1)))

	var out []any
	flow.Invoke(env, func(vals ...any) { out = vals }, []any{1, 2, 3})

	require.Equal(t, []any{[]any{2, 4, 6}}, out)
}

// TestMapStepEmpty verifies the empty-input fast path.
func TestMapStepEmpty(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	var out []any
	NewSerial("mapped", MapStep("double-all", MakeStep(double, 1))).
		Invoke(env, func(vals ...any) { out = vals }, []any{})

	require.Equal(t, []any{[]any{}}, out)
}

// TestFilterStep verifies order-preserving predicate filtering.
func TestFilterStep(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	even := MakeStep(func(env *Env, after Continuation, args ...any) {
		after(args[0].(int)%2 == 0)
	}, 1, "even")

	var out []any
	NewSerial("filtered", FilterStep("keep-even", even)).
		Invoke(env, func(vals ...any) { out = vals }, []any{1, 2, 3, 4, 5, 6})

	require.Equal(t, []any{[]any{2, 4, 6}}, out)
}

// TestFilterStepNonSliceInput verifies that a non-slice input filters to an
// empty result instead of failing.
func TestFilterStepNonSliceInput(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	anything := MakeStep(func(env *Env, after Continuation, args ...any) {
		after(true)
	}, 1, "any")

	var out []any
	NewSerial("filtered", FilterStep("keep", anything)).
		Invoke(env, func(vals ...any) { out = vals }, "not-a-slice")

	require.Equal(t, []any{[]any{}}, out)
}

// TestReduceStep verifies the strictly ordered fold.
func TestReduceStep(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	var seen []any
	sum := MakeStep(func(env *Env, after Continuation, args ...any) {
		seen = append(seen, args[1])
		after(args[0].(int) + args[1].(int))
	}, 2, "sum")

	var out []any
	NewSerial("reduced", ReduceStep("total", sum, 0)).
		Invoke(env, func(vals ...any) { out = vals }, []any{1, 2, 3, 4})

	require.Equal(t, []any{10}, out)
	require.Equal(t, []any{1, 2, 3, 4}, seen, "elements must fold in order")
}

// TestReduceStepEmpty verifies that an empty input yields the initial
// accumulator.
func TestReduceStepEmpty(t *testing.T) {
	t.Parallel()

	env := syncEnv(t)

	sum := MakeStep(func(env *Env, after Continuation, args ...any) {
		after(args[0].(int) + args[1].(int))
	}, 2, "sum")

	var out []any
	NewSerial("reduced", ReduceStep("total", sum, 7)).
		Invoke(env, func(vals ...any) { out = vals }, []any{})

	require.Equal(t, []any{7}, out)
}
