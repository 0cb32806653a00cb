package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExecutionTraceNesting verifies depth accounting across nested frames:
// frames indent their children, leaving a frame returns to the outer depth.
func TestExecutionTraceNesting(t *testing.T) {
	t.Parallel()

	env := NewEnv(inlineSched{})

	env.EnterFrame("main")
	env.RecordCall("a")
	env.EnterFrame("sub")
	env.RecordCall("b")
	env.LeaveFrame()
	env.RecordCall("c")
	env.LeaveFrame()

	require.Equal(t, []TraceEntry{
		{Name: "main", Depth: 0},
		{Name: "a", Depth: 1},
		{Name: "sub", Depth: 1},
		{Name: "b", Depth: 2},
		{Name: "c", Depth: 1},
	}, env.ExecutionTrace())
}

// TestBackTraceOmitsSiblingBodies verifies that the back-trace is the direct
// path to the active frame: completed sibling frames appear as single
// entries, their bodies do not.
func TestBackTraceOmitsSiblingBodies(t *testing.T) {
	t.Parallel()

	env := NewEnv(inlineSched{})

	env.EnterFrame("main")

	// A completed sibling composition with its own body.
	env.EnterFrame("done-sub")
	env.RecordCall("done-body")
	env.LeaveFrame()

	// The active frame.
	env.EnterFrame("active-sub")
	env.RecordCall("current-step")

	bt := env.BackTrace()
	names := make([]string, len(bt))
	for i, e := range bt {
		names[i] = e.Name
	}
	require.Equal(t, []string{"main", "done-sub", "active-sub", "current-step"}, names)
	require.NotContains(t, names, "done-body")
}

// TestFormatCallTree verifies the indented root-first rendering.
func TestFormatCallTree(t *testing.T) {
	t.Parallel()

	out := FormatCallTree([]TraceEntry{
		{Name: "main", Depth: 0},
		{Name: "a", Depth: 1},
		{Name: "sub", Depth: 1},
		{Name: "b", Depth: 2},
	})
	require.Equal(t, "main\n  a\n  sub\n    b", out)

	require.Equal(t, "", FormatCallTree(nil))
}

// TestFormatStackTrace verifies the most-recent-first rendering with "in" on
// depth changes and "after" on same-depth predecessors.
func TestFormatStackTrace(t *testing.T) {
	t.Parallel()

	out := FormatStackTrace([]TraceEntry{
		{Name: "main", Depth: 0},
		{Name: "a", Depth: 1},
		{Name: "sub", Depth: 1},
		{Name: "b", Depth: 2},
	})
	require.Equal(t, "in b\nin sub\nafter a\nin main", out)

	require.Equal(t, "", FormatStackTrace(nil))
}

// TestBackTraceFormatting runs the whole pipeline: record, back-trace,
// render.
func TestBackTraceFormatting(t *testing.T) {
	t.Parallel()

	env := NewEnv(inlineSched{})
	env.EnterFrame("main")
	env.RecordCall("a")
	env.EnterFrame("sub")
	env.RecordCall("b")

	require.Equal(t, "in b\nin sub\nafter a\nin main", FormatStackTrace(env.BackTrace()))
}
