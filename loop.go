package cascade

import (
	"errors"

	"github.com/petrijr/cascade/pkg/api"
)

// Loop repeats its body while a condition step passes true: before each
// pass the condition is invoked with the previous pass's output (initially
// the caller's arguments) and must call its continuation with a leading
// truthy flag plus zero or more pass-through values. True runs the body
// with the pass-through values; false fires the terminal continuation with
// them. A strictly sequential, asynchronous while construct.
//
// There is no iteration cap: a condition that never passes false loops
// indefinitely. Termination is the caller's responsibility.
type Loop struct {
	chain
	cond api.Step
}

var _ api.Composition = (*Loop)(nil)

// NewLoop creates a loop with the given condition step and body steps.
func NewLoop(name string, cond api.Step, steps ...api.Step) *Loop {
	if name == "" {
		name = "loop"
	}
	return &Loop{
		chain: chain{name: name, kind: api.KindLoop, steps: steps},
		cond:  cond,
	}
}

// SetCondition replaces the loop's condition step.
func (l *Loop) SetCondition(cond api.Step) { l.cond = cond }

// Condition returns the loop's condition step.
func (l *Loop) Condition() api.Step { return l.cond }

// Invoke checks the condition, runs the body while it passes true, and fires
// after exactly once with the final pass-through values.
func (l *Loop) Invoke(env *api.Env, after api.Continuation, args ...any) {
	fin := l.enter(env, after)
	if l.cond.Fn == nil {
		env.Schedule(func() {
			env.ThrowException(errors.New("loop has no condition"))
		})
		return
	}
	var check func(args []any)
	check = func(args []any) {
		env.Schedule(func() {
			adapted := adaptArgs(env, l.cond, args)
			env.RecordCall(l.cond.Name)
			defer rethrow(env)
			l.cond.Fn(env, func(out ...any) {
				ok, rest := splitCond(out)
				if !ok {
					fin(rest...)
					return
				}
				runSteps(env, l.name, l.steps, 0, func(res ...any) {
					check(res)
				}, rest)
			}, adapted...)
		})
	}
	check(args)
}

// AsStep wraps the loop as a step so it can nest inside other compositions.
func (l *Loop) AsStep() api.Step {
	return api.Step{Fn: l.Invoke, Arity: l.arity, Name: l.name, Sub: l}
}
