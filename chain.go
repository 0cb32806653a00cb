package cascade

import (
	"fmt"
	"strings"

	"github.com/petrijr/cascade/pkg/api"
)

// chain is the state shared by all composition kinds: the participant list,
// an optional exception handler, the env-binding flag for the terminal
// continuation, a declared arity for use as a nested step, and a display
// name.
//
// The participant list may be edited between invocations; structural
// mutation during an in-flight invocation is undefined behavior.
type chain struct {
	name    string
	kind    api.Kind
	steps   []api.Step
	handler api.Handler
	bindEnv bool
	arity   int
}

func (c *chain) Name() string { return c.name }

func (c *chain) Kind() api.Kind { return c.kind }

func (c *chain) Steps() []api.Step {
	out := make([]api.Step, len(c.steps))
	copy(out, c.steps)
	return out
}

// Arity returns the arity the composition declares when used as a step.
func (c *chain) Arity() int { return c.arity }

// SetArity declares how many leading arguments the composition consumes when
// nested as a step. Defaults to 0.
func (c *chain) SetArity(n int) {
	if n < 0 {
		n = 0
	}
	c.arity = n
}

// OnError attaches the composition's exception handler. Without one,
// exceptions re-raise automatically to the next enclosing scope.
func (c *chain) OnError(h api.Handler) { c.handler = h }

// BindEnv controls whether the terminal continuation receives the
// Environment as an implicit first argument.
func (c *chain) BindEnv(bind bool) { c.bindEnv = bind }

// InsertAt inserts s at pos; out-of-range positions clamp to the ends.
func (c *chain) InsertAt(s api.Step, pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.steps) {
		pos = len(c.steps)
	}
	c.steps = append(c.steps, api.Step{})
	copy(c.steps[pos+1:], c.steps[pos:])
	c.steps[pos] = s
}

// RemoveAt removes and returns the step at pos. Out-of-range positions
// remove nothing.
func (c *chain) RemoveAt(pos int) (api.Step, bool) {
	if pos < 0 || pos >= len(c.steps) {
		return api.Step{}, false
	}
	s := c.steps[pos]
	c.steps = append(c.steps[:pos], c.steps[pos+1:]...)
	return s, true
}

// Append adds s at the end of the step list.
func (c *chain) Append(s api.Step) { c.steps = append(c.steps, s) }

// RemoveLast removes and returns the last step.
func (c *chain) RemoveLast() (api.Step, bool) { return c.RemoveAt(len(c.steps) - 1) }

// Prepend adds s at the front of the step list.
func (c *chain) Prepend(s api.Step) { c.InsertAt(s, 0) }

// RemoveFirst removes and returns the first step.
func (c *chain) RemoveFirst() (api.Step, bool) { return c.RemoveAt(0) }

// enter pushes the composition's call-context frame and exception-handler
// entry onto env and returns the wrapped terminal continuation.
//
// The handler entry's invoker dispatches to the composition's own handler
// when one is set, and otherwise pops the frame and re-raises, so unhandled
// exceptions at one level propagate to the next enclosing level. Its resume
// continuation is the bare after (env-binding only): on the exception path
// the frame and handler entry have already been consumed, so CatchException
// must not pop them again.
func (c *chain) enter(env *api.Env, after api.Continuation) api.Continuation {
	if after == nil {
		after = func(...any) {}
	}
	env.Observer().OnChainStart(env, c.name, c.kind)
	env.EnterFrame(c.name)

	resume := func(vals ...any) {
		env.Observer().OnChainCompleted(env, c.name, c.kind)
		if c.bindEnv {
			vals = append([]any{env}, vals...)
		}
		after(vals...)
	}

	handler := c.handler
	env.PushHandler(func(e *api.Env, err error, extra ...any) {
		if handler != nil {
			e.RecordCall(api.DisplayName(handler))
			e.LeaveFrame()
			handler(e, err, extra...)
			return
		}
		e.LeaveFrame()
		e.ThrowException(err, extra...)
	}, resume)

	return func(vals ...any) {
		if !glueContinuation(after) {
			env.RecordCall(api.DisplayName(after))
		}
		env.LeaveFrame()
		env.DropHandler()
		resume(vals...)
	}
}

// glueContinuation reports whether fn is one of this module's own scheduler
// glue closures, which are kept out of user-facing traces.
func glueContinuation(fn any) bool {
	name := api.FuncName(fn)
	if name == "" {
		return true
	}
	return strings.HasPrefix(name, "github.com/petrijr/cascade") &&
		strings.Contains(name, ".func")
}

// adaptArgs applies the arity-based argument convention: an under-supplied
// step is backfilled from the value stack (popped values restored to their
// original push order and prepended), and surplus trailing arguments are
// stashed onto the value stack for a later step to consume.
func adaptArgs(env *api.Env, s api.Step, args []any) []any {
	missing := s.Arity - len(args)
	switch {
	case missing == 0:
		return args
	case missing > 0:
		pulled := make([]any, missing, missing+len(args))
		for i := missing - 1; i >= 0; i-- {
			pulled[i] = env.PopValue()
		}
		return append(pulled, args...)
	default:
		for _, v := range args[s.Arity:] {
			env.PushValue(v)
		}
		return args[:s.Arity]
	}
}

// runSteps schedules steps[idx:] in order; done receives the last step's
// output. Each step's continuation adapts arguments against the value stack
// and defers the next invocation through the scheduler, so suspension occurs
// at every step boundary.
func runSteps(env *api.Env, chainName string, steps []api.Step, idx int, done api.Continuation, args []any) {
	if idx >= len(steps) {
		env.Schedule(func() { done(args...) })
		return
	}
	st := steps[idx]
	env.Schedule(func() {
		adapted := adaptArgs(env, st, args)
		env.RecordCall(st.Name)
		env.Observer().OnStepStart(env, chainName, st.Name, idx)
		defer rethrow(env)
		st.Fn(env, func(out ...any) {
			runSteps(env, chainName, steps, idx+1, done, out)
		}, adapted...)
	})
}

// rethrow coerces a synchronous panic from a step body into the chain's own
// propagation mechanism, giving foreign failures the same path as explicit
// throws.
func rethrow(env *api.Env) {
	if r := recover(); r != nil {
		env.ThrowException(coerceError(r))
	}
}

func coerceError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// splitCond interprets a condition continuation's output: a leading truthy
// flag plus pass-through values. No output counts as false.
func splitCond(out []any) (bool, []any) {
	if len(out) == 0 {
		return false, nil
	}
	return truthy(out[0]), out[1:]
}
