package cascade

import (
	"time"

	"github.com/petrijr/cascade/pkg/api"
)

// DelayStep returns a step that waits for the given duration before invoking
// its continuation. It declares arity 0, so preceding outputs are stashed on
// the value stack by adaptation and flow to later steps as usual.
func DelayStep(d time.Duration) Step {
	fn := func(env *Env, after Continuation, args ...any) {
		if d <= 0 {
			after()
			return
		}
		time.AfterFunc(d, func() {
			// Route back through the scheduler; continuations must not
			// run on a foreign goroutine.
			env.Schedule(func() { after() })
		})
	}
	return MakeStep(fn, 0, "delay")
}

// MapStep returns a step that applies body to every element of its []any
// input as a parallel fan-out, passing the mapped slice (ordered by input
// index) to its continuation.
func MapStep(name string, body Step) Step {
	fn := func(env *Env, after Continuation, args ...any) {
		items, _ := args[0].([]any)
		if len(items) == 0 {
			after([]any{})
			return
		}
		steps := make([]Step, len(items))
		for i, it := range items {
			it := it
			steps[i] = api.Step{
				Fn: func(e *Env, next Continuation, _ ...any) {
					body.Fn(e, next, it)
				},
				Name: body.Name,
			}
		}
		NewParallel(name, steps...).Invoke(env, after)
	}
	return MakeStep(fn, 1, name)
}

// FilterStep returns a step that keeps the elements of its []any input for
// which pred passes a truthy value, preserving input order.
func FilterStep(name string, pred Step) Step {
	fn := func(env *Env, after Continuation, args ...any) {
		items, _ := args[0].([]any)
		if len(items) == 0 {
			after([]any{})
			return
		}
		steps := make([]Step, len(items))
		for i, it := range items {
			it := it
			steps[i] = api.Step{
				Fn: func(e *Env, next Continuation, _ ...any) {
					pred.Fn(e, func(out ...any) {
						keep, _ := splitCond(out)
						next(keep)
					}, it)
				},
				Name: pred.Name,
			}
		}
		NewParallel(name, steps...).Invoke(env, func(out ...any) {
			kept := make([]any, 0, len(items))
			if len(out) > 0 {
				flags, _ := out[0].([]any)
				for i, f := range flags {
					if b, ok := f.(bool); ok && b {
						kept = append(kept, items[i])
					}
				}
			}
			after(kept)
		})
	}
	return MakeStep(fn, 1, name)
}

// ReduceStep returns a step that folds fn over its []any input starting from
// initial. fn is invoked with (accumulator, element) and must pass the new
// accumulator to its continuation. Elements are consumed strictly in order.
func ReduceStep(name string, fn Step, initial any) Step {
	body := func(env *Env, after Continuation, args ...any) {
		items, _ := args[0].([]any)
		var fold func(acc any, i int)
		fold = func(acc any, i int) {
			if i >= len(items) {
				after(acc)
				return
			}
			env.Schedule(func() {
				defer rethrow(env)
				fn.Fn(env, func(out ...any) {
					var next any
					if len(out) > 0 {
						next = out[0]
					}
					fold(next, i+1)
				}, acc, items[i])
			})
		}
		fold(initial, 0)
	}
	return MakeStep(body, 1, name)
}
