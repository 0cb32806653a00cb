package cascade

import "github.com/petrijr/cascade/pkg/api"

// Branch holds exactly a condition step, a true-path, and a false-path. The
// condition's continuation receives a leading truthy flag plus optional
// pass-through values; true routes to the true-path and false to the
// false-path, each dispatched after one tick of scheduling delay with the
// pass-through values. Only one of the two paths ever executes per
// invocation; both converge on the same terminal continuation.
type Branch struct {
	chain
}

var _ api.Composition = (*Branch)(nil)

// NewBranch creates a binary conditional dispatch. Steps() reports the fixed
// participant list [condition, true-path, false-path].
func NewBranch(name string, cond, onTrue, onFalse api.Step) *Branch {
	if name == "" {
		name = "branch"
	}
	return &Branch{chain{
		name:  name,
		kind:  api.KindBranch,
		steps: []api.Step{cond, onTrue, onFalse},
	}}
}

// Condition returns the condition step.
func (b *Branch) Condition() api.Step { return b.steps[0] }

// Invoke evaluates the condition and dispatches exactly one of the two
// paths. Synchronous failures during condition or path invocation are
// coerced into ThrowException, matching Serial's policy.
func (b *Branch) Invoke(env *api.Env, after api.Continuation, args ...any) {
	fin := b.enter(env, after)
	cond := b.steps[0]
	env.Schedule(func() {
		adapted := adaptArgs(env, cond, args)
		env.RecordCall(cond.Name)
		defer rethrow(env)
		cond.Fn(env, func(out ...any) {
			ok, rest := splitCond(out)
			path := b.steps[2]
			if ok {
				path = b.steps[1]
			}
			env.Schedule(func() {
				adapted := adaptArgs(env, path, rest)
				env.RecordCall(path.Name)
				defer rethrow(env)
				path.Fn(env, fin, adapted...)
			})
		}, adapted...)
	})
}

// AsStep wraps the branch as a step so it can nest inside other
// compositions.
func (b *Branch) AsStep() api.Step {
	return api.Step{Fn: b.Invoke, Arity: b.arity, Name: b.name, Sub: b}
}
