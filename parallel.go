package cascade

import "github.com/petrijr/cascade/pkg/api"

// Parallel initiates every step within the same scheduling pass, giving each
// branch an isolated local Environment (own value stack, handler stack, and
// context subtree). Initiation follows step-list order; completion order is
// unconstrained. When the last branch completes, the terminal continuation
// fires with a results slice ordered by branch index if any branch produced
// output, or with no arguments otherwise.
//
// A failure in one branch does not interrupt the others: each branch carries
// its own handler entry. Once all branches have finished, a failed Parallel
// raises the last-recorded branch error; earlier branch errors are dropped.
//
// A Parallel chain accepts no caller-supplied leading arguments of its own
// (declared arity zero); whatever arguments Invoke receives are broadcast
// identically to every branch, adapted per-branch against the branch's own
// value stack.
type Parallel struct {
	chain
}

var _ api.Composition = (*Parallel)(nil)

// NewParallel creates a parallel chain of the given steps.
func NewParallel(name string, steps ...api.Step) *Parallel {
	if name == "" {
		name = "parallel"
	}
	return &Parallel{chain{name: name, kind: api.KindParallel, steps: steps}}
}

// Invoke fans the steps out and fires after exactly once when every branch
// has completed or failed.
func (p *Parallel) Invoke(env *api.Env, after api.Continuation, args ...any) {
	fin := p.enter(env, after)
	n := len(p.steps)
	if n == 0 {
		env.Schedule(func() { fin() })
		return
	}

	results := make([]any, n)
	produced := false
	remaining := n
	var lastErr error

	// finish runs on the scheduler goroutine; the counter and results need
	// no further synchronization.
	finish := func() {
		remaining--
		if remaining > 0 {
			return
		}
		if lastErr != nil {
			env.ThrowException(lastErr)
			return
		}
		if produced {
			fin(results)
			return
		}
		fin()
	}

	for i, st := range p.steps {
		i, st := i, st
		local := env.NewLocal(i)
		local.PushHandler(func(e *api.Env, err error, extra ...any) {
			lastErr = err
			finish()
		}, nil)

		branchAfter := func(out ...any) {
			env.Schedule(func() {
				switch len(out) {
				case 0:
				case 1:
					results[i] = out[0]
					produced = true
				default:
					results[i] = out
					produced = true
				}
				finish()
			})
		}

		env.Schedule(func() {
			adapted := adaptArgs(local, st, args)
			local.RecordCall(st.Name)
			local.Observer().OnStepStart(local, p.name, st.Name, i)
			defer rethrow(local)
			st.Fn(local, branchAfter, adapted...)
		})
	}
}

// AsStep wraps the parallel chain as a step so it can nest inside other
// compositions.
func (p *Parallel) AsStep() api.Step {
	return api.Step{Fn: p.Invoke, Arity: 0, Name: p.name, Sub: p}
}
