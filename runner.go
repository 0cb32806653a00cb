package cascade

import (
	"context"

	"github.com/petrijr/cascade/internal/ticker"
	"github.com/petrijr/cascade/pkg/api"
)

// Runner bundles a shared Ticker and environment configuration to provide a
// simple synchronous front end for development, debugging, and embedding.
//
// Typical usage:
//
//	runner := cascade.NewRunner()
//	flow := cascade.New("my-flow").Step(...).Build()
//
//	out, err := runner.Run(ctx, flow, input)
//
// Each Run gets a fresh Environment; Environments are never reused across
// invocations.
type Runner struct {
	sched api.Scheduler
	opts  []api.EnvOption
}

// NewRunner constructs a Runner backed by a fresh Ticker. The options are
// applied to every Environment the Runner creates.
func NewRunner(opts ...EnvOption) *Runner {
	return &Runner{sched: ticker.New(), opts: opts}
}

// NewEnv creates an Environment on the Runner's scheduler, for callers that
// want to drive Invoke themselves.
func (r *Runner) NewEnv(opts ...EnvOption) *Env {
	return api.NewEnv(r.sched, append(r.opts[:len(r.opts):len(r.opts)], opts...)...)
}

// Run invokes c with the given arguments and blocks until its terminal
// continuation fires, returning the values it produced. An exception that
// unwinds past every composition handler is returned as the error.
//
// An invocation whose propagation halts (an uncaught exception swallowed by
// a branch, a step that never calls its continuation) never completes; use
// the context to bound liveness:
//
//	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	out, err := runner.Run(ctx, flow, input)
func (r *Runner) Run(ctx context.Context, c Composition, args ...any) ([]any, error) {
	env := r.NewEnv()

	type outcome struct {
		vals []any
		err  error
	}
	done := make(chan outcome, 1)

	// Bottom-of-stack handler: anything the composition tree doesn't
	// handle itself surfaces as Run's error.
	env.PushHandler(func(e *Env, err error, extra ...any) {
		done <- outcome{err: err}
	}, nil)

	c.Invoke(env, func(vals ...any) {
		done <- outcome{vals: vals}
	}, args...)

	select {
	case out := <-done:
		return out.vals, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
