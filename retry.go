package cascade

import (
	"fmt"
	"time"
)

// RetryPolicy controls how RetryStep re-runs a failing step.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// BackoffMultiplier grows the delay each attempt. Values <= 0 mean
	// constant backoff.
	BackoffMultiplier float64

	// MaxBackoff caps the delay; <= 0 means no cap.
	MaxBackoff time.Duration
}

// RetryBuilder provides a fluent way to construct RetryPolicy values.
type RetryBuilder struct {
	policy RetryPolicy
}

// Retry creates a RetryBuilder with the given maxAttempts.
//
// maxAttempts <= 0 is treated as 1 (no retries).
func Retry(maxAttempts int) RetryBuilder {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return RetryBuilder{policy: RetryPolicy{MaxAttempts: maxAttempts}}
}

// WithExponentialBackoff configures exponential backoff:
//
//   - initial is the delay before the first retry.
//   - multiplier > 1 grows the delay each attempt (default 2.0 if <= 0).
//   - max caps the delay; if <= 0, there is no cap.
func (r RetryBuilder) WithExponentialBackoff(initial time.Duration, multiplier float64, max time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = initial
	p.MaxBackoff = max
	if multiplier <= 0 {
		multiplier = 2.0
	}
	p.BackoffMultiplier = multiplier
	return RetryBuilder{policy: p}
}

// WithConstantBackoff configures a constant backoff between retries.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = delay
	p.MaxBackoff = 0
	p.BackoffMultiplier = 1.0
	return RetryBuilder{policy: p}
}

// Immediate disables any delay between retries. Retries still respect
// MaxAttempts.
func (r RetryBuilder) Immediate() RetryBuilder {
	p := r.policy
	p.InitialBackoff = 0
	p.MaxBackoff = 0
	p.BackoffMultiplier = 0
	return RetryBuilder{policy: p}
}

// Policy returns the underlying RetryPolicy.
func (r RetryBuilder) Policy() RetryPolicy {
	return r.policy
}

// backoffFor returns the delay before retry number n (1-based).
func (p RetryPolicy) backoffFor(n int) time.Duration {
	d := p.InitialBackoff
	if d <= 0 {
		return 0
	}
	if p.BackoffMultiplier > 0 {
		for i := 1; i < n; i++ {
			d = time.Duration(float64(d) * p.BackoffMultiplier)
			if p.MaxBackoff > 0 && d >= p.MaxBackoff {
				return p.MaxBackoff
			}
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// RetryStep wraps st so a raised exception re-runs it, up to
// policy.MaxAttempts total tries, with the policy's backoff between tries.
// Each attempt starts from the same adapted arguments. When the final attempt
// fails, its exception propagates unchanged.
func RetryStep(name string, st Step, policy RetryPolicy) Step {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	fn := func(env *Env, after Continuation, args ...any) {
		attempt := 0
		var try func()
		try = func() {
			attempt++
			run := NewSerial(fmt.Sprintf("%s#%d", name, attempt), st)
			run.OnError(func(e *Env, err error, extra ...any) {
				if attempt >= policy.MaxAttempts {
					e.ThrowException(err, extra...)
					return
				}
				if d := policy.backoffFor(attempt); d > 0 {
					time.AfterFunc(d, func() {
						e.Schedule(try)
					})
					return
				}
				try()
			})
			run.Invoke(env, after, args...)
		}
		try()
	}
	return MakeStep(fn, st.Arity, name)
}

// StepWithRetry appends a step wrapped in a retry policy.
func (b *Builder) StepWithRetry(name string, arity int, fn Callable, policy RetryPolicy) *Builder {
	if name == "" {
		panic("cascade: step name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("cascade: step %q has nil function", name))
	}
	b.s.Append(RetryStep(name, MakeStep(fn, arity, name), policy))
	return b
}
