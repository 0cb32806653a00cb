package cascade

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/petrijr/cascade/pkg/api"
)

// syncEnv creates an Environment on a synchronous scheduler, so Invoke runs
// the whole composition to quiescence before returning.
func syncEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()
	return NewEnv(NewSynchronousScheduler(), opts...)
}

// logCapture is a slog.Handler that records every log record it sees.
type logCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *logCapture) Enabled(context.Context, slog.Level) bool { return true }

func (h *logCapture) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *logCapture) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *logCapture) WithGroup(string) slog.Handler { return h }

func (h *logCapture) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.records))
	for i, r := range h.records {
		out[i] = r.Message
	}
	return out
}

// passStep returns a step that records its execution and forwards its
// arguments unchanged.
func passStep(name string, arity int, log *[]string) Step {
	return api.MakeStep(func(env *Env, after Continuation, args ...any) {
		*log = append(*log, name)
		after(args...)
	}, arity, name)
}
