// Package ticker provides the scheduler implementations used by cascade:
// an asynchronous batching Ticker for production use and a Synchronous
// scheduler for deterministic tests.
package ticker

import (
	"sync"

	"github.com/petrijr/cascade/pkg/api"
)

// Ticker batches deferred continuations into drain passes. Schedule enqueues
// a callback and, if no drain is pending, hands the queue to a fresh drain
// goroutine. Callbacks enqueued by earlier callbacks within a drain execute
// in the same pass, since the drain re-reads the queue length as it goes.
//
// A Ticker is safe for concurrent use. All scheduled callbacks run on a
// single drain goroutine at a time, which is what gives compositions their
// cooperative, interleaved-not-parallel execution model.
type Ticker struct {
	mu      sync.Mutex
	queue   []func()
	pending bool
}

// Ensure Ticker implements Scheduler.
var _ api.Scheduler = (*Ticker)(nil)

// New creates an empty Ticker.
func New() *Ticker {
	return &Ticker{}
}

// Schedule enqueues fn. Exactly one drain is pending at a time; scheduling
// while a drain is pending only appends to the queue.
func (t *Ticker) Schedule(fn func()) {
	t.mu.Lock()
	t.queue = append(t.queue, fn)
	if t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = true
	t.mu.Unlock()
	go t.drain()
}

// drain runs every queued entry in enqueue order, including entries enqueued
// during the drain itself. Afterwards the queue is emptied and the pending
// flag cleared.
func (t *Ticker) drain() {
	t.mu.Lock()
	for i := 0; i < len(t.queue); i++ {
		fn := t.queue[i]
		t.mu.Unlock()
		fn()
		t.mu.Lock()
	}
	t.queue = t.queue[:0]
	t.pending = false
	t.mu.Unlock()
}

// Synchronous is a Scheduler that drains in-line on the calling goroutine.
// It preserves FIFO order and same-pass re-entrancy, so compositions run to
// quiescence before Schedule returns. Intended for tests and single-shot
// tooling; not safe for concurrent use.
type Synchronous struct {
	queue    []func()
	draining bool
}

var _ api.Scheduler = (*Synchronous)(nil)

// NewSynchronous creates an empty Synchronous scheduler.
func NewSynchronous() *Synchronous {
	return &Synchronous{}
}

func (s *Synchronous) Schedule(fn func()) {
	s.queue = append(s.queue, fn)
	if s.draining {
		return
	}
	s.draining = true
	for i := 0; i < len(s.queue); i++ {
		s.queue[i]()
	}
	s.queue = s.queue[:0]
	s.draining = false
}
