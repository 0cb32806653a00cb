package api

// Scheduler defers callbacks so that a composition's caller always regains
// control before any step body executes.
//
// Implementations must run scheduled callbacks in FIFO enqueue order, and
// callbacks enqueued while a drain pass is running must execute within that
// same pass, not a later one. At most one drain may be pending at a time.
// No priority, cancellation, or ordering guarantee beyond FIFO is offered;
// this is purely a batching layer.
//
// The Scheduler is an injectable dependency: production code uses the
// asynchronous batching ticker from the cascade package, while tests may
// substitute a synchronous scheduler for deterministic in-line execution.
type Scheduler interface {
	Schedule(fn func())
}
