// Package dispatch implements the per-panel event dispatch engine.
//
// # Gates
//
// An Engine counts closed gates. While any gate is closed, queued
// dispatches are appended to a pending queue instead of running; when the
// last gate opens the queue is drained. ProcessEvent closes a gate for the
// duration of one envelope, so envelopes raised by handlers never run in
// the middle of another envelope's propagation.
//
//	gate := dispatch.NewGate(engine)
//	defer gate.Release()
//
// # Ordering
//
// Draining swaps the live queue for an empty one before processing. Every
// cascade raised by item i is queued in the fresh buffer and drained when
// item i's own gate opens, so it finishes before item i+1 starts. The
// observable order is the order in which envelopes were logically raised.
//
// # Dispatch contexts
//
// PushDispatchContext drains the queue, saves the gate count and queue and
// starts a fresh context; PopDispatchContext restores them once the nested
// context is idle. Hosts use this to run a modal loop mid-dispatch.
//
// # Recursion
//
// Every closed gate adds one to the recursion depth. Queued dispatches
// above Limits.HighWater are logged, with a trimmed stack above
// Limits.StackTrace, and dropped above Limits.Ceiling.
//
// # Abort
//
// A handler may call Abort to abandon the current pass. The drain finishes
// every remaining queued envelope and then re-panics with the first abort
// it saw. Other panics propagate unchanged; gates still open on the way out.
package dispatch
