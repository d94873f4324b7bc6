// Package event defines the envelope routed through a panel's dispatch engine.
//
// An Envelope records one occurrence: its kind (a hierarchical topic such as
// "pointer.down" or "focus.in"), the target element, an optional related
// target, the platform event it was translated from and a kind specific
// payload. It also carries the bookkeeping the dispatcher needs: the
// received flag, propagation stop flags and a hold count.
//
// # Ownership
//
// Envelopes come from a Pool with one hold owned by the source that raised
// them. A dispatch engine that queues an envelope takes a second hold and
// drops it after processing; the source drops its own hold once Dispatch
// returns. The last Release returns the envelope to its pool, so nothing
// may keep a reference to an envelope after releasing its hold:
//
//	env := event.New(event.KindClick, button)
//	engine.Dispatch(env, host, dispatch.Queued)
//	_ = env.Release()
//
// # Kinds
//
// Kind constants live in kinds.go. Focus transitions emit focus.out and
// focus.in as pre-notifications (these bubble) and focus.blur and
// focus.focus as commit notifications (these do not).
package event
