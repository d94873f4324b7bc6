package event

import (
	"time"

	"github.com/dshills/panelkit/internal/event/topic"
)

// Target is anything an envelope can be addressed to.
// Elements implement it; the event package never looks inside.
type Target interface {
	TargetName() string
}

// Phase is the propagation phase an envelope is currently in.
type Phase uint8

const (
	// PhaseNone means the envelope is not being propagated.
	PhaseNone Phase = iota
	// PhaseTrickleDown walks from the root towards the target.
	PhaseTrickleDown
	// PhaseAtTarget runs handlers registered on the target itself.
	PhaseAtTarget
	// PhaseBubbleUp walks from the target's parent back to the root.
	PhaseBubbleUp
	// PhaseDefaultAction runs the target's default actions.
	PhaseDefaultAction
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseTrickleDown:
		return "trickle-down"
	case PhaseAtTarget:
		return "at-target"
	case PhaseBubbleUp:
		return "bubble-up"
	case PhaseDefaultAction:
		return "default-action"
	default:
		return "none"
	}
}

// FocusDirection describes how a focus change was initiated.
type FocusDirection int8

const (
	// DirectionNone is an unspecified focus change (programmatic or pointer).
	DirectionNone FocusDirection = iota
	// DirectionNext moves forward through the focus ring.
	DirectionNext
	// DirectionPrevious moves backward through the focus ring.
	DirectionPrevious
)

// String returns a human-readable direction name.
func (d FocusDirection) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrevious:
		return "previous"
	default:
		return "none"
	}
}

// Envelope is one occurrence routed through a dispatch engine.
//
// Kind, Target, RelatedTarget, Timestamp, Platform, Payload and Direction are
// set by the source before the envelope is dispatched and are not changed
// afterwards. The remaining state is dispatch bookkeeping.
type Envelope struct {
	// Kind identifies what happened.
	Kind topic.Topic

	// Target is the element the envelope is addressed to. It may be nil
	// until the host resolves it.
	Target Target

	// RelatedTarget is the secondary party. For focus envelopes it is the
	// element losing or gaining focus, retargeted into Target's scope.
	RelatedTarget Target

	// CurrentTarget is the element whose handlers are running.
	CurrentTarget Target

	// Phase is the current propagation phase.
	Phase Phase

	// Timestamp is when the occurrence was raised.
	Timestamp time.Time

	// Platform is the raw host event this envelope was built from, if any.
	Platform *PlatformEvent

	// Payload carries kind specific data (PointerPayload, KeyPayload, ...).
	Payload any

	// Direction is set on focus and navigation envelopes.
	Direction FocusDirection

	// Trace is a retained diagnostic stack, captured only when the engine
	// decides the dispatch is deep enough to be worth the cost.
	Trace []byte

	received         bool
	queued           bool
	stopped          bool
	immediateStopped bool
	defaultPrevented bool

	holds    int32
	released bool
	seq      uint64
	pool     *Pool
}

// Received reports whether a dispatch engine has taken ownership of the envelope.
func (e *Envelope) Received() bool {
	return e.received
}

// MarkReceived is called by the dispatch engine when it accepts the envelope.
func (e *Envelope) MarkReceived() {
	e.received = true
}

// Queued reports whether the envelope is sitting in a dispatch queue.
func (e *Envelope) Queued() bool {
	return e.queued
}

// SetQueued is called by the dispatch engine when the envelope enters or
// leaves its pending queue.
func (e *Envelope) SetQueued(queued bool) {
	e.queued = queued
}

// StopPropagation prevents handlers on further elements from running.
// Handlers on the current element still run.
func (e *Envelope) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation prevents any further handler from running,
// including the remaining handlers on the current element.
func (e *Envelope) StopImmediatePropagation() {
	e.stopped = true
	e.immediateStopped = true
}

// IsPropagationStopped reports whether StopPropagation was called.
func (e *Envelope) IsPropagationStopped() bool {
	return e.stopped
}

// IsImmediatePropagationStopped reports whether StopImmediatePropagation was called.
func (e *Envelope) IsImmediatePropagationStopped() bool {
	return e.immediateStopped
}

// PreventDefault suppresses the target's default actions.
func (e *Envelope) PreventDefault() {
	e.defaultPrevented = true
}

// IsDefaultPrevented reports whether PreventDefault was called.
func (e *Envelope) IsDefaultPrevented() bool {
	return e.defaultPrevented
}

// Sequence is a per-pool monotonically increasing number assigned when the
// envelope was handed out. It is stable for the envelope's lifetime.
func (e *Envelope) Sequence() uint64 {
	return e.seq
}

// Holds returns the current hold count.
func (e *Envelope) Holds() int {
	return int(e.holds)
}

// Alive reports whether the envelope still has at least one hold.
func (e *Envelope) Alive() bool {
	return !e.released && e.holds > 0
}

// Acquire adds a hold. Every Acquire must be matched by a Release.
func (e *Envelope) Acquire() error {
	if !e.Alive() {
		return ErrEnvelopeReleased
	}
	e.holds++
	return nil
}

// Release drops a hold. When the last hold is dropped the envelope is reset
// and, if it came from a pool, returned to it. Releasing a dead envelope
// returns ErrEnvelopeReleased and has no other effect.
func (e *Envelope) Release() error {
	if !e.Alive() {
		return ErrEnvelopeReleased
	}
	e.holds--
	if e.holds > 0 {
		return nil
	}
	e.released = true
	if e.pool != nil {
		e.pool.put(e)
	}
	return nil
}

// IsKind reports whether the envelope's kind matches pattern.
func (e *Envelope) IsKind(pattern topic.Topic) bool {
	return e.Kind.Matches(pattern)
}

// Pointer returns the pointer payload, if the envelope carries one.
func (e *Envelope) Pointer() (PointerPayload, bool) {
	p, ok := e.Payload.(PointerPayload)
	return p, ok
}

// Key returns the key payload, if the envelope carries one.
func (e *Envelope) Key() (KeyPayload, bool) {
	p, ok := e.Payload.(KeyPayload)
	return p, ok
}

// IsRepaint reports whether the envelope is a paint tick whose platform
// event is a pure repaint notification.
func (e *Envelope) IsRepaint() bool {
	return e.Kind == KindPaint && e.Platform != nil && e.Platform.Type == PlatformRepaint
}

func (e *Envelope) reset() {
	pool := e.pool
	*e = Envelope{pool: pool, released: true}
}

// TargetLabel returns the target's name for diagnostics.
func (e *Envelope) TargetLabel() string {
	return NameOf(e.Target)
}

// NameOf returns t's name, or "<nil>" for a nil target.
func NameOf(t Target) string {
	if t == nil {
		return "<nil>"
	}
	return t.TargetName()
}
