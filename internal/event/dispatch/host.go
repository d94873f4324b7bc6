package dispatch

import "github.com/dshills/panelkit/internal/event"

// Mode selects how Dispatch delivers an envelope.
type Mode uint8

const (
	// Queued delivers now if no gate is closed, otherwise appends the
	// envelope to the pending queue.
	Queued Mode = iota
	// Immediate always processes the envelope synchronously.
	Immediate
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	if m == Immediate {
		return "immediate"
	}
	return "queued"
}

// Host is the panel side of processing. The engine calls PreDispatch,
// Propagate and PostDispatch once per processed envelope.
type Host interface {
	// PreDispatch runs host bookkeeping before propagation.
	PreDispatch(env *event.Envelope)

	// Propagate resolves the target and runs the trickle-down, at-target and
	// bubble-up phases. It must honor the envelope's stop flags.
	Propagate(env *event.Envelope)

	// PostDispatch runs after propagation.
	PostDispatch(env *event.Envelope)

	// Interceptor returns the debugger attached to the host, or nil.
	Interceptor() Interceptor
}

// Interceptor lets a debugging layer swallow an envelope before propagation.
type Interceptor interface {
	// Intercept returns true if the envelope must not be propagated.
	Intercept(env *event.Envelope) bool
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(env *event.Envelope) bool

// Intercept implements Interceptor.
func (f InterceptorFunc) Intercept(env *event.Envelope) bool {
	return f(env)
}
