package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrNilHost is returned when an envelope is dispatched without a host.
	ErrNilHost = errors.New("dispatch host is nil")

	// ErrNilEnvelope is returned when Dispatch is called with a nil envelope.
	ErrNilEnvelope = errors.New("envelope is nil")

	// ErrAlreadyQueued is returned when an envelope that already sits in a
	// pending queue is dispatched again.
	ErrAlreadyQueued = errors.New("envelope is already queued")

	// ErrGateUnderflow is reported when a gate is opened that was never closed.
	ErrGateUnderflow = errors.New("gate opened more times than closed")

	// ErrRecursionCeiling is returned when an envelope is dropped because the
	// dispatch depth exceeded the hard ceiling.
	ErrRecursionCeiling = errors.New("dispatch recursion ceiling exceeded")

	// ErrContextNotEmpty is returned when a dispatch context is popped while
	// gates are still closed or envelopes are still pending.
	ErrContextNotEmpty = errors.New("dispatch context still has work in flight")

	// ErrNoContext is returned when popping with no pushed dispatch context.
	ErrNoContext = errors.New("no dispatch context to pop")

	// ErrInvalidLimits is returned by Limits.Validate.
	ErrInvalidLimits = errors.New("invalid dispatch limits")
)

// AbortPass is the panic value a handler raises to abandon the current
// processing pass. The queue drain captures the first one, finishes every
// remaining queued envelope, and then re-panics with it once.
type AbortPass struct {
	Reason string
}

// Error implements the error interface.
func (a *AbortPass) Error() string {
	if a.Reason == "" {
		return "dispatch pass aborted"
	}
	return "dispatch pass aborted: " + a.Reason
}

// Abort panics with an *AbortPass.
func Abort(reason string) {
	panic(&AbortPass{Reason: reason})
}

// AsAbort reports whether a recovered panic value is an abort signal.
func AsAbort(r any) (*AbortPass, bool) {
	a, ok := r.(*AbortPass)
	return a, ok
}
