package event

import "errors"

// Sentinel errors for envelopes.
var (
	// ErrEnvelopeReleased is returned when a hold is taken on or dropped from
	// an envelope whose last hold was already released.
	ErrEnvelopeReleased = errors.New("envelope already released")
)
