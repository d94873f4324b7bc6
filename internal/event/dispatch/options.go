package dispatch

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/metrics"
)

// Limits are the recursion thresholds of an engine. Depth counts nested
// gate closures, which grows by one for every level of handler-triggered
// cascade.
type Limits struct {
	// HighWater is the depth above which queued dispatches are logged.
	HighWater int

	// StackTrace is the depth above which the warning carries a trimmed
	// stack. Capturing stacks is expensive, so it sits above HighWater.
	StackTrace int

	// Ceiling is the depth above which queued dispatches are dropped.
	Ceiling int
}

// DefaultLimits returns the default recursion thresholds.
func DefaultLimits() Limits {
	return Limits{
		HighWater:  32,
		StackTrace: 64,
		Ceiling:    128,
	}
}

// Validate checks that 0 < HighWater <= StackTrace < Ceiling.
func (l Limits) Validate() error {
	if l.HighWater <= 0 {
		return fmt.Errorf("%w: high-water %d must be positive", ErrInvalidLimits, l.HighWater)
	}
	if l.StackTrace < l.HighWater {
		return fmt.Errorf("%w: stack-trace depth %d below high-water %d", ErrInvalidLimits, l.StackTrace, l.HighWater)
	}
	if l.Ceiling <= l.StackTrace {
		return fmt.Errorf("%w: ceiling %d must exceed stack-trace depth %d", ErrInvalidLimits, l.Ceiling, l.StackTrace)
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets the engine's metrics sink.
func WithMetrics(m *metrics.Dispatch) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLimits sets the recursion thresholds. Invalid limits are ignored.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		if l.Validate() == nil {
			e.limits = l
		}
	}
}

// WithDebugAssertions enables logging of misuse diagnostics.
func WithDebugAssertions(enabled bool) Option {
	return func(e *Engine) {
		e.debug = enabled
	}
}
