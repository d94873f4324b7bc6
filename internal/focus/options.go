package focus

import (
	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/metrics"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithMetrics sets the metrics sink for focus changes and watchdog recoveries.
func WithMetrics(m *metrics.Dispatch) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithPool sets the pool focus envelopes are taken from.
func WithPool(p *event.Pool) Option {
	return func(c *Controller) {
		if p != nil {
			c.pool = p
		}
	}
}

// WithWatchdog enables or disables abandoned-transition recovery.
func WithWatchdog(enabled bool) Option {
	return func(c *Controller) {
		c.watchdog = enabled
	}
}
