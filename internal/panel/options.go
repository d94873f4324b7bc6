package panel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/config"
	"github.com/dshills/panelkit/internal/event/dispatch"
	"github.com/dshills/panelkit/internal/metrics"
)

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the base logger. Panel, engine and focus loggers are
// derived from it.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Panel) {
		p.logger = l
	}
}

// WithMetrics sets the metrics sink. It takes precedence over WithRegisterer.
func WithMetrics(m *metrics.Dispatch) Option {
	return func(p *Panel) {
		p.metrics = m
	}
}

// WithRegisterer registers the panel's metrics on reg, labelled with the
// panel ID.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Panel) {
		p.registerer = reg
	}
}

// WithConfig sets the initial configuration.
func WithConfig(cfg *config.Config) Option {
	return func(p *Panel) {
		if cfg != nil {
			p.cfg = cfg
		}
	}
}

// WithLayout sets the layout collaborator.
func WithLayout(l Layout) Option {
	return func(p *Panel) {
		if l != nil {
			p.layout = l
		}
	}
}

// WithRepainter sets the repaint collaborator.
func WithRepainter(r Repainter) Option {
	return func(p *Panel) {
		if r != nil {
			p.repainter = r
		}
	}
}

// WithInterceptor attaches a debugger that may swallow envelopes.
func WithInterceptor(ic dispatch.Interceptor) Option {
	return func(p *Panel) {
		p.interceptor = ic
	}
}

// WithName names the root element.
func WithName(name string) Option {
	return func(p *Panel) {
		if name != "" {
			p.name = name
		}
	}
}

// WithClock sets the time source used by the scheduler.
func WithClock(clock func() time.Time) Option {
	return func(p *Panel) {
		if clock != nil {
			p.clock = clock
		}
	}
}
