// Package metrics provides Prometheus instrumentation for panel dispatch.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons.
const (
	DropRepaint   = "repaint"
	DropCeiling   = "ceiling"
	DropReleased  = "released"
	DropNilHost   = "nil_host"
	DropAbandoned = "abandoned"
)

// Dispatch holds the counters for one panel's engine and focus controller.
// A nil *Dispatch is valid and records nothing.
type Dispatch struct {
	Dispatched         *prometheus.CounterVec
	Queued             prometheus.Counter
	Dropped            *prometheus.CounterVec
	Drains             prometheus.Counter
	Depth              prometheus.Gauge
	FocusChanges       prometheus.Counter
	WatchdogRecoveries prometheus.Counter
}

// New creates the collectors and registers them on reg with a constant
// panel label. reg may be nil, in which case nothing is registered.
func New(reg prometheus.Registerer, panel string) (*Dispatch, error) {
	labels := prometheus.Labels{"panel": panel}

	d := &Dispatch{
		Dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "panelkit_envelopes_dispatched_total",
			Help:        "Envelopes handed to the dispatch engine, by delivery mode.",
			ConstLabels: labels,
		}, []string{"mode"}),
		Queued: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "panelkit_envelopes_queued_total",
			Help:        "Envelopes deferred to the pending queue because a gate was closed.",
			ConstLabels: labels,
		}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "panelkit_envelopes_dropped_total",
			Help:        "Envelopes dropped without processing, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		Drains: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "panelkit_queue_drains_total",
			Help:        "Number of pending queue drains.",
			ConstLabels: labels,
		}),
		Depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "panelkit_dispatch_depth",
			Help:        "Current dispatch recursion depth.",
			ConstLabels: labels,
		}),
		FocusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "panelkit_focus_changes_total",
			Help:        "Committed focus transitions.",
			ConstLabels: labels,
		}),
		WatchdogRecoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "panelkit_focus_watchdog_recoveries_total",
			Help:        "Abandoned pending focus states cleared by the watchdog.",
			ConstLabels: labels,
		}),
	}

	if reg == nil {
		return d, nil
	}

	var errs []error
	for _, c := range d.collectors() {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return d, errors.Join(errs...)
}

func (d *Dispatch) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		d.Dispatched, d.Queued, d.Dropped, d.Drains, d.Depth, d.FocusChanges, d.WatchdogRecoveries,
	}
}

// ObserveDispatch counts an envelope entering the engine.
func (d *Dispatch) ObserveDispatch(mode string) {
	if d == nil {
		return
	}
	d.Dispatched.WithLabelValues(mode).Inc()
}

// ObserveQueued counts an envelope appended to the pending queue.
func (d *Dispatch) ObserveQueued() {
	if d == nil {
		return
	}
	d.Queued.Inc()
}

// ObserveDrop counts a dropped envelope.
func (d *Dispatch) ObserveDrop(reason string) {
	if d == nil {
		return
	}
	d.Dropped.WithLabelValues(reason).Inc()
}

// ObserveDrain counts a queue drain.
func (d *Dispatch) ObserveDrain() {
	if d == nil {
		return
	}
	d.Drains.Inc()
}

// SetDepth records the current recursion depth.
func (d *Dispatch) SetDepth(depth int) {
	if d == nil {
		return
	}
	d.Depth.Set(float64(depth))
}

// ObserveFocusChange counts a committed focus transition.
func (d *Dispatch) ObserveFocusChange() {
	if d == nil {
		return
	}
	d.FocusChanges.Inc()
}

// ObserveWatchdogRecovery counts a watchdog recovery.
func (d *Dispatch) ObserveWatchdogRecovery() {
	if d == nil {
		return
	}
	d.WatchdogRecoveries.Inc()
}
