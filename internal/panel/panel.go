package panel

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/config"
	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
	"github.com/dshills/panelkit/internal/focus"
	"github.com/dshills/panelkit/internal/input/pointer"
	"github.com/dshills/panelkit/internal/logging"
	"github.com/dshills/panelkit/internal/metrics"
	"github.com/dshills/panelkit/internal/scheduler"
)

// Panel is the root of one independent element tree.
type Panel struct {
	id   uuid.UUID
	name string
	root *element.Element

	engine    *dispatch.Engine
	focus     *focus.Controller
	scheduler *scheduler.Scheduler
	clock     func() time.Time

	capture    map[int]*element.Element
	clicks     *pointer.ClickCounter
	pointerPos event.Position

	layout      Layout
	repainter   Repainter
	interceptor dispatch.Interceptor
	dirty       bool

	cfg     *config.Config
	pending atomic.Pointer[config.Config]

	logger     zerolog.Logger
	metrics    *metrics.Dispatch
	registerer prometheus.Registerer
}

// New creates a panel with an empty root element.
func New(opts ...Option) (*Panel, error) {
	p := &Panel{
		id:        uuid.New(),
		name:      "root",
		clock:     time.Now,
		capture:   make(map[int]*element.Element),
		layout:    nopLayout{},
		repainter: nopRepainter{},
		cfg:       config.Default(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("panel config: %w", err)
	}

	if p.metrics == nil && p.registerer != nil {
		m, err := metrics.New(p.registerer, p.id.String())
		if err != nil {
			return nil, fmt.Errorf("registering panel metrics: %w", err)
		}
		p.metrics = m
	}

	base := logging.WithPanel(p.logger, p.id.String())
	p.logger = logging.WithComponent(base, "panel")

	p.root = element.New(p.name, element.WithBounds(element.Rect{}))
	p.root.SetOwner(p)

	p.engine = dispatch.NewEngine(
		dispatch.WithLogger(logging.WithComponent(base, "dispatch")),
		dispatch.WithMetrics(p.metrics),
		dispatch.WithLimits(p.cfg.Limits()),
		dispatch.WithDebugAssertions(p.cfg.Dispatch.DebugAssertions),
	)
	p.focus = focus.New(p.root, p.engine, p,
		focus.WithLogger(logging.WithComponent(base, "focus")),
		focus.WithMetrics(p.metrics),
		focus.WithWatchdog(p.cfg.Focus.Watchdog),
	)
	p.scheduler = scheduler.New(scheduler.WithClock(p.clock))
	p.clicks = pointer.NewClickCounter(p.cfg.Pointer.MultiClickTime.Std(), p.cfg.Pointer.MultiClickDistance)

	p.logger.Debug().Str("name", p.name).Msg("panel created")
	return p, nil
}

// ID returns the panel's identifier.
func (p *Panel) ID() string {
	return p.id.String()
}

// Name returns the root element's name.
func (p *Panel) Name() string {
	return p.name
}

// Root returns the root element.
func (p *Panel) Root() *element.Element {
	return p.root
}

// Engine returns the panel's dispatch engine.
func (p *Panel) Engine() *dispatch.Engine {
	return p.engine
}

// FocusController returns the panel's focus controller.
func (p *Panel) FocusController() *focus.Controller {
	return p.focus
}

// Scheduler returns the panel's scheduler.
func (p *Panel) Scheduler() *scheduler.Scheduler {
	return p.scheduler
}

// Config returns the configuration currently in effect.
func (p *Panel) Config() *config.Config {
	return p.cfg
}

// Metrics returns the panel's metrics sink, which may be nil.
func (p *Panel) Metrics() *metrics.Dispatch {
	return p.metrics
}

// SendEvent dispatches env in queued mode. The caller keeps its hold.
func (p *Panel) SendEvent(env *event.Envelope) error {
	return p.engine.Dispatch(env, p, dispatch.Queued)
}

// SendImmediate processes env before returning. The caller keeps its hold.
func (p *Panel) SendImmediate(env *event.Envelope) error {
	return p.engine.Dispatch(env, p, dispatch.Immediate)
}

// raise sends an envelope the panel created itself.
func (p *Panel) raise(env *event.Envelope) {
	if err := p.SendEvent(env); err != nil {
		p.logger.Debug().Err(err).Str("kind", env.Kind.String()).Msg("panel envelope not delivered")
	}
	_ = env.Release()
}

// Focus requests focus for el.
func (p *Panel) Focus(el *element.Element) error {
	return p.focus.RequestFocus(el, event.DirectionNone, false, dispatch.Queued)
}

// Blur removes focus from el if it holds it.
func (p *Panel) Blur(el *element.Element) {
	p.focus.Blur(el)
}

// Focused returns the element that holds or is about to hold focus.
func (p *Panel) Focused() *element.Element {
	return p.focus.FocusedElement()
}

// Attach adds el under parent, or under the root when parent is nil, and
// sends it panel.attach.
func (p *Panel) Attach(parent, el *element.Element) error {
	if el == nil {
		return ErrNilElement
	}
	if el == p.root {
		return ErrRootElement
	}
	if parent == nil {
		parent = p.root
	}
	if parent.Root() != p.root {
		return ErrNotInPanel
	}
	parent.Add(el)
	if el.Parent() != parent {
		return fmt.Errorf("attach %s: %w", el.Name(), ErrNotInPanel)
	}
	p.raise(event.New(event.KindAttach, el))
	return nil
}

// Detach sends panel.detach to el and removes it from the tree. Pointer
// captures held inside the subtree are released and focus is reconciled.
func (p *Panel) Detach(el *element.Element) error {
	if el == nil {
		return ErrNilElement
	}
	if el == p.root {
		return ErrRootElement
	}
	if el.Root() != p.root {
		return ErrNotInPanel
	}

	// Handlers must see el still in the tree, even when Detach runs
	// inside another handler.
	env := event.New(event.KindDetach, el)
	if err := p.SendImmediate(env); err != nil {
		p.logger.Debug().Err(err).Str("target", el.Name()).Msg("detach envelope not delivered")
	}
	_ = env.Release()
	el.RemoveFromParent()

	for id, captured := range p.capture {
		if el.Contains(captured) {
			p.ReleasePointer(id, captured)
		}
	}
	p.focus.ReconcileAfterDetach()
	p.dirty = true
	return nil
}

// Clickable makes el clickable. Repeatable clickables use the configured
// repeat timing.
func (p *Panel) Clickable(el *element.Element, repeatable bool, opts ...pointer.ClickableOption) *pointer.Clickable {
	if repeatable {
		opts = append([]pointer.ClickableOption{
			pointer.Repeatable(p.cfg.Pointer.RepeatDelay.Std(), p.cfg.Pointer.RepeatInterval.Std()),
		}, opts...)
	}
	return pointer.NewClickable(p, el, opts...)
}

// HitTest returns the deepest displayed element at (x, y).
func (p *Panel) HitTest(x, y int) *element.Element {
	return element.HitTest(p.root, x, y)
}

// RunModal runs fn in a fresh dispatch context. Envelopes queued by fn
// before its gates reopen stay in that context.
func (p *Panel) RunModal(fn func()) error {
	return p.engine.WithDispatchContext(fn)
}

// MarkDirty requests a repaint on the next frame.
func (p *Panel) MarkDirty() {
	p.dirty = true
}

// Dirty reports whether a repaint is pending.
func (p *Panel) Dirty() bool {
	return p.dirty
}

// PointerPosition returns the last pointer position the panel processed.
func (p *Panel) PointerPosition() event.Position {
	return p.pointerPos
}
