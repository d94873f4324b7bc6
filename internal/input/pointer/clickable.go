package pointer

import (
	"time"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
	"github.com/dshills/panelkit/internal/scheduler"
)

// Capturer routes a pointer's envelopes to one element regardless of what
// lies under the pointer.
type Capturer interface {
	CapturePointer(pointerID int, el *element.Element)
	ReleasePointer(pointerID int, el *element.Element)
	CapturedBy(pointerID int) *element.Element
}

// Host is the panel a Clickable lives in.
type Host interface {
	Capturer
	SendEvent(env *event.Envelope) error
	Engine() *dispatch.Engine
	Scheduler() *scheduler.Scheduler
}

// ClickableOption configures a Clickable.
type ClickableOption func(*Clickable)

// Repeatable makes the clickable fire on press, then after delay, then
// every interval while the pointer stays pressed over the element.
func Repeatable(delay, interval time.Duration) ClickableOption {
	return func(c *Clickable) {
		c.delay = delay
		c.interval = interval
	}
}

// WithButton sets the button that activates the clickable.
func WithButton(b event.Button) ClickableOption {
	return func(c *Clickable) {
		c.button = b
	}
}

// Clickable turns pointer presses on an element into click envelopes.
type Clickable struct {
	host   Host
	el     *element.Element
	button event.Button

	delay    time.Duration
	interval time.Duration
	repeat   *scheduler.Item

	active    bool
	inside    bool
	pointerID int
	last      event.PointerPayload
	clicks    int

	handlers []element.Handler
}

// NewClickable attaches a clickable to el.
func NewClickable(host Host, el *element.Element, opts ...ClickableOption) *Clickable {
	c := &Clickable{
		host:   host,
		el:     el,
		button: event.ButtonLeft,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = []element.Handler{
		el.On(event.KindPointerDown, c.onDown),
		el.On(event.KindPointerMove, c.onMove),
		el.On(event.KindPointerUp, c.onUp),
		el.On(event.KindPointerCaptureLost, c.onCaptureLost),
	}
	return c
}

// Detach removes the clickable's handlers and stops any repeat.
func (c *Clickable) Detach() {
	for _, h := range c.handlers {
		c.el.RemoveHandler(h)
	}
	c.handlers = nil
	if c.repeat != nil {
		c.repeat.Cancel()
		c.repeat = nil
	}
	if c.active {
		c.host.ReleasePointer(c.pointerID, c.el)
		c.deactivate()
	}
}

// Element returns the element the clickable is attached to.
func (c *Clickable) Element() *element.Element {
	return c.el
}

// Active reports whether the clickable is pressed.
func (c *Clickable) Active() bool {
	return c.active
}

// Clicks returns the number of click envelopes the clickable has raised.
func (c *Clickable) Clicks() int {
	return c.clicks
}

// IsRepeatable reports whether the clickable fires while held.
func (c *Clickable) IsRepeatable() bool {
	return c.interval > 0
}

func (c *Clickable) onDown(env *event.Envelope) {
	p, ok := env.Pointer()
	if !ok || p.Button != c.button || c.active || !c.el.EnabledInHierarchy() {
		return
	}

	c.active = true
	c.inside = true
	c.pointerID = p.PointerID
	c.last = p
	c.el.SetPseudoState(element.StateActive, true)
	c.host.CapturePointer(p.PointerID, c.el)

	if c.IsRepeatable() {
		c.fire()
		if c.repeat == nil {
			c.repeat = c.host.Scheduler().Schedule(c.onRepeat, c.delay, c.interval)
		} else {
			c.repeat.Reset(c.delay)
		}
	}
	env.StopPropagation()
}

func (c *Clickable) onMove(env *event.Envelope) {
	p, ok := env.Pointer()
	if !ok || !c.active || p.PointerID != c.pointerID {
		return
	}
	c.last.Position = p.Position
	c.last.Modifiers = p.Modifiers
	c.inside = c.el.Bounds().Contains(p.Position.X, p.Position.Y)
	c.el.SetPseudoState(element.StateActive, c.inside)
	env.StopPropagation()
}

func (c *Clickable) onUp(env *event.Envelope) {
	p, ok := env.Pointer()
	if !ok || !c.active || p.PointerID != c.pointerID || p.Button != c.button {
		return
	}

	gate := dispatch.NewGate(c.host.Engine())
	defer gate.Release()

	c.last.Position = p.Position
	c.inside = c.el.Bounds().Contains(p.Position.X, p.Position.Y)
	fire := !c.IsRepeatable() && c.inside && c.el.EnabledInHierarchy()

	c.deactivate()
	c.host.ReleasePointer(p.PointerID, c.el)
	if fire {
		c.fire()
	}
	env.StopPropagation()
}

func (c *Clickable) onCaptureLost(env *event.Envelope) {
	if c.active && env.Target == event.Target(c.el) {
		c.deactivate()
	}
}

func (c *Clickable) onRepeat(time.Time) {
	if c.active && c.inside && c.el.EnabledInHierarchy() {
		c.fire()
	}
}

func (c *Clickable) deactivate() {
	c.active = false
	c.el.SetPseudoState(element.StateActive, false)
	if c.repeat != nil {
		c.repeat.Pause()
	}
}

func (c *Clickable) fire() {
	env := event.New(event.KindClick, c.el)
	env.Payload = c.last
	_ = c.host.SendEvent(env)
	_ = env.Release()
	c.clicks++
}
