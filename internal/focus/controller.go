package focus

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
	"github.com/dshills/panelkit/internal/event/topic"
	"github.com/dshills/panelkit/internal/metrics"
)

// State is the controller's transition state.
type State uint8

const (
	// Idle means no transition is waiting for its commit.
	Idle State = iota
	// InFlight means a transition was requested and its commit envelope has
	// not been processed yet.
	InFlight
)

// String returns a human-readable state name.
func (s State) String() string {
	if s == InFlight {
		return "in-flight"
	}
	return "idle"
}

// Controller owns focus for one panel. It is driven from the panel's
// goroutine and is not safe for concurrent use.
type Controller struct {
	root   *element.Element
	engine *dispatch.Engine
	host   dispatch.Host
	pool   *event.Pool

	records []Record

	pendingCount  int
	pendingTarget *element.Element
	generation    uint64

	watchdog bool
	logger   zerolog.Logger
	metrics  *metrics.Dispatch
}

// New creates a controller for the tree under root. Focus envelopes are
// dispatched through engine with host as the processing host.
func New(root *element.Element, engine *dispatch.Engine, host dispatch.Host, opts ...Option) *Controller {
	c := &Controller{
		root:     root,
		engine:   engine,
		host:     host,
		pool:     event.DefaultPool(),
		watchdog: true,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestFocus moves focus to target.
//
// A target with delegated focus is first redirected to its first eligible
// descendant. A nil target, a detached one, or one that cannot take focus
// clears focus. Elements attached to another panel are refused with
// ErrForeignElement.
// Requesting the element that already holds or is about to hold focus does
// nothing. Envelopes are dispatched with mode; with dispatch.Immediate the
// whole sequence has been processed when RequestFocus returns.
func (c *Controller) RequestFocus(target *element.Element, dir event.FocusDirection, delegated bool, mode dispatch.Mode) error {
	if target != nil && !c.owns(target) {
		if target.Attached() {
			c.logger.Debug().Str("target", target.Name()).Msg("focus request for foreign element ignored")
			return ErrForeignElement
		}
		target = nil
	}
	if target != nil && target.DelegatesFocus() {
		if d := delegateTarget(target); d != nil {
			target = d
			delegated = true
		}
	}
	if target != nil && !target.CanFocus() {
		target = nil
	}

	old := c.effective()
	if old == target {
		return nil
	}
	c.switchFocus(old, target, dir, delegated, mode)
	return nil
}

func (c *Controller) switchFocus(old, target *element.Element, dir event.FocusDirection, delegated bool, mode dispatch.Mode) {
	c.generation++
	gen := c.generation

	c.pendingCount++
	c.pendingTarget = target

	gate := dispatch.NewGate(c.engine)
	defer gate.Release()

	c.logger.Debug().
		Str("from", nameOf(old)).
		Str("to", nameOf(target)).
		Str("direction", dir.String()).
		Str("mode", mode.String()).
		Msg("focus change requested")

	payload := event.FocusPayload{Delegated: delegated}

	if old != nil {
		c.send(event.KindFocusOut, old, Retarget(target, old), dir, payload, mode)
	}
	if target != nil {
		c.send(event.KindFocusIn, target, Retarget(old, target), dir, payload, mode)
	}
	if c.superseded(gen) {
		return
	}

	c.release(target, dir, payload, mode)
	if c.superseded(gen) {
		return
	}

	if target != nil {
		c.grab(old, target, dir, payload, mode)
	}
}

// superseded reports whether a handler started another transition while
// this one was dispatching immediately. The newer transition owns the
// result; this one gives up its pending hold.
func (c *Controller) superseded(gen uint64) bool {
	if c.generation == gen {
		return false
	}
	c.settle()
	return true
}

// release clears the committed records and raises focus.blur for each.
// When next is nil the last blur carries the commit.
func (c *Controller) release(next *element.Element, dir event.FocusDirection, payload event.FocusPayload, mode dispatch.Mode) {
	recs := c.records
	c.records = nil
	for _, r := range recs {
		r.Leaf.SetPseudoState(element.StateFocused, false)
	}

	if next == nil && len(recs) == 0 {
		c.settle()
		return
	}
	for i, r := range recs {
		p := payload
		p.Commit = next == nil && i == len(recs)-1
		c.send(event.KindFocusBlur, r.Leaf, Retarget(next, r.Leaf), dir, p, mode)
	}
	if next == nil {
		c.metrics.ObserveFocusChange()
	}
}

// grab installs the records of target and raises focus.focus for each.
// The last one carries the commit.
func (c *Controller) grab(old, target *element.Element, dir event.FocusDirection, payload event.FocusPayload, mode dispatch.Mode) {
	recs := buildRecords(target)
	c.records = recs
	for _, r := range recs {
		r.Leaf.SetPseudoState(element.StateFocused, true)
	}
	c.metrics.ObserveFocusChange()

	for i, r := range recs {
		p := payload
		p.Commit = i == len(recs)-1
		c.send(event.KindFocusFocus, r.Leaf, Retarget(old, r.Leaf), dir, p, mode)
	}
}

func (c *Controller) send(kind topic.Topic, target, related *element.Element, dir event.FocusDirection, payload event.FocusPayload, mode dispatch.Mode) {
	env := c.pool.Get(kind)
	env.Target = target
	if related != nil {
		env.RelatedTarget = related
	}
	env.Direction = dir
	env.Payload = payload

	if err := c.engine.Dispatch(env, c.host, mode); err != nil {
		c.logger.Warn().
			Err(err).
			Str("kind", kind.String()).
			Str("target", target.Name()).
			Msg("focus envelope not delivered")
		if payload.Commit {
			c.settle()
		}
	}
	_ = env.Release()
}

// ProcessPending completes a transition when its commit envelope is
// processed. The panel calls it from PreDispatch for every envelope.
func (c *Controller) ProcessPending(env *event.Envelope) {
	if env.Kind != event.KindFocusFocus && env.Kind != event.KindFocusBlur {
		return
	}
	if p, ok := env.Payload.(event.FocusPayload); ok && p.Commit {
		c.settle()
	}
}

func (c *Controller) settle() {
	if c.pendingCount > 0 {
		c.pendingCount--
	}
	if c.pendingCount == 0 {
		c.pendingTarget = nil
	}
}

// Blur clears focus if target holds it, is about to hold it, or encloses
// the focused element.
func (c *Controller) Blur(target *element.Element) {
	if target == nil {
		return
	}
	if c.effective() == target || c.IsFocused(target) {
		_ = c.RequestFocus(nil, event.DirectionNone, false, dispatch.Queued)
	}
}

// ReconcileAfterDetach clears focus when the focused element is no longer
// displayed or has left the panel.
func (c *Controller) ReconcileAfterDetach() {
	leaf := c.committedLeaf()
	if leaf == nil {
		return
	}
	if c.owns(leaf) && leaf.Attached() && leaf.DisplayedInHierarchy() {
		return
	}
	c.logger.Debug().Str("target", leaf.Name()).Msg("focused element detached, blurring")
	_ = c.RequestFocus(nil, event.DirectionNone, false, dispatch.Queued)
}

// State returns Idle or InFlight.
func (c *Controller) State() State {
	if c.pendingCount > 0 {
		return InFlight
	}
	return Idle
}

// PendingCount returns the number of transitions awaiting their commit.
func (c *Controller) PendingCount() int {
	return c.pendingCount
}

// FocusedElement returns the element that holds focus, or the pending
// target while a transition is in flight.
func (c *Controller) FocusedElement() *element.Element {
	el := c.effective()
	if el == nil || !c.owns(el) {
		return nil
	}
	return el
}

// FocusedLeaf returns the committed focused leaf.
func (c *Controller) FocusedLeaf() *element.Element {
	leaf := c.committedLeaf()
	if leaf == nil || !c.owns(leaf) {
		return nil
	}
	return leaf
}

// IsFocused reports whether el holds focus as seen from one of the
// committed records. Elements of other panels are never focused.
func (c *Controller) IsFocused(el *element.Element) bool {
	if el == nil || !c.owns(el) {
		return false
	}
	for _, r := range c.records {
		if r.Leaf == el {
			return true
		}
	}
	return false
}

// FocusedIn returns the element focused inside scope, which must be a
// composite boundary or the root.
func (c *Controller) FocusedIn(scope *element.Element) *element.Element {
	if scope == nil || !c.owns(scope) {
		return nil
	}
	for _, r := range c.records {
		if r.Scope == scope && c.owns(r.Leaf) {
			return r.Leaf
		}
	}
	return nil
}

// RetargetedFocus returns the focused leaf as seen from relativeTo.
func (c *Controller) RetargetedFocus(relativeTo *element.Element) *element.Element {
	leaf := c.FocusedLeaf()
	if leaf == nil || relativeTo == nil || !c.owns(relativeTo) {
		return nil
	}
	return Retarget(leaf, relativeTo)
}

// Records returns a copy of the committed records, innermost first.
func (c *Controller) Records() []Record {
	return slices.Clone(c.records)
}

// Watchdog clears a transition that can no longer complete: one whose
// commit is still pending although the engine is not draining. It reports
// whether it had to intervene.
func (c *Controller) Watchdog() bool {
	if !c.watchdog || c.pendingCount == 0 || c.engine.ProcessingEvents() {
		return false
	}
	c.logger.Warn().
		Int("pending", c.pendingCount).
		Str("target", nameOf(c.pendingTarget)).
		Msg("clearing abandoned focus transition")
	c.pendingCount = 0
	c.pendingTarget = nil
	c.metrics.ObserveWatchdogRecovery()
	return true
}

// SetWatchdog enables or disables abandoned-transition recovery.
func (c *Controller) SetWatchdog(enabled bool) {
	c.watchdog = enabled
}

func (c *Controller) effective() *element.Element {
	if c.pendingCount > 0 {
		return c.pendingTarget
	}
	return c.committedLeaf()
}

func (c *Controller) committedLeaf() *element.Element {
	if len(c.records) == 0 {
		return nil
	}
	return c.records[0].Leaf
}

func (c *Controller) owns(el *element.Element) bool {
	return el.Root() == c.root
}

func nameOf(el *element.Element) string {
	if el == nil {
		return "<nil>"
	}
	return el.Name()
}
