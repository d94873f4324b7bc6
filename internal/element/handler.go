package element

import (
	"slices"

	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/topic"
)

// Handler is a capability set over phases and kinds. Propagation calls
// Invoke for every phase and kind Handles accepts.
type Handler interface {
	Handles(phase event.Phase, kind topic.Topic) bool
	Invoke(env *event.Envelope)
}

// PhaseSet is a set of propagation phases.
type PhaseSet uint8

const (
	// TrickleDown runs while walking from the root to the target.
	TrickleDown PhaseSet = 1 << iota
	// AtTarget runs on the target.
	AtTarget
	// BubbleUp runs while walking back to the root.
	BubbleUp
	// DefaultAction runs after propagation unless the default was prevented.
	DefaultAction
)

// Has reports whether the set includes phase.
func (s PhaseSet) Has(phase event.Phase) bool {
	switch phase {
	case event.PhaseTrickleDown:
		return s&TrickleDown != 0
	case event.PhaseAtTarget:
		return s&AtTarget != 0
	case event.PhaseBubbleUp:
		return s&BubbleUp != 0
	case event.PhaseDefaultAction:
		return s&DefaultAction != 0
	}
	return false
}

// Callback handles kinds matching Pattern during Phases.
type Callback struct {
	Pattern topic.Topic
	Phases  PhaseSet
	Fn      func(env *event.Envelope)
}

// Handles implements Handler.
func (c *Callback) Handles(phase event.Phase, kind topic.Topic) bool {
	return c.Phases.Has(phase) && kind.Matches(c.Pattern)
}

// Invoke implements Handler.
func (c *Callback) Invoke(env *event.Envelope) {
	c.Fn(env)
}

// On registers fn for the at-target and bubble-up phases.
func (e *Element) On(pattern topic.Topic, fn func(env *event.Envelope)) *Callback {
	return e.register(pattern, AtTarget|BubbleUp, fn)
}

// OnTrickleDown registers fn for the trickle-down phase.
func (e *Element) OnTrickleDown(pattern topic.Topic, fn func(env *event.Envelope)) *Callback {
	return e.register(pattern, TrickleDown, fn)
}

// OnDefault registers fn as a default action of e.
func (e *Element) OnDefault(pattern topic.Topic, fn func(env *event.Envelope)) *Callback {
	return e.register(pattern, DefaultAction, fn)
}

func (e *Element) register(pattern topic.Topic, phases PhaseSet, fn func(*event.Envelope)) *Callback {
	c := &Callback{Pattern: pattern, Phases: phases, Fn: fn}
	e.AddHandler(c)
	return c
}

// AddHandler registers h on e.
func (e *Element) AddHandler(h Handler) {
	e.handlers = append(e.handlers, h)
}

// RemoveHandler unregisters h. It reports whether h was registered.
func (e *Element) RemoveHandler(h Handler) bool {
	i := slices.Index(e.handlers, h)
	if i < 0 {
		return false
	}
	e.handlers = slices.Delete(e.handlers, i, i+1)
	return true
}

// HandlerCount returns the number of registered handlers.
func (e *Element) HandlerCount() int {
	return len(e.handlers)
}
