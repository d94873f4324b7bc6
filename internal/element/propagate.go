package element

import (
	"slices"

	"github.com/dshills/panelkit/internal/event"
)

// Propagate runs env through its target's ancestry.
//
// The path is captured before any handler runs, so handlers that move or
// remove elements do not change who receives this envelope. Phases:
// trickle-down from the root to the target's parent, at-target, then
// bubble-up from the parent to the root for bubbling kinds. Stop flags are
// checked between elements; StopImmediatePropagation also skips the
// remaining handlers of the current element. Default actions run on the
// target unless PreventDefault was called.
//
// Envelopes whose target is not an *Element are ignored.
func Propagate(env *event.Envelope) {
	target, ok := env.Target.(*Element)
	if !ok || target == nil {
		return
	}

	path := target.Path()
	defer func() {
		env.Phase = event.PhaseNone
		env.CurrentTarget = nil
	}()

	if event.TricklesDown(env.Kind) {
		env.Phase = event.PhaseTrickleDown
		for _, el := range path[:len(path)-1] {
			invoke(el, env)
			if env.IsPropagationStopped() {
				break
			}
		}
	}

	if !env.IsPropagationStopped() {
		env.Phase = event.PhaseAtTarget
		invoke(target, env)
	}

	if event.Bubbles(env.Kind) {
		env.Phase = event.PhaseBubbleUp
		for i := len(path) - 2; i >= 0 && !env.IsPropagationStopped(); i-- {
			invoke(path[i], env)
		}
	}

	if !env.IsDefaultPrevented() {
		env.Phase = event.PhaseDefaultAction
		invoke(target, env)
	}
}

func invoke(el *Element, env *event.Envelope) {
	if len(el.handlers) == 0 {
		return
	}
	env.CurrentTarget = el
	for _, h := range slices.Clone(el.handlers) {
		if env.IsImmediatePropagationStopped() && env.Phase != event.PhaseDefaultAction {
			return
		}
		if h.Handles(env.Phase, env.Kind) {
			h.Invoke(env)
		}
	}
}
