package panel

import (
	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
)

// PreDispatch implements dispatch.Host.
func (p *Panel) PreDispatch(env *event.Envelope) {
	p.focus.ProcessPending(env)

	if isPointerInput(env) {
		p.preparePointer(env)
	}
	if env.Target == nil {
		env.Target = p.resolveTarget(env)
	}
}

func isPointerInput(env *event.Envelope) bool {
	switch env.Kind {
	case event.KindPointerDown, event.KindPointerUp, event.KindPointerMove:
		return true
	}
	return false
}

// preparePointer tracks the pointer, numbers presses and routes captured
// pointers to their capturing element.
func (p *Panel) preparePointer(env *event.Envelope) {
	pp, ok := env.Pointer()
	if !ok {
		return
	}
	p.pointerPos = pp.Position

	if env.Kind == event.KindPointerDown {
		pp.ClickCount = p.clicks.Record(pp.Position, env.Timestamp)
		env.Payload = pp
	}

	if el := p.capture[pp.PointerID]; el != nil {
		env.Target = el
		return
	}
	if env.Target == nil {
		if hit := p.HitTest(pp.Position.X, pp.Position.Y); hit != nil {
			env.Target = hit
		}
	}
}

// resolveTarget picks a target for envelopes raised without one: keyboard
// input goes to the focused leaf, everything else to the root.
func (p *Panel) resolveTarget(env *event.Envelope) event.Target {
	switch env.Kind {
	case event.KindKeyDown, event.KindKeyUp, event.KindNavigation, event.KindCommand:
		if leaf := p.focus.FocusedLeaf(); leaf != nil {
			return leaf
		}
	}
	return p.root
}

// Propagate implements dispatch.Host.
func (p *Panel) Propagate(env *event.Envelope) {
	element.Propagate(env)
	if !env.IsDefaultPrevented() {
		p.defaultAction(env)
	}
}

func (p *Panel) defaultAction(env *event.Envelope) {
	switch env.Kind {
	case event.KindPointerDown:
		target, ok := env.Target.(*element.Element)
		if !ok {
			return
		}
		if el, move := p.focus.EligibleAncestorForClick(target); move {
			if err := p.focus.RequestFocus(el, event.DirectionNone, false, dispatch.Queued); err != nil {
				p.logger.Debug().Err(err).Str("target", target.Name()).Msg("click to focus refused")
			}
		}

	case event.KindNavigation:
		if env.Direction != event.DirectionNone {
			p.focus.FocusNext(env.Direction)
		}

	case event.KindResize:
		if rp, ok := env.Payload.(event.ResizePayload); ok {
			b := p.root.Bounds()
			b.W, b.H = rp.Width, rp.Height
			p.root.SetBounds(b)
		}
	}
}

// PostDispatch implements dispatch.Host.
func (p *Panel) PostDispatch(env *event.Envelope) {
	if env.Platform != nil && env.IsPropagationStopped() {
		env.Platform.Use()
	}
	p.dirty = true
}

// Interceptor implements dispatch.Host.
func (p *Panel) Interceptor() dispatch.Interceptor {
	return p.interceptor
}
