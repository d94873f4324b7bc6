package panel

import (
	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/topic"
)

// CapturePointer routes pointer id to el until it is released. A previous
// capture of the same pointer is released first.
func (p *Panel) CapturePointer(id int, el *element.Element) {
	if el == nil {
		return
	}
	prev := p.capture[id]
	if prev == el {
		return
	}
	if prev != nil {
		p.ReleasePointer(id, prev)
	}
	p.capture[id] = el
	p.raise(p.captureEnvelope(event.KindPointerCapture, id, el))
}

// ReleasePointer ends el's capture of pointer id. It does nothing if el
// does not hold the capture.
func (p *Panel) ReleasePointer(id int, el *element.Element) {
	if el == nil || p.capture[id] != el {
		return
	}
	delete(p.capture, id)
	p.raise(p.captureEnvelope(event.KindPointerCaptureLost, id, el))
}

// CapturedBy returns the element capturing pointer id, or nil.
func (p *Panel) CapturedBy(id int) *element.Element {
	return p.capture[id]
}

func (p *Panel) captureEnvelope(kind topic.Topic, id int, el *element.Element) *event.Envelope {
	env := event.New(kind, el)
	env.Payload = event.PointerPayload{PointerID: id, Position: p.pointerPos}
	return env
}
