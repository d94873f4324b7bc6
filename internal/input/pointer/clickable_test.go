package pointer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
	"github.com/dshills/panelkit/internal/event/topic"
	"github.com/dshills/panelkit/internal/scheduler"
)

type owner string

func (o owner) ID() string { return string(o) }

// fakeHost is a bare panel: envelopes go straight to their target, pointer
// envelopes follow capture, and everything seen at the root is logged.
type fakeHost struct {
	root    *element.Element
	engine  *dispatch.Engine
	sched   *scheduler.Scheduler
	now     time.Time
	capture map[int]*element.Element
	log     []string
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		root:    element.New("root", element.WithBounds(element.Rect{W: 80, H: 24})),
		engine:  dispatch.NewEngine(),
		now:     time.Unix(1000, 0),
		capture: map[int]*element.Element{},
	}
	h.sched = scheduler.New(scheduler.WithClock(func() time.Time { return h.now }))
	h.root.SetOwner(owner("fake"))
	h.root.AddHandler(&element.Callback{
		Pattern: "**",
		Phases:  element.TrickleDown | element.AtTarget,
		Fn: func(env *event.Envelope) {
			h.log = append(h.log, env.Kind.String())
		},
	})
	return h
}

func (h *fakeHost) PreDispatch(env *event.Envelope) {
	if p, ok := env.Pointer(); ok && env.Kind != event.KindClick {
		if el := h.capture[p.PointerID]; el != nil {
			env.Target = el
		}
	}
}
func (h *fakeHost) Propagate(env *event.Envelope)     { element.Propagate(env) }
func (h *fakeHost) PostDispatch(env *event.Envelope)  {}
func (h *fakeHost) Interceptor() dispatch.Interceptor { return nil }

func (h *fakeHost) CapturePointer(id int, el *element.Element) {
	h.capture[id] = el
	h.send(event.New(event.KindPointerCapture, el))
}

func (h *fakeHost) ReleasePointer(id int, el *element.Element) {
	if h.capture[id] != el {
		return
	}
	delete(h.capture, id)
	h.send(event.New(event.KindPointerCaptureLost, el))
}

func (h *fakeHost) CapturedBy(id int) *element.Element { return h.capture[id] }

func (h *fakeHost) SendEvent(env *event.Envelope) error {
	return h.engine.Dispatch(env, h, dispatch.Queued)
}

func (h *fakeHost) Engine() *dispatch.Engine        { return h.engine }
func (h *fakeHost) Scheduler() *scheduler.Scheduler { return h.sched }

func (h *fakeHost) send(env *event.Envelope) {
	_ = h.SendEvent(env)
	_ = env.Release()
}

func (h *fakeHost) pointer(kind topic.Topic, target *element.Element, x, y int, b event.Button) {
	env := event.New(kind, target)
	env.Payload = event.PointerPayload{Position: event.Position{X: x, Y: y}, Button: b}
	h.send(env)
}

func (h *fakeHost) tick(d time.Duration) {
	h.now = h.now.Add(d)
	h.sched.Tick(h.now)
}

func newButton(h *fakeHost) *element.Element {
	btn := element.New("button", element.WithBounds(element.Rect{X: 2, Y: 2, W: 10, H: 1}))
	h.root.Add(btn)
	return btn
}

func TestClickable_PressRelease(t *testing.T) {
	h := newFakeHost()
	btn := newButton(h)
	c := NewClickable(h, btn)

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	assert.True(t, c.Active())
	assert.True(t, btn.HasPseudoState(element.StateActive))
	assert.Equal(t, btn, h.CapturedBy(0))
	assert.Equal(t, 0, c.Clicks(), "non-repeatable clickables fire on release")

	h.pointer(event.KindPointerUp, btn, 4, 2, event.ButtonLeft)

	assert.Equal(t, []string{
		"pointer.down",
		"pointer.capture",
		"pointer.up",
		"pointer.capture.lost",
		"click",
	}, h.log)
	assert.False(t, c.Active())
	assert.False(t, btn.HasPseudoState(element.StateActive))
	assert.Nil(t, h.CapturedBy(0))
	assert.Equal(t, 1, c.Clicks())
}

func TestClickable_ReleaseOutside(t *testing.T) {
	h := newFakeHost()
	btn := newButton(h)
	c := NewClickable(h, btn)

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	h.pointer(event.KindPointerMove, h.root, 30, 10, event.ButtonLeft)
	assert.False(t, btn.HasPseudoState(element.StateActive))

	h.pointer(event.KindPointerUp, h.root, 30, 10, event.ButtonLeft)

	assert.Equal(t, 0, c.Clicks())
	assert.NotContains(t, h.log, "click")
	assert.Nil(t, h.CapturedBy(0))
}

func TestClickable_Repeatable(t *testing.T) {
	h := newFakeHost()
	btn := newButton(h)
	c := NewClickable(h, btn, Repeatable(300*time.Millisecond, 50*time.Millisecond))

	var clicks int
	btn.On(event.KindClick, func(env *event.Envelope) { clicks++ })

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	assert.Equal(t, 1, clicks, "fires on press")

	h.tick(100 * time.Millisecond)
	assert.Equal(t, 1, clicks)

	h.tick(200 * time.Millisecond)
	h.tick(50 * time.Millisecond)
	assert.Equal(t, 3, clicks)

	h.pointer(event.KindPointerMove, btn, 40, 20, event.ButtonLeft)
	h.tick(50 * time.Millisecond)
	assert.Equal(t, 3, clicks, "no repeat while the pointer is outside")

	h.pointer(event.KindPointerMove, btn, 5, 2, event.ButtonLeft)
	h.tick(50 * time.Millisecond)
	assert.Equal(t, 4, clicks)

	h.pointer(event.KindPointerUp, btn, 5, 2, event.ButtonLeft)
	h.tick(time.Second)
	assert.Equal(t, 4, clicks, "release neither clicks nor repeats")
	assert.Equal(t, 4, c.Clicks())

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	h.tick(300 * time.Millisecond)
	assert.Equal(t, 6, clicks, "a second press reuses the repeat item")
	assert.Equal(t, 1, h.sched.Len())
}

func TestClickable_IgnoresDisabledAndOtherButtons(t *testing.T) {
	h := newFakeHost()
	btn := newButton(h)
	c := NewClickable(h, btn)

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonRight)
	assert.False(t, c.Active())

	btn.SetEnabled(false)
	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	assert.False(t, c.Active())
	assert.Nil(t, h.CapturedBy(0))
}

func TestClickable_CaptureStolen(t *testing.T) {
	h := newFakeHost()
	btn := newButton(h)
	c := NewClickable(h, btn)

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	require.True(t, c.Active())

	h.ReleasePointer(0, btn)

	assert.False(t, c.Active())
	assert.False(t, btn.HasPseudoState(element.StateActive))
}

func TestClickable_Detach(t *testing.T) {
	h := newFakeHost()
	btn := newButton(h)
	c := NewClickable(h, btn, Repeatable(0, 10*time.Millisecond))

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	c.Detach()

	assert.Equal(t, 0, btn.HandlerCount())
	assert.Nil(t, h.CapturedBy(0))
	assert.Equal(t, 0, h.sched.Len())

	h.pointer(event.KindPointerDown, btn, 3, 2, event.ButtonLeft)
	assert.False(t, c.Active())
}
