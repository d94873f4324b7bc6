package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/panelkit/internal/config"
	"github.com/dshills/panelkit/internal/event"
)

func TestUpdate_FrameOrder(t *testing.T) {
	var frame []string
	h := newHarness(t,
		WithLayout(LayoutFunc(func() { frame = append(frame, "layout") })),
		WithRepainter(RepainterFunc(func() { frame = append(frame, "repaint") })),
	)
	h.p.Scheduler().Schedule(func(time.Time) { frame = append(frame, "timer") }, 0, 0)

	h.advance(time.Millisecond)
	assert.Equal(t, []string{"timer", "layout", "repaint"}, frame)

	frame = nil
	h.advance(time.Millisecond)
	assert.Equal(t, []string{"layout"}, frame, "nothing processed, nothing to repaint")

	frame = nil
	h.send(event.New(event.KindKeyDown, nil))
	assert.True(t, h.p.Dirty())
	h.advance(time.Millisecond)
	assert.Equal(t, []string{"layout", "repaint"}, frame)
	assert.False(t, h.p.Dirty())
}

func TestUpdate_RepaintNotificationsAreDropped(t *testing.T) {
	repaints := 0
	h := newHarness(t, WithRepainter(RepainterFunc(func() { repaints++ })))
	h.advance(time.Millisecond)
	repaints = 0

	env := event.New(event.KindPaint, nil)
	env.Platform = &event.PlatformEvent{Type: event.PlatformRepaint}
	h.send(env)
	h.advance(time.Millisecond)

	assert.Equal(t, 0, repaints)
	assert.Equal(t, uint64(1), h.p.Engine().Stats().Dropped)
}

func TestApplyConfig(t *testing.T) {
	h := newHarness(t)

	cfg := config.Default()
	cfg.Dispatch.Ceiling = 200
	cfg.Focus.Watchdog = false
	h.p.ApplyConfig(cfg)
	assert.Equal(t, 128, h.p.Engine().Limits().Ceiling, "applied on the next frame")

	h.advance(time.Millisecond)
	assert.Equal(t, 200, h.p.Engine().Limits().Ceiling)
	assert.Same(t, cfg, h.p.Config())

	bad := config.Default()
	bad.Dispatch.Ceiling = 1
	h.p.ApplyConfig(bad)
	h.advance(time.Millisecond)
	assert.Equal(t, 200, h.p.Engine().Limits().Ceiling)
	assert.Same(t, cfg, h.p.Config())

	h.p.ApplyConfig(nil)
	h.advance(time.Millisecond)
	assert.Same(t, cfg, h.p.Config())
}
