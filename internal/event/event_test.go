package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panelkit/internal/event/topic"
)

type namedTarget string

func (n namedTarget) TargetName() string { return string(n) }

func TestPoolGet_StartsWithOneHold(t *testing.T) {
	pool := NewPool()

	env := pool.Get(KindClick)

	assert.Equal(t, KindClick, env.Kind)
	assert.Equal(t, 1, env.Holds())
	assert.True(t, env.Alive())
	assert.False(t, env.Received())
	assert.False(t, env.Timestamp.IsZero())
	assert.EqualValues(t, 1, pool.Live())
}

func TestEnvelope_HoldDiscipline(t *testing.T) {
	pool := NewPool()
	env := pool.Get(KindPointerDown)

	require.NoError(t, env.Acquire())
	assert.Equal(t, 2, env.Holds())

	require.NoError(t, env.Release())
	assert.True(t, env.Alive())
	assert.EqualValues(t, 1, pool.Live())

	require.NoError(t, env.Release())
	assert.False(t, env.Alive())
	assert.EqualValues(t, 0, pool.Live())

	assert.ErrorIs(t, env.Release(), ErrEnvelopeReleased)
	assert.ErrorIs(t, env.Acquire(), ErrEnvelopeReleased)
}

func TestEnvelope_LiteralIsNotAlive(t *testing.T) {
	env := &Envelope{Kind: KindClick}

	assert.False(t, env.Alive())
	assert.ErrorIs(t, env.Acquire(), ErrEnvelopeReleased)
}

func TestEnvelope_ResetOnLastRelease(t *testing.T) {
	pool := NewPool()
	env := pool.Get(KindFocusIn)
	env.Target = namedTarget("a")
	env.MarkReceived()
	env.StopPropagation()

	require.NoError(t, env.Release())

	assert.Nil(t, env.Target)
	assert.False(t, env.Received())
	assert.False(t, env.IsPropagationStopped())
}

func TestEnvelope_SequenceIncreases(t *testing.T) {
	pool := NewPool()
	a := pool.Get(KindClick)
	b := pool.Get(KindClick)

	assert.Less(t, a.Sequence(), b.Sequence())
}

func TestEnvelope_PropagationFlags(t *testing.T) {
	env := New(KindClick, namedTarget("btn"))
	defer func() { _ = env.Release() }()

	env.StopPropagation()
	assert.True(t, env.IsPropagationStopped())
	assert.False(t, env.IsImmediatePropagationStopped())

	env.StopImmediatePropagation()
	assert.True(t, env.IsImmediatePropagationStopped())

	env.PreventDefault()
	assert.True(t, env.IsDefaultPrevented())
}

func TestEnvelope_IsRepaint(t *testing.T) {
	tests := []struct {
		name     string
		kind     topic.Topic
		platform *PlatformEvent
		want     bool
	}{
		{"repaint paint", KindPaint, &PlatformEvent{Type: PlatformRepaint}, true},
		{"layout paint", KindPaint, &PlatformEvent{Type: PlatformLayout}, false},
		{"paint without platform", KindPaint, nil, false},
		{"click with repaint platform", KindClick, &PlatformEvent{Type: PlatformRepaint}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &Envelope{Kind: tt.kind, Platform: tt.platform}
			assert.Equal(t, tt.want, env.IsRepaint())
		})
	}
}

func TestEnvelope_Payloads(t *testing.T) {
	env := New(KindPointerDown, nil)
	defer func() { _ = env.Release() }()

	_, ok := env.Pointer()
	assert.False(t, ok)

	env.Payload = PointerPayload{Button: ButtonLeft, Position: Position{X: 2, Y: 3}}
	p, ok := env.Pointer()
	require.True(t, ok)
	assert.Equal(t, ButtonLeft, p.Button)

	_, ok = env.Key()
	assert.False(t, ok)
}

func TestBubbles(t *testing.T) {
	assert.True(t, Bubbles(KindFocusIn))
	assert.True(t, Bubbles(KindFocusOut))
	assert.False(t, Bubbles(KindFocusBlur))
	assert.False(t, Bubbles(KindFocusFocus))
	assert.True(t, Bubbles(KindClick))
	assert.False(t, TricklesDown(KindPaint))
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, "<nil>", NameOf(nil))
	assert.Equal(t, "btn", NameOf(namedTarget("btn")))
}

func TestPosition_Distance(t *testing.T) {
	assert.Equal(t, 7, Position{X: 1, Y: 1}.Distance(Position{X: 4, Y: 5}))
}

func TestModifier_Has(t *testing.T) {
	m := ModCtrl | ModShift
	assert.True(t, m.Has(ModCtrl))
	assert.False(t, m.Has(ModAlt))
}

func TestModifier_Bits(t *testing.T) {
	assert.Equal(t, []Modifier{1, 2, 4, 8}, []Modifier{ModShift, ModCtrl, ModAlt, ModMeta})
	assert.True(t, ModNone.Has(ModNone))
	assert.False(t, ModNone.Has(ModShift))
}
