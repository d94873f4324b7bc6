package focus

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
	"github.com/dshills/panelkit/internal/metrics"
)

type owner string

func (o owner) ID() string { return string(o) }

// harness is a minimal panel: it forwards commits to the controller and
// records every focus envelope seen at the root.
type harness struct {
	root   *element.Element
	engine *dispatch.Engine
	ctrl   *Controller
	log    []string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	root := element.New("root")
	root.SetOwner(owner(t.Name()))
	h := &harness{root: root, engine: dispatch.NewEngine()}
	h.ctrl = New(root, h.engine, h, opts...)
	root.AddHandler(&element.Callback{
		Pattern: "focus.*",
		Phases:  element.TrickleDown | element.AtTarget,
		Fn: func(env *event.Envelope) {
			h.log = append(h.log, fmt.Sprintf("%s %s", env.Kind, event.NameOf(env.Target)))
		},
	})
	return h
}

func (h *harness) PreDispatch(env *event.Envelope)      { h.ctrl.ProcessPending(env) }
func (h *harness) Propagate(env *event.Envelope)        { element.Propagate(env) }
func (h *harness) PostDispatch(env *event.Envelope)     {}
func (h *harness) Interceptor() dispatch.Interceptor    { return nil }
func (h *harness) add(els ...*element.Element) *harness { h.root.Add(els...); return h }

func (h *harness) focus(t *testing.T, el *element.Element) {
	t.Helper()
	require.NoError(t, h.ctrl.RequestFocus(el, event.DirectionNone, false, dispatch.Queued))
}

func (h *harness) reset() { h.log = nil }

func assertLog(t *testing.T, want, got []string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("focus envelopes mismatch (-want +got):\n%s", diff)
	}
}

// assertSingleOwner checks that leaf is the only committed focus and that
// the focused pseudo state is set exactly on the records.
func assertSingleOwner(t *testing.T, h *harness, leaf *element.Element) {
	t.Helper()
	assert.Equal(t, Idle, h.ctrl.State())
	assert.Equal(t, leaf, h.ctrl.FocusedLeaf())
	assert.Equal(t, leaf, h.ctrl.FocusedElement())

	onPath := map[*element.Element]bool{}
	for _, r := range h.ctrl.Records() {
		onPath[r.Leaf] = true
	}
	h.root.Walk(func(el *element.Element) bool {
		assert.Equal(t, onPath[el], el.HasPseudoState(element.StateFocused), "focused flag on %s", el.Name())
		assert.Equal(t, onPath[el], h.ctrl.IsFocused(el), "IsFocused(%s)", el.Name())
		return true
	})
}

func TestRequestFocus_EventSequence(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	h.add(x, y)

	h.focus(t, x)
	assertLog(t, []string{"focus.in x", "focus.focus x"}, h.log)

	h.reset()
	h.focus(t, y)
	assertLog(t, []string{
		"focus.out x",
		"focus.in y",
		"focus.blur x",
		"focus.focus y",
	}, h.log)
	assertSingleOwner(t, h, y)

	h.reset()
	h.focus(t, nil)
	assertLog(t, []string{"focus.out y", "focus.blur y"}, h.log)
	assertSingleOwner(t, h, nil)
}

func TestRequestFocus_RelatedTargets(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	h.add(x, y)
	h.focus(t, x)

	related := map[string]string{}
	h.root.AddHandler(&element.Callback{
		Pattern: "focus.*",
		Phases:  element.TrickleDown | element.AtTarget,
		Fn: func(env *event.Envelope) {
			related[env.Kind.String()] = event.NameOf(env.RelatedTarget)
		},
	})
	h.focus(t, y)

	assert.Equal(t, map[string]string{
		"focus.out":   "y",
		"focus.in":    "x",
		"focus.blur":  "y",
		"focus.focus": "x",
	}, related)
}

func TestRequestFocus_SameTargetIsNoop(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	h.add(x)
	h.focus(t, x)
	h.reset()

	h.focus(t, x)

	assert.Empty(t, h.log)
	assert.Equal(t, 0, h.ctrl.PendingCount())
}

func TestRequestFocus_IneligibleTargetClearsFocus(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	disabled := element.New("disabled", element.Focusable(), element.Disabled())
	h.add(x, disabled)
	h.focus(t, x)
	h.reset()

	h.focus(t, disabled)

	assertLog(t, []string{"focus.out x", "focus.blur x"}, h.log)
	assertSingleOwner(t, h, nil)
}

func TestRequestFocus_Immediate(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	h.add(x)

	gate := dispatch.NewGate(h.engine)
	require.NoError(t, h.ctrl.RequestFocus(x, event.DirectionNone, false, dispatch.Immediate))

	assertLog(t, []string{"focus.in x", "focus.focus x"}, h.log)
	assert.Equal(t, Idle, h.ctrl.State())
	gate.Release()
}

func TestRequestFocus_PendingViewDuringTransition(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	h.add(x, y)
	h.focus(t, x)

	var state State
	var seen *element.Element
	x.On(event.KindFocusOut, func(env *event.Envelope) {
		state = h.ctrl.State()
		seen = h.ctrl.FocusedElement()
	})
	h.focus(t, y)

	assert.Equal(t, InFlight, state)
	assert.Equal(t, y, seen)
	assert.Equal(t, Idle, h.ctrl.State())
}

func TestRequestFocus_ReentrantFromPreNotification(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	z := element.New("z", element.Focusable())
	h.add(x, y, z)
	h.focus(t, x)
	h.reset()

	redirected := false
	x.On(event.KindFocusOut, func(env *event.Envelope) {
		if redirected {
			return
		}
		redirected = true
		assert.NoError(t, h.ctrl.RequestFocus(z, event.DirectionNone, false, dispatch.Queued))
	})
	h.focus(t, y)

	assertLog(t, []string{
		"focus.out x",
		"focus.out y",
		"focus.in z",
		"focus.blur y",
		"focus.focus z",
		"focus.in y",
		"focus.blur x",
		"focus.focus y",
	}, h.log)
	assertSingleOwner(t, h, z)
	assert.Equal(t, z, h.ctrl.FocusedElement())
}

func TestRequestFocus_ReentrantImmediate(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	z := element.New("z", element.Focusable())
	h.add(x, y, z)
	h.focus(t, x)

	redirected := false
	x.On(event.KindFocusOut, func(env *event.Envelope) {
		if redirected {
			return
		}
		redirected = true
		assert.NoError(t, h.ctrl.RequestFocus(z, event.DirectionNone, false, dispatch.Immediate))
	})
	require.NoError(t, h.ctrl.RequestFocus(y, event.DirectionNone, false, dispatch.Immediate))

	assertSingleOwner(t, h, z)
	assert.Equal(t, 0, h.ctrl.PendingCount())
}

func TestRequestFocus_Delegated(t *testing.T) {
	h := newHarness(t)
	composite := element.New("composite", element.Focusable(), element.DelegatesFocus())
	label := element.New("label")
	inner := element.New("inner", element.Focusable())
	h.add(composite.Add(label, inner))

	var delegated bool
	inner.On(event.KindFocusFocus, func(env *event.Envelope) {
		p, _ := env.Payload.(event.FocusPayload)
		delegated = p.Delegated
	})
	h.focus(t, composite)

	assertSingleOwner(t, h, inner)
	assert.True(t, delegated)
	assert.Equal(t, []Record{
		{Scope: composite, Leaf: inner},
		{Scope: h.root, Leaf: composite},
	}, h.ctrl.Records())
}

func TestRequestFocus_DelegationSkipsNestedScopes(t *testing.T) {
	h := newHarness(t)
	composite := element.New("composite", element.Focusable(), element.DelegatesFocus())
	nested := element.New("nested", element.CompositeBoundary())
	slot := element.New("slot", element.ContentContainer())
	group := element.New("group")
	target := element.New("target", element.Focusable())
	h.add(composite.Add(
		nested.Add(element.New("in-nested", element.Focusable())),
		slot.Add(element.New("in-slot", element.Focusable())),
		group.Add(target),
	))

	h.focus(t, composite)

	assert.Equal(t, target, h.ctrl.FocusedLeaf())
}

func TestRequestFocus_DelegationFallsBackToRoot(t *testing.T) {
	h := newHarness(t)
	composite := element.New("composite", element.Focusable(), element.DelegatesFocus())
	h.add(composite.Add(element.New("disabled", element.Focusable(), element.Disabled())))

	h.focus(t, composite)

	assertSingleOwner(t, h, composite)
}

func TestRequestFocus_CompositeRetargeting(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	composite := element.New("composite", element.Focusable(), element.CompositeBoundary())
	y := element.New("y", element.Focusable())
	h.add(x, composite.Add(y))
	h.focus(t, x)

	var outRelated string
	x.On(event.KindFocusOut, func(env *event.Envelope) {
		outRelated = event.NameOf(env.RelatedTarget)
	})
	h.reset()
	h.focus(t, y)

	assertLog(t, []string{
		"focus.out x",
		"focus.in y",
		"focus.blur x",
		"focus.focus y",
		"focus.focus composite",
	}, h.log)
	assert.Equal(t, "composite", outRelated, "inside of a composite is hidden from outside")
	assertSingleOwner(t, h, y)
	assert.Equal(t, y, h.ctrl.FocusedIn(composite))
	assert.Equal(t, composite, h.ctrl.FocusedIn(h.root))
	assert.Equal(t, composite, h.ctrl.RetargetedFocus(x))
	assert.Equal(t, y, h.ctrl.RetargetedFocus(y))
}

func TestQueries_StaleCrossPanelReference(t *testing.T) {
	h := newHarness(t)
	y := element.New("y", element.Focusable())
	h.add(y)
	h.focus(t, y)

	other := element.New("other-root")
	other.SetOwner(owner("other"))
	other.Add(y)

	assert.False(t, h.ctrl.IsFocused(y))
	assert.Nil(t, h.ctrl.FocusedLeaf())
	assert.Nil(t, h.ctrl.FocusedElement())
	assert.Nil(t, h.ctrl.RetargetedFocus(h.root))
	assert.ErrorIs(t, h.ctrl.RequestFocus(y, event.DirectionNone, false, dispatch.Queued), ErrForeignElement)

	h.ctrl.ReconcileAfterDetach()
	assert.Empty(t, h.ctrl.Records())
	assert.False(t, y.HasPseudoState(element.StateFocused))
}

func TestReconcileAfterDetach_Hidden(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	h.add(x)
	h.focus(t, x)

	h.ctrl.ReconcileAfterDetach()
	assert.Equal(t, x, h.ctrl.FocusedLeaf())

	x.SetDisplayed(false)
	h.reset()
	h.ctrl.ReconcileAfterDetach()

	assertLog(t, []string{"focus.out x", "focus.blur x"}, h.log)
	assert.Nil(t, h.ctrl.FocusedLeaf())
}

func TestBlur(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	h.add(x, y)
	h.focus(t, x)

	h.ctrl.Blur(y)
	assert.Equal(t, x, h.ctrl.FocusedLeaf())

	h.ctrl.Blur(x)
	assert.Nil(t, h.ctrl.FocusedLeaf())
}

func TestRequestFocus_DetachedTargetClearsFocus(t *testing.T) {
	h := newHarness(t)
	x := element.New("x", element.Focusable())
	h.add(x)
	h.focus(t, x)

	h.focus(t, element.New("loose", element.Focusable()))

	assert.Nil(t, h.ctrl.FocusedLeaf())
}

func TestWatchdog_RecoversAbandonedTransition(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry(), "watchdog")
	require.NoError(t, err)
	h := newHarness(t, WithMetrics(m))
	x := element.New("x", element.Focusable())
	y := element.New("y", element.Focusable())
	h.add(x, y)
	h.focus(t, x)

	x.On(event.KindFocusOut, func(env *event.Envelope) {
		panic("handler failed")
	})
	assert.PanicsWithValue(t, "handler failed", func() {
		_ = h.ctrl.RequestFocus(y, event.DirectionNone, false, dispatch.Queued)
	})

	require.Equal(t, InFlight, h.ctrl.State())
	require.False(t, h.engine.ProcessingEvents())

	assert.True(t, h.ctrl.Watchdog())
	assert.Equal(t, Idle, h.ctrl.State())
	assert.False(t, h.ctrl.Watchdog())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WatchdogRecoveries))
}

func TestWatchdog_Disabled(t *testing.T) {
	h := newHarness(t, WithWatchdog(false))
	x := element.New("x", element.Focusable())
	h.add(x)

	h.ctrl.pendingCount = 1
	assert.False(t, h.ctrl.Watchdog())
	assert.Equal(t, 1, h.ctrl.PendingCount())
}

func TestEligibleAncestorForClick(t *testing.T) {
	h := newHarness(t)
	panel := element.New("panel", element.Focusable())
	button := element.New("button", element.Focusable(), element.Disabled())
	label := element.New("label")
	field := element.New("field", element.Focusable())
	h.add(panel.Add(button, label), field)

	el, move := h.ctrl.EligibleAncestorForClick(button)
	assert.Equal(t, panel, el)
	assert.True(t, move)

	el, move = h.ctrl.EligibleAncestorForClick(label)
	assert.Equal(t, panel, el)
	assert.True(t, move)

	el, move = h.ctrl.EligibleAncestorForClick(field)
	assert.Equal(t, field, el)
	assert.True(t, move)

	h.focus(t, panel)
	_, move = h.ctrl.EligibleAncestorForClick(button)
	assert.False(t, move, "already focused")

	panel.SetReceivesFocusFromDisabledChild(false)
	el, move = h.ctrl.EligibleAncestorForClick(button)
	assert.Nil(t, el)
	assert.True(t, move, "clicking nothing focusable clears focus")

	el, move = h.ctrl.EligibleAncestorForClick(element.New("loose"))
	assert.Nil(t, el)
	assert.False(t, move)
}
