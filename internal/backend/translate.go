package backend

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/topic"
)

// HitTester finds the element under a cell.
type HitTester interface {
	HitTest(x, y int) *element.Element
}

// Sender accepts envelopes. *panel.Panel implements it.
type Sender interface {
	SendEvent(env *event.Envelope) error
}

type binding struct {
	key tcell.Key
	ch  rune
}

// Translator converts tcell events into envelopes. It remembers which
// buttons were held so it can tell presses from releases and drags.
//
// A Translator is not safe for concurrent use.
type Translator struct {
	hit      HitTester
	pool     *event.Pool
	buttons  tcell.ButtonMask
	lastPos  event.Position
	commands map[binding]string
}

// NewTranslator creates a translator. hit may be nil, in which case
// pointer envelopes carry no target and the panel resolves it.
func NewTranslator(hit HitTester) *Translator {
	return &Translator{
		hit:      hit,
		pool:     event.DefaultPool(),
		commands: make(map[binding]string),
	}
}

// Bind makes a key produce command.execute with the given name instead of
// key.down. For tcell.KeyRune, ch selects the rune.
func (t *Translator) Bind(key tcell.Key, ch rune, command string) {
	if key != tcell.KeyRune {
		ch = 0
	}
	t.commands[binding{key: key, ch: ch}] = command
}

// Translate returns the envelopes for ev, each holding one hold owned by
// the caller. Events the panel has no use for yield nothing.
func (t *Translator) Translate(ev tcell.Event) []*event.Envelope {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		return t.mouse(e)
	case *tcell.EventKey:
		return []*event.Envelope{t.key(e)}
	case *tcell.EventResize:
		return t.resize(e)
	default:
		// Focus, paste, interrupts and errors are not panel input.
		return nil
	}
}

// Deliver translates ev and sends every envelope to s, releasing them
// afterwards. It returns the errors of all failed sends.
func (t *Translator) Deliver(s Sender, ev tcell.Event) error {
	var errs []error
	for _, env := range t.Translate(ev) {
		if err := s.SendEvent(env); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", env.Kind, err))
		}
		_ = env.Release()
	}
	return errors.Join(errs...)
}

var trackedButtons = []struct {
	mask   tcell.ButtonMask
	button event.Button
}{
	{tcell.ButtonPrimary, event.ButtonLeft},
	{tcell.ButtonMiddle, event.ButtonMiddle},
	{tcell.ButtonSecondary, event.ButtonRight},
}

func (t *Translator) mouse(e *tcell.EventMouse) []*event.Envelope {
	x, y := e.Position()
	pos := event.Position{X: x, Y: y}
	held := e.Buttons() & (tcell.ButtonPrimary | tcell.ButtonMiddle | tcell.ButtonSecondary)
	mods := convertMod(e.Modifiers())

	var out []*event.Envelope
	for _, tb := range trackedButtons {
		was := t.buttons&tb.mask != 0
		is := held&tb.mask != 0
		switch {
		case is && !was:
			out = append(out, t.pointer(e, event.KindPointerDown, pos, tb.button, mods))
		case was && !is:
			out = append(out, t.pointer(e, event.KindPointerUp, pos, tb.button, mods))
		}
	}

	if len(out) == 0 && pos != t.lastPos {
		out = append(out, t.pointer(e, event.KindPointerMove, pos, primaryButton(held), mods))
	}

	t.buttons = held
	t.lastPos = pos
	return out
}

func primaryButton(held tcell.ButtonMask) event.Button {
	for _, tb := range trackedButtons {
		if held&tb.mask != 0 {
			return tb.button
		}
	}
	return event.ButtonNone
}

func (t *Translator) pointer(src tcell.Event, kind topic.Topic, pos event.Position, b event.Button, mods event.Modifier) *event.Envelope {
	env := t.envelope(src, kind, event.PlatformInput)
	if t.hit != nil {
		if el := t.hit.HitTest(pos.X, pos.Y); el != nil {
			env.Target = el
		}
	}
	env.Payload = event.PointerPayload{Position: pos, Button: b, Modifiers: mods}
	return env
}

func (t *Translator) key(e *tcell.EventKey) *event.Envelope {
	if name, ok := t.commands[bindingOf(e)]; ok {
		env := t.envelope(e, event.KindCommand, event.PlatformInput)
		env.Payload = event.CommandPayload{Name: name}
		return env
	}

	mods := convertMod(e.Modifiers())
	switch {
	case e.Key() == tcell.KeyBacktab, e.Key() == tcell.KeyTab && mods.Has(event.ModShift):
		env := t.envelope(e, event.KindNavigation, event.PlatformInput)
		env.Direction = event.DirectionPrevious
		return env
	case e.Key() == tcell.KeyTab:
		env := t.envelope(e, event.KindNavigation, event.PlatformInput)
		env.Direction = event.DirectionNext
		return env
	}

	env := t.envelope(e, event.KindKeyDown, event.PlatformInput)
	env.Payload = event.KeyPayload{Key: keyName(e.Key()), Rune: e.Rune(), Modifiers: mods}
	return env
}

func bindingOf(e *tcell.EventKey) binding {
	if e.Key() == tcell.KeyRune {
		return binding{key: tcell.KeyRune, ch: e.Rune()}
	}
	return binding{key: e.Key()}
}

func (t *Translator) resize(e *tcell.EventResize) []*event.Envelope {
	w, h := e.Size()
	paint := t.envelope(e, event.KindPaint, event.PlatformRepaint)
	resize := t.envelope(e, event.KindResize, event.PlatformLayout)
	resize.Payload = event.ResizePayload{Width: w, Height: h}
	return []*event.Envelope{paint, resize}
}

func (t *Translator) envelope(src tcell.Event, kind topic.Topic, pt event.PlatformType) *event.Envelope {
	env := t.pool.Get(kind)
	if when := src.When(); !when.IsZero() {
		env.Timestamp = when
	}
	env.Platform = &event.PlatformEvent{Type: pt, Raw: src}
	return env
}

func keyName(k tcell.Key) string {
	if k == tcell.KeyRune {
		return "Rune"
	}
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key[%d]", int(k))
}

func convertMod(m tcell.ModMask) event.Modifier {
	var result event.Modifier
	if m&tcell.ModShift != 0 {
		result |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= event.ModMeta
	}
	return result
}
