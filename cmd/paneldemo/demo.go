package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panelkit/internal/backend"
	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/panel"
)

// demo is the sample tree: two buttons (one repeating), a composite field
// group that delegates focus, and a disabled button.
type demo struct {
	term    *backend.Terminal
	painter *backend.Painter
	p       *panel.Panel

	clicks  map[string]int
	lastKey string
	quit    bool
}

func (d *demo) build(p *panel.Panel) {
	d.p = p
	d.clicks = make(map[string]int)
	d.painter = backend.NewPainter(d.term, p.Root())

	ok := element.New("ok", element.Focusable(), element.WithBounds(element.Rect{X: 2, Y: 2, W: 12, H: 1}))
	spin := element.New("spin", element.Focusable(), element.WithBounds(element.Rect{X: 16, Y: 2, W: 12, H: 1}))
	off := element.New("disabled", element.Focusable(), element.Disabled(), element.WithBounds(element.Rect{X: 30, Y: 2, W: 12, H: 1}))

	fields := element.New("fields", element.Focusable(), element.DelegatesFocus(),
		element.WithBounds(element.Rect{X: 2, Y: 4, W: 40, H: 3}))
	first := element.New("first", element.Focusable(), element.WithBounds(element.Rect{X: 4, Y: 5, W: 16, H: 1}))
	second := element.New("second", element.Focusable(), element.WithBounds(element.Rect{X: 22, Y: 5, W: 16, H: 1}))
	fields.Add(first, second)

	for _, el := range []*element.Element{ok, spin, off, fields} {
		_ = p.Attach(nil, el)
	}

	p.Clickable(ok, false)
	p.Clickable(spin, true)
	p.Clickable(off, false)

	root := p.Root()
	root.On(event.KindClick, func(env *event.Envelope) {
		d.clicks[env.TargetLabel()]++
	})
	root.On(event.KindKeyDown, func(env *event.Envelope) {
		if k, ok := env.Key(); ok {
			d.lastKey = k.Key
			if k.Key == "Rune" {
				d.lastKey = string(k.Rune)
			}
		}
	})
	root.On(event.KindCommand, func(env *event.Envelope) {
		if c, ok := env.Payload.(event.CommandPayload); ok && c.Name == "quit" {
			d.quit = true
			env.StopPropagation()
		}
	})
}

func (d *demo) resize(p *panel.Panel, w, h int) {
	env := event.New(event.KindResize, p.Root())
	env.Payload = event.ResizePayload{Width: w, Height: h}
	_ = p.SendEvent(env)
	_ = env.Release()
}

func (d *demo) repaint() {
	if d.painter == nil {
		return
	}
	d.painter.Repaint()

	focused := "none"
	if el := d.p.Focused(); el != nil {
		focused = el.Name()
	}
	status := fmt.Sprintf("focus: %-8s clicks: ok=%d spin=%d  key: %s",
		focused, d.clicks["ok"], d.clicks["spin"], d.lastKey)
	d.term.DrawText(2, 8, status, 0, tcell.StyleDefault)
	d.term.DrawText(2, 10, "Tab/Shift-Tab: move focus   click: press buttons   q: quit", 0, tcell.StyleDefault.Dim(true))
	d.term.Show()
}

func bindKeys(tr *backend.Translator) {
	tr.Bind(tcell.KeyCtrlC, 0, "quit")
	tr.Bind(tcell.KeyRune, 'q', "quit")
}
