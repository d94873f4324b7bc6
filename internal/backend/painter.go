package backend

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panelkit/internal/element"
)

// Painter draws an element tree as labelled rectangles. Focused elements
// are drawn reversed, pressed ones bold. It implements panel.Repainter.
type Painter struct {
	term *Terminal
	root *element.Element

	Base    tcell.Style
	Focused tcell.Style
	Active  tcell.Style
}

// NewPainter creates a painter for root on term.
func NewPainter(term *Terminal, root *element.Element) *Painter {
	return &Painter{
		term:    term,
		root:    root,
		Base:    tcell.StyleDefault,
		Focused: tcell.StyleDefault.Reverse(true),
		Active:  tcell.StyleDefault.Bold(true),
	}
}

// Repaint redraws the whole tree.
func (p *Painter) Repaint() {
	p.term.Clear()
	p.root.Walk(func(el *element.Element) bool {
		if !el.Displayed() {
			return false
		}
		if el != p.root {
			p.draw(el)
		}
		return true
	})
	p.term.Show()
}

func (p *Painter) draw(el *element.Element) {
	b := el.Bounds()
	if b.W <= 0 || b.H <= 0 {
		return
	}
	style := p.styleOf(el)
	if el.Focusable() || el.HandlerCount() > 0 {
		p.term.Fill(b, ' ', style)
	}
	label := el.Name()
	if !el.EnabledInHierarchy() {
		label = "(" + label + ")"
	}
	p.term.DrawText(b.X, b.Y, label, b.W, style)
}

func (p *Painter) styleOf(el *element.Element) tcell.Style {
	switch {
	case el.HasPseudoState(element.StateActive):
		return p.Active
	case el.HasPseudoState(element.StateFocused):
		return p.Focused
	default:
		return p.Base
	}
}
