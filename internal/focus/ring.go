package focus

import (
	"slices"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/dispatch"
)

// Ring returns the focus ring of root: elements with a positive tab index
// in ascending order, then elements with tab index zero in tree order.
// Elements that are not focusable or have a negative tab index are left out.
func Ring(root *element.Element) []*element.Element {
	var positive, natural []*element.Element
	root.Walk(func(el *element.Element) bool {
		if !el.Focusable() {
			return true
		}
		switch {
		case el.TabIndex() > 0:
			positive = append(positive, el)
		case el.TabIndex() == 0:
			natural = append(natural, el)
		}
		return true
	})
	slices.SortStableFunc(positive, func(a, b *element.Element) int {
		return a.TabIndex() - b.TabIndex()
	})
	return append(positive, natural...)
}

// Next returns the element after from in ring, wrapping around. Elements
// that cannot take focus now, and elements enclosing from, are skipped.
// A from outside the ring starts at the ring's edge.
func Next(ring []*element.Element, from *element.Element, dir event.FocusDirection) *element.Element {
	n := len(ring)
	if n == 0 {
		return nil
	}
	step := 1
	if dir == event.DirectionPrevious {
		step = -1
	}

	i := -1
	if from != nil {
		for k, el := range ring {
			if el == from {
				i = k
				break
			}
			if el.Contains(from) {
				i = k
			}
		}
	}
	if i < 0 && step < 0 {
		i = n
	}

	for range n {
		i = ((i+step)%n + n) % n
		cand := ring[i]
		if from != nil && cand.Contains(from) {
			continue
		}
		if cand.CanFocus() {
			return cand
		}
	}
	return nil
}

// FocusNext moves focus one step through the panel's focus ring.
func (c *Controller) FocusNext(dir event.FocusDirection) *element.Element {
	next := Next(Ring(c.root), c.effective(), dir)
	if next == nil {
		return nil
	}
	_ = c.RequestFocus(next, dir, false, dispatch.Queued)
	return next
}
