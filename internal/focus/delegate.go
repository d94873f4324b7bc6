package focus

import "github.com/dshills/panelkit/internal/element"

// delegateTarget returns the first descendant of root, depth first, that
// can take focus. Descendants of nested composite boundaries and content
// slots are not considered.
func delegateTarget(root *element.Element) *element.Element {
	for _, child := range root.Children() {
		if child.CanFocus() {
			return child
		}
		if child.IsCompositeBoundary() || child.IsContentContainer() {
			continue
		}
		if d := delegateTarget(child); d != nil {
			return d
		}
	}
	return nil
}

// EligibleAncestorForClick returns the element a pointer press on target
// should focus, and whether focus needs to move.
//
// The walk starts at target and climbs while the element cannot take focus.
// Ancestors reached through a disabled or unfocusable descendant must also
// accept focus from disabled children. When nothing qualifies the result is
// nil and focus moves only if something currently holds it.
func (c *Controller) EligibleAncestorForClick(target *element.Element) (*element.Element, bool) {
	if target == nil || !c.owns(target) {
		return nil, false
	}
	el := target
	for el != nil && !clickEligible(el, el == target) {
		el = el.Parent()
	}
	if el == nil {
		return nil, c.effective() != nil
	}
	return el, c.effective() != el && !c.IsFocused(el)
}

func clickEligible(el *element.Element, self bool) bool {
	if !el.CanFocus() {
		return false
	}
	return self || el.ReceivesFocusFromDisabledChild()
}
