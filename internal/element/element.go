package element

import (
	"slices"
)

// Owner is the panel an element tree is attached to.
type Owner interface {
	ID() string
}

// PseudoState is a set of visual states maintained by controllers.
type PseudoState uint8

const (
	// StateFocused is set on every composite boundary record of the focus path.
	StateFocused PseudoState = 1 << iota
	// StateActive is set while a clickable is pressed.
	StateActive
	// StateHover is set while the pointer is over the element.
	StateHover
)

// Rect is an element's layout box in panel cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Element is a node in a panel's tree.
type Element struct {
	name     string
	parent   *Element
	children []*Element
	owner    Owner

	focusable         bool
	tabIndex          int
	enabled           bool
	displayed         bool
	compositeBoundary bool
	delegatesFocus    bool
	contentContainer  bool
	fromDisabledChild bool
	eligible          func(*Element) bool

	pseudo PseudoState
	bounds Rect

	handlers []Handler
}

// Option configures an Element.
type Option func(*Element)

// Focusable makes the element able to receive focus.
func Focusable() Option {
	return func(e *Element) { e.focusable = true }
}

// WithTabIndex sets the tab index. Negative values remove the element from
// the focus ring while keeping it focusable programmatically.
func WithTabIndex(i int) Option {
	return func(e *Element) { e.tabIndex = i }
}

// Disabled creates the element disabled.
func Disabled() Option {
	return func(e *Element) { e.enabled = false }
}

// Hidden creates the element not displayed.
func Hidden() Option {
	return func(e *Element) { e.displayed = false }
}

// CompositeBoundary marks the element as the root of a composite control.
func CompositeBoundary() Option {
	return func(e *Element) { e.compositeBoundary = true }
}

// DelegatesFocus makes focus requests on the element land on its first
// eligible descendant. It implies CompositeBoundary.
func DelegatesFocus() Option {
	return func(e *Element) {
		e.compositeBoundary = true
		e.delegatesFocus = true
	}
}

// ContentContainer marks the element as a slot for externally supplied
// content. Delegated focus does not descend into slots.
func ContentContainer() Option {
	return func(e *Element) { e.contentContainer = true }
}

// NoFocusFromDisabledChild stops clicks on disabled descendants from
// focusing this element.
func NoFocusFromDisabledChild() Option {
	return func(e *Element) { e.fromDisabledChild = false }
}

// WithEligibility installs a custom focus eligibility check.
func WithEligibility(fn func(*Element) bool) Option {
	return func(e *Element) { e.eligible = fn }
}

// WithBounds sets the element's layout box.
func WithBounds(r Rect) Option {
	return func(e *Element) { e.bounds = r }
}

// New creates a detached element.
func New(name string, opts ...Option) *Element {
	e := &Element{
		name:              name,
		enabled:           true,
		displayed:         true,
		fromDisabledChild: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TargetName implements event.Target.
func (e *Element) TargetName() string {
	return e.name
}

// Name returns the element's name.
func (e *Element) Name() string {
	return e.name
}

// String returns the element's name.
func (e *Element) String() string {
	return e.name
}

// Parent returns the parent element, or nil for a root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// Add appends child, detaching it from any previous parent.
func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c == nil || c == e || c.Contains(e) {
			continue
		}
		c.RemoveFromParent()
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

// Remove detaches child. It reports whether child was a child of e.
func (e *Element) Remove(child *Element) bool {
	i := slices.Index(e.children, child)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	child.parent = nil
	return true
}

// RemoveFromParent detaches e from its parent.
func (e *Element) RemoveFromParent() {
	if e.parent != nil {
		e.parent.Remove(e)
	}
}

// Root returns the topmost ancestor (e itself for a root).
func (e *Element) Root() *Element {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Path returns the ancestors of e from the root down to e inclusive.
func (e *Element) Path() []*Element {
	var path []*Element
	for cur := e; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// IsAncestorOf reports whether e is a strict ancestor of other.
func (e *Element) IsAncestorOf(other *Element) bool {
	return other != nil && other != e && e.Contains(other)
}

// Walk visits e and its descendants depth first in tree order. Returning
// false from fn skips the visited element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children() {
		c.Walk(fn)
	}
}

// Find returns the first element named name in e's subtree.
func (e *Element) Find(name string) *Element {
	var found *Element
	e.Walk(func(el *Element) bool {
		if found != nil {
			return false
		}
		if el.name == name {
			found = el
			return false
		}
		return true
	})
	return found
}

// SetOwner attaches a root element to a panel. Descendants inherit it.
func (e *Element) SetOwner(o Owner) {
	e.owner = o
}

// Owner returns the panel the element's tree is attached to, or nil.
func (e *Element) Owner() Owner {
	return e.Root().owner
}

// Attached reports whether the element belongs to a panel.
func (e *Element) Attached() bool {
	return e.Owner() != nil
}

// Focusable reports the element's own focusable flag.
func (e *Element) Focusable() bool { return e.focusable }

// SetFocusable sets the focusable flag.
func (e *Element) SetFocusable(v bool) { e.focusable = v }

// TabIndex returns the tab index.
func (e *Element) TabIndex() int { return e.tabIndex }

// SetTabIndex sets the tab index.
func (e *Element) SetTabIndex(i int) { e.tabIndex = i }

// Enabled reports the element's own enabled flag.
func (e *Element) Enabled() bool { return e.enabled }

// SetEnabled sets the element's own enabled flag.
func (e *Element) SetEnabled(v bool) { e.enabled = v }

// EnabledInHierarchy reports whether e and all its ancestors are enabled.
func (e *Element) EnabledInHierarchy() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if !cur.enabled {
			return false
		}
	}
	return true
}

// Displayed reports the element's own displayed flag.
func (e *Element) Displayed() bool { return e.displayed }

// SetDisplayed sets the element's own displayed flag.
func (e *Element) SetDisplayed(v bool) { e.displayed = v }

// DisplayedInHierarchy reports whether e and all its ancestors are displayed.
func (e *Element) DisplayedInHierarchy() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if !cur.displayed {
			return false
		}
	}
	return true
}

// IsCompositeBoundary reports whether e roots a composite control.
func (e *Element) IsCompositeBoundary() bool { return e.compositeBoundary }

// SetCompositeBoundary sets the composite boundary flag.
func (e *Element) SetCompositeBoundary(v bool) { e.compositeBoundary = v }

// DelegatesFocus reports whether focus requests are redirected to a descendant.
func (e *Element) DelegatesFocus() bool { return e.delegatesFocus }

// SetDelegatesFocus sets the delegates-focus flag.
func (e *Element) SetDelegatesFocus(v bool) { e.delegatesFocus = v }

// IsContentContainer reports whether e is a content slot.
func (e *Element) IsContentContainer() bool { return e.contentContainer }

// ReceivesFocusFromDisabledChild reports whether clicks on disabled
// descendants may focus e.
func (e *Element) ReceivesFocusFromDisabledChild() bool { return e.fromDisabledChild }

// SetReceivesFocusFromDisabledChild sets the flag.
func (e *Element) SetReceivesFocusFromDisabledChild(v bool) { e.fromDisabledChild = v }

// SetEligibility installs a custom focus eligibility check (nil removes it).
func (e *Element) SetEligibility(fn func(*Element) bool) { e.eligible = fn }

// CanFocus reports whether e can accept focus right now: it is focusable,
// enabled and displayed in its hierarchy, attached to a panel, and passes
// any custom eligibility check.
func (e *Element) CanFocus() bool {
	if !e.focusable || !e.Attached() {
		return false
	}
	if !e.EnabledInHierarchy() || !e.DisplayedInHierarchy() {
		return false
	}
	if e.eligible != nil && !e.eligible(e) {
		return false
	}
	return true
}

// HasPseudoState reports whether all bits of s are set.
func (e *Element) HasPseudoState(s PseudoState) bool {
	return e.pseudo&s == s
}

// SetPseudoState sets or clears s.
func (e *Element) SetPseudoState(s PseudoState, on bool) {
	if on {
		e.pseudo |= s
	} else {
		e.pseudo &^= s
	}
}

// Bounds returns the element's layout box.
func (e *Element) Bounds() Rect { return e.bounds }

// SetBounds sets the element's layout box.
func (e *Element) SetBounds(r Rect) { e.bounds = r }
