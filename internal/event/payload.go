package event

// Button identifies a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary button.
	ButtonLeft
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Modifier is a bit set of held keyboard modifiers.
type Modifier uint8

const (
	// ModShift is the shift key.
	ModShift Modifier = 1 << iota
	// ModCtrl is the control key.
	ModCtrl
	// ModAlt is the alt (option) key.
	ModAlt
	// ModMeta is the meta (command, super) key.
	ModMeta

	// ModNone means no modifier is held.
	ModNone Modifier = 0
)

// Has reports whether m includes all of other.
func (m Modifier) Has(other Modifier) bool {
	return m&other == other
}

// Position is a panel coordinate in cells.
type Position struct {
	X int
	Y int
}

// Distance returns the Manhattan distance between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// PointerPayload is carried by pointer and click envelopes.
type PointerPayload struct {
	PointerID  int
	Position   Position
	Button     Button
	Modifiers  Modifier
	ClickCount int
}

// KeyPayload is carried by key envelopes.
type KeyPayload struct {
	// Key is a symbolic key name ("Enter", "Tab", "Rune").
	Key       string
	Rune      rune
	Modifiers Modifier
}

// FocusPayload is carried by focus envelopes.
type FocusPayload struct {
	// Delegated is true when focus landed on a descendant of the element
	// that was originally requested.
	Delegated bool

	// Commit marks the envelope whose processing completes the focus
	// transition that raised it.
	Commit bool
}

// ResizePayload is carried by panel.resize envelopes.
type ResizePayload struct {
	Width  int
	Height int
}

// CommandPayload is carried by command.execute envelopes.
type CommandPayload struct {
	Name string
}

// PlatformType classifies the raw host event behind an envelope.
type PlatformType uint8

const (
	// PlatformNone means there is no meaningful platform classification.
	PlatformNone PlatformType = iota
	// PlatformInput is a user input event.
	PlatformInput
	// PlatformRepaint is a pure repaint notification.
	PlatformRepaint
	// PlatformLayout is a layout (size) change.
	PlatformLayout
	// PlatformIgnore is an event the panel has no use for.
	PlatformIgnore
)

// String returns a human-readable platform type.
func (t PlatformType) String() string {
	switch t {
	case PlatformInput:
		return "input"
	case PlatformRepaint:
		return "repaint"
	case PlatformLayout:
		return "layout"
	case PlatformIgnore:
		return "ignore"
	default:
		return "none"
	}
}

// PlatformEvent is the host event an envelope was translated from.
type PlatformEvent struct {
	Type PlatformType

	// Used is set by the host once the event has been consumed. It should
	// agree with the envelope's propagation-stopped flag after dispatch.
	Used bool

	// Raw is the untranslated host event (for example a *tcell.EventKey).
	Raw any
}

// Use marks the platform event as consumed.
func (p *PlatformEvent) Use() {
	p.Used = true
}
