package panel

import "errors"

// Panel errors.
var (
	// ErrNilElement is returned when a nil element is attached or detached.
	ErrNilElement = errors.New("nil element")

	// ErrNotInPanel is returned when detaching an element the panel does not own.
	ErrNotInPanel = errors.New("element is not in this panel")

	// ErrRootElement is returned when the root itself is attached or detached.
	ErrRootElement = errors.New("operation not allowed on the panel root")
)
