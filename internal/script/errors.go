package script

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by a Host after Close.
	ErrClosed = errors.New("script host closed")

	// ErrUnknownElement is raised when a script names an element that is
	// not in the panel.
	ErrUnknownElement = errors.New("unknown element")
)

// HandlerError records a failed Lua handler call.
type HandlerError struct {
	Kind    string
	Element string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("lua handler for %s on %s: %v", e.Kind, e.Element, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
