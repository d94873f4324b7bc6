package event

import "github.com/dshills/panelkit/internal/event/topic"

// Pointer kinds.
const (
	KindPointerDown        topic.Topic = "pointer.down"
	KindPointerUp          topic.Topic = "pointer.up"
	KindPointerMove        topic.Topic = "pointer.move"
	KindPointerCapture     topic.Topic = "pointer.capture"
	KindPointerCaptureLost topic.Topic = "pointer.capture.lost"
	KindClick              topic.Topic = "click"
)

// Keyboard kinds.
const (
	KindKeyDown    topic.Topic = "key.down"
	KindKeyUp      topic.Topic = "key.up"
	KindNavigation topic.Topic = "navigation.move"
)

// Focus kinds, in the order a transition emits them.
// focus.out and focus.in are the pre-notifications and bubble;
// focus.blur and focus.focus are the commit notifications and do not.
const (
	KindFocusOut   topic.Topic = "focus.out"
	KindFocusIn    topic.Topic = "focus.in"
	KindFocusBlur  topic.Topic = "focus.blur"
	KindFocusFocus topic.Topic = "focus.focus"
)

// Panel lifecycle kinds.
const (
	KindAttach  topic.Topic = "panel.attach"
	KindDetach  topic.Topic = "panel.detach"
	KindPaint   topic.Topic = "panel.paint"
	KindResize  topic.Topic = "panel.resize"
	KindCommand topic.Topic = "command.execute"
)

// Bubbles reports whether envelopes of kind walk the bubble-up phase.
func Bubbles(kind topic.Topic) bool {
	switch kind {
	case KindFocusBlur, KindFocusFocus, KindPointerCapture, KindPointerCaptureLost,
		KindAttach, KindDetach, KindPaint, KindResize:
		return false
	}
	return true
}

// TricklesDown reports whether envelopes of kind walk the trickle-down phase.
func TricklesDown(kind topic.Topic) bool {
	switch kind {
	case KindAttach, KindDetach, KindPaint, KindResize:
		return false
	}
	return true
}
