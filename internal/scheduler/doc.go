// Package scheduler runs timer callbacks from a panel's frame loop.
//
// Nothing here starts goroutines or OS timers. The panel calls Tick once
// per frame and due callbacks run synchronously on the panel's goroutine,
// where they may dispatch envelopes or schedule and cancel other items.
package scheduler
