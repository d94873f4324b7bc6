package main

import "github.com/gdamore/tcell/v2"

// pump forwards polled events to the returned channel until poll returns
// nil or done is closed. The channel is closed when pump stops.
func pump(poll func() tcell.Event, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := poll()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}
