package scheduler

import (
	"slices"
	"time"
)

// Scheduler holds timer items in scheduling order.
type Scheduler struct {
	items []*Item
	clock func() time.Time
	seq   uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source used when items are scheduled.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Item is a scheduled callback.
type Item struct {
	s        *Scheduler
	fn       func(now time.Time)
	due      time.Time
	interval time.Duration
	seq      uint64
	paused   bool
	done     bool
	runs     int
}

// Schedule runs fn once delay has elapsed and then every interval. A zero
// interval runs fn once.
func (s *Scheduler) Schedule(fn func(now time.Time), delay, interval time.Duration) *Item {
	s.seq++
	it := &Item{
		s:        s,
		fn:       fn,
		due:      s.clock().Add(delay),
		interval: interval,
		seq:      s.seq,
	}
	s.items = append(s.items, it)
	return it
}

// Tick runs every item due at now, in the order the items were scheduled.
// Items scheduled by a callback during Tick run on a later tick at the
// earliest. A repeating item runs at most once per tick.
func (s *Scheduler) Tick(now time.Time) {
	for _, it := range slices.Clone(s.items) {
		if it.done || it.paused || now.Before(it.due) {
			continue
		}
		it.runs++
		if it.interval > 0 {
			it.due = it.due.Add(it.interval)
			if !it.due.After(now) {
				it.due = now.Add(it.interval)
			}
		} else {
			it.done = true
		}
		it.fn(now)
	}
	s.items = slices.DeleteFunc(s.items, func(it *Item) bool { return it.done })
}

// Len returns the number of live items.
func (s *Scheduler) Len() int {
	n := 0
	for _, it := range s.items {
		if !it.done {
			n++
		}
	}
	return n
}

// Pause stops the item from running until Resume or Reset.
func (it *Item) Pause() {
	it.paused = true
}

// Resume lets a paused item run again at its next due time.
func (it *Item) Resume() {
	it.paused = false
}

// Reset unpauses the item and makes it due delay from now.
func (it *Item) Reset(delay time.Duration) {
	it.paused = false
	it.due = it.s.clock().Add(delay)
}

// Cancel removes the item. Cancelling from inside a callback is allowed.
func (it *Item) Cancel() {
	it.done = true
}

// Paused reports whether the item is paused.
func (it *Item) Paused() bool {
	return it.paused
}

// Active reports whether the item will run again.
func (it *Item) Active() bool {
	return !it.done && !it.paused
}

// Runs returns how many times the callback has run.
func (it *Item) Runs() int {
	return it.runs
}
