package dispatch

import "sync/atomic"

// Stats is a snapshot of an engine's counters.
type Stats struct {
	// Dispatched is the number of envelopes accepted by Dispatch.
	Dispatched uint64

	// Immediate is the number processed synchronously from Dispatch.
	Immediate uint64

	// Queued is the number appended to a pending queue.
	Queued uint64

	// Processed is the number of ProcessEvent calls.
	Processed uint64

	// Dropped is the number rejected without processing.
	Dropped uint64

	// Drains is the number of non-empty queue drains.
	Drains uint64

	// Aborts is the number of abort signals re-raised by drains.
	Aborts uint64

	// MaxDepth is the deepest recursion observed.
	MaxDepth int64
}

type counters struct {
	dispatched atomic.Uint64
	immediate  atomic.Uint64
	queued     atomic.Uint64
	processed  atomic.Uint64
	dropped    atomic.Uint64
	drains     atomic.Uint64
	aborts     atomic.Uint64
	maxDepth   atomic.Int64
}

func (c *counters) observeDepth(depth int) {
	d := int64(depth)
	for {
		cur := c.maxDepth.Load()
		if d <= cur || c.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Dispatched: c.dispatched.Load(),
		Immediate:  c.immediate.Load(),
		Queued:     c.queued.Load(),
		Processed:  c.processed.Load(),
		Dropped:    c.dropped.Load(),
		Drains:     c.drains.Load(),
		Aborts:     c.aborts.Load(),
		MaxDepth:   c.maxDepth.Load(),
	}
}
