package dispatch

import "github.com/dshills/panelkit/internal/event"

// record is one pending envelope.
type record struct {
	env   *event.Envelope
	host  Host
	trace []byte
}

// maxSpareQueues bounds the buffers kept for reuse. Two is enough when
// drains do not nest; nested drains briefly need one more per level.
const maxSpareQueues = 4

// queues recycles the backing arrays of pending queues. The live queue is
// swapped out before a drain so envelopes raised during the drain land in a
// fresh buffer; afterwards the drained buffer is cleared and kept for the
// next swap.
type queues struct {
	spare [][]record
}

func (q *queues) take() []record {
	n := len(q.spare)
	if n == 0 {
		return make([]record, 0, 8)
	}
	buf := q.spare[n-1]
	q.spare[n-1] = nil
	q.spare = q.spare[:n-1]
	return buf
}

func (q *queues) give(buf []record) {
	clear(buf)
	if len(q.spare) >= maxSpareQueues || cap(buf) == 0 {
		return
	}
	q.spare = append(q.spare, buf[:0])
}
