package pointer

import (
	"time"

	"github.com/dshills/panelkit/internal/event"
)

// ClickCounter numbers consecutive presses that are close in time and
// space. The count runs 1, 2, 3 and then starts over at 1.
type ClickCounter struct {
	maxTime     time.Duration
	maxDistance int

	lastPos   event.Position
	lastTime  time.Time
	lastCount int
}

// NewClickCounter creates a counter. Presses more than maxTime apart or
// more than maxDistance cells apart (Manhattan) start a new sequence.
func NewClickCounter(maxTime time.Duration, maxDistance int) *ClickCounter {
	return &ClickCounter{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// Record registers a press and returns its click count.
func (c *ClickCounter) Record(pos event.Position, at time.Time) int {
	if at.IsZero() {
		at = time.Now()
	}

	if c.continues(pos, at) {
		c.lastCount++
		if c.lastCount > 3 {
			c.lastCount = 1
		}
	} else {
		c.lastCount = 1
	}

	c.lastPos = pos
	c.lastTime = at
	return c.lastCount
}

func (c *ClickCounter) continues(pos event.Position, at time.Time) bool {
	if c.lastCount == 0 || c.lastTime.IsZero() {
		return false
	}
	// Clock skew starts a new sequence.
	elapsed := at.Sub(c.lastTime)
	if elapsed < 0 || elapsed > c.maxTime {
		return false
	}
	return pos.Distance(c.lastPos) <= c.maxDistance
}

// Reset forgets the current sequence.
func (c *ClickCounter) Reset() {
	c.lastCount = 0
	c.lastTime = time.Time{}
	c.lastPos = event.Position{}
}

// Count returns the last returned click count.
func (c *ClickCounter) Count() int {
	return c.lastCount
}

// SetLimits changes the sequence thresholds.
func (c *ClickCounter) SetLimits(maxTime time.Duration, maxDistance int) {
	c.maxTime = maxTime
	c.maxDistance = maxDistance
}
