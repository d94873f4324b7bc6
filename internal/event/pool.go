package event

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/panelkit/internal/event/topic"
)

// Pool recycles envelopes. Envelopes handed out by Get start with one hold;
// the source that raised them owns that hold and must Release it.
type Pool struct {
	envelopes sync.Pool
	seq       atomic.Uint64
	live      atomic.Int64
}

// NewPool creates an empty envelope pool.
func NewPool() *Pool {
	p := &Pool{}
	p.envelopes.New = func() any {
		return &Envelope{pool: p}
	}
	return p
}

var defaultPool = NewPool()

// DefaultPool returns the process wide envelope pool.
func DefaultPool() *Pool {
	return defaultPool
}

// Get returns an envelope of the given kind with one hold.
func (p *Pool) Get(kind topic.Topic) *Envelope {
	e := p.envelopes.Get().(*Envelope)
	e.pool = p
	e.released = false
	e.holds = 1
	e.Kind = kind
	e.Timestamp = time.Now()
	e.seq = p.seq.Add(1)
	p.live.Add(1)
	return e
}

// Live returns the number of envelopes handed out and not yet released.
func (p *Pool) Live() int64 {
	return p.live.Load()
}

func (p *Pool) put(e *Envelope) {
	p.live.Add(-1)
	e.reset()
	p.envelopes.Put(e)
}

// New returns an envelope from the default pool addressed to target.
func New(kind topic.Topic, target Target) *Envelope {
	e := defaultPool.Get(kind)
	e.Target = target
	return e
}
