package dispatch

import "github.com/dshills/panelkit/internal/metrics"

// savedContext is the gate count and queue of a suspended dispatch context.
type savedContext struct {
	gateCount int
	pending   []record
}

// PushDispatchContext suspends the active context so a nested (modal)
// dispatch scope can run with its own gates and queue.
//
// The pending queue is drained first, including anything raised while
// draining, so time sensitive envelopes are not stranded behind the modal
// scope. The saved gate count is restored by PopDispatchContext.
func (e *Engine) PushDispatchContext() {
	for len(e.pending) > 0 {
		e.drain()
	}

	e.contexts = append(e.contexts, savedContext{
		gateCount: e.gateCount,
		pending:   e.pending,
	})
	e.gateCount = 0
	e.pending = e.buffers.take()
}

// PopDispatchContext restores the context saved by the matching push.
// It fails with ErrContextNotEmpty while any gate of the nested context is
// closed or any envelope is pending, leaving the engine unchanged.
func (e *Engine) PopDispatchContext() error {
	if e.gateCount != 0 || len(e.pending) != 0 {
		e.assert(ErrContextNotEmpty, "pop dispatch context with work in flight", nil)
		return ErrContextNotEmpty
	}
	n := len(e.contexts)
	if n == 0 {
		return ErrNoContext
	}

	saved := e.contexts[n-1]
	e.contexts[n-1] = savedContext{}
	e.contexts = e.contexts[:n-1]

	e.buffers.give(e.pending)
	e.gateCount = saved.gateCount
	e.pending = saved.pending
	return nil
}

// ContextDepth returns the number of suspended dispatch contexts.
func (e *Engine) ContextDepth() int {
	return len(e.contexts)
}

// WithDispatchContext runs fn inside a fresh dispatch context.
//
// Envelopes left pending by fn are drained before the context is popped.
// If fn panics, or returns with gates of the nested context still closed,
// whatever the nested context holds is discarded so the outer context is
// always restored. A panic continues; leftover gates are reported as
// ErrContextNotEmpty.
func (e *Engine) WithDispatchContext(fn func()) (err error) {
	e.PushDispatchContext()

	completed := false
	defer func() {
		leaked := completed && e.gateCount != 0
		if leaked {
			e.assert(ErrContextNotEmpty, "dispatch context returned with gates closed", nil)
		}
		if !completed || leaked {
			e.abandonContext()
		}
		err = e.PopDispatchContext()
		if err == nil && leaked {
			err = ErrContextNotEmpty
		}
	}()

	fn()
	for e.gateCount == 0 && len(e.pending) > 0 {
		e.drain()
	}
	completed = true
	return nil
}

// abandonContext force-opens the nested context's gates without draining
// and discards its queue.
func (e *Engine) abandonContext() {
	e.depth -= e.gateCount
	if e.depth < 0 {
		e.depth = 0
	}
	e.gateCount = 0
	e.metrics.SetDepth(e.depth)
	e.discardPending()
}

// discardPending releases every pending envelope without processing it.
func (e *Engine) discardPending() {
	if len(e.pending) == 0 {
		return
	}
	e.logger.Warn().Int("count", len(e.pending)).Msg("discarding envelopes of abandoned dispatch context")
	for _, rec := range e.pending {
		rec.env.SetQueued(false)
		_ = rec.env.Release()
		e.drop(metrics.DropAbandoned)
	}
	e.buffers.give(e.pending)
	e.pending = e.buffers.take()
}
