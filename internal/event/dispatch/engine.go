package dispatch

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/metrics"
)

// stackFrames is how many frames a recursion warning keeps.
const stackFrames = 32

// Engine delivers envelopes for one panel. It owns the gate counter, the
// pending queue, the dispatch context stack and the recursion depth.
//
// An Engine is not safe for concurrent use. All calls happen on the
// goroutine that drives the panel, and handlers re-enter it synchronously.
type Engine struct {
	gateCount int
	depth     int
	draining  int

	pending  []record
	buffers  queues
	contexts []savedContext

	current *event.Envelope

	limits  Limits
	debug   bool
	logger  zerolog.Logger
	metrics *metrics.Dispatch
	stats   counters
}

// NewEngine creates an engine with no closed gates and an empty queue.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		limits: DefaultLimits(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pending = e.buffers.take()
	return e
}

// Dispatch delivers env through host, or defers it.
//
// With mode Immediate, or when no gate is closed, the envelope is processed
// before Dispatch returns. Queued envelopes left over from a drain that a
// handler panic interrupted are processed first. Otherwise the engine takes a hold on it and
// appends it to the pending queue; it is processed when the last gate opens.
// Paint ticks backed by a pure repaint notification are dropped.
//
// The caller keeps its own hold and must release it after Dispatch returns.
func (e *Engine) Dispatch(env *event.Envelope, host Host, mode Mode) error {
	if env == nil {
		return ErrNilEnvelope
	}
	if host == nil {
		e.assert(ErrNilHost, "dispatch without host", env)
		e.drop(metrics.DropNilHost)
		return ErrNilHost
	}
	if !env.Alive() {
		e.assert(event.ErrEnvelopeReleased, "dispatch of released envelope", env)
		e.drop(metrics.DropReleased)
		return event.ErrEnvelopeReleased
	}
	if env.Queued() {
		e.assert(ErrAlreadyQueued, "envelope dispatched twice", env)
		return ErrAlreadyQueued
	}

	env.MarkReceived()

	if env.IsRepaint() {
		e.drop(metrics.DropRepaint)
		return nil
	}

	e.stats.dispatched.Add(1)
	e.metrics.ObserveDispatch(mode.String())

	var trace []byte
	if mode == Queued && e.depth > e.limits.HighWater {
		if e.depth > e.limits.Ceiling {
			e.logger.Error().
				Int("depth", e.depth).
				Int("ceiling", e.limits.Ceiling).
				Str("kind", env.Kind.String()).
				Str("target", env.TargetLabel()).
				Str("nested_in", e.currentKind()).
				Msg("dispatch recursion ceiling exceeded, dropping envelope")
			e.drop(metrics.DropCeiling)
			return ErrRecursionCeiling
		}
		trace = e.warnDeep(env)
	}

	if mode == Immediate || (e.gateCount == 0 && len(e.pending) == 0) {
		e.stats.immediate.Add(1)
		e.ProcessEvent(env, host)
		return nil
	}

	if err := env.Acquire(); err != nil {
		e.assert(err, "acquire failed", env)
		e.drop(metrics.DropReleased)
		return err
	}
	env.SetQueued(true)
	e.pending = append(e.pending, record{env: env, host: host, trace: trace})
	e.stats.queued.Add(1)
	e.metrics.ObserveQueued()

	// Items left by an interrupted drain are still ahead of env.
	if e.gateCount == 0 {
		gate := NewGate(e)
		gate.Release()
	}
	return nil
}

// warnDeep logs a dispatch above the high-water mark. Above the stack-trace
// threshold the warning carries a trimmed stack, which is also retained on
// the envelope.
func (e *Engine) warnDeep(env *event.Envelope) []byte {
	ev := e.logger.Warn().
		Int("depth", e.depth).
		Int("high_water", e.limits.HighWater).
		Str("kind", env.Kind.String()).
		Str("nested_in", e.currentKind())

	var trace []byte
	if e.depth > e.limits.StackTrace {
		trace = captureStack(3, stackFrames)
		env.Trace = trace
		ev = ev.Bytes("stack", trace)
	}
	ev.Msg("deep recursive dispatch")
	return trace
}

// ProcessEvent runs one envelope through host inside a gate bracket.
// Envelopes raised by its handlers are queued and drained when the bracket
// closes, after this envelope is completely processed.
func (e *Engine) ProcessEvent(env *event.Envelope, host Host) {
	gate := NewGate(e)
	defer gate.Release()

	e.stats.processed.Add(1)

	host.PreDispatch(env)

	if ic := host.Interceptor(); ic == nil || !ic.Intercept(env) {
		e.propagate(env, host)
	}

	host.PostDispatch(env)

	if env.Platform != nil && env.Platform.Used != env.IsPropagationStopped() {
		e.assert(nil, "platform used flag disagrees with propagation stopped", env)
	}
}

func (e *Engine) propagate(env *event.Envelope, host Host) {
	prev := e.current
	e.current = env
	defer func() { e.current = prev }()

	host.Propagate(env)
}

// CloseGate defers queued dispatches until the matching OpenGate.
func (e *Engine) CloseGate() {
	e.gateCount++
	e.depth++
	e.stats.observeDepth(e.depth)
	e.metrics.SetDepth(e.depth)
}

// OpenGate reopens a gate. When the last gate opens the pending queue is
// drained before OpenGate returns.
func (e *Engine) OpenGate() {
	defer e.leave()

	if e.gateCount <= 0 {
		e.assert(ErrGateUnderflow, "open gate with count zero", nil)
		e.gateCount = 0
		return
	}
	e.gateCount--
	if e.gateCount == 0 {
		e.drain()
	}
}

func (e *Engine) leave() {
	if e.depth > 0 {
		e.depth--
	}
	e.metrics.SetDepth(e.depth)
}

// drain processes the pending queue in enqueue order.
//
// The live queue is swapped for an empty buffer first, so envelopes raised
// while item i is processed are drained by the nested OpenGate at the end
// of item i's ProcessEvent, before item i+1 starts. The first abort signal
// is held until every item has been visited and then re-raised. Any other
// panic propagates; the items not yet visited go back to the front of the
// live queue with their holds intact.
func (e *Engine) drain() {
	if len(e.pending) == 0 {
		return
	}

	batch := e.pending
	e.pending = e.buffers.take()
	e.draining++
	e.stats.drains.Add(1)
	e.metrics.ObserveDrain()

	next := 0
	var abort *AbortPass
	defer func() {
		e.draining--
		if next < len(batch) {
			e.requeueFront(batch[next:])
		}
		e.buffers.give(batch)
	}()

	for next < len(batch) {
		rec := batch[next]
		next++
		if a := e.processQueued(rec); a != nil && abort == nil {
			abort = a
		}
	}

	if abort != nil {
		e.stats.aborts.Add(1)
		panic(abort)
	}
}

// processQueued processes a queued record and drops the engine's hold.
// It converts an abort panic into a return value.
func (e *Engine) processQueued(rec record) (abort *AbortPass) {
	defer func() {
		rec.env.SetQueued(false)
		if err := rec.env.Release(); err != nil {
			e.assert(err, "release after processing", nil)
		}
		if r := recover(); r != nil {
			a, ok := AsAbort(r)
			if !ok {
				panic(r)
			}
			abort = a
		}
	}()

	e.ProcessEvent(rec.env, rec.host)
	return nil
}

func (e *Engine) requeueFront(rest []record) {
	merged := e.buffers.take()
	merged = append(merged, rest...)
	merged = append(merged, e.pending...)
	e.buffers.give(e.pending)
	e.pending = merged
}

// ProcessingEvents reports whether a queue drain is in progress.
func (e *Engine) ProcessingEvents() bool {
	return e.draining > 0
}

// GateCount returns the number of closed gates in the active context.
func (e *Engine) GateCount() int {
	return e.gateCount
}

// Depth returns the current recursion depth.
func (e *Engine) Depth() int {
	return e.depth
}

// QueueLen returns the number of envelopes pending in the active context.
func (e *Engine) QueueLen() int {
	return len(e.pending)
}

// CurrentEvent returns the envelope currently being propagated, or nil.
func (e *Engine) CurrentEvent() *event.Envelope {
	return e.current
}

// Limits returns the recursion thresholds.
func (e *Engine) Limits() Limits {
	return e.limits
}

// SetLimits replaces the recursion thresholds.
func (e *Engine) SetLimits(l Limits) error {
	if err := l.Validate(); err != nil {
		return err
	}
	e.limits = l
	return nil
}

// Stats returns a snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

func (e *Engine) drop(reason string) {
	e.stats.dropped.Add(1)
	e.metrics.ObserveDrop(reason)
}

func (e *Engine) currentKind() string {
	if e.current == nil {
		return ""
	}
	return e.current.Kind.String()
}

// assert logs a misuse diagnostic when debug assertions are enabled.
// It never interrupts delivery.
func (e *Engine) assert(err error, msg string, env *event.Envelope) {
	if !e.debug {
		return
	}
	ev := e.logger.Debug().Bool("assert", true)
	if err != nil {
		ev = ev.Err(err)
	}
	if env != nil {
		ev = ev.Str("kind", env.Kind.String()).Str("target", env.TargetLabel())
	}
	ev.Int("gates", e.gateCount).Int("depth", e.depth).Msg(msg)
}

// captureStack formats at most limit frames of the caller's stack.
func captureStack(skip, limit int) []byte {
	pcs := make([]uintptr, limit)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return []byte(b.String())
}
