package dispatch

// Gate is a scoped hold on an engine's gate counter. Creating a gate closes
// it; Release opens it exactly once. Use it with defer so the gate opens on
// every exit path, including a panicking handler:
//
//	gate := dispatch.NewGate(engine)
//	defer gate.Release()
type Gate struct {
	engine   *Engine
	released bool
}

// NewGate closes a gate on e and returns the guard that reopens it.
func NewGate(e *Engine) Gate {
	e.CloseGate()
	return Gate{engine: e}
}

// Release opens the gate. Releasing twice is reported as a misuse and
// otherwise ignored.
func (g *Gate) Release() {
	if g.engine == nil {
		return
	}
	if g.released {
		g.engine.assert(ErrGateUnderflow, "gate released twice", nil)
		return
	}
	g.released = true
	g.engine.OpenGate()
}
