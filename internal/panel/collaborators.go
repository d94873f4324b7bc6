package panel

// Layout resolves geometry for the panel's tree. The panel asks it to flush
// pending work once per frame, before repainting.
type Layout interface {
	ApplyPendingLayout()
}

// Repainter draws the panel. Repaint is called at most once per frame, and
// only after something was processed since the previous frame.
type Repainter interface {
	Repaint()
}

// LayoutFunc adapts a function to Layout.
type LayoutFunc func()

// ApplyPendingLayout implements Layout.
func (f LayoutFunc) ApplyPendingLayout() { f() }

// RepainterFunc adapts a function to Repainter.
type RepainterFunc func()

// Repaint implements Repainter.
func (f RepainterFunc) Repaint() { f() }

type nopLayout struct{}

func (nopLayout) ApplyPendingLayout() {}

type nopRepainter struct{}

func (nopRepainter) Repaint() {}
