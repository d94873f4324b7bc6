// Package panel hosts an element tree.
//
// A Panel owns one dispatch engine, one focus controller, one scheduler and
// the pointer capture table for its tree. It implements dispatch.Host, so
// every envelope raised inside the panel flows through the same
// PreDispatch, Propagate, PostDispatch sequence:
//
//	PreDispatch   focus commit bookkeeping, pointer capture and click
//	              counting, target resolution
//	Propagate     element.Propagate, then panel default actions
//	              (click-to-focus, focus navigation, resize)
//	PostDispatch  marks the platform event used and the panel dirty
//
// Panels share no mutable state. Everything except ApplyConfig must be
// called from the goroutine that drives the panel.
package panel
