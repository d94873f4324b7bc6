// Package element provides the element tree that a panel delivers
// envelopes to, and the trickle-down / at-target / bubble-up propagation
// routine the dispatch engine calls for every processed envelope.
//
// Elements carry the capability flags the focus controller reads:
// focusable, tab index, enabled, displayed, composite boundary, delegates
// focus, content container and receives-focus-from-disabled-child.
//
// Handlers are values implementing Handler. Callback covers the common
// case of a kind pattern plus a phase set:
//
//	btn.On("click", func(env *event.Envelope) { ... })
//	root.OnTrickleDown("pointer.*", func(env *event.Envelope) { ... })
//	field.OnDefault(event.KindKeyDown, func(env *event.Envelope) { ... })
package element
