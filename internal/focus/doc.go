// Package focus implements the per-panel focus controller.
//
// RequestFocus is the only way focus changes. A change runs inside one
// dispatch gate and raises, in order:
//
//	focus.out   at the old owner (pre-release)
//	focus.in    at the new owner (pre-grab)
//	focus.blur  at each record of the old owner (release commit)
//	focus.focus at each record of the new owner (grab commit)
//
// The controller is "in flight" from the moment a change is requested
// until its commit envelope has been processed. While in flight,
// FocusedElement answers with the pending target so handlers that re-enter
// RequestFocus observe the transition already under way.
//
// The committed focus is a list of records, one per composite boundary on
// the path from the focused leaf to the root. Each record pairs the
// boundary with the element that holds focus as seen from that boundary.
package focus
