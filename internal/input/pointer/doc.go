// Package pointer contains pointer manipulators that drive element
// behavior from pointer envelopes.
//
// Clickable turns press and release into click envelopes. A repeatable
// clickable fires on press and then on a scheduler item for as long as the
// pointer stays pressed over the element. ClickCounter detects double and
// triple clicks.
package pointer
