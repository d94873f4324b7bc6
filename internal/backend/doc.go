// Package backend connects a panel to a terminal through tcell.
//
// Translator turns tcell events into envelopes: mouse reports become
// pointer.down, pointer.up and pointer.move by diffing the held buttons,
// keys become key.down (Tab and Backtab become navigation.move), and a
// resize becomes a repaint-only panel.paint followed by panel.resize.
// Terminal wraps the tcell screen and Painter draws an element tree on it.
package backend
