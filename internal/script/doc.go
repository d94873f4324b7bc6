// Package script runs Lua event handlers inside a panel.
//
// A Host owns one sandboxed gopher-lua state with only the base, table,
// string and math libraries. Scripts see a global panel table:
//
//	panel.on(name, pattern [, phase])   register fn for envelopes of pattern
//	                                    on the named element; phase is
//	                                    "bubble" (default), "trickle" or
//	                                    "default"
//	panel.focus(name)                   request focus, returns ok, err
//	panel.blur(name)
//	panel.send(kind [, name])           raise an envelope, root by default
//	panel.focused()                     name of the focused element or nil
//
// Handlers receive an event value with fields kind, target, current and
// phase, and methods stop, stop_immediate and prevent_default. The value
// is only valid while the handler runs.
//
// Handlers run synchronously inside propagation and may call back into the
// panel. Lua errors never escape into dispatch: they are logged and kept
// for Errors.
package script
