// Package config loads panel configuration.
//
// Configuration comes from, in increasing precedence: built-in defaults, a
// TOML or YAML file chosen by extension, and PANELKIT_* environment
// variables. Load validates the result. Watcher reloads the file when it
// changes on disk.
//
//	[dispatch]
//	high_water = 32
//	stack_trace = 64
//	ceiling = 128
//
//	[pointer]
//	repeat_delay = "300ms"
//	repeat_interval = "50ms"
package config
