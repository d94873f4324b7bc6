package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/panelkit/internal/event/dispatch"
)

// Config is the complete panel configuration.
type Config struct {
	Dispatch DispatchConfig `toml:"dispatch" yaml:"dispatch"`
	Pointer  PointerConfig  `toml:"pointer" yaml:"pointer"`
	Focus    FocusConfig    `toml:"focus" yaml:"focus"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
}

// DispatchConfig holds the recursion thresholds of the dispatch engine.
type DispatchConfig struct {
	// HighWater is the depth above which deep dispatches are logged.
	HighWater int `toml:"high_water" yaml:"high_water"`
	// StackTrace is the depth above which warnings carry a stack.
	StackTrace int `toml:"stack_trace" yaml:"stack_trace"`
	// Ceiling is the depth above which envelopes are dropped.
	Ceiling int `toml:"ceiling" yaml:"ceiling"`
	// DebugAssertions logs misuse diagnostics.
	DebugAssertions bool `toml:"debug_assertions" yaml:"debug_assertions"`
}

// PointerConfig holds pointer timing.
type PointerConfig struct {
	RepeatDelay        Duration `toml:"repeat_delay" yaml:"repeat_delay"`
	RepeatInterval     Duration `toml:"repeat_interval" yaml:"repeat_interval"`
	MultiClickTime     Duration `toml:"multi_click_time" yaml:"multi_click_time"`
	MultiClickDistance int      `toml:"multi_click_distance" yaml:"multi_click_distance"`
}

// FocusConfig holds focus controller settings.
type FocusConfig struct {
	// Watchdog enables recovery of abandoned focus transitions.
	Watchdog bool `toml:"watchdog" yaml:"watchdog"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string `toml:"level" yaml:"level"`
	Console bool   `toml:"console" yaml:"console"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint. Empty disables it.
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	limits := dispatch.DefaultLimits()
	return &Config{
		Dispatch: DispatchConfig{
			HighWater:  limits.HighWater,
			StackTrace: limits.StackTrace,
			Ceiling:    limits.Ceiling,
		},
		Pointer: PointerConfig{
			RepeatDelay:        Duration(300 * time.Millisecond),
			RepeatInterval:     Duration(50 * time.Millisecond),
			MultiClickTime:     Duration(500 * time.Millisecond),
			MultiClickDistance: 4,
		},
		Focus: FocusConfig{Watchdog: true},
		Log:   LogConfig{Level: "info"},
	}
}

// Limits returns the dispatch thresholds.
func (c *Config) Limits() dispatch.Limits {
	return dispatch.Limits{
		HighWater:  c.Dispatch.HighWater,
		StackTrace: c.Dispatch.StackTrace,
		Ceiling:    c.Dispatch.Ceiling,
	}
}

var validLevels = []string{"", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled"}

// Validate reports every invalid setting. The returned error wraps
// ErrInvalid once per problem.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if err := c.Limits().Validate(); err != nil {
		invalid("dispatch: %v", err)
	}
	if c.Pointer.RepeatDelay < 0 {
		invalid("pointer.repeat_delay must not be negative, got %s", c.Pointer.RepeatDelay)
	}
	if c.Pointer.RepeatInterval <= 0 {
		invalid("pointer.repeat_interval must be positive, got %s", c.Pointer.RepeatInterval)
	}
	if c.Pointer.MultiClickTime < 0 {
		invalid("pointer.multi_click_time must not be negative, got %s", c.Pointer.MultiClickTime)
	}
	if c.Pointer.MultiClickDistance < 0 {
		invalid("pointer.multi_click_distance must not be negative, got %d", c.Pointer.MultiClickDistance)
	}

	level := strings.ToLower(c.Log.Level)
	known := false
	for _, l := range validLevels {
		if level == l {
			known = true
			break
		}
	}
	if !known {
		invalid("log.level %q is not a known level", c.Log.Level)
	}

	return errors.Join(errs...)
}
