package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "PANELKIT_"

type envSetter func(c *Config, value string) error

// envMapping maps environment variables to the setting they override.
var envMapping = map[string]envSetter{
	"PANELKIT_DISPATCH_HIGH_WATER":          intSetter(func(c *Config) *int { return &c.Dispatch.HighWater }),
	"PANELKIT_DISPATCH_STACK_TRACE":         intSetter(func(c *Config) *int { return &c.Dispatch.StackTrace }),
	"PANELKIT_DISPATCH_CEILING":             intSetter(func(c *Config) *int { return &c.Dispatch.Ceiling }),
	"PANELKIT_DISPATCH_DEBUG_ASSERTIONS":    boolSetter(func(c *Config) *bool { return &c.Dispatch.DebugAssertions }),
	"PANELKIT_POINTER_REPEAT_DELAY":         durationSetter(func(c *Config) *Duration { return &c.Pointer.RepeatDelay }),
	"PANELKIT_POINTER_REPEAT_INTERVAL":      durationSetter(func(c *Config) *Duration { return &c.Pointer.RepeatInterval }),
	"PANELKIT_POINTER_MULTI_CLICK_TIME":     durationSetter(func(c *Config) *Duration { return &c.Pointer.MultiClickTime }),
	"PANELKIT_POINTER_MULTI_CLICK_DISTANCE": intSetter(func(c *Config) *int { return &c.Pointer.MultiClickDistance }),
	"PANELKIT_FOCUS_WATCHDOG":               boolSetter(func(c *Config) *bool { return &c.Focus.Watchdog }),
	"PANELKIT_LOG_LEVEL":                    stringSetter(func(c *Config) *string { return &c.Log.Level }),
	"PANELKIT_LOG_CONSOLE":                  boolSetter(func(c *Config) *bool { return &c.Log.Console }),
	"PANELKIT_METRICS_ADDR":                 stringSetter(func(c *Config) *string { return &c.Metrics.Addr }),
}

// ApplyEnv overrides settings from environment variables found by lookup
// (usually os.LookupEnv). Every unparsable value is reported.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for name, set := range envMapping {
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func intSetter(field func(*Config) *int) envSetter {
	return func(c *Config, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func boolSetter(field func(*Config) *bool) envSetter {
	return func(c *Config, value string) error {
		v, err := parseBool(value)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func durationSetter(field func(*Config) *Duration) envSetter {
	return func(c *Config, value string) error {
		v, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*field(c) = Duration(v)
		return nil
	}
}

func stringSetter(field func(*Config) *string) envSetter {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

// parseBool accepts the spellings strconv.ParseBool does plus yes/no/on/off.
func parseBool(s string) (bool, error) {
	switch s {
	case "yes", "on", "YES", "ON":
		return true, nil
	case "no", "off", "NO", "OFF":
		return false, nil
	}
	return strconv.ParseBool(s)
}
