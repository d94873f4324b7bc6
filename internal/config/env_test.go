package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, lookupFrom(map[string]string{
		"PANELKIT_DISPATCH_HIGH_WATER":       "10",
		"PANELKIT_DISPATCH_DEBUG_ASSERTIONS": "yes",
		"PANELKIT_POINTER_REPEAT_DELAY":      "1s",
		"PANELKIT_FOCUS_WATCHDOG":            "off",
		"PANELKIT_METRICS_ADDR":              ":9100",
		"PANELKIT_UNRELATED":                 "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Dispatch.HighWater)
	assert.True(t, cfg.Dispatch.DebugAssertions)
	assert.Equal(t, time.Second, cfg.Pointer.RepeatDelay.Std())
	assert.False(t, cfg.Focus.Watchdog)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestApplyEnv_ReportsEveryBadValue(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, lookupFrom(map[string]string{
		"PANELKIT_DISPATCH_CEILING":     "many",
		"PANELKIT_POINTER_REPEAT_DELAY": "later",
		"PANELKIT_LOG_CONSOLE":          "maybe",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PANELKIT_DISPATCH_CEILING")
	assert.Contains(t, err.Error(), "PANELKIT_POINTER_REPEAT_DELAY")
	assert.Contains(t, err.Error(), "PANELKIT_LOG_CONSOLE")
	assert.Equal(t, 128, cfg.Dispatch.Ceiling)
}
