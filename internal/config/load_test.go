package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "panel.toml", `
[dispatch]
high_water = 8
stack_trace = 16
ceiling = 24
debug_assertions = true

[pointer]
repeat_delay = "250ms"

[log]
level = "debug"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Dispatch.HighWater)
	assert.Equal(t, 24, cfg.Dispatch.Ceiling)
	assert.True(t, cfg.Dispatch.DebugAssertions)
	assert.Equal(t, 250*time.Millisecond, cfg.Pointer.RepeatDelay.Std())
	assert.Equal(t, 50*time.Millisecond, cfg.Pointer.RepeatInterval.Std(), "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "panel.yaml", `
dispatch:
  ceiling: 256
pointer:
  repeat_interval: 20ms
  multi_click_distance: 2
focus:
  watchdog: false
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Dispatch.Ceiling)
	assert.Equal(t, 32, cfg.Dispatch.HighWater)
	assert.Equal(t, 20*time.Millisecond, cfg.Pointer.RepeatInterval.Std())
	assert.Equal(t, 2, cfg.Pointer.MultiClickDistance)
	assert.False(t, cfg.Focus.Watchdog)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(writeFile(t, "panel.json", `{}`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(writeFile(t, "bad.toml", "[dispatch]\nceiling = \"lots\"\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, strings.HasSuffix(pe.Path, "bad.toml"))

	_, err = LoadFile(writeFile(t, "unknown.toml", "[dispatch]\nspeed = 3\n"))
	assert.ErrorAs(t, err, &pe)

	_, err = LoadFile(writeFile(t, "unknown.yaml", "dispatch:\n  speed: 3\n"))
	assert.ErrorAs(t, err, &pe)
}

func TestLoad_ValidatesAndAppliesEnv(t *testing.T) {
	path := writeFile(t, "panel.toml", "[dispatch]\nceiling = 100\n")
	t.Setenv("PANELKIT_DISPATCH_CEILING", "200")
	t.Setenv("PANELKIT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Dispatch.Ceiling)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("PANELKIT_DISPATCH_CEILING", "1")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			want := Default()
			want.Pointer.RepeatDelay = Duration(time.Second)
			want.Metrics.Addr = ":9100"

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, want))

			got := Default()
			require.NoError(t, Decode(&buf, format, got))
			assert.Equal(t, want, got)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a/b/panel.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatOf("panel.toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)
}
