package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "panel.toml")
	require.NoError(t, os.WriteFile(path, []byte("[dispatch]\nceiling = 100\n"), 0o644))

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { changes <- cfg }, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[dispatch]\nceiling = 300\n"), 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, 300, cfg.Dispatch.Ceiling)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
	assert.GreaterOrEqual(t, w.Reloads(), int64(1))

	require.NoError(t, w.Close())
}

func TestWatcher_KeepsPreviousOnInvalidFile(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  ceiling: 100\n"), 0o644))

	w, err := NewWatcher(path, func(*Config) { t.Error("invalid config delivered") }, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  ceiling: 1\n"), 0o644))

	assert.Eventually(t, func() bool { return w.Failures() > 0 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestNewWatcher_Errors(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "panel.ini"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "missing", "panel.toml"), nil)
	assert.Error(t, err)
}
