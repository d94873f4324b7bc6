package script

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
)

// Panel is what scripts can reach. *panel.Panel implements it.
type Panel interface {
	Root() *element.Element
	SendEvent(env *event.Envelope) error
	Focus(el *element.Element) error
	Blur(el *element.Element)
	Focused() *element.Element
}

// DefaultCallTimeout bounds one top level call into Lua.
const DefaultCallTimeout = time.Second

// Host runs scripts against one panel. Like the panel, it must only be
// used from the goroutine that drives the panel.
type Host struct {
	L     *lua.LState
	panel Panel

	timeout time.Duration
	depth   int
	closed  bool

	handlers []*element.Callback
	owners   []*element.Element
	errs     []error

	logger zerolog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// WithCallTimeout bounds each top level call into Lua. Zero disables the
// bound.
func WithCallTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// New creates a host with a fresh sandboxed state bound to p.
func New(p Panel, opts ...Option) *Host {
	h := &Host{
		panel:   p,
		timeout: DefaultCallTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.installEventType()
	h.installPanel()
	return h
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString runs a chunk of Lua.
func (h *Host) DoString(code string) error {
	if h.closed {
		return ErrClosed
	}
	return h.run(func() error { return h.L.DoString(code) })
}

// DoFile runs a Lua file.
func (h *Host) DoFile(path string) error {
	if h.closed {
		return ErrClosed
	}
	if err := h.run(func() error { return h.L.DoFile(path) }); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	return nil
}

// run bounds the outermost call into Lua with the call timeout. Nested
// calls, made while a handler re-enters dispatch, share that bound.
func (h *Host) run(fn func() error) error {
	if h.depth == 0 && h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		h.L.SetContext(ctx)
		defer func() {
			h.L.RemoveContext()
			cancel()
		}()
	}
	h.depth++
	defer func() { h.depth-- }()
	return fn()
}

// Errors returns the handler failures recorded so far.
func (h *Host) Errors() []error {
	return slices.Clone(h.errs)
}

// HandlerCount returns the number of live Lua handlers.
func (h *Host) HandlerCount() int {
	return len(h.handlers)
}

// Close removes every handler the scripts registered and closes the state.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	for i, cb := range h.handlers {
		h.owners[i].RemoveHandler(cb)
	}
	h.handlers, h.owners = nil, nil
	h.L.Close()
}

func (h *Host) fail(err error) {
	h.errs = append(h.errs, err)
	h.logger.Error().Err(err).Msg("lua handler failed")
}
