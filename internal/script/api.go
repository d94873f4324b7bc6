package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/panelkit/internal/element"
	"github.com/dshills/panelkit/internal/event"
	"github.com/dshills/panelkit/internal/event/topic"
)

func (h *Host) installPanel() {
	tbl := h.L.NewTable()
	h.L.SetFuncs(tbl, map[string]lua.LGFunction{
		"on":      h.luaOn,
		"focus":   h.luaFocus,
		"blur":    h.luaBlur,
		"send":    h.luaSend,
		"focused": h.luaFocused,
	})
	h.L.SetGlobal("panel", tbl)
}

// element resolves argument n to an element, raising a Lua error for
// unknown names. An absent optional argument resolves to the root.
func (h *Host) element(L *lua.LState, n int, optional bool) *element.Element {
	root := h.panel.Root()
	if optional && L.Get(n) == lua.LNil {
		return root
	}
	name := L.CheckString(n)
	el := root.Find(name)
	if el == nil {
		L.RaiseError("%v: %q", ErrUnknownElement, name)
	}
	return el
}

func (h *Host) luaOn(L *lua.LState) int {
	el := h.element(L, 1, false)
	pattern := topic.Topic(L.CheckString(2))
	fn := L.CheckFunction(3)
	phase := L.OptString(4, "bubble")

	if !pattern.IsValid() {
		L.ArgError(2, "invalid event pattern")
	}

	invoke := func(env *event.Envelope) { h.invoke(fn, el, env) }
	var cb *element.Callback
	switch phase {
	case "bubble":
		cb = el.On(pattern, invoke)
	case "trickle":
		cb = el.OnTrickleDown(pattern, invoke)
	case "default":
		cb = el.OnDefault(pattern, invoke)
	default:
		L.ArgError(4, "phase must be bubble, trickle or default")
	}
	h.handlers = append(h.handlers, cb)
	h.owners = append(h.owners, el)
	return 0
}

func (h *Host) luaFocus(L *lua.LState) int {
	el := h.element(L, 1, false)
	if err := h.panel.Focus(el); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) luaBlur(L *lua.LState) int {
	h.panel.Blur(h.element(L, 1, false))
	return 0
}

func (h *Host) luaSend(L *lua.LState) int {
	kind := topic.Topic(L.CheckString(1))
	if !kind.IsValid() || kind.IsWildcard() {
		L.ArgError(1, "invalid event kind")
	}
	el := h.element(L, 2, true)

	env := event.New(kind, el)
	err := h.panel.SendEvent(env)
	_ = env.Release()
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) luaFocused(L *lua.LState) int {
	if el := h.panel.Focused(); el != nil {
		L.Push(lua.LString(el.Name()))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// invoke calls a Lua handler. Failures are recorded, never propagated.
func (h *Host) invoke(fn *lua.LFunction, el *element.Element, env *event.Envelope) {
	if h.closed {
		return
	}
	ref := &eventRef{env: env}
	ud := h.L.NewUserData()
	ud.Value = ref
	h.L.SetMetatable(ud, h.L.GetTypeMetatable(eventTypeName))
	defer func() { ref.env = nil }()

	err := h.run(func() error {
		return h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ud)
	})
	if err != nil {
		h.fail(&HandlerError{Kind: env.Kind.String(), Element: el.Name(), Err: err})
	}
}
