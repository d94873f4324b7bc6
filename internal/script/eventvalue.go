package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/panelkit/internal/event"
)

const eventTypeName = "panelkit.event"

// eventRef is the userdata behind a handler's event argument. env is
// cleared when the handler returns.
type eventRef struct {
	env *event.Envelope
}

func (h *Host) installEventType() {
	mt := h.L.NewTypeMetatable(eventTypeName)

	methods := map[string]*lua.LFunction{
		"stop": h.L.NewFunction(func(L *lua.LState) int {
			if env := checkEvent(L); env != nil {
				env.StopPropagation()
			}
			return 0
		}),
		"stop_immediate": h.L.NewFunction(func(L *lua.LState) int {
			if env := checkEvent(L); env != nil {
				env.StopImmediatePropagation()
			}
			return 0
		}),
		"prevent_default": h.L.NewFunction(func(L *lua.LState) int {
			if env := checkEvent(L); env != nil {
				env.PreventDefault()
			}
			return 0
		}),
	}

	h.L.SetField(mt, "__index", h.L.NewFunction(func(L *lua.LState) int {
		env := checkEvent(L)
		key := L.CheckString(2)
		if m, ok := methods[key]; ok {
			L.Push(m)
			return 1
		}
		if env == nil {
			L.Push(lua.LNil)
			return 1
		}
		switch key {
		case "kind":
			L.Push(lua.LString(env.Kind.String()))
		case "target":
			L.Push(targetName(env.Target))
		case "current":
			L.Push(targetName(env.CurrentTarget))
		case "related":
			L.Push(targetName(env.RelatedTarget))
		case "phase":
			L.Push(lua.LString(env.Phase.String()))
		default:
			L.Push(lua.LNil)
		}
		return 1
	}))
}

// checkEvent returns the live envelope behind argument 1, or nil once the
// handler that received it has returned.
func checkEvent(L *lua.LState) *event.Envelope {
	ud := L.CheckUserData(1)
	ref, ok := ud.Value.(*eventRef)
	if !ok {
		L.ArgError(1, "event expected")
		return nil
	}
	return ref.env
}

func targetName(t event.Target) lua.LValue {
	if t == nil {
		return lua.LNil
	}
	return lua.LString(t.TargetName())
}
