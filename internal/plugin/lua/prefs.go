package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the global under which OpenPrefs installs the module.
const ModuleName = "prefs"

// Host is the preferences surface exposed to scripts.
type Host interface {
	Value(path string) (any, error)
	SetValue(path string, value any) error
	AppendItem(path string, item any) error
	RemoveItem(path string, item any) (bool, error)
	Undo() bool
	Redo() bool
	UndoAvailable() bool
	RedoAvailable() bool
	Discard() int
	HistoryDescriptions() []string
}

// OpenPrefs installs the prefs module bound to host.
func OpenPrefs(s *State, host Host) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"get": func(L *lua.LState) int {
			v, err := host.Value(L.CheckString(1))
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(ToLuaValue(L, v))
			return 1
		},
		"set": func(L *lua.LState) int {
			path := L.CheckString(1)
			if err := host.SetValue(path, ToGoValue(L.CheckAny(2))); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"append": func(L *lua.LState) int {
			path := L.CheckString(1)
			if err := host.AppendItem(path, ToGoValue(L.CheckAny(2))); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		},
		"remove": func(L *lua.LState) int {
			path := L.CheckString(1)
			removed, err := host.RemoveItem(path, ToGoValue(L.CheckAny(2)))
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LBool(removed))
			return 1
		},
		"undo": func(L *lua.LState) int {
			L.Push(lua.LBool(host.Undo()))
			return 1
		},
		"redo": func(L *lua.LState) int {
			L.Push(lua.LBool(host.Redo()))
			return 1
		},
		"can_undo": func(L *lua.LState) int {
			L.Push(lua.LBool(host.UndoAvailable()))
			return 1
		},
		"can_redo": func(L *lua.LState) int {
			L.Push(lua.LBool(host.RedoAvailable()))
			return 1
		},
		"undo_all": func(L *lua.LState) int {
			L.Push(lua.LNumber(host.Discard()))
			return 1
		},
		"history": func(L *lua.LState) int {
			descriptions := host.HistoryDescriptions()
			t := L.CreateTable(len(descriptions), 0)
			for _, d := range descriptions {
				t.Append(lua.LString(d))
			}
			L.Push(t)
			return 1
		},
	})
}
