// Package lua provides the Lua scripting host for preferences.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - Go-Lua type conversion
//   - The prefs module, bound to a Host
//
// # State
//
// The State type manages a Lua runtime with only the base, table, string
// and math libraries opened. File loading functions are removed and print
// goes to the logger.
//
//	state := lua.NewState(lua.WithExecutionTimeout(5 * time.Second))
//	defer state.Close()
//
//	lua.OpenPrefs(state, host)
//	if err := state.DoFile(ctx, "tweak.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// # prefs
//
// Scripts edit settings through the same path as the user interface, so
// every change a script makes is recorded in the undo history:
//
//	prefs.set("display.brightness", 80)
//	prefs.append("favorites.selection", "IntelliG")
//	if prefs.can_undo() then prefs.undo() end
//	for _, d in ipairs(prefs.history()) do print(d) end
package lua
