package app

import (
	"context"

	"github.com/dshills/prefpane/internal/config/notify"
	"github.com/dshills/prefpane/internal/plugin/lua"
)

// RunScript runs a Lua file with the prefs module bound to p. Changes made
// by the script are recorded in the history like user edits.
func (p *Preferences) RunScript(ctx context.Context, path string) error {
	return p.script(func(state *lua.State) error {
		return state.DoFile(ctx, path)
	})
}

// RunScriptString runs a Lua chunk with the prefs module bound to p.
func (p *Preferences) RunScriptString(ctx context.Context, name, code string) error {
	return p.script(func(state *lua.State) error {
		return state.DoString(ctx, name, code)
	})
}

func (p *Preferences) script(run func(*lua.State) error) error {
	if p.isClosed() {
		return ErrClosed
	}

	opts := []lua.StateOption{lua.WithLogger(p.logger.With("component", "lua"))}
	if p.opts.ScriptTimeout > 0 {
		opts = append(opts, lua.WithExecutionTimeout(p.opts.ScriptTimeout))
	}
	state := lua.NewState(opts...)
	defer state.Close()

	lua.OpenPrefs(state, p)
	return p.withSource(notify.SourceScript, func() error {
		return run(state)
	})
}
