package app

import (
	"context"
	"sort"

	"github.com/dshills/prefpane/internal/config/notify"
	"github.com/dshills/prefpane/internal/config/watcher"
	"github.com/dshills/prefpane/internal/property"
)

// LoadSettingValues applies the settings file and environment overrides.
// Values are written with the history listeners suppressed, so loading
// never creates undoable changes. Unknown paths and invalid values are
// logged and skipped. It returns the number of settings whose value changed.
func (p *Preferences) LoadSettingValues() (int, error) {
	if p.isClosed() {
		return 0, ErrClosed
	}

	values := make(map[string]any)
	if p.store != nil {
		loaded, err := p.store.Load()
		if err != nil {
			return 0, &OperationError{Op: "load", Target: p.store.Path(), Err: err}
		}
		for path, v := range loaded {
			values[path] = v
		}
	}
	if p.env != nil {
		paths := make([]string, 0, p.registry.Len())
		for _, s := range p.registry.All() {
			paths = append(paths, s.Path())
		}
		for path, v := range p.env.Load(paths) {
			values[path] = v
		}
	}

	changed := p.apply(values)
	p.logger.Info("settings loaded", "path", p.storePath(), "values", len(values), "changed", changed)
	return changed, nil
}

// storePath returns the settings file path, or "" when only environment
// overrides are configured.
func (p *Preferences) storePath() string {
	if p.store == nil {
		return ""
	}
	return p.store.Path()
}

// apply writes values keyed by path without recording history.
func (p *Preferences) apply(values map[string]any) int {
	paths := make([]string, 0, len(values))
	for path := range values {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	changed := 0
	_ = p.withSource(notify.SourceStore, func() error {
		for _, path := range paths {
			s := p.registry.Get(path)
			if s == nil {
				p.logger.Warn("unknown setting ignored", "setting", path)
				continue
			}

			before := s.Value()
			err := p.history.DoWithoutListeners(s, func() error {
				return s.SetValue(values[path])
			})
			if err != nil {
				p.logger.Warn("setting value rejected", "setting", path, "value", values[path], "error", err)
				continue
			}
			if !property.Equal(before, s.Value()) {
				changed++
			}
		}
		return nil
	})
	return changed
}

// SaveSettingValues writes the current value of every setting to the
// settings file.
func (p *Preferences) SaveSettingValues() error {
	if p.store == nil {
		return ErrNoSettingsFile
	}
	if err := p.store.Save(p.registry.Values()); err != nil {
		return &OperationError{Op: "save", Target: p.store.Path(), Err: err}
	}
	p.logger.Debug("settings saved", "path", p.store.Path())
	return nil
}

// Reload re-reads the settings file and environment overrides. If any value changed, the history is
// cleared, since its entries no longer describe the current state, and a
// reload is published.
func (p *Preferences) Reload() error {
	changed, err := p.LoadSettingValues()
	if err != nil {
		return err
	}
	if changed == 0 {
		return nil
	}

	p.history.Clear()
	p.notifier.NotifyReload(notify.SourceStore)
	p.logger.Info("settings reloaded", "path", p.storePath(), "changed", changed)
	return nil
}

// Watch reloads the settings file whenever it changes on disk, until ctx
// is cancelled. Reloads go through Options.Dispatch when set and otherwise
// run on the calling goroutine.
func (p *Preferences) Watch(ctx context.Context) error {
	if p.store == nil {
		return ErrNoSettingsFile
	}

	reload := func() {
		if err := p.Reload(); err != nil {
			p.logger.Error("settings reload failed", "path", p.store.Path(), "error", err)
		}
	}
	w, err := watcher.New(p.store.Path(), func(watcher.Event) {
		if p.opts.Dispatch != nil {
			p.opts.Dispatch(reload)
			return
		}
		reload()
	}, watcher.WithLogger(p.logger))
	if err != nil {
		return &OperationError{Op: "watch", Target: p.store.Path(), Err: err}
	}
	defer w.Close()

	p.logger.Info("watching settings file", "path", w.Path())
	return w.Run(ctx)
}
