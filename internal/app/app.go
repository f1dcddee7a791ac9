// Package app provides the Preferences facade. It wires the settings
// registry, the undo/redo history, change notification, file persistence,
// live reload and Lua scripting together.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/prefpane/internal/config/loader"
	"github.com/dshills/prefpane/internal/config/notify"
	"github.com/dshills/prefpane/internal/config/registry"
	"github.com/dshills/prefpane/internal/engine/history"
	"github.com/dshills/prefpane/internal/logging"
	"github.com/dshills/prefpane/internal/property"
)

// Options configures Preferences.
type Options struct {
	// SettingsPath is the TOML or YAML file holding setting values.
	// Empty disables persistence.
	SettingsPath string

	// AutoSave writes the settings file after every change.
	AutoSave bool

	// MaxHistory bounds the undo log. Zero uses the history default.
	MaxHistory int

	// EnvPrefix enables overrides from environment variables named
	// prefix + upper-cased path with dots replaced by underscores.
	EnvPrefix string

	// ScriptTimeout bounds a single Lua script run. Zero uses the default.
	ScriptTimeout time.Duration

	// Dispatch runs the reloads triggered by Watch. Preferences are meant to
	// be edited from one goroutine; a host whose event loop owns them passes
	// a function queueing fn onto that loop. Nil runs reloads on the
	// goroutine calling Watch.
	Dispatch func(fn func())

	// Logger receives diagnostics. Defaults to a discarding logger.
	Logger *logging.Logger
}

// Preferences is the application-facing preferences model.
type Preferences struct {
	opts Options

	registry *registry.Registry
	history  *history.History
	notifier *notify.Notifier
	store    *loader.Store
	env      *loader.EnvLoader
	logger   *logging.Logger

	// detach removes the publishing listeners added to every cell.
	detach []func()

	srcMu  sync.Mutex
	source string

	mu     sync.Mutex
	closed bool
}

// New builds preferences from a category tree. Every setting is attached
// to the history and publishes its changes on its own path.
func New(opts Options, categories ...*registry.Category) (*Preferences, error) {
	reg, err := registry.FromCategories(categories...)
	if err != nil {
		return nil, &OperationError{Op: "register", Err: err}
	}

	p := &Preferences{
		opts:     opts,
		registry: reg,
		notifier: notify.New(),
		logger:   opts.Logger,
		source:   notify.SourceUser,
	}
	if p.logger == nil {
		p.logger = logging.Discard()
	}

	historyOpts := []history.Option{
		history.WithNotifier(p.notifier),
		history.WithLogger(p.logger.With("component", "history")),
	}
	if opts.MaxHistory > 0 {
		historyOpts = append(historyOpts, history.WithMaxEntries(opts.MaxHistory))
	}
	p.history = history.New(historyOpts...)

	if opts.SettingsPath != "" {
		store, err := loader.NewStore(opts.SettingsPath)
		if err != nil {
			return nil, &OperationError{Op: "open", Target: opts.SettingsPath, Err: err}
		}
		p.store = store
	}
	if opts.EnvPrefix != "" {
		p.env = loader.NewEnvLoader(opts.EnvPrefix)
	}

	for _, s := range reg.All() {
		if err := p.history.AttachChangeListener(s); err != nil {
			p.Close()
			return nil, err
		}
		p.detach = append(p.detach, p.publishChanges(s))
	}

	return p, nil
}

// publishChanges forwards cell changes to the notifier and triggers
// autosave. It returns a function removing the listener.
func (p *Preferences) publishChanges(s *registry.Setting) func() {
	path := s.Path()
	switch cell := s.Property().(type) {
	case property.List:
		id := cell.AddListListener(func(oldItems, newItems []any) {
			p.changed(path, oldItems, newItems)
		})
		return func() { cell.RemoveListener(id) }
	case property.Value:
		id := cell.AddListener(func(oldValue, newValue any) {
			p.changed(path, oldValue, newValue)
		})
		return func() { cell.RemoveListener(id) }
	}
	return func() {}
}

func (p *Preferences) changed(path string, oldValue, newValue any) {
	source := p.currentSource()
	p.notifier.NotifySet(path, oldValue, newValue, source)

	if p.opts.AutoSave && p.store != nil && source != notify.SourceStore {
		if err := p.SaveSettingValues(); err != nil {
			p.logger.Error("autosave failed", "path", p.store.Path(), "error", err)
		}
	}
}

// withSource runs fn with changes attributed to source.
func (p *Preferences) withSource(source string, fn func() error) error {
	p.srcMu.Lock()
	prev := p.source
	p.source = source
	p.srcMu.Unlock()

	defer func() {
		p.srcMu.Lock()
		p.source = prev
		p.srcMu.Unlock()
	}()
	return fn()
}

func (p *Preferences) currentSource() string {
	p.srcMu.Lock()
	defer p.srcMu.Unlock()
	return p.source
}

// Registry returns the settings registry.
func (p *Preferences) Registry() *registry.Registry { return p.registry }

// History returns the undo/redo history.
func (p *Preferences) History() *history.History { return p.history }

// Notifier returns the notifier carrying setting and history changes.
func (p *Preferences) Notifier() *notify.Notifier { return p.notifier }

// Setting returns the setting at path.
func (p *Preferences) Setting(path string) (*registry.Setting, error) {
	return p.registry.Lookup(path)
}

// Value returns the current value of the setting at path.
func (p *Preferences) Value(path string) (any, error) {
	s, err := p.registry.Lookup(path)
	if err != nil {
		return nil, err
	}
	return s.Value(), nil
}

// SetValue validates v and writes it to the setting at path. The change is
// recorded in the history.
func (p *Preferences) SetValue(path string, v any) error {
	s, err := p.registry.Lookup(path)
	if err != nil {
		return err
	}
	return s.SetValue(v)
}

// AppendItem adds item to the end of a list setting.
func (p *Preferences) AppendItem(path string, item any) error {
	s, items, err := p.listSetting(path)
	if err != nil {
		return err
	}
	return s.SetValue(append(items, item))
}

// RemoveItem removes the first occurrence of item from a list setting and
// reports whether it was present.
func (p *Preferences) RemoveItem(path string, item any) (bool, error) {
	s, items, err := p.listSetting(path)
	if err != nil {
		return false, err
	}

	// Normalize numbers decoded from scripts to the item representation.
	if coerced, err := s.Coerce([]any{item}); err == nil {
		item = coerced.([]any)[0]
	}

	for i, v := range items {
		if property.Equal(v, item) {
			return true, s.SetValue(append(items[:i], items[i+1:]...))
		}
	}
	return false, nil
}

func (p *Preferences) listSetting(path string) (*registry.Setting, []any, error) {
	s, err := p.registry.Lookup(path)
	if err != nil {
		return nil, nil, err
	}
	cell, ok := s.Property().(property.List)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrNotListSetting)
	}
	return s, cell.Items(), nil
}

// Undo reverts the most recent applied change.
func (p *Preferences) Undo() bool {
	var ok bool
	_ = p.withSource(notify.SourceHistory, func() error {
		ok = p.history.Undo()
		return nil
	})
	return ok
}

// Redo re-applies the next undone change.
func (p *Preferences) Redo() bool {
	var ok bool
	_ = p.withSource(notify.SourceHistory, func() error {
		ok = p.history.Redo()
		return nil
	})
	return ok
}

// Discard undoes every applied change and returns how many were undone.
func (p *Preferences) Discard() int {
	var n int
	_ = p.withSource(notify.SourceHistory, func() error {
		n = p.history.UndoAll()
		return nil
	})
	if n > 0 {
		p.logger.Info("changes discarded", "count", n)
	}
	return n
}

// UndoAvailable reports whether Undo would succeed.
func (p *Preferences) UndoAvailable() bool { return p.history.UndoAvailable() }

// RedoAvailable reports whether Redo would succeed.
func (p *Preferences) RedoAvailable() bool { return p.history.RedoAvailable() }

// Changes returns a copy of the change log.
func (p *Preferences) Changes() []history.Change { return p.history.Changes() }

// CurrentChange returns the last applied change, or nil.
func (p *Preferences) CurrentChange() history.Change { return p.history.CurrentChange() }

// HistoryDescriptions returns the description of every logged change.
func (p *Preferences) HistoryDescriptions() []string {
	changes := p.history.Changes()
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Description()
	}
	return out
}

// Close detaches every listener and closes the notifier.
func (p *Preferences) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	for _, s := range p.registry.All() {
		p.history.DetachChangeListener(s)
	}
	for _, fn := range p.detach {
		fn()
	}
	p.notifier.Close()
	return nil
}

func (p *Preferences) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

