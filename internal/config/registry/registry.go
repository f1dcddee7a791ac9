package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry indexes settings by path.
type Registry struct {
	mu         sync.RWMutex
	settings   map[string]*Setting
	breadcrumb map[string]string // setting path -> category breadcrumb
	categories []*Category
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		settings:   make(map[string]*Setting),
		breadcrumb: make(map[string]string),
	}
}

// FromCategories builds a registry from a category tree, registering every
// setting of every group of every category.
func FromCategories(categories ...*Category) (*Registry, error) {
	r := NewRegistry()
	for _, root := range categories {
		var err error
		root.Walk(func(c *Category) {
			if err != nil {
				return
			}
			for _, s := range c.Settings() {
				if err = r.register(s, c.Breadcrumb()); err != nil {
					return
				}
			}
		})
		if err != nil {
			return nil, err
		}
		r.categories = append(r.categories, root)
	}
	return r, nil
}

// Register adds a setting that does not belong to any category.
// Returns an error if a setting with the same path already exists.
func (r *Registry) Register(s *Setting) error {
	return r.register(s, "")
}

func (r *Registry) register(s *Setting, breadcrumb string) error {
	if s == nil || s.path == "" || strings.HasPrefix(s.path, ".") || strings.HasSuffix(s.path, ".") {
		return ErrInvalidPath
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.settings[s.path]; exists {
		return fmt.Errorf("%w: %s", ErrSettingAlreadyRegistered, s.path)
	}
	r.settings[s.path] = s
	r.breadcrumb[s.path] = breadcrumb
	return nil
}

// MustRegister registers a setting and panics on error.
func (r *Registry) MustRegister(s *Setting) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Get returns the setting at path, or nil if none is registered.
func (r *Registry) Get(path string) *Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings[path]
}

// Lookup returns the setting at path or ErrSettingNotFound.
func (r *Registry) Lookup(path string) (*Setting, error) {
	if s := r.Get(path); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
}

// Has checks if a setting is registered.
func (r *Registry) Has(path string) bool {
	return r.Get(path) != nil
}

// Len returns the number of registered settings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.settings)
}

// All returns all registered settings sorted by path.
func (r *Registry) All() []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Setting, 0, len(r.settings))
	for _, s := range r.settings {
		result = append(result, s)
	}
	sortByPath(result)
	return result
}

// Categories returns the root categories in declaration order.
func (r *Registry) Categories() []*Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Category(nil), r.categories...)
}

// Breadcrumb returns the breadcrumb of the category holding path.
func (r *Registry) Breadcrumb(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.breadcrumb[path]
}

// Search finds settings matching a query string.
// Searches path, description, tags and category breadcrumb.
func (r *Registry) Search(query string) []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	var result []*Setting
	for path, s := range r.settings {
		if matchesSetting(s, query) || strings.Contains(strings.ToLower(r.breadcrumb[path]), query) {
			result = append(result, s)
		}
	}
	sortByPath(result)
	return result
}

// ByTag returns all settings with the given tag.
func (r *Registry) ByTag(tag string) []*Setting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Setting
	for _, s := range r.settings {
		for _, t := range s.tags {
			if t == tag {
				result = append(result, s)
				break
			}
		}
	}
	sortByPath(result)
	return result
}

// Values returns the current value of every setting keyed by path.
func (r *Registry) Values() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]any, len(r.settings))
	for path, s := range r.settings {
		result[path] = s.Value()
	}
	return result
}

// Defaults returns the default value of every setting keyed by path.
func (r *Registry) Defaults() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]any, len(r.settings))
	for path, s := range r.settings {
		if s.defaultValue != nil {
			result[path] = s.defaultValue
		}
	}
	return result
}

// matchesSetting checks if a setting matches a lower-cased query.
func matchesSetting(s *Setting, query string) bool {
	if strings.Contains(strings.ToLower(s.path), query) {
		return true
	}
	if strings.Contains(strings.ToLower(s.description), query) {
		return true
	}
	for _, tag := range s.tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortByPath(settings []*Setting) {
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].path < settings[j].path
	})
}
