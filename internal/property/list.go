package property

import (
	"fmt"
	"sync"
)

type listEntry struct {
	id ListenerID
	fn ListChangeListener
}

// ListProperty is an observable ordered list.
type ListProperty struct {
	mu sync.Mutex

	items     []any
	listeners []listEntry
	nextID    ListenerID
}

// NewList creates a list cell with the given initial items.
func NewList(items ...any) *ListProperty {
	return &ListProperty{items: cloneItems(items)}
}

// Items returns a copy of the current contents.
func (p *ListProperty) Items() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneItems(p.items)
}

// Len returns the number of items.
func (p *ListProperty) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Contains reports whether an item equal to v is present.
func (p *ListProperty) Contains(v any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return indexOf(p.items, v) >= 0
}

// SetItems replaces the whole contents.
func (p *ListProperty) SetItems(items []any) {
	p.mutate(func([]any) ([]any, error) {
		return cloneItems(items), nil
	})
}

// Add appends items to the end of the list.
func (p *ListProperty) Add(items ...any) {
	if len(items) == 0 {
		return
	}
	p.mutate(func(cur []any) ([]any, error) {
		return append(cur, items...), nil
	})
}

// Insert places v at index, shifting later items right.
func (p *ListProperty) Insert(index int, v any) error {
	return p.mutate(func(cur []any) ([]any, error) {
		if index < 0 || index > len(cur) {
			return nil, fmt.Errorf("insert at %d: %w", index, ErrIndexOutOfRange)
		}
		cur = append(cur, nil)
		copy(cur[index+1:], cur[index:])
		cur[index] = v
		return cur, nil
	})
}

// Replace overwrites the item at index.
func (p *ListProperty) Replace(index int, v any) error {
	return p.mutate(func(cur []any) ([]any, error) {
		if index < 0 || index >= len(cur) {
			return nil, fmt.Errorf("replace at %d: %w", index, ErrIndexOutOfRange)
		}
		cur[index] = v
		return cur, nil
	})
}

// RemoveAt deletes the item at index.
func (p *ListProperty) RemoveAt(index int) error {
	return p.mutate(func(cur []any) ([]any, error) {
		if index < 0 || index >= len(cur) {
			return nil, fmt.Errorf("remove at %d: %w", index, ErrIndexOutOfRange)
		}
		return append(cur[:index], cur[index+1:]...), nil
	})
}

// Remove deletes the first item equal to v. Returns false if none matched.
func (p *ListProperty) Remove(v any) bool {
	removed := false
	p.mutate(func(cur []any) ([]any, error) {
		i := indexOf(cur, v)
		if i < 0 {
			return cur, nil
		}
		removed = true
		return append(cur[:i], cur[i+1:]...), nil
	})
	return removed
}

// Clear removes every item.
func (p *ListProperty) Clear() {
	p.mutate(func([]any) ([]any, error) {
		return []any{}, nil
	})
}

// AddListListener registers a structural change listener.
func (p *ListProperty) AddListListener(l ListChangeListener) ListenerID {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	p.listeners = append(p.listeners, listEntry{id: p.nextID, fn: l})
	return p.nextID
}

// RemoveListener unregisters a listener.
func (p *ListProperty) RemoveListener(id ListenerID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, l := range p.listeners {
		if l.id == id {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners.
func (p *ListProperty) ListenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// mutate applies fn to a working copy of the items. The copy is committed and
// listeners are notified only if fn succeeds and the contents changed.
func (p *ListProperty) mutate(fn func(cur []any) ([]any, error)) error {
	p.mu.Lock()
	old := cloneItems(p.items)
	next, err := fn(cloneItems(p.items))
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if Equal(old, next) {
		p.mu.Unlock()
		return nil
	}
	p.items = next
	listeners := make([]listEntry, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(cloneItems(old), cloneItems(next))
	}
	return nil
}

func indexOf(items []any, v any) int {
	for i, item := range items {
		if Equal(item, v) {
			return i
		}
	}
	return -1
}
