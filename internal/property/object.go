package property

import "sync"

type changeEntry struct {
	id ListenerID
	fn ChangeListener
}

// Object is a scalar observable cell.
type Object struct {
	mu sync.Mutex

	value     any
	listeners []changeEntry
	nextID    ListenerID
}

// NewObject creates a cell holding initial.
func NewObject(initial any) *Object {
	return &Object{value: initial}
}

// Get returns the current value.
func (p *Object) Get() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set replaces the value and notifies listeners if it changed.
// Listeners are called outside the lock, in registration order.
func (p *Object) Set(v any) {
	p.mu.Lock()
	old := p.value
	if Equal(old, v) {
		p.mu.Unlock()
		return
	}
	p.value = v
	listeners := make([]changeEntry, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(old, v)
	}
}

// AddListener registers a change listener.
func (p *Object) AddListener(l ChangeListener) ListenerID {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	p.listeners = append(p.listeners, changeEntry{id: p.nextID, fn: l})
	return p.nextID
}

// RemoveListener unregisters a listener.
func (p *Object) RemoveListener(id ListenerID) bool {
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
func (p *Object) ListenerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}
