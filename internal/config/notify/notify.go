// Package notify provides change notification for settings and history state.
//
// Publishers send Change events on dot-separated paths. Observers subscribe
// either to everything or to a path; a path subscription also receives
// events for every child path, so subscribing to "history" receives
// "history.undoAvailable" and "history.currentChange".
//
// Delivery is synchronous and happens on the publishing goroutine, in
// subscription order, outside the notifier's lock.
package notify

import (
	"sync"
)

// ChangeType represents the type of change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates all values were reloaded from storage.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Sources attached to published changes.
const (
	SourceUser    = "user"
	SourceHistory = "history"
	SourceStore   = "store"
	SourceScript  = "script"
)

// Change represents a change event.
type Change struct {
	// Path is the dot-separated path of the changed value.
	// Empty for reload events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value.
	NewValue any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	path     string
	notifier *Notifier
}

// Path returns the subscribed path, or "" for global subscriptions.
func (s *Subscription) Path() string {
	return s.path
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

type subscriber struct {
	id       uint64
	path     string
	global   bool
	observer Observer
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	subscribers []subscriber
	nextID      uint64
	closed      bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{nextID: 1}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add("", true, observer)
}

// SubscribePath registers an observer for changes to path and its children.
// Reload events are delivered to every path subscriber.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.add(path, false, observer)
}

func (n *Notifier) add(path string, global bool, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subscribers = append(n.subscribers, subscriber{
		id:       id,
		path:     path,
		global:   global,
		observer: observer,
	})

	return &Subscription{id: id, path: path, notifier: n}
}

// Notify sends a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var observers []Observer
	for _, s := range n.subscribers {
		if s.matches(change) {
			observers = append(observers, s.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// SubscriberCount returns the number of active subscriptions.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// Close stops delivery. It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subscribers = nil
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, s := range n.subscribers {
		if s.id == id {
			n.subscribers = append(n.subscribers[:i], n.subscribers[i+1:]...)
			return
		}
	}
}

func (s subscriber) matches(change Change) bool {
	if s.global {
		return true
	}
	if change.Type == ChangeReload {
		return true
	}
	return s.path == change.Path || isParentPath(s.path, change.Path)
}

// isParentPath checks if parent is a parent path of child.
// e.g., "display" is parent of "display.brightness".
func isParentPath(parent, child string) bool {
	if parent == "" {
		return child != ""
	}
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}
