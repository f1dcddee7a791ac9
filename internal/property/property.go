// Package property provides observable value cells that settings bind to.
//
// A cell holds the live value of one setting. Interested parties (the history
// engine, the settings store, conditional visibility) subscribe to the cell
// and are called synchronously after every effective change.
//
// Two kinds of cells exist:
//   - Object holds a single value and notifies with the old and new value.
//   - ListProperty holds an ordered list and notifies on structural mutations
//     (add, insert, remove, replace, clear) with full before/after snapshots.
package property

import (
	"errors"
	"reflect"
)

// ErrIndexOutOfRange is returned by list mutations addressing a missing index.
var ErrIndexOutOfRange = errors.New("index out of range")

// ListenerID identifies a registered listener. Zero is never issued.
type ListenerID uint64

// ChangeListener is called after a scalar cell changed value.
type ChangeListener func(oldValue, newValue any)

// ListChangeListener is called after a list cell was structurally modified.
// Both slices are private copies and may be retained.
type ListChangeListener func(oldItems, newItems []any)

// Property is the behavior common to every observable cell.
type Property interface {
	// RemoveListener unregisters a listener. Returns false if the ID is unknown.
	RemoveListener(id ListenerID) bool
}

// Value is a cell holding a single value.
type Value interface {
	Property

	// Get returns the current value.
	Get() any

	// Set replaces the value. Listeners fire only if the value changed.
	Set(v any)

	// AddListener registers a change listener.
	AddListener(l ChangeListener) ListenerID
}

// List is a cell holding an ordered list of values.
type List interface {
	Property

	// Items returns a copy of the current contents.
	Items() []any

	// SetItems replaces the whole contents. Listeners fire only if the
	// contents changed.
	SetItems(items []any)

	// AddListListener registers a structural change listener.
	AddListListener(l ListChangeListener) ListenerID
}

// Equal reports whether two cell values are equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// cloneItems copies a list so callers never share backing arrays with a cell.
func cloneItems(items []any) []any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}
