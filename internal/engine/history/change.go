package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/prefpane/internal/property"
)

// Setting is a handle to a bindable cell the history can observe.
// Implementations must be comparable; pointer types are expected.
type Setting interface {
	// Path identifies the setting (e.g., "display.brightness").
	Path() string

	// Property returns the setting's cell, a property.Value or property.List.
	Property() property.Property
}

// Change is one undoable record of a setting's transition.
type Change interface {
	// ID uniquely identifies the change.
	ID() uuid.UUID

	// Setting returns the setting the change belongs to.
	Setting() Setting

	// OldValue returns the value before the change.
	OldValue() any

	// NewValue returns the value after the change.
	NewValue() any

	// Timestamp returns when the change was first recorded.
	Timestamp() time.Time

	// Undo writes the old value back into the setting's cell.
	Undo()

	// Redo writes the new value back into the setting's cell.
	Redo()

	// IsRedundant reports whether old and new value are equal.
	IsRedundant() bool

	// Description returns a human-readable summary.
	Description() string
}

// ValueChange records a transition of a scalar cell.
type ValueChange struct {
	id        uuid.UUID
	setting   Setting
	oldValue  any
	newValue  any
	timestamp time.Time
}

// NewValueChange creates a change of setting from oldValue to newValue.
func NewValueChange(setting Setting, oldValue, newValue any) *ValueChange {
	return &ValueChange{
		id:        uuid.New(),
		setting:   setting,
		oldValue:  oldValue,
		newValue:  newValue,
		timestamp: time.Now(),
	}
}

// ID returns the change ID.
func (c *ValueChange) ID() uuid.UUID { return c.id }

// Setting returns the owning setting.
func (c *ValueChange) Setting() Setting { return c.setting }

// OldValue returns the value before the change.
func (c *ValueChange) OldValue() any { return c.oldValue }

// NewValue returns the value after the change.
func (c *ValueChange) NewValue() any { return c.newValue }

// Timestamp returns when the change was recorded.
func (c *ValueChange) Timestamp() time.Time { return c.timestamp }

// SetNewValue replaces the new value. Only used when compounding.
func (c *ValueChange) SetNewValue(v any) {
	c.newValue = v
}

// Undo writes the old value into the cell.
func (c *ValueChange) Undo() {
	c.apply(c.oldValue)
}

// Redo writes the new value into the cell.
func (c *ValueChange) Redo() {
	c.apply(c.newValue)
}

func (c *ValueChange) apply(v any) {
	if cell, ok := c.setting.Property().(property.Value); ok {
		cell.Set(v)
	}
}

// IsRedundant reports whether the change is a no-op.
func (c *ValueChange) IsRedundant() bool {
	return property.Equal(c.oldValue, c.newValue)
}

// Description returns "path: old → new".
func (c *ValueChange) Description() string {
	return fmt.Sprintf("%s: %v → %v", c.setting.Path(), c.oldValue, c.newValue)
}

// ListChange records a structural mutation of a list cell.
// Both states are kept as full snapshots.
type ListChange struct {
	id        uuid.UUID
	setting   Setting
	oldItems  []any
	newItems  []any
	timestamp time.Time
}

// NewListChange creates a change of setting from oldItems to newItems.
// The slices are copied.
func NewListChange(setting Setting, oldItems, newItems []any) *ListChange {
	return &ListChange{
		id:        uuid.New(),
		setting:   setting,
		oldItems:  snapshot(oldItems),
		newItems:  snapshot(newItems),
		timestamp: time.Now(),
	}
}

// ID returns the change ID.
func (c *ListChange) ID() uuid.UUID { return c.id }

// Setting returns the owning setting.
func (c *ListChange) Setting() Setting { return c.setting }

// OldValue returns a copy of the list before the change.
func (c *ListChange) OldValue() any { return c.OldItems() }

// NewValue returns a copy of the list after the change.
func (c *ListChange) NewValue() any { return c.NewItems() }

// OldItems returns a copy of the list before the change.
func (c *ListChange) OldItems() []any { return snapshot(c.oldItems) }

// NewItems returns a copy of the list after the change.
func (c *ListChange) NewItems() []any { return snapshot(c.newItems) }

// Timestamp returns when the change was recorded.
func (c *ListChange) Timestamp() time.Time { return c.timestamp }

// Undo restores the old list contents.
func (c *ListChange) Undo() {
	c.apply(c.oldItems)
}

// Redo restores the new list contents.
func (c *ListChange) Redo() {
	c.apply(c.newItems)
}

func (c *ListChange) apply(items []any) {
	if cell, ok := c.setting.Property().(property.List); ok {
		cell.SetItems(snapshot(items))
	}
}

// IsRedundant reports whether both snapshots are equal.
func (c *ListChange) IsRedundant() bool {
	return property.Equal(c.oldItems, c.newItems)
}

// Description returns "path: [old] → [new]".
func (c *ListChange) Description() string {
	return fmt.Sprintf("%s: %v → %v", c.setting.Path(), c.oldItems, c.newItems)
}

func snapshot(items []any) []any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}
