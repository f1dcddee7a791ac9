// Package history provides undo/redo for settings bound to observable cells.
//
// The history records one Change per effective edit of a setting and keeps
// a cursor into the log so edits can be undone and redone. Key concepts:
//
// # Changes
//
// A Change captures the old and new value of one setting:
//   - ValueChange for scalar cells (property.Value)
//   - ListChange for list cells (property.List), holding full snapshots
//
// # Recording
//
// AttachChangeListener subscribes the history to a setting's cell. Every
// notification from the cell becomes a candidate change, classified against
// the entry at the cursor:
//   - same setting: the entry is compounded (its new value is updated), so
//     dragging a slider produces one undo step
//   - entry is redundant (old == new): the slot is overwritten
//   - entries exist ahead of the cursor: the next slot is overwritten
//   - otherwise the change is appended
//
// Anything after the cursor is then discarded; history is linear.
// List cells skip the compounding rules and always record a new entry.
//
// # Undo and Redo
//
//	h := history.New(history.WithMaxEntries(500))
//	h.AttachChangeListener(brightness)
//
//	brightnessCell.Set(60)
//	h.Undo() // brightness back to its previous value
//	h.Redo()
//
// # Listener Suppression
//
// Applying a change writes to the setting's cell, which would normally be
// recorded again. DoWithoutListeners detaches the recording listener of one
// setting for the duration of an action and always re-attaches it:
//
//	err := h.DoWithoutListeners(setting, func() error {
//	    cell.Set(loaded)
//	    return nil
//	})
package history
