package history

import "github.com/dshills/prefpane/internal/property"

// DoWithoutListeners runs action with the recording listener of setting
// detached, so writes made by action are not recorded. The listener is
// re-attached when action returns, fails or panics. Nested calls for the
// same setting keep the listener detached until the outermost call ends.
//
// If setting has no recording listener, action runs unguarded.
// The error returned by action is passed through unchanged.
func (h *History) DoWithoutListeners(setting Setting, action func() error) error {
	h.mu.Lock()
	reg, ok := h.listeners[setting]
	if !ok {
		h.mu.Unlock()
		return action()
	}
	reg.suppressed++
	detach := reg.suppressed == 1
	h.mu.Unlock()

	if detach {
		setting.Property().RemoveListener(reg.id)
	}
	defer h.release(setting, reg)

	return action()
}

// release ends one suppression scope and re-attaches the listener when the
// outermost scope ends and the setting is still attached.
func (h *History) release(setting Setting, reg *registration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	reg.suppressed--
	if reg.suppressed > 0 {
		return
	}
	if h.listeners[setting] != reg {
		// detached while suppressed
		return
	}

	switch reg.kind {
	case kindList:
		if cell, ok := setting.Property().(property.List); ok {
			reg.id = cell.AddListListener(reg.onList)
		}
	case kindValue:
		if cell, ok := setting.Property().(property.Value); ok {
			reg.id = cell.AddListener(reg.onValue)
		}
	}
}
