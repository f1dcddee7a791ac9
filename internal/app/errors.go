package app

import (
	"errors"
	"fmt"
)

// Preferences errors.
var (
	// ErrNoSettingsFile indicates an operation that needs a settings file
	// when none was configured.
	ErrNoSettingsFile = errors.New("no settings file configured")

	// ErrNotListSetting indicates a list operation on a scalar setting.
	ErrNotListSetting = errors.New("not a list setting")

	// ErrClosed indicates the preferences have been closed.
	ErrClosed = errors.New("preferences closed")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "save", "script")
	Target string // Target of the operation (e.g., file path, setting path)
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
