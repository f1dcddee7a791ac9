package registry

import (
	"errors"
	"fmt"
)

// Errors returned by registry operations.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrSettingAlreadyRegistered indicates an attempt to register a duplicate setting.
	ErrSettingAlreadyRegistered = errors.New("setting already registered")

	// ErrTypeMismatch indicates the value type doesn't match the setting type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates the value fails the setting's constraints.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidPath indicates an empty or malformed setting path.
	ErrInvalidPath = errors.New("invalid setting path")
)

// ValidationError describes a value rejected by a setting's constraints.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Value is the rejected value.
	Value any
	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid value %v: %s", e.Path, e.Value, e.Message)
}

// Unwrap returns ErrValidationFailed so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
