package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates a settings file extension with no codec.
	ErrUnsupportedFormat = errors.New("unsupported settings format")

	// ErrPathConflict indicates that one setting path is a prefix of another,
	// e.g. "display" and "display.brightness".
	ErrPathConflict = errors.New("conflicting setting paths")
)

// ParseError represents an error while parsing a settings file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
