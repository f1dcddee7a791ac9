// Package registry provides the declarative settings model.
//
// A Setting binds a path and description to an observable cell from the
// property package. Settings are arranged in Groups, Groups in Categories,
// and Categories may nest. The Registry indexes every Setting by path and
// provides validation, coercion of loaded values and search.
package registry

import (
	"fmt"
	"math"
	"reflect"
	"regexp"

	"github.com/dshills/prefpane/internal/property"
)

// SettingType represents the data type of a setting.
type SettingType uint8

const (
	// TypeString represents a string value.
	TypeString SettingType = iota
	// TypeInt represents an integer value.
	TypeInt
	// TypeFloat represents a floating-point value.
	TypeFloat
	// TypeBool represents a boolean value.
	TypeBool
	// TypeArray represents a list value.
	TypeArray
	// TypeObject represents any other value.
	TypeObject
	// TypeEnum represents a single selection from a fixed set of items.
	TypeEnum
)

// String returns the string representation of the type.
func (t SettingType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Setting is one editable preference bound to a cell.
type Setting struct {
	path        string
	description string
	typ         SettingType
	prop        property.Property

	// items lists the selectable values of selection settings.
	items []any

	defaultValue any

	minimum *float64
	maximum *float64

	pattern         string
	compiledPattern *regexp.Regexp

	tags       []string
	visibility *Visibility
}

// Option configures a Setting.
type Option func(*Setting)

// WithRange limits numeric settings to [minimum, maximum].
func WithRange(minimum, maximum float64) Option {
	return func(s *Setting) {
		s.minimum = &minimum
		s.maximum = &maximum
	}
}

// WithMinimum sets a lower bound for numeric settings.
func WithMinimum(minimum float64) Option {
	return func(s *Setting) {
		s.minimum = &minimum
	}
}

// WithPattern requires string values to match the regular expression.
// An invalid pattern makes every value fail validation.
func WithPattern(pattern string) Option {
	return func(s *Setting) {
		s.pattern = pattern
		s.compiledPattern, _ = regexp.Compile(pattern)
	}
}

// WithTags attaches search tags.
func WithTags(tags ...string) Option {
	return func(s *Setting) {
		s.tags = append(s.tags, tags...)
	}
}

// WithVisibility shows the setting only while v is visible.
func WithVisibility(v *Visibility) Option {
	return func(s *Setting) {
		s.visibility = v
	}
}

// WithType overrides the type inferred from the initial value.
func WithType(t SettingType) Option {
	return func(s *Setting) {
		s.typ = t
	}
}

// New creates a scalar setting. The type is inferred from the cell's
// current value, which also becomes the default.
func New(path, description string, cell *property.Object, opts ...Option) *Setting {
	initial := cell.Get()
	s := &Setting{
		path:         path,
		description:  description,
		typ:          inferType(initial),
		prop:         cell,
		defaultValue: initial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSelection creates a setting choosing one of items.
func NewSelection(path, description string, items []any, selection *property.Object, opts ...Option) *Setting {
	s := New(path, description, selection, opts...)
	s.typ = TypeEnum
	s.items = cloneSlice(items)
	return s
}

// NewList creates a list-valued setting with free-form items.
func NewList(path, description string, list *property.ListProperty, opts ...Option) *Setting {
	s := &Setting{
		path:         path,
		description:  description,
		typ:          TypeArray,
		prop:         list,
		defaultValue: list.Items(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMultiSelection creates a list-valued setting whose items must come
// from items.
func NewMultiSelection(path, description string, items []any, selection *property.ListProperty, opts ...Option) *Setting {
	s := NewList(path, description, selection, opts...)
	s.items = cloneSlice(items)
	return s
}

// Path returns the dot-separated setting path.
func (s *Setting) Path() string { return s.path }

// Description returns the human-readable label.
func (s *Setting) Description() string { return s.description }

// Type returns the setting type.
func (s *Setting) Type() SettingType { return s.typ }

// Property returns the bound cell.
func (s *Setting) Property() property.Property { return s.prop }

// Items returns the selectable items of selection settings.
func (s *Setting) Items() []any { return cloneSlice(s.items) }

// Default returns the value the cell held when the setting was created.
func (s *Setting) Default() any { return s.defaultValue }

// Tags returns the search tags.
func (s *Setting) Tags() []string { return append([]string(nil), s.tags...) }

// IsList reports whether the setting is bound to a list cell.
func (s *Setting) IsList() bool {
	_, ok := s.prop.(property.List)
	return ok
}

// IsVisible reports whether the setting should currently be shown.
func (s *Setting) IsVisible() bool {
	return s.visibility.Visible()
}

// Value returns the current value (a []any copy for list settings).
func (s *Setting) Value() any {
	switch cell := s.prop.(type) {
	case property.List:
		return cell.Items()
	case property.Value:
		return cell.Get()
	}
	return nil
}

// SetValue coerces and validates v, then writes it into the cell.
func (s *Setting) SetValue(v any) error {
	coerced, err := s.Validate(v)
	if err != nil {
		return err
	}
	switch cell := s.prop.(type) {
	case property.List:
		cell.SetItems(coerced.([]any))
	case property.Value:
		cell.Set(coerced)
	}
	return nil
}

// Reset restores the default value.
func (s *Setting) Reset() error {
	return s.SetValue(s.defaultValue)
}

// Validate coerces v to the setting type and checks its constraints.
// It returns the coerced value.
func (s *Setting) Validate(v any) (any, error) {
	coerced, err := s.Coerce(v)
	if err != nil {
		return nil, err
	}

	switch s.typ {
	case TypeEnum:
		if len(s.items) > 0 && !containsValue(s.items, coerced) {
			return nil, &ValidationError{Path: s.path, Value: v, Message: fmt.Sprintf("must be one of %v", s.items)}
		}
	case TypeArray:
		if len(s.items) > 0 {
			for _, item := range coerced.([]any) {
				if !containsValue(s.items, item) {
					return nil, &ValidationError{Path: s.path, Value: item, Message: fmt.Sprintf("must be one of %v", s.items)}
				}
			}
		}
	case TypeInt, TypeFloat:
		if err := s.validateRange(coerced); err != nil {
			return nil, err
		}
	case TypeString:
		if err := s.validatePattern(coerced.(string)); err != nil {
			return nil, err
		}
	}

	return coerced, nil
}

// Coerce converts v to the Go type held by the setting's cell. Integer
// settings accept any integral number the cell's type can hold, without a
// detour through float64. Float settings accept any number. This lets values
// decoded from TOML, YAML or Lua be compared with values set from code.
func (s *Setting) Coerce(v any) (any, error) {
	switch s.typ {
	case TypeString:
		if str, ok := v.(string); ok {
			return str, nil
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeInt:
		if n, ok := toInteger(v, reflect.TypeOf(s.defaultValue)); ok {
			return n, nil
		}
	case TypeFloat:
		if f, ok := toFloat(v); ok {
			return reflect.ValueOf(f).Convert(reflect.TypeOf(s.defaultValue)).Interface(), nil
		}
	case TypeEnum:
		if match, ok := matchItem(s.items, v); ok {
			return match, nil
		}
		if len(s.items) == 0 {
			return v, nil
		}
		return nil, &ValidationError{Path: s.path, Value: v, Message: fmt.Sprintf("must be one of %v", s.items)}
	case TypeArray:
		list, ok := toSlice(v)
		if !ok {
			break
		}
		for i, item := range list {
			if match, ok := matchItem(s.items, item); ok {
				list[i] = match
			}
		}
		return list, nil
	case TypeObject:
		return v, nil
	}
	return nil, fmt.Errorf("%s: %w: expected %s, got %T", s.path, ErrTypeMismatch, s.typ, v)
}

func (s *Setting) validateRange(v any) error {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	if s.minimum != nil && f < *s.minimum {
		return &ValidationError{Path: s.path, Value: v, Message: fmt.Sprintf("less than minimum %v", *s.minimum)}
	}
	if s.maximum != nil && f > *s.maximum {
		return &ValidationError{Path: s.path, Value: v, Message: fmt.Sprintf("greater than maximum %v", *s.maximum)}
	}
	return nil
}

func (s *Setting) validatePattern(str string) error {
	if s.pattern == "" {
		return nil
	}
	if s.compiledPattern == nil {
		return &ValidationError{Path: s.path, Value: str, Message: fmt.Sprintf("invalid pattern %s", s.pattern)}
	}
	if !s.compiledPattern.MatchString(str) {
		return &ValidationError{Path: s.path, Value: str, Message: fmt.Sprintf("does not match pattern %s", s.pattern)}
	}
	return nil
}

// inferType maps an initial cell value to a SettingType.
func inferType(v any) SettingType {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	}
	if _, ok := toSlice(v); ok {
		return TypeArray
	}
	return TypeObject
}

// toInteger converts an integral number to the integer type t. Fractions
// and values outside the range of t are rejected.
func toInteger(v any, t reflect.Type) (any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || t == nil {
		return nil, false
	}

	out := reflect.New(t).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !setInt(out, rv.Int()) {
			return nil, false
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !setUint(out, rv.Uint()) {
			return nil, false
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return nil, false
		}
		switch {
		case f >= math.MinInt64 && f < math.MaxInt64:
			if !setInt(out, int64(f)) {
				return nil, false
			}
		case f >= 0 && f < math.MaxUint64:
			if !setUint(out, uint64(f)) {
				return nil, false
			}
		default:
			return nil, false
		}
	default:
		return nil, false
	}
	return out.Interface(), true
}

func setInt(out reflect.Value, i int64) bool {
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if out.OverflowInt(i) {
			return false
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i < 0 || out.OverflowUint(uint64(i)) {
			return false
		}
		out.SetUint(uint64(i))
	default:
		return false
	}
	return true
}

func setUint(out reflect.Value, u uint64) bool {
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
			return false
		}
		out.SetInt(int64(u))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if out.OverflowUint(u) {
			return false
		}
		out.SetUint(u)
	default:
		return false
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// toSlice converts any slice or array value to a fresh []any.
func toSlice(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return cloneSlice(list), true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// matchItem finds the item equal to v, treating numbers of different Go
// types as equal when their values are.
func matchItem(items []any, v any) (any, bool) {
	for _, item := range items {
		if property.Equal(item, v) {
			return item, true
		}
	}
	vf, ok := toFloat(v)
	if !ok {
		return nil, false
	}
	for _, item := range items {
		if f, ok := toFloat(item); ok && f == vf {
			return item, true
		}
	}
	return nil, false
}

func containsValue(items []any, v any) bool {
	_, ok := matchItem(items, v)
	return ok
}

func cloneSlice(items []any) []any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	copy(out, items)
	return out
}
