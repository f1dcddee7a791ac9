package loader

import (
	"errors"
	"fmt"
	"io/fs"
)

// Store reads and writes one settings file.
type Store struct {
	fs     FileSystem
	path   string
	format Format
	codec  codec
	perm   fs.FileMode
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithFileSystem sets the file system used by the store.
func WithFileSystem(fsys FileSystem) StoreOption {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithFormat overrides the format selected by the file extension.
func WithFormat(f Format) StoreOption {
	return func(s *Store) {
		s.format = f
	}
}

// WithPermissions sets the mode of saved files. The default is 0644.
func WithPermissions(perm fs.FileMode) StoreOption {
	return func(s *Store) {
		s.perm = perm
	}
}

// NewStore creates a store for path. The format comes from the extension
// unless WithFormat is given.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		fs:   DefaultFS(),
		path: path,
		perm: 0o644,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.format == 0 {
		f, err := FormatFor(path)
		if err != nil {
			return nil, err
		}
		s.format = f
	}
	if s.codec = codecFor(s.format); s.codec == nil {
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, s.format)
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Format returns the file format.
func (s *Store) Format() Format { return s.format }

// Load reads the file and returns its values keyed by setting path.
// Returns nil, nil if the file doesn't exist (not an error).
func (s *Store) Load() (map[string]any, error) {
	nested, err := s.readNested()
	if err != nil || nested == nil {
		return nil, err
	}
	return Flatten(nested), nil
}

// readNested decodes the file, returning nil, nil if it doesn't exist.
func (s *Store) readNested() (map[string]any, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", s.path, err)
	}
	return s.codec.decode(s.path, data)
}

// Save writes values, keyed by setting path. Keys already in the file that
// values does not mention are kept. A file that fails to parse is left
// untouched and the parse error returned.
func (s *Store) Save(values map[string]any) error {
	nested, err := Unflatten(values)
	if err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}

	existing, err := s.readNested()
	if err != nil {
		return err
	}
	nested = DeepMerge(existing, nested)

	data, err := s.codec.encode(nested)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}

	if err := s.fs.WriteFile(s.path, data, s.perm); err != nil {
		return fmt.Errorf("writing settings file %s: %w", s.path, err)
	}
	return nil
}
