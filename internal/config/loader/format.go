package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a settings file encoding.
type Format uint8

const (
	// FormatTOML is selected by the .toml extension.
	FormatTOML Format = iota + 1
	// FormatYAML is selected by the .yaml and .yml extensions.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// codec converts between file contents and nested maps.
type codec interface {
	decode(source string, data []byte) (map[string]any, error)
	encode(data map[string]any) ([]byte, error)
}

// FormatFor selects the format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

func codecFor(f Format) codec {
	switch f {
	case FormatTOML:
		return tomlCodec{}
	case FormatYAML:
		return yamlCodec{}
	}
	return nil
}
