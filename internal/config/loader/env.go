package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// EnvLoader reads setting overrides from environment variables.
// The variable for "display.nightMode" with prefix "PREFPANE_" is
// PREFPANE_DISPLAY_NIGHTMODE.
type EnvLoader struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "PREFPANE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		lookup: os.LookupEnv,
	}
}

// EnvName returns the variable name consulted for a setting path.
func (l *EnvLoader) EnvName(path string) string {
	return l.prefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// Load returns the values of the variables set for paths, keyed by path.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load(paths []string) map[string]any {
	values := make(map[string]any)
	for _, path := range paths {
		if val, ok := l.lookup(l.EnvName(path)); ok {
			values[path] = parseValue(val)
		}
	}
	return values
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only parse floats with a decimal point to avoid misinterpreting ints
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(s, "[") {
		var v []any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}
