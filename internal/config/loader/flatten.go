package loader

import (
	"fmt"
	"sort"
	"strings"
)

// Flatten converts nested tables into a map keyed by dot-separated path.
// Empty tables produce no entries.
func Flatten(nested map[string]any) map[string]any {
	flat := make(map[string]any)
	flattenInto(flat, "", nested)
	return flat
}

func flattenInto(flat map[string]any, prefix string, nested map[string]any) {
	for key, val := range nested {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if table, ok := val.(map[string]any); ok {
			flattenInto(flat, path, table)
			continue
		}
		flat[path] = val
	}
}

// Unflatten converts a path-keyed map into nested tables. It fails with
// ErrPathConflict when one path is a prefix of another.
func Unflatten(flat map[string]any) (map[string]any, error) {
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nested := make(map[string]any)
	for _, path := range paths {
		if err := setByPath(nested, path, flat[path]); err != nil {
			return nil, err
		}
	}
	return nested, nil
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) error {
	parts := strings.Split(path, ".")
	current := data

	// Navigate/create intermediate maps
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		switch next := current[part].(type) {
		case map[string]any:
			current = next
		case nil:
			table := make(map[string]any)
			current[part] = table
			current = table
		default:
			return fmt.Errorf("%w: %s and %s", ErrPathConflict, strings.Join(parts[:i+1], "."), path)
		}
	}

	last := parts[len(parts)-1]
	if _, isTable := current[last].(map[string]any); isTable {
		return fmt.Errorf("%w: %s is a table", ErrPathConflict, path)
	}
	current[last] = value
	return nil
}

// getByPath retrieves a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = data
	for _, part := range parts {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = table[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	if src == nil {
		return dst
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}

	return dst
}
