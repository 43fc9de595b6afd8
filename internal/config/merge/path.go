package merge

import "strings"

// GetByPath retrieves a value from a nested document using a
// dot-separated key path.
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}

	parts := strings.Split(path, ".")
	current := any(data)

	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		val, exists := m[part]
		if !exists {
			return nil, false
		}

		current = val
	}

	return current, true
}

// SetByPath sets a value in a nested document using a dot-separated key
// path. Intermediate maps are created as needed; a non-map intermediate
// is replaced.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}

	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}

// CloneValue creates a deep copy of a parsed configuration value.
func CloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return CloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// CloneMap creates a deep copy of a nested document.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, val := range m {
		out[key] = CloneValue(val)
	}
	return out
}

// cloneSlice creates a deep copy of a list value.
func cloneSlice(s []any) []any {
	out := make([]any, len(s))
	for i, val := range s {
		out[i] = CloneValue(val)
	}
	return out
}

// joinPath appends a key to a dot-separated prefix.
func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
