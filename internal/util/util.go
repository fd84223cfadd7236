package util

import "reflect"

// FirstNonEmpty returns the first non-empty string in values.
func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// CloneMap returns a deep copy of input, descending into nested maps and slices.
// It returns nil when input is nil.
func CloneMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = CloneValue(value)
	}
	return out
}

// CloneValue deep copies maps and slices found in configuration values. Scalars are
// returned as-is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneMap(typed)
	case []any:
		if typed == nil {
			return []any(nil)
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneMap(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}

// EqualMaps reports whether two configuration maps hold the same values.
func EqualMaps(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
