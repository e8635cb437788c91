// Package attrs works with slog-style key-value attribute slices
// ([key1, value1, key2, value2, ...]) as used by activity events.
package attrs

import "fmt"

// ExtractString extracts a string value from a key-value attribute slice.
// Returns empty string if the key is not found or the value is not a string.
func ExtractString(attrs []any, key string) string {
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok {
			continue
		}
		if k == key {
			if v, ok := attrs[i+1].(string); ok {
				return v
			}
		}
	}
	return ""
}

// StringMap flattens a key-value attribute slice into a map, stringifying
// non-string values. Later duplicate keys win. Used when persisting event
// metadata as JSON.
func StringMap(attrs []any) map[string]string {
	if len(attrs) < 2 {
		return nil
	}
	out := make(map[string]string, len(attrs)/2)
	for i := 0; i < len(attrs)-1; i += 2 {
		k, ok := attrs[i].(string)
		if !ok {
			continue
		}
		switch v := attrs[i+1].(type) {
		case string:
			out[k] = v
		case fmt.Stringer:
			out[k] = v.String()
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
