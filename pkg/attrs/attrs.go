// Package attrs helps with slog-style key/value attribute slices
// ([key1, value1, key2, value2, ...]).
package attrs

// ExtractString returns the string value stored under key, or "" when the key
// is missing or its value is not a string.
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

// WithDefault appends key=value unless attrs already carries a non-empty
// string for key. An empty value is never appended.
func WithDefault(attrs []any, key, value string) []any {
	if value == "" || ExtractString(attrs, key) != "" {
		return attrs
	}
	return append(attrs, key, value)
}
