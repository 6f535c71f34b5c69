package models

// RawItem is a site-native record as produced by an extractor, before
// normalization. Field names vary per site, so it stays a loose map with
// defensive accessors: a missing or mistyped field reads as the zero value,
// never as an error.
type RawItem map[string]any

// Name returns the identifying display name, or "" when absent.
func (r RawItem) Name() string {
	return r.Str("name")
}

// Str reads a string field, defaulting to "".
func (r RawItem) Str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Num reads a numeric field, defaulting to 0.
func (r RawItem) Num(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
