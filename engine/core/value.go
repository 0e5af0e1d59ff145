package core

import (
	"encoding/json"
	"strings"
)

// ParseValue coerces the raw string of a `path=value` override. Strict JSON
// is attempted first so a single expression can carry a number, boolean,
// array, or object; anything that is not valid JSON in full is taken as a
// literal string. Integral numbers stay integers rather than decaying to
// floats.
func ParseValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	decoder := json.NewDecoder(strings.NewReader(trimmed))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return raw
	}
	if decoder.InputOffset() != int64(len(trimmed)) {
		// Trailing garbage after a valid prefix, e.g. "1.2.3" or "true-ish".
		return raw
	}
	return normalizeNumbers(value)
}

// normalizeNumbers rewrites json.Number leaves in place: integral values
// become int, everything else float64.
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeNumbers(v[k])
		}
		return v
	default:
		return value
	}
}
