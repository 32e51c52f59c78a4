package normalize

import (
	"fmt"
	"strings"
)

// Vendor payload readers. Every logical attribute an adapter maps is
// resolved from an ordered list of candidate paths ("room.rate.amount")
// so that API-version drift in field names degrades gracefully instead of
// breaking the mapping.

// Lookup resolves a dotted path inside a nested map. Returns nil when any
// segment is missing or not a map.
func Lookup(payload map[string]any, path string) any {
	if len(payload) == 0 || strings.TrimSpace(path) == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	var current any = payload
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// First returns the first non-nil value among the candidate paths.
func First(payload map[string]any, paths ...string) any {
	for _, path := range paths {
		if value := Lookup(payload, path); value != nil {
			return value
		}
	}
	return nil
}

// FirstString returns the first candidate path whose value renders to a
// non-empty string.
func FirstString(payload map[string]any, paths ...string) string {
	for _, path := range paths {
		value := Lookup(payload, path)
		if value == nil {
			continue
		}
		if rendered := strings.TrimSpace(fmt.Sprint(value)); rendered != "" && rendered != "<nil>" {
			return rendered
		}
	}
	return ""
}

// FirstNumber returns the first candidate path holding a numeric value,
// tolerating string-encoded numbers.
func FirstNumber(payload map[string]any, paths ...string) (float64, bool) {
	for _, path := range paths {
		switch typed := Lookup(payload, path).(type) {
		case float64:
			return typed, true
		case float32:
			return float64(typed), true
		case int:
			return float64(typed), true
		case int64:
			return float64(typed), true
		case string:
			if parsed, ok := parseAmountString(typed); ok {
				value, _ := parsed.Float64()
				return value, true
			}
		}
	}
	return 0, false
}

// FirstMap returns the first candidate path holding a nested object.
func FirstMap(payload map[string]any, paths ...string) map[string]any {
	for _, path := range paths {
		if nested, ok := Lookup(payload, path).(map[string]any); ok {
			return nested
		}
	}
	return nil
}

// FirstSlice returns the first candidate path holding an array.
func FirstSlice(payload map[string]any, paths ...string) []any {
	for _, path := range paths {
		if items, ok := Lookup(payload, path).([]any); ok {
			return items
		}
	}
	return nil
}
