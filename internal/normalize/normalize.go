// Package normalize converts loosely-typed upstream flight API payloads
// into the canonical entities in models. Upstream responses vary in field
// naming, envelope nesting and scalar types; everything downstream of this
// package reads canonical fields only.
//
// Normalization never fails: a field that cannot be resolved takes one of
// the documented placeholders (models.Placeholder*), so callers always get
// a renderable entity.
package normalize

import (
	"strconv"
	"strings"
)

// Raw is an upstream record decoded from JSON with unknown structure.
type Raw = map[string]any

// airportCodeAliases is the priority order in which the IATA code is
// resolved; the first present non-empty value wins.
var airportCodeAliases = []string{"code", "iata", "iata_code", "airport_code"}

// str resolves the first present non-empty string among the given keys.
func str(raw Raw, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// num resolves the first present key to an integer, accepting JSON
// numbers, numeric strings and integer types.
func num(raw Raw, keys ...string) int64 {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if n, ok := asInt64(v); ok {
				return n
			}
		}
	}
	return 0
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func asMap(v any) (Raw, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}
