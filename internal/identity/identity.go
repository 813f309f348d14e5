// Package identity canonicalizes the loosely-typed identifiers produced by
// the assistant. Ids arrive as strings, JSON numbers, or {id} objects;
// every identity comparison in the engine goes through Normalize so the
// three shapes compare equal.
package identity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Normalize coerces an identifier of any shape to its canonical string
// form. It never fails; unrecognized input falls back to its fmt
// representation.
func Normalize(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		// encoding/json decodes all numbers as float64. Whole values
		// must render without a fractional part so 7 and "7" match.
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	case map[string]any:
		if inner, ok := id["id"]; ok {
			return Normalize(inner)
		}
	}
	return fmt.Sprint(v)
}

// Set normalizes a slice of loose identifiers into a lookup set, skipping
// entries that normalize to the empty string.
func Set(ids []any) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		if s := Normalize(v); s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}
