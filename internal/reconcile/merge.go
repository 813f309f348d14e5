// Package reconcile implements the per-domain merge algorithms. Every
// reconciler is a pure function from (collection, change-set) to a new
// collection: inputs are never mutated, so the orchestrator can compose
// the three outputs into the next trip state atomically.
package reconcile

import "encoding/json"

// decodeAs maps a generic add entry onto a typed domain value. Entries
// whose fields cannot decode are dropped, mirroring the engine's policy of
// tolerating rather than failing on drifted assistant output.
func decodeAs[T any](m map[string]any) (T, bool) {
	var out T
	raw, err := json.Marshal(m)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}

// patch shallow-merges fields into item (update wins on conflict) via a
// JSON round-trip, so the merge follows wire-format names rather than Go
// field names. On any decode failure the original item is returned
// unchanged.
func patch[T any](item T, fields map[string]any) T {
	base, err := json.Marshal(item)
	if err != nil {
		return item
	}
	var m map[string]any
	if err := json.Unmarshal(base, &m); err != nil {
		return item
	}
	for k, v := range fields {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return item
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return item
	}
	return out
}
