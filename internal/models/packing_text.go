package models

import (
	"encoding/json"
	"strings"
)

// PackingText is the display text of a packing item. It is nominally a
// plain string, but legacy records exist where the whole structured item
// object was stored in this field. The type accepts either shape on
// unmarshal, preserves the original bytes on marshal, and collapses both
// variants to one comparison key so corrupt historical data cannot break
// the merge.
type PackingText struct {
	raw json.RawMessage
}

// Text builds a PackingText from a plain string.
func Text(s string) PackingText {
	b, _ := json.Marshal(s)
	return PackingText{raw: b}
}

// UnmarshalJSON accepts any valid JSON value; interpretation is deferred
// to String.
func (t *PackingText) UnmarshalJSON(b []byte) error {
	t.raw = append(t.raw[:0], b...)
	return nil
}

// MarshalJSON round-trips whatever shape was stored.
func (t PackingText) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return []byte(`""`), nil
	}
	return t.raw, nil
}

// String returns the plain text, extracting "item" or "text" from the
// legacy object shape. Anything else collapses to the empty string.
func (t PackingText) String() string {
	if len(t.raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(t.raw, &s); err == nil {
		return s
	}
	var obj map[string]any
	if err := json.Unmarshal(t.raw, &obj); err != nil {
		return ""
	}
	if v, ok := obj["item"].(string); ok {
		return v
	}
	if v, ok := obj["text"].(string); ok {
		return v
	}
	return ""
}

// Key returns the normalized form used for duplicate comparison.
func (t PackingText) Key() string {
	return strings.ToLower(strings.TrimSpace(t.String()))
}
