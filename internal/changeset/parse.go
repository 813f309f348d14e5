// Package changeset parses, validates, and normalizes the assistant's
// raw change-set output before any collection is touched.
package changeset

import (
	"encoding/json"

	"github.com/halvard/wayfare/internal/apperr"
	"github.com/halvard/wayfare/internal/models"
)

// Parse decodes and validates raw assistant output. It returns a
// *apperr.ParseError when the bytes are not valid JSON and
// apperr.ValidationErrors when the JSON violates the change-set contract.
// Only a fully valid change-set reaches the reconcilers, which is what
// makes the apply all-or-nothing.
func Parse(raw []byte) (*models.ChangeSet, error) {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, &apperr.ParseError{Err: err}
	}
	if err := Validate(generic); err != nil {
		return nil, err
	}
	// The shape checks above guarantee this second decode cannot fail on
	// anything Validate accepted.
	var cs models.ChangeSet
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, &apperr.ParseError{Err: err}
	}
	return &cs, nil
}
