package changeset

import (
	"github.com/halvard/wayfare/internal/identity"
	"github.com/halvard/wayfare/internal/models"
)

// DeleteIDs normalizes the top-level deletes array (bare id strings or
// {id} objects, freely mixed) into a lookup set.
func DeleteIDs(cs *models.ChangeSet) map[string]struct{} {
	return identity.Set(cs.Deletes)
}

// Removals gathers every id slated for packing removal into one normalized
// set before anything is filtered. A packing delete id can originate in
// three places: the flat removeItems array, the deletes array, and (for
// legacy payloads) removeItems nested inside updates entries.
func Removals(cs *models.ChangeSet) map[string]struct{} {
	out := identity.Set(cs.RemoveItems)
	for id := range identity.Set(cs.Deletes) {
		out[id] = struct{}{}
	}
	for _, u := range cs.Updates {
		for id := range identity.Set(u.RemoveItems) {
			out[id] = struct{}{}
		}
	}
	return out
}
