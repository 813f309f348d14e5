package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"github.com/halvard/wayfare/internal/changeset"
	"github.com/halvard/wayfare/internal/identity"
	"github.com/halvard/wayfare/internal/models"
)

// Packing applies a change-set to the packing categories. Five phases run
// in a fixed order against the full change-set:
//
//  1. category adds (match by exact name, else create)
//  2. category-scoped item adds (categoryUpdates)
//  3. item field updates (itemUpdates)
//  4. legacy mixed updates, only when phases 2 and 3 received no input
//  5. deletions, from the unioned removal-id set
//
// Bags are read-only here: they resolve proposed items to a bagId but are
// never modified.
func Packing(cats []models.PackingCategory, bags []models.Bag, cs *models.ChangeSet) []models.PackingCategory {
	out := clonePacking(cats)

	// Phase 1: category adds.
	for _, add := range cs.Adds {
		name, _ := add["category"].(string)
		if name == "" {
			continue
		}
		items, _ := add["items"].([]any)
		idx := -1
		for i := range out {
			if out[i].Category == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			out = append(out, models.PackingCategory{
				ID:       uuid.NewString(),
				Category: name,
				Items:    []models.PackingItem{},
			})
			idx = len(out) - 1
		}
		mergeItems(&out[idx], bags, items)
	}

	// Phase 2: category-scoped item adds.
	for _, cu := range cs.CategoryUpdates {
		id := identity.Normalize(cu.CategoryID)
		for i := range out {
			if out[i].ID == id {
				mergeItems(&out[i], bags, cu.NewItems)
				break
			}
		}
	}

	// Phase 3: item field updates. Ids are globally unique across
	// categories, so the search stops at the first match.
	for _, iu := range cs.ItemUpdates {
		patchItem(out, identity.Normalize(iu.ItemID), iu.Updates)
	}

	// Phase 4: legacy mixed updates. Skipped whenever the modern forms
	// above carried input, so a change-set can never double-apply.
	if len(cs.CategoryUpdates) == 0 && len(cs.ItemUpdates) == 0 {
		for _, u := range cs.Updates {
			id := identity.Normalize(u.ID)
			if id == "" {
				continue
			}
			matched := false
			for i := range out {
				if out[i].ID == id {
					mergeItems(&out[i], bags, u.NewItems)
					matched = true
					break
				}
			}
			if !matched {
				patchItem(out, id, u.Fields)
			}
		}
	}

	// Phase 5: deletions. An id removes a matching category and,
	// independently, any matching item in any category.
	if removals := changeset.Removals(cs); len(removals) > 0 {
		kept := out[:0]
		for _, cat := range out {
			if _, gone := removals[cat.ID]; gone {
				continue
			}
			items := cat.Items[:0]
			for _, item := range cat.Items {
				if _, gone := removals[item.ID]; !gone {
					items = append(items, item)
				}
			}
			cat.Items = items
			kept = append(kept, cat)
		}
		out = kept
	}

	return out
}

// ClearBag returns the categories with every reference to bagID nulled
// out. Callers invoke this when a bag is deleted; nothing cascades
// automatically.
func ClearBag(cats []models.PackingCategory, bagID string) []models.PackingCategory {
	out := clonePacking(cats)
	for ci := range out {
		for ii := range out[ci].Items {
			item := &out[ci].Items[ii]
			if item.BagID != nil && *item.BagID == bagID {
				item.BagID = nil
			}
		}
	}
	return out
}

// proposed is the normalized form of an assistant-proposed packing item,
// extracted from either the plain-string or the structured-object shape.
type proposed struct {
	text     string
	quantity int
	bagID    string // explicit assignment, wins over any hint
	hint     string // raw recommendedBagType
}

func extractProposed(v any) (proposed, bool) {
	switch item := v.(type) {
	case string:
		if item == "" {
			return proposed{}, false
		}
		return proposed{text: item, quantity: 1}, true
	case map[string]any:
		p := proposed{quantity: 1}
		if t, ok := item["item"].(string); ok && t != "" {
			p.text = t
		} else if t, ok := item["text"].(string); ok {
			p.text = t
		}
		if q, ok := item["quantity"].(float64); ok && q > 0 {
			p.quantity = int(q)
		}
		if raw, ok := item["bagId"]; ok && raw != nil {
			p.bagID = identity.Normalize(raw)
		}
		if h, ok := item["recommendedBagType"].(string); ok {
			p.hint = h
		}
		return p, p.text != ""
	}
	return proposed{}, false
}

// resolveBag picks a bag for a proposed item, in priority order: explicit
// bagId verbatim, exact name match, then type match. When nothing matches
// the hint is retained for later manual resolution; that is not an error.
func resolveBag(bags []models.Bag, p proposed) (*string, string) {
	if p.bagID != "" {
		id := p.bagID
		return &id, ""
	}
	if p.hint == "" {
		return nil, ""
	}
	for _, b := range bags {
		if b.Name == p.hint {
			id := b.ID
			return &id, ""
		}
	}
	for _, b := range bags {
		if b.Type == p.hint {
			id := b.ID
			return &id, ""
		}
	}
	return nil, p.hint
}

// mergeItems appends proposed items to cat, suppressing duplicates.
func mergeItems(cat *models.PackingCategory, bags []models.Bag, items []any) {
	for _, raw := range items {
		p, ok := extractProposed(raw)
		if !ok {
			continue
		}
		bagID, hint := resolveBag(bags, p)
		if isDuplicate(cat.Items, p.text, bagID) {
			continue
		}
		cat.Items = append(cat.Items, models.PackingItem{
			ID:                 uuid.NewString(),
			Text:               models.Text(p.text),
			Quantity:           p.quantity,
			BagID:              bagID,
			RecommendedBagType: hint,
		})
	}
}

// isDuplicate reports whether an equivalent item already exists: same
// normalized case-insensitive text AND compatible bag assignment. Two
// non-nil differing bagIds are never duplicates (same text in different
// bags is legitimate), and an existing unassigned item does not suppress a
// new bag-assigned one. The asymmetry of that last rule is deliberate;
// existing behavior depends on it.
func isDuplicate(items []models.PackingItem, text string, bagID *string) bool {
	key := strings.ToLower(strings.TrimSpace(text))
	for _, it := range items {
		if it.Text.Key() != key {
			continue
		}
		if it.BagID != nil && bagID != nil && *it.BagID != *bagID {
			continue
		}
		if it.BagID == nil && bagID != nil {
			continue
		}
		return true
	}
	return false
}

// patchItem locates an item by id across all categories and applies the
// recognized update keys: quantity when explicitly non-null, bagId when
// the key is present (a null clears the assignment), text when truthy.
func patchItem(cats []models.PackingCategory, id string, updates map[string]any) bool {
	if id == "" || len(updates) == 0 {
		return false
	}
	for ci := range cats {
		for ii := range cats[ci].Items {
			if cats[ci].Items[ii].ID != id {
				continue
			}
			item := &cats[ci].Items[ii]
			if q, ok := updates["quantity"].(float64); ok {
				item.Quantity = int(q)
			}
			if raw, ok := updates["bagId"]; ok {
				if raw == nil {
					item.BagID = nil
				} else if s := identity.Normalize(raw); s != "" {
					item.BagID = &s
				}
			}
			if t, ok := updates["text"].(string); ok && t != "" {
				item.Text = models.Text(t)
			}
			return true
		}
	}
	return false
}

func clonePacking(cats []models.PackingCategory) []models.PackingCategory {
	out := make([]models.PackingCategory, len(cats))
	for i, c := range cats {
		items := make([]models.PackingItem, len(c.Items))
		copy(items, c.Items)
		c.Items = items
		out[i] = c
	}
	return out
}
