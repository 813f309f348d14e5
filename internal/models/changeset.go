package models

// ChangeSet is the assistant-proposed mutation batch for one domain apply.
// Loosely typed fields mirror the wire contract: ids may arrive as strings,
// numbers, or {id} objects, and proposed packing items as strings or
// structured objects. All identity handling goes through the identity
// package; nothing compares these values raw.
type ChangeSet struct {
	Adds             []map[string]any `json:"adds,omitempty"`
	Updates          []Update         `json:"updates,omitempty"`
	Deletes          []any            `json:"deletes,omitempty"`
	RemoveItems      []any            `json:"removeItems,omitempty"`
	CategoryUpdates  []CategoryUpdate `json:"categoryUpdates,omitempty"`
	ItemUpdates      []ItemUpdate     `json:"itemUpdates,omitempty"`
	ChangeSummary    string           `json:"changeSummary,omitempty"`
	NewDistilledData any              `json:"newDistilledData,omitempty"`
}

// Update targets an existing record by id. For packing, the legacy mixed
// form lets the id name either a category or an item.
type Update struct {
	ID          any            `json:"id"`
	Fields      map[string]any `json:"fields,omitempty"`
	NewItems    []any          `json:"newItems,omitempty"`
	RemoveItems []any          `json:"removeItems,omitempty"`
}

// CategoryUpdate adds items to one packing category.
type CategoryUpdate struct {
	CategoryID any   `json:"categoryId"`
	NewItems   []any `json:"newItems,omitempty"`
}

// ItemUpdate patches fields of one packing item. Updates stays a map so
// the reconciler can distinguish an absent bagId key from an explicit
// null (which clears the assignment).
type ItemUpdate struct {
	ItemID  any            `json:"itemId"`
	Updates map[string]any `json:"updates"`
}
