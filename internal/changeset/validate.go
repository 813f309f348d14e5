package changeset

import (
	"fmt"

	"github.com/halvard/wayfare/internal/apperr"
)

// Validate checks a generically-decoded change-set against the wire
// contract. It returns apperr.ValidationErrors listing every violation, or
// nil when the payload is acceptable. Absent fields are always legal; only
// present fields with the wrong shape fail.
func Validate(raw map[string]any) error {
	var errs apperr.ValidationErrors

	add := func(path string, value any, reason string) {
		errs = append(errs, apperr.ValidationError{Path: path, Value: value, Reason: reason})
	}

	if v, ok := raw["adds"]; ok {
		if entries, ok := v.([]any); ok {
			for i, e := range entries {
				obj, ok := e.(map[string]any)
				if !ok {
					add(fmt.Sprintf("adds[%d]", i), e, "must be an object")
					continue
				}
				if !hasAny(obj, "title", "text", "category") {
					add(fmt.Sprintf("adds[%d]", i), nil, "must carry at least one of title, text, category")
				}
			}
		} else {
			add("adds", v, "must be an array")
		}
	}

	if v, ok := raw["updates"]; ok {
		if entries, ok := v.([]any); ok {
			for i, e := range entries {
				validateUpdate(fmt.Sprintf("updates[%d]", i), e, add)
			}
		} else {
			add("updates", v, "must be an array")
		}
	}

	if v, ok := raw["deletes"]; ok {
		if entries, ok := v.([]any); ok {
			for i, e := range entries {
				if !isLooseID(e) {
					add(fmt.Sprintf("deletes[%d]", i), e, "must be an id string or an {id} object")
				}
			}
		} else {
			add("deletes", v, "must be an array")
		}
	}

	if v, ok := raw["removeItems"]; ok {
		if entries, ok := v.([]any); ok {
			for i, e := range entries {
				if !isLooseID(e) {
					add(fmt.Sprintf("removeItems[%d]", i), e, "must be an id string or an {id} object")
				}
			}
		} else {
			add("removeItems", v, "must be an array")
		}
	}

	if v, ok := raw["categoryUpdates"]; ok {
		if entries, ok := v.([]any); ok {
			for i, e := range entries {
				path := fmt.Sprintf("categoryUpdates[%d]", i)
				obj, ok := e.(map[string]any)
				if !ok {
					add(path, e, "must be an object")
					continue
				}
				if _, ok := obj["categoryId"]; !ok {
					add(path+".categoryId", nil, "is required")
				}
				if items, ok := obj["newItems"]; ok && items != nil {
					if _, ok := items.([]any); !ok {
						add(path+".newItems", items, "must be an array")
					}
				}
			}
		} else {
			add("categoryUpdates", v, "must be an array")
		}
	}

	if v, ok := raw["itemUpdates"]; ok {
		if entries, ok := v.([]any); ok {
			for i, e := range entries {
				path := fmt.Sprintf("itemUpdates[%d]", i)
				obj, ok := e.(map[string]any)
				if !ok {
					add(path, e, "must be an object")
					continue
				}
				if _, ok := obj["itemId"]; !ok {
					add(path+".itemId", nil, "is required")
				}
				if u, ok := obj["updates"]; ok && u != nil {
					if _, ok := u.(map[string]any); !ok {
						add(path+".updates", u, "must be an object")
					}
				}
			}
		} else {
			add("itemUpdates", v, "must be an array")
		}
	}

	if v, ok := raw["changeSummary"]; ok && v != nil {
		if _, ok := v.(string); !ok {
			add("changeSummary", v, "must be a string")
		}
	}

	if v, ok := raw["newDistilledData"]; ok && v != nil {
		switch d := v.(type) {
		case []any:
			for i, e := range d {
				if _, ok := e.(map[string]any); !ok {
					add(fmt.Sprintf("newDistilledData[%d]", i), e, "must be an object")
				}
			}
		case map[string]any:
			// Already in map form; adapter passes it through.
		default:
			add("newDistilledData", v, "must be an array or a map")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateUpdate(path string, e any, add func(string, any, string)) {
	obj, ok := e.(map[string]any)
	if !ok {
		add(path, e, "must be an object")
		return
	}
	if id, ok := obj["id"]; !ok || !isLooseID(id) {
		add(path+".id", obj["id"], "is required")
	}
	if f, ok := obj["fields"]; ok && f != nil {
		if _, ok := f.(map[string]any); !ok {
			add(path+".fields", f, "must be an object")
		}
	}
	if items, ok := obj["newItems"]; ok && items != nil {
		if _, ok := items.([]any); !ok {
			add(path+".newItems", items, "must be an array")
		}
	}
	if items, ok := obj["removeItems"]; ok && items != nil {
		if _, ok := items.([]any); !ok {
			add(path+".removeItems", items, "must be an array")
		}
	}
}

// isLooseID accepts the identifier shapes the identity package can
// normalize: strings, numbers, and {id} objects.
func isLooseID(v any) bool {
	switch id := v.(type) {
	case string:
		return id != ""
	case float64:
		return true
	case map[string]any:
		_, ok := id["id"]
		return ok
	}
	return false
}

func hasAny(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}
