package reconcile

import (
	"sort"

	"github.com/google/uuid"

	"github.com/halvard/wayfare/internal/changeset"
	"github.com/halvard/wayfare/internal/identity"
	"github.com/halvard/wayfare/internal/models"
)

// Itinerary applies a change-set to the itinerary collection and returns
// the new collection. Update and delete ids that no longer exist are
// silently ignored: the assistant may race with concurrent user edits.
// The (startDate, startTime) sort invariant is re-established before
// returning.
func Itinerary(items []models.ItineraryItem, cs *models.ChangeSet) []models.ItineraryItem {
	out := make([]models.ItineraryItem, len(items))
	copy(out, items)

	for _, add := range cs.Adds {
		item, ok := decodeAs[models.ItineraryItem](add)
		if !ok || item.Title == "" {
			continue
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.AttachmentIDs == nil {
			item.AttachmentIDs = []string{}
		}
		out = append(out, item)
	}

	for _, u := range cs.Updates {
		id := identity.Normalize(u.ID)
		if id == "" || len(u.Fields) == 0 {
			continue
		}
		for i := range out {
			if out[i].ID == id {
				out[i] = patch(out[i], u.Fields)
				break
			}
		}
	}

	if deletes := changeset.DeleteIDs(cs); len(deletes) > 0 {
		kept := out[:0]
		for _, item := range out {
			if _, gone := deletes[item.ID]; !gone {
				kept = append(kept, item)
			}
		}
		out = kept
	}

	sortItinerary(out)
	return out
}

// sortItinerary orders ascending by (startDate, startTime); items without
// a start time sort as midnight.
func sortItinerary(items []models.ItineraryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].StartDate, items[j].StartDate
		if di != dj {
			return di < dj
		}
		return startTimeKey(items[i]) < startTimeKey(items[j])
	})
}

func startTimeKey(item models.ItineraryItem) string {
	if item.StartTime == "" {
		return "00:00"
	}
	return item.StartTime
}
