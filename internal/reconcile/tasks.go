package reconcile

import (
	"github.com/google/uuid"

	"github.com/halvard/wayfare/internal/changeset"
	"github.com/halvard/wayfare/internal/identity"
	"github.com/halvard/wayfare/internal/models"
)

// Tasks applies a change-set to the task collection. Semantics match
// Itinerary minus the sort invariant; task order is whatever the user (or
// append order) left it in.
func Tasks(tasks []models.Task, cs *models.ChangeSet) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	for _, add := range cs.Adds {
		task, ok := decodeAs[models.Task](add)
		if !ok || task.Text == "" {
			continue
		}
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if task.AttachmentIDs == nil {
			task.AttachmentIDs = []string{}
		}
		out = append(out, task)
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
		for _, task := range out {
			if _, gone := deletes[task.ID]; !gone {
				kept = append(kept, task)
			}
		}
		out = kept
	}

	return out
}
