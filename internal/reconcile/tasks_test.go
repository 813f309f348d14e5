package reconcile

import (
	"testing"

	"github.com/halvard/wayfare/internal/models"
)

func TestTasksAddDefaults(t *testing.T) {
	cs := &models.ChangeSet{
		Adds: []map[string]any{
			{"text": "Renew passport", "dueDate": "2026-02-01"},
		},
	}
	got := Tasks(nil, cs)
	if len(got) != 1 {
		t.Fatalf("tasks = %d, want 1", len(got))
	}
	task := got[0]
	if task.ID == "" {
		t.Error("add should receive a generated id")
	}
	if task.Done {
		t.Error("done should default false")
	}
	if task.Cost != 0 {
		t.Errorf("cost = %v, want 0", task.Cost)
	}
	if task.AttachmentIDs == nil {
		t.Error("attachmentIds should default to empty, not nil")
	}
}

func TestTasksPreserveOrder(t *testing.T) {
	existing := []models.Task{
		{ID: "z", Text: "Last added first"},
		{ID: "a", Text: "Second"},
	}
	cs := &models.ChangeSet{
		Adds: []map[string]any{{"text": "Third"}},
	}
	got := Tasks(existing, cs)
	if got[0].ID != "z" || got[1].ID != "a" || got[2].Text != "Third" {
		t.Errorf("task order must not be re-sorted: %+v", got)
	}
}

func TestTasksUpdateAndDelete(t *testing.T) {
	existing := []models.Task{
		{ID: "t1", Text: "Book flights", Done: false},
		{ID: "t2", Text: "Old"},
	}
	cs := &models.ChangeSet{
		Updates: []models.Update{
			{ID: "t1", Fields: map[string]any{"done": true}},
		},
		Deletes: []any{map[string]any{"id": "t2"}},
	}
	got := Tasks(existing, cs)
	if len(got) != 1 {
		t.Fatalf("tasks = %d, want 1", len(got))
	}
	if !got[0].Done {
		t.Error("update should set done")
	}
}
