package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/halvard/wayfare/internal/apperr"
	"github.com/halvard/wayfare/internal/models"
	"github.com/halvard/wayfare/internal/testutil"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	db := testutil.TestStore(t)

	trip := &models.Trip{
		ID:          "t1",
		Name:        "South Island",
		Destination: "New Zealand",
		Itinerary: []models.ItineraryItem{
			{ID: "i1", Title: "Arrive", StartDate: "2026-03-14", StartTime: "09:00", Location: "Queenstown"},
		},
		Tasks: []models.Task{{ID: "k1", Text: "Book flights", Done: true}},
		Packing: []models.PackingCategory{
			{ID: "c1", Category: "Clothes", Items: []models.PackingItem{
				{ID: "p1", Text: models.Text("Socks"), Quantity: 4},
			}},
		},
		Bags:      []models.Bag{{ID: "b1", Name: "My Suitcase", Type: "Checked"}},
		Summaries: map[string]models.AttachmentSummary{"a1": {ExtractedInfo: "flight ref"}},
	}
	if err := db.Create(trip); err != nil {
		t.Fatal(err)
	}

	got, err := db.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "South Island" || got.Destination != "New Zealand" {
		t.Errorf("metadata = %q / %q", got.Name, got.Destination)
	}
	if len(got.Itinerary) != 1 || got.Itinerary[0].Location != "Queenstown" {
		t.Errorf("itinerary = %+v", got.Itinerary)
	}
	if len(got.Tasks) != 1 || !got.Tasks[0].Done {
		t.Errorf("tasks = %+v", got.Tasks)
	}
	if got.Packing[0].Items[0].Text.String() != "Socks" {
		t.Errorf("packing text = %q", got.Packing[0].Items[0].Text.String())
	}
	if got.Summaries["a1"].ExtractedInfo != "flight ref" {
		t.Errorf("summaries = %+v", got.Summaries)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestCreateNilCollections(t *testing.T) {
	db := testutil.TestStore(t)

	if err := db.Create(&models.Trip{ID: "t1", Name: "Bare"}); err != nil {
		t.Fatal(err)
	}
	got, err := db.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	// nil slices are stored as empty JSON collections and come back empty.
	if got.Itinerary == nil || got.Tasks == nil || got.Packing == nil || got.Bags == nil {
		t.Errorf("collections should round-trip as empty, got %+v", got)
	}
}

func TestCreateDuplicate(t *testing.T) {
	db := testutil.TestStore(t)
	testutil.SeedTrip(t, db, "New Zealand")

	err := db.Create(&models.Trip{ID: "trip1", Name: "Again"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetMissing(t *testing.T) {
	db := testutil.TestStore(t)

	_, err := db.Get("nope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPutReplacesState(t *testing.T) {
	db := testutil.TestStore(t)
	trip := testutil.SeedTrip(t, db, "New Zealand")

	trip.Tasks = []models.Task{{ID: "k1", Text: "Pack"}}
	trip.Bags = nil
	if err := db.Put(trip); err != nil {
		t.Fatal(err)
	}

	got, err := db.Get(trip.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Text != "Pack" {
		t.Errorf("tasks = %+v", got.Tasks)
	}
	if len(got.Bags) != 0 {
		t.Errorf("bags should be replaced wholesale, got %+v", got.Bags)
	}
}

func TestPutMissing(t *testing.T) {
	db := testutil.TestStore(t)

	err := db.Put(&models.Trip{ID: "ghost"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.TestStore(t)
	trip := testutil.SeedTrip(t, db, "New Zealand")

	if err := db.Delete(trip.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get(trip.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := db.Delete(trip.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestListOrdersByRecency(t *testing.T) {
	db := testutil.TestStore(t)

	for _, id := range []string{"t1", "t2"} {
		if err := db.Create(&models.Trip{ID: id, Name: id}); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	// Touch t1 so it becomes the most recent.
	first, err := db.Get("t1")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := db.Put(first); err != nil {
		t.Fatal(err)
	}

	items, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].ID != "t1" {
		t.Errorf("most recently updated trip should come first, got %q", items[0].ID)
	}
}
