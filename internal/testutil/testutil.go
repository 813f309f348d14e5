// Package testutil provides shared test helpers for setting up stores and
// seeded trips.
package testutil

import (
	"os"
	"testing"

	"github.com/halvard/wayfare/internal/models"
	"github.com/halvard/wayfare/internal/store"
)

// TestStore creates a temporary SQLite trip store that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "wayfare-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedTrip inserts a trip with a couple of bags and returns it.
func SeedTrip(t *testing.T, db *store.DB, destination string) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		ID:          "trip1",
		Name:        "Test Trip",
		Destination: destination,
		Itinerary:   []models.ItineraryItem{},
		Tasks:       []models.Task{},
		Packing:     []models.PackingCategory{},
		Bags: []models.Bag{
			{ID: "bag1", Name: "My Suitcase", Type: "Checked"},
			{ID: "bag2", Name: "Backpack", Type: "Carry-on"},
		},
	}
	if err := db.Create(trip); err != nil {
		t.Fatal(err)
	}
	return trip
}
