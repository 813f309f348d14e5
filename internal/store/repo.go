package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/halvard/wayfare/internal/apperr"
	"github.com/halvard/wayfare/internal/models"
)

// Create inserts a new trip. A trip with the same id fails with
// apperr.ErrAlreadyExists.
func (db *DB) Create(t *models.Trip) error {
	cols, err := marshalCollections(t)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err = db.conn.Exec(`
		INSERT INTO trips (id, name, destination, itinerary, tasks, packing, bags, summaries, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Destination, cols.itinerary, cols.tasks, cols.packing, cols.bags, cols.summaries, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		// sqlite reports the primary-key violation as a generic constraint error.
		var existing string
		if scanErr := db.conn.QueryRow(`SELECT id FROM trips WHERE id = ?`, t.ID).Scan(&existing); scanErr == nil {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: insert trip: %w", err)
	}
	return nil
}

// Get loads a trip by id.
func (db *DB) Get(id string) (*models.Trip, error) {
	row := db.conn.QueryRow(`
		SELECT id, name, destination, itinerary, tasks, packing, bags, summaries, created_at, updated_at
		FROM trips WHERE id = ?
	`, id)

	var t models.Trip
	var itinerary, tasks, packing, bags, summaries string
	err := row.Scan(&t.ID, &t.Name, &t.Destination, &itinerary, &tasks, &packing, &bags, &summaries, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get trip: %w", err)
	}

	if err := json.Unmarshal([]byte(itinerary), &t.Itinerary); err != nil {
		return nil, fmt.Errorf("store: decode itinerary: %w", err)
	}
	if err := json.Unmarshal([]byte(tasks), &t.Tasks); err != nil {
		return nil, fmt.Errorf("store: decode tasks: %w", err)
	}
	if err := json.Unmarshal([]byte(packing), &t.Packing); err != nil {
		return nil, fmt.Errorf("store: decode packing: %w", err)
	}
	if err := json.Unmarshal([]byte(bags), &t.Bags); err != nil {
		return nil, fmt.Errorf("store: decode bags: %w", err)
	}
	if err := json.Unmarshal([]byte(summaries), &t.Summaries); err != nil {
		return nil, fmt.Errorf("store: decode summaries: %w", err)
	}
	return &t, nil
}

// Put replaces a stored trip's state wholesale. The reconcilers produce
// complete new collections, so the write is a single row update.
func (db *DB) Put(t *models.Trip) error {
	cols, err := marshalCollections(t)
	if err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	res, err := db.conn.Exec(`
		UPDATE trips SET name = ?, destination = ?, itinerary = ?, tasks = ?, packing = ?, bags = ?, summaries = ?, updated_at = ?
		WHERE id = ?
	`, t.Name, t.Destination, cols.itinerary, cols.tasks, cols.packing, cols.bags, cols.summaries, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("store: update trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a trip.
func (db *DB) Delete(id string) error {
	res, err := db.conn.Exec(`DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete trip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// List returns lightweight metadata for every trip, most recently updated
// first.
func (db *DB) List() ([]models.TripListItem, error) {
	rows, err := db.conn.Query(`SELECT id, name, destination, updated_at FROM trips ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list trips: %w", err)
	}
	defer rows.Close()

	var out []models.TripListItem
	for rows.Next() {
		var item models.TripListItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Destination, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan trip row: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

type collections struct {
	itinerary, tasks, packing, bags, summaries string
}

func marshalCollections(t *models.Trip) (collections, error) {
	var c collections
	enc := func(name string, v any, fallback string) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("store: encode %s: %w", name, err)
		}
		if string(b) == "null" {
			return fallback, nil
		}
		return string(b), nil
	}
	var err error
	if c.itinerary, err = enc("itinerary", t.Itinerary, "[]"); err != nil {
		return c, err
	}
	if c.tasks, err = enc("tasks", t.Tasks, "[]"); err != nil {
		return c, err
	}
	if c.packing, err = enc("packing", t.Packing, "[]"); err != nil {
		return c, err
	}
	if c.bags, err = enc("bags", t.Bags, "[]"); err != nil {
		return c, err
	}
	if c.summaries, err = enc("summaries", t.Summaries, "{}"); err != nil {
		return c, err
	}
	return c, nil
}
