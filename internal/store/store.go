// Package store provides SQLite-backed trip persistence. The engine only
// depends on the Provider interface; this package is the default
// collaborator behind it.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/halvard/wayfare/internal/models"
)

// Provider is the persistence contract the reconciliation engine consumes.
type Provider interface {
	Create(t *models.Trip) error
	Get(id string) (*models.Trip, error)
	Put(t *models.Trip) error
	Delete(id string) error
	List() ([]models.TripListItem, error)
	Close() error
}

// Verify *DB satisfies Provider at compile time.
var _ Provider = (*DB)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trips (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL DEFAULT '',
	itinerary   TEXT NOT NULL DEFAULT '[]',
	tasks       TEXT NOT NULL DEFAULT '[]',
	packing     TEXT NOT NULL DEFAULT '[]',
	bags        TEXT NOT NULL DEFAULT '[]',
	summaries   TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps a sql.DB with trip operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
