// Package store keeps chart records in a local SQLite database so charts can
// be referred to by name or ID across sessions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/timecrisis/internal/record"
)

// Sentinel errors returned by the store.
var (
	// ErrNotFound indicates no chart matches the given ID or name.
	ErrNotFound = errors.New("store: chart not found")
	// ErrDuplicateName indicates another chart already uses the name.
	ErrDuplicateName = errors.New("store: chart name already in use")
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS charts (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL UNIQUE COLLATE NOCASE,
    birth_date   TEXT NOT NULL,
    birth_time   TEXT NOT NULL,
    ampm         TEXT NOT NULL DEFAULT '',
    location     TEXT NOT NULL DEFAULT '',
    house_system TEXT NOT NULL DEFAULT '',
    latitude     REAL NOT NULL,
    longitude    REAL NOT NULL,
    timezone     TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const columns = `id, name, birth_date, birth_time, ampm, location, house_system, latitude, longitude, timezone`

// SQLiteStore stores chart records in a SQLite database in WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath, creating its
// directory if needed, enables WAL mode and a busy timeout, and creates the
// schema if it does not exist.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite has a single writer; one connection avoids SQLITE_BUSY between
	// pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save validates r, assigns it an ID if it has none, and inserts or updates
// it. Names are unique regardless of case.
func (s *SQLiteStore) Save(ctx context.Context, r *record.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.EnsureID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var owner string
	err = tx.QueryRowContext(ctx, "SELECT id FROM charts WHERE name = ?", r.Name).Scan(&owner)
	switch {
	case err == nil && owner != r.ID:
		return fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("store: check name %q: %w", r.Name, err)
	}

	const q = `
		INSERT INTO charts (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name         = excluded.name,
			birth_date   = excluded.birth_date,
			birth_time   = excluded.birth_time,
			ampm         = excluded.ampm,
			location     = excluded.location,
			house_system = excluded.house_system,
			latitude     = excluded.latitude,
			longitude    = excluded.longitude,
			timezone     = excluded.timezone,
			updated_at   = CURRENT_TIMESTAMP`
	if _, err := tx.ExecContext(ctx, q, r.ID, r.Name, r.BirthDate, r.BirthTime, r.AMPM,
		r.Location, r.HouseSystem, r.Latitude, r.Longitude, r.Timezone); err != nil {
		return fmt.Errorf("store: save chart %q: %w", r.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit chart %q: %w", r.Name, err)
	}
	return nil
}

// Get returns the chart with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (record.Record, error) {
	return s.one(ctx, "SELECT "+columns+" FROM charts WHERE id = ?", id)
}

// FindByName returns the chart with the given name, ignoring case.
func (s *SQLiteStore) FindByName(ctx context.Context, name string) (record.Record, error) {
	return s.one(ctx, "SELECT "+columns+" FROM charts WHERE name = ?", name)
}

// Lookup resolves ref as an ID first and then as a name.
func (s *SQLiteStore) Lookup(ctx context.Context, ref string) (record.Record, error) {
	r, err := s.Get(ctx, ref)
	if !errors.Is(err, ErrNotFound) {
		return r, err
	}
	return s.FindByName(ctx, ref)
}

// List returns every chart ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM charts ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("store: list charts: %w", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan chart: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate charts: %w", err)
	}
	return out, nil
}

// Delete removes the chart with the given ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM charts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("store: delete chart %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete chart %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) one(ctx context.Context, q, arg string) (record.Record, error) {
	r, err := scan(s.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, fmt.Errorf("%w: %q", ErrNotFound, arg)
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("store: get chart %q: %w", arg, err)
	}
	return r, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (record.Record, error) {
	var r record.Record
	err := sc.Scan(&r.ID, &r.Name, &r.BirthDate, &r.BirthTime, &r.AMPM,
		&r.Location, &r.HouseSystem, &r.Latitude, &r.Longitude, &r.Timezone)
	return r, err
}
