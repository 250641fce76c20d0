// Package state is the centralized store for column filter/sort snapshots.
// Controls never persist anything themselves; the host applies their change
// messages here and the store writes them through to SQLite.
package state

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no snapshot exists for a column
var ErrNotFound = errors.New("snapshot not found")

// Store holds the snapshots of every column of every view
type Store struct {
	mu    sync.RWMutex
	db    *sql.DB
	views map[string]map[string]models.Snapshot
}

// NewStore opens a store persisted at path. An empty path keeps state in
// memory only.
func NewStore(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// One connection so an in-memory database is shared
	db.SetMaxOpenConns(1)

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create state schema: %w", err)
	}
	if err := addMissingColumn(db, "layout", `TEXT NOT NULL DEFAULT ''`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate state schema: %w", err)
	}

	return &Store{
		db:    db,
		views: make(map[string]map[string]models.Snapshot),
	}, nil
}

// Load reads every snapshot saved for a view into the store and returns them
// keyed by field name
func (s *Store) Load(view string) (map[string]models.Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT field, filter, min, max, sort_order, bool_state, options, layout
		FROM column_state
		WHERE view = ?`, view)
	if err != nil {
		return nil, fmt.Errorf("failed to load view %q: %w", view, err)
	}
	defer func() { _ = rows.Close() }()

	loaded := make(map[string]models.Snapshot)
	for rows.Next() {
		var snap models.Snapshot
		var order, boolState int
		var options, layout string

		if err := rows.Scan(&snap.Field, &snap.Filter, &snap.Min, &snap.Max, &order, &boolState, &options, &layout); err != nil {
			return nil, err
		}
		snap.Order = models.SortOrder(order)
		snap.Bool = models.TriState(boolState)
		snap.Options = filter.DecodeSelection(options)
		snap.Layout = models.FilterLayout(layout)
		loaded[snap.Field] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.views[view] = loaded
	s.mu.Unlock()

	return copyView(loaded), nil
}

// Get returns the snapshot for one column
func (s *Store) Get(view, field string) (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.views[view][field]
	if !ok {
		return models.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// Snapshots returns the current snapshots of a view sorted by field
func (s *Store) Snapshots(view string) []models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Snapshot, 0, len(s.views[view]))
	for _, snap := range s.views[view] {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// Put records a snapshot and writes it through to the database. Inactive
// snapshots are removed instead of stored.
func (s *Store) Put(view string, snap models.Snapshot) error {
	s.mu.Lock()
	if s.views[view] == nil {
		s.views[view] = make(map[string]models.Snapshot)
	}
	if snap.IsActive() {
		s.views[view][snap.Field] = snap
	} else {
		delete(s.views[view], snap.Field)
	}
	s.mu.Unlock()

	if !snap.IsActive() {
		_, err := s.db.Exec(`DELETE FROM column_state WHERE view = ? AND field = ?`, view, snap.Field)
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO column_state (view, field, filter, min, max, sort_order, bool_state, options, layout, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(view, field) DO UPDATE SET
			filter = excluded.filter,
			min = excluded.min,
			max = excluded.max,
			sort_order = excluded.sort_order,
			bool_state = excluded.bool_state,
			options = excluded.options,
			layout = excluded.layout,
			updated_at = excluded.updated_at`,
		view,
		snap.Field,
		snap.Filter,
		snap.Min,
		snap.Max,
		int(snap.Order),
		int(snap.Bool),
		filter.EncodeSelection(snap.Options),
		string(snap.Layout),
	)
	return err
}

// Replace swaps every snapshot of a view, as when a preset is applied
func (s *Store) Replace(view string, snaps []models.Snapshot) error {
	if err := s.Clear(view); err != nil {
		return err
	}
	for _, snap := range snaps {
		if err := s.Put(view, snap); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every snapshot of a view
func (s *Store) Clear(view string) error {
	s.mu.Lock()
	delete(s.views, view)
	s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM column_state WHERE view = ?`, view)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func copyView(in map[string]models.Snapshot) map[string]models.Snapshot {
	out := make(map[string]models.Snapshot, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// addMissingColumn adds a column_state column that a state file created
// before the column existed does not have yet
func addMissingColumn(db *sql.DB, name, definition string) error {
	rows, err := db.Query(`PRAGMA table_info(column_state)`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid, notNull, pk int
			colName, colType string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if colName == name {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_ = rows.Close()

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE column_state ADD COLUMN %s %s", name, definition))
	return err
}
