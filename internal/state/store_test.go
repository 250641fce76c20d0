package state

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazygrid/internal/models"
)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.db")

	store, err := NewStore(path)
	require.NoError(t, err)

	snap := models.Snapshot{
		Field:  "color",
		Order:  models.SortDescending,
		Filter: "",
		Options: []models.OptionFilter{
			{ID: 3, Mode: models.Include},
			{ID: 7, Mode: models.Ignore},
			{ID: 12, Mode: models.Exclude},
		},
	}
	require.NoError(t, store.Put("orders", snap))
	require.NoError(t, store.Put("orders", models.Snapshot{Field: "qty", Min: 2, Max: 9}))
	require.NoError(t, store.Put("other", models.Snapshot{Field: "qty", Bool: models.Include}))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	loaded, err := store.Load("orders")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	color := loaded["color"]
	assert.Equal(t, models.SortDescending, color.Order)
	assert.Equal(t, []models.OptionFilter{
		{ID: 3, Mode: models.Include},
		{ID: 12, Mode: models.Exclude},
	}, color.Options)

	qty, err := store.Get("orders", "qty")
	require.NoError(t, err)
	assert.Equal(t, int64(2), qty.Min)
	assert.Equal(t, int64(9), qty.Max)
}

func TestStore_PutUpdatesAndInactiveDeletes(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Put("v", models.Snapshot{Field: "name", Filter: "a"}))
	require.NoError(t, store.Put("v", models.Snapshot{Field: "name", Filter: "b"}))

	got, err := store.Get("v", "name")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Filter)

	require.NoError(t, store.Put("v", models.Snapshot{Field: "name"}))
	_, err = store.Get("v", "name")
	assert.ErrorIs(t, err, ErrNotFound)

	loaded, err := store.Load("v")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_ReplaceAndSnapshots(t *testing.T) {
	store, err := NewStore("")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Put("v", models.Snapshot{Field: "old", Filter: "x"}))
	require.NoError(t, store.Replace("v", []models.Snapshot{
		{Field: "b", Order: models.SortAscending},
		{Field: "a", Bool: models.Exclude},
	}))

	snaps := store.Snapshots("v")
	require.Len(t, snaps, 2)
	assert.Equal(t, "a", snaps[0].Field)
	assert.Equal(t, "b", snaps[1].Field)

	loaded, err := store.Load("v")
	require.NoError(t, err)
	assert.NotContains(t, loaded, "old")
}

func TestStore_PersistsLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("v", models.Snapshot{Field: "qty", Min: 5, Layout: models.LayoutRange}))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	loaded, err := store.Load("v")
	require.NoError(t, err)
	assert.Equal(t, models.LayoutRange, loaded["qty"].Layout)
	assert.Equal(t, int64(5), loaded["qty"].Min)
}

func TestNewStore_AddsLayoutToOlderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE column_state (
			view TEXT NOT NULL,
			field TEXT NOT NULL,
			filter TEXT NOT NULL DEFAULT '',
			min INTEGER NOT NULL DEFAULT 0,
			max INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0,
			bool_state INTEGER NOT NULL DEFAULT 0,
			options TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (view, field)
		);
		INSERT INTO column_state (view, field, min) VALUES ('v', 'qty', 4);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := NewStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	loaded, err := store.Load("v")
	require.NoError(t, err)
	assert.Equal(t, int64(4), loaded["qty"].Min)
	assert.Equal(t, models.LayoutDefault, loaded["qty"].Layout)

	require.NoError(t, store.Put("v", models.Snapshot{Field: "qty", Min: 4, Layout: models.LayoutValue}))
}
