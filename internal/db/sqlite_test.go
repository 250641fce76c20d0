package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
)

const fixtureSQL = `
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	customer TEXT,
	status INTEGER,
	qty INTEGER,
	paid BOOLEAN,
	placed DATE
);
INSERT INTO orders VALUES
	(1, 'Alice Smith', 1, 5, 1, '2024-01-10'),
	(2, 'Bob Jones', 2, 12, 0, '2024-02-01'),
	(3, 'alice cooper', 3, 7, NULL, '2024-03-15'),
	(4, 'Carol', 1, 1, 1, '2024-01-31');
`

func newFixtureSource(t *testing.T) *SQLiteSource {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	src, err := NewSQLiteSource(path, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	_, err = src.db.Exec(fixtureSQL)
	require.NoError(t, err)
	return src
}

func queryColumns(t *testing.T, src *SQLiteSource, cols []models.ColumnFilter) *TableData {
	t.Helper()
	f := filter.FromColumns("", "orders", cols)
	data, err := src.QueryTableData(context.Background(), f, 0, 100)
	require.NoError(t, err)
	return data
}

func ids(data *TableData) []string {
	out := make([]string, len(data.Rows))
	for i, row := range data.Rows {
		out[i] = row[0]
	}
	return out
}

func TestSQLiteSource_Columns(t *testing.T) {
	src := newFixtureSource(t)

	cols, err := src.Columns(context.Background(), "", "orders")
	require.NoError(t, err)
	require.Len(t, cols, 6)
	assert.Equal(t, "customer", cols[1].Name)
	assert.Equal(t, models.DataTypeDate, filter.DataTypeForSQL(cols[5].DataType))
	assert.Equal(t, models.DataTypeBool, filter.DataTypeForSQL(cols[4].DataType))

	_, err = src.Columns(context.Background(), "", "missing")
	assert.Error(t, err)
}

func TestSQLiteSource_TextFilter(t *testing.T) {
	src := newFixtureSource(t)

	data := queryColumns(t, src, []models.ColumnFilter{{
		Column: models.ColumnSpec{Name: "customer", DataType: models.DataTypeText},
		State:  models.Snapshot{Field: "customer", Filter: "^alice"},
	}})
	assert.ElementsMatch(t, []string{"1", "3"}, ids(data))
	assert.Equal(t, int64(2), data.TotalRows)

	data = queryColumns(t, src, []models.ColumnFilter{{
		Column: models.ColumnSpec{Name: "customer", DataType: models.DataTypeText},
		State:  models.Snapshot{Field: "customer", Filter: "alice;!cooper"},
	}})
	assert.Equal(t, []string{"1"}, ids(data))
}

func TestSQLiteSource_RangeAndSort(t *testing.T) {
	src := newFixtureSource(t)

	data := queryColumns(t, src, []models.ColumnFilter{{
		Column: models.ColumnSpec{Name: "qty", DataType: models.DataTypeNumber, ShowMinMax: true},
		State:  models.Snapshot{Field: "qty", Min: 2, Order: models.SortDescending},
	}})
	assert.Equal(t, []string{"2", "3", "1"}, ids(data))

	// Max of 0 is unbounded
	data = queryColumns(t, src, []models.ColumnFilter{{
		Column: models.ColumnSpec{Name: "qty", DataType: models.DataTypeNumber},
		State:  models.Snapshot{Field: "qty", Filter: "7"},
	}})
	assert.Equal(t, []string{"3"}, ids(data))
}

func TestSQLiteSource_DateRange(t *testing.T) {
	src := newFixtureSource(t)

	minV, err := filter.ParseBound(models.DataTypeDate, "2024-01-15")
	require.NoError(t, err)
	maxV, err := filter.ParseBound(models.DataTypeDate, "2024-02-01")
	require.NoError(t, err)

	data := queryColumns(t, src, []models.ColumnFilter{{
		Column: models.ColumnSpec{Name: "placed", DataType: models.DataTypeDate, ShowMinMax: true},
		State: models.Snapshot{
			Field: "placed",
			Min:   minV,
			Max:   filter.AdjustMax(models.DataTypeDate, maxV),
			Order: models.SortAscending,
		},
	}})
	assert.Equal(t, []string{"4", "2"}, ids(data))
}

func TestSQLiteSource_BoolAndOptions(t *testing.T) {
	src := newFixtureSource(t)

	data := queryColumns(t, src, []models.ColumnFilter{{
		Column: models.ColumnSpec{Name: "paid", DataType: models.DataTypeBool},
		State:  models.Snapshot{Field: "paid", Bool: models.Exclude},
	}})
	assert.ElementsMatch(t, []string{"2", "3"}, ids(data), "NULL counts as not true")

	status := models.ColumnSpec{
		Name:     "status",
		DataType: models.DataTypeOption,
		Options:  []models.Option{{ID: 1, Name: "Open"}, {ID: 2, Name: "Closed"}, {ID: 3, Name: "Archived"}},
	}
	data = queryColumns(t, src, []models.ColumnFilter{{
		Column: status,
		State: models.Snapshot{
			Field:   "status",
			Options: []models.OptionFilter{{ID: 2, Mode: models.Exclude}},
			Order:   models.SortAscending,
		},
	}})
	// Ordered by label, Archived before Open
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "3", data.Rows[0][0])
}
