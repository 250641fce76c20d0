package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

func sampleTable() *TableView {
	tv := NewTableView(theme.DefaultTheme())
	tv.Width = 40
	tv.Height = 8
	tv.MaxCellLength = 20
	tv.SetData(
		[]string{"id", "customer", "qty", "placed"},
		[][]string{
			{"1", "Alice Smith", "5", "2024-01-10"},
			{"2", "Bob Jones", "12", "2024-02-01"},
			{"3", "A very long customer name that will not fit", "7", "2024-03-15"},
		},
		3, 0,
	)
	return tv
}

func TestTableView_FocusScrollsHorizontally(t *testing.T) {
	tv := sampleTable()

	from, to := tv.visibleColumns()
	assert.Equal(t, 0, from)
	assert.Less(t, to, 4, "not every column fits in 40 cells")

	tv.FocusColumn(3)
	from, to = tv.visibleColumns()
	assert.Equal(t, 3, tv.FocusedCol)
	assert.Greater(t, from, 0)
	assert.Equal(t, 4, to)

	tv.MoveColumn(-10)
	assert.Equal(t, 0, tv.FocusedCol)
	assert.Equal(t, 0, tv.LeftCol)
}

func TestTableView_SelectedCell(t *testing.T) {
	tv := sampleTable()
	tv.MoveSelection(1)
	tv.MoveColumn(1)

	cell, ok := tv.SelectedCell()
	assert.True(t, ok)
	assert.Equal(t, "Bob Jones", cell)

	tv.MoveSelection(10)
	assert.Equal(t, 2, tv.SelectedRow)
	assert.True(t, tv.AtEnd())
}

func TestTableView_ViewTruncatesAndCounts(t *testing.T) {
	tv := sampleTable()
	tv.Width = 200

	view := tv.View()
	assert.Contains(t, view, "...")
	assert.Contains(t, view, "1-3 of 3 rows")
	assert.NotContains(t, view, "will not fit")
}

func TestTableView_EmptyResult(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.Height = 6
	tv.SetData([]string{"id"}, nil, 0, 0)

	view := tv.View()
	assert.Contains(t, view, "No rows match")
	assert.True(t, strings.Contains(view, "0-0 of 0 rows"))
}

func TestTableView_HeaderRenderer(t *testing.T) {
	tv := sampleTable()
	tv.Header = func(col, width int, focused bool) string {
		if focused {
			return "[" + tv.Columns[col] + "]"
		}
		return tv.Columns[col]
	}

	assert.Contains(t, tv.View(), "[id]")
}
