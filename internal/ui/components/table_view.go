package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// HeaderRenderer renders the header cell of column col at the given width
type HeaderRenderer func(col, width int, focused bool) string

// CellMatcher reports whether a cell matches its column's text filter
type CellMatcher func(col int, cell string) bool

// TableView displays table data with virtual scrolling
type TableView struct {
	Columns []string
	Rows    [][]string
	Width   int
	Height  int
	Style   lipgloss.Style
	Theme   theme.Theme

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	TotalRows   int

	// Offset is the position of Rows[0] in the full result
	Offset int

	// Column focus and horizontal scrolling
	FocusedCol int
	LeftCol    int

	// Column widths (calculated)
	ColumnWidths  []int
	MaxCellLength int

	Header HeaderRenderer
	Match  CellMatcher
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Columns:       []string{},
		Rows:          [][]string{},
		ColumnWidths:  []int{},
		Theme:         th,
		MaxCellLength: 50,
	}
}

// SetData sets the table data
func (tv *TableView) SetData(columns []string, rows [][]string, totalRows, offset int) {
	tv.Columns = columns
	tv.Rows = rows
	tv.TotalRows = totalRows
	tv.Offset = offset
	if tv.SelectedRow >= len(rows) {
		tv.SelectedRow = len(rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.TopRow > tv.SelectedRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.FocusedCol >= len(columns) {
		tv.FocusedCol = 0
		tv.LeftCol = 0
	}
	tv.calculateColumnWidths()
}

// calculateColumnWidths calculates optimal column widths
func (tv *TableView) calculateColumnWidths() {
	if len(tv.Columns) == 0 {
		return
	}

	tv.ColumnWidths = make([]int, len(tv.Columns))

	// Start with column header lengths, plus room for the sort glyph and badge
	for i, col := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(col) + 4
	}

	// Check row data
	for _, row := range tv.Rows {
		for i, cell := range row {
			if i < len(tv.ColumnWidths) {
				cellLen := runewidth.StringWidth(cell)
				if cellLen > tv.ColumnWidths[i] {
					tv.ColumnWidths[i] = cellLen
				}
			}
		}
	}

	// Apply max width constraint
	maxWidth := tv.MaxCellLength
	if maxWidth <= 0 {
		maxWidth = 50
	}
	for i := range tv.ColumnWidths {
		if tv.ColumnWidths[i] > maxWidth {
			tv.ColumnWidths[i] = maxWidth
		}
		// Min width
		if tv.ColumnWidths[i] < 10 {
			tv.ColumnWidths[i] = 10
		}
	}
}

// visibleColumns returns the index range [from, to) of columns that fit
func (tv *TableView) visibleColumns() (int, int) {
	from := tv.LeftCol
	if from >= len(tv.ColumnWidths) {
		from = 0
	}
	if tv.Width <= 0 {
		return from, len(tv.ColumnWidths)
	}

	used := 1
	to := from
	for to < len(tv.ColumnWidths) {
		w := tv.ColumnWidths[to] + 3
		if used+w > tv.Width && to > from {
			break
		}
		used += w
		to++
	}
	return from, to
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return tv.Style.Render("No data")
	}

	var b strings.Builder
	from, to := tv.visibleColumns()

	// Render header
	b.WriteString(tv.renderHeader(from, to))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator(from, to))
	b.WriteString("\n")

	// Calculate how many rows we can show
	tv.VisibleRows = tv.Height - 3 // Header + separator + status
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}

	// Render visible rows
	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}

	for i := tv.TopRow; i < endRow; i++ {
		isSelected := i == tv.SelectedRow
		b.WriteString(tv.renderRow(i, tv.Rows[i], from, to, isSelected))
		if i < endRow-1 {
			b.WriteString("\n")
		}
	}
	if len(tv.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Muted).Italic(true).Render(" No rows match the current filters"))
	}

	// Render status
	b.WriteString("\n")
	b.WriteString(tv.renderStatus())

	return tv.Style.Width(tv.Width).Height(tv.Height).Render(b.String())
}

func (tv *TableView) renderHeader(from, to int) string {
	var parts []string
	for i := from; i < to; i++ {
		width := tv.ColumnWidths[i]
		focused := i == tv.FocusedCol
		if tv.Header != nil {
			parts = append(parts, tv.Header(i, width, focused))
			continue
		}
		style := lipgloss.NewStyle().Bold(true).Foreground(tv.Theme.TableHeader)
		if focused {
			style = style.Background(tv.Theme.Selection).Underline(true)
		}
		parts = append(parts, style.Render(tv.pad(tv.Columns[i], width)))
	}
	return " " + strings.Join(parts, " │ ") + " "
}

func (tv *TableView) renderSeparator(from, to int) string {
	var parts []string
	for i := from; i < to; i++ {
		parts = append(parts, strings.Repeat("─", tv.ColumnWidths[i]))
	}
	separatorStyle := lipgloss.NewStyle().
		Foreground(tv.Theme.Border)
	return separatorStyle.Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(idx int, row []string, from, to int, selected bool) string {
	rowStyle := lipgloss.NewStyle().Foreground(tv.Theme.Foreground)
	if idx%2 == 1 {
		rowStyle = rowStyle.Background(tv.Theme.TableRowOdd)
	}
	if selected {
		rowStyle = lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(tv.Theme.Foreground).
			Bold(true)
	}

	var parts []string
	for i := from; i < to && i < len(row); i++ {
		cell := tv.pad(row[i], tv.ColumnWidths[i])
		style := rowStyle
		if tv.Match != nil && tv.Match(i, row[i]) {
			style = style.Foreground(tv.Theme.Match)
		}
		if selected && i == tv.FocusedCol {
			style = style.Underline(true)
		}
		parts = append(parts, style.Render(cell))
	}

	sep := rowStyle.Render(" │ ")
	return rowStyle.Render(" ") + strings.Join(parts, sep) + rowStyle.Render(" ")
}

func (tv *TableView) renderStatus() string {
	first := tv.Offset + tv.TopRow + 1
	endRow := tv.Offset + len(tv.Rows)
	if endRow > tv.TotalRows {
		endRow = tv.TotalRows
	}
	if tv.TotalRows == 0 {
		first = 0
	}

	showing := fmt.Sprintf(" %d-%d of %d rows", first, endRow, tv.TotalRows)
	if len(tv.Columns) > 0 {
		showing += fmt.Sprintf(" │ column %d/%d", tv.FocusedCol+1, len(tv.Columns))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Muted).
		Italic(true).
		Render(showing)
}

func (tv *TableView) pad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta

	// Bounds checking
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}

	// Adjust visible window if needed
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// MoveColumn moves the column focus left or right, scrolling horizontally
// to keep it visible
func (tv *TableView) MoveColumn(delta int) {
	tv.FocusColumn(tv.FocusedCol + delta)
}

// FocusColumn focuses column idx, clamped to the available columns
func (tv *TableView) FocusColumn(idx int) {
	if len(tv.Columns) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tv.Columns) {
		idx = len(tv.Columns) - 1
	}
	tv.FocusedCol = idx

	if tv.FocusedCol < tv.LeftCol {
		tv.LeftCol = tv.FocusedCol
	}
	for {
		_, to := tv.visibleColumns()
		if tv.FocusedCol < to || tv.LeftCol >= tv.FocusedCol {
			break
		}
		tv.LeftCol++
	}
}

// SelectedCell returns the value under the row and column cursor
func (tv *TableView) SelectedCell() (string, bool) {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return "", false
	}
	row := tv.Rows[tv.SelectedRow]
	if tv.FocusedCol < 0 || tv.FocusedCol >= len(row) {
		return "", false
	}
	return row[tv.FocusedCol], true
}

// PageUp/PageDown
func (tv *TableView) PageUp() {
	tv.SelectedRow -= tv.VisibleRows
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.TopRow = tv.SelectedRow
}

func (tv *TableView) PageDown() {
	tv.SelectedRow += tv.VisibleRows
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	tv.TopRow = tv.SelectedRow
	if tv.TopRow+tv.VisibleRows > len(tv.Rows) {
		tv.TopRow = len(tv.Rows) - tv.VisibleRows
		if tv.TopRow < 0 {
			tv.TopRow = 0
		}
	}
}

// AtEnd reports whether the selection is on the last loaded row
func (tv *TableView) AtEnd() bool {
	return tv.SelectedRow >= len(tv.Rows)-1
}
