package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	bubblehelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/config"
	"github.com/rebeliceyang/lazygrid/internal/db"
	"github.com/rebeliceyang/lazygrid/internal/export"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/presets"
	"github.com/rebeliceyang/lazygrid/internal/state"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
	"github.com/rebeliceyang/lazygrid/internal/ui/help"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// filterAction is the action name controls echo in their change messages
const filterAction = "filterSort"

// Options wires the application to its collaborators
type Options struct {
	Config  *config.Config
	Source  db.Source
	Store   *state.Store
	Presets *presets.Manager
	Logger  *logging.Logger

	// Table is the table to browse, optionally schema qualified
	Table string

	// View names the stored filter set. Defaults to the config's view.
	View string
}

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	keys   help.KeyMap
	hints  bubblehelp.Model
	log    *logging.Logger

	source  db.Source
	store   *state.Store
	presets *presets.Manager

	schema string
	table  string

	// One control per column, in table order
	columns   []models.ColumnSpec
	controls  []*components.FilterSortCtrl
	ctrlIndex map[string]int
	active    int

	tableView *components.TableView

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	showSearch  bool
	searchInput *components.SearchInput

	presetPicker *components.PresetPicker

	statusMsg string

	// loadSeq drops results of superseded queries
	loadSeq int
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// ColumnsLoadedMsg is sent when the table's columns are known
type ColumnsLoadedMsg struct {
	Columns []models.ColumnInfo
	Err     error
}

// TableDataLoadedMsg is sent when a page of filtered rows is loaded
type TableDataLoadedMsg struct {
	Seq       int
	Columns   []string
	Rows      [][]string
	TotalRows int
	Offset    int
	Err       error
}

// ExportDoneMsg is sent when filtered rows were written to a file
type ExportDoneMsg struct {
	Path string
	Rows int
	Err  error
}

// New creates a new App instance
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}

	st := models.NewAppState()
	st.Source = cfg.Source
	st.TableName = opts.Table
	st.View = opts.View
	if st.View == "" {
		st.View = cfg.State.View
	}
	if st.View == "" {
		st.View = "default"
	}

	th := theme.GetTheme(cfg.UI.Theme)
	schema, table := db.SplitTableName(opts.Table)

	tv := components.NewTableView(th)
	if cfg.Data.MaxCellDisplayLength > 0 {
		tv.MaxCellLength = cfg.Data.MaxCellDisplayLength
	}

	dialect := filter.DialectSQLite
	if opts.Source != nil {
		dialect = opts.Source.Dialect()
	}

	a := &App{
		state:        st,
		config:       cfg,
		theme:        th,
		keys:         help.DefaultKeyMap(),
		hints:        bubblehelp.New(),
		log:          opts.Logger.WithComponent("app"),
		source:       opts.Source,
		store:        opts.Store,
		presets:      opts.Presets,
		schema:       schema,
		table:        table,
		ctrlIndex:    make(map[string]int),
		active:       -1,
		tableView:    tv,
		errorOverlay: components.NewErrorOverlay(th),
		searchInput:  components.NewSearchInput(th),
		presetPicker: components.NewPresetPicker(th, dialect),
	}
	tv.Header = a.renderHeader
	tv.Match = a.matchCell

	a.updateDimensions()
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadColumns()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updateDimensions()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.state.ViewMode == models.NormalMode && msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				a.tableView.MoveSelection(-3)
			case tea.MouseButtonWheelDown:
				a.tableView.MoveSelection(3)
			}
		}
		return a, nil

	case ColumnsLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Database Error", fmt.Sprintf("Failed to load columns of %s:\n\n%v", a.state.TableName, msg.Err))
			return a, nil
		}
		a.setColumns(msg.Columns)
		return a, a.reload(0)

	case TableDataLoadedMsg:
		if msg.Seq != a.loadSeq {
			return a, nil
		}
		if msg.Err != nil {
			a.ShowError("Database Error", fmt.Sprintf("Failed to load table data:\n\n%v", msg.Err))
			return a, nil
		}
		a.tableView.SetData(msg.Columns, msg.Rows, msg.TotalRows, msg.Offset)
		a.state.TotalRows = msg.TotalRows
		a.state.FocusedColumn = a.tableView.FocusedCol
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.ShowError("Export Failed", msg.Err.Error())
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Exported %d rows to %s", msg.Rows, msg.Path)
		return a, nil

	case components.FilterSortChangeMsg:
		return a, a.applyChange(msg)

	case components.FilterSortLayoutMsg:
		if i, ok := a.ctrlIndex[msg.ColName]; ok {
			a.columns[i].ShowMinMax = msg.ShowMinMax
			a.persist(a.state.View, a.controls[i].Snapshot())
		}
		a.log.Debug("filter layout", "column", msg.ColName, "range", msg.ShowMinMax)
		return a, a.reload(0)

	case components.FilterSortClosedMsg:
		a.closeControl()
		return a, nil

	case components.SearchInputMsg:
		a.showSearch = false
		return a, a.handleSearch(msg)

	case components.CloseSearchMsg:
		a.showSearch = false
		return a, nil

	case components.ApplyPresetMsg:
		return a, a.applyPreset(msg.Preset)

	case components.SavePresetMsg:
		a.savePreset(msg)
		return a, nil

	case components.DeletePresetMsg:
		if a.presets == nil {
			return a, nil
		}
		if err := a.presets.Delete(msg.ID); err != nil {
			a.presetPicker.SetError(err.Error())
			return a, nil
		}
		a.presetPicker.SetPresets(a.presets.ForTable(a.table))
		return a, nil

	case components.ClosePresetPickerMsg:
		a.state.ViewMode = models.NormalMode
		a.presetPicker.Reset()
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle error overlay dismissal first if visible
	if a.showError {
		switch msg.String() {
		case "esc", "enter":
			a.DismissError()
			return a, nil
		case "q", "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil

	case models.PresetMode:
		var cmd tea.Cmd
		a.presetPicker, cmd = a.presetPicker.Update(msg)
		return a, cmd

	case models.FilterMode:
		if msg.String() == "esc" && a.config.UI.AlwaysExpanded {
			a.closeControl()
			return a, nil
		}
		if ctrl := a.openControl(); ctrl != nil {
			_, cmd := ctrl.Update(msg)
			return a, cmd
		}
		a.closeControl()
	}

	if a.showSearch {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}

	a.statusMsg = ""
	k := a.keys

	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit
	case key.Matches(msg, k.Help):
		a.state.ViewMode = models.HelpMode
	case key.Matches(msg, k.Refresh):
		return a, a.reload(a.tableView.Offset)

	case key.Matches(msg, k.Up):
		a.tableView.MoveSelection(-1)
	case key.Matches(msg, k.Down):
		a.tableView.MoveSelection(1)
	case key.Matches(msg, k.Left):
		a.tableView.MoveColumn(-1)
		a.state.FocusedColumn = a.tableView.FocusedCol
	case key.Matches(msg, k.Right):
		a.tableView.MoveColumn(1)
		a.state.FocusedColumn = a.tableView.FocusedCol
	case key.Matches(msg, k.PageUp):
		a.tableView.PageUp()
	case key.Matches(msg, k.PageDown):
		a.tableView.PageDown()
	case key.Matches(msg, k.NextPage):
		next := a.tableView.Offset + a.pageSize()
		if next < a.tableView.TotalRows {
			return a, a.reload(next)
		}
	case key.Matches(msg, k.PrevPage):
		if a.tableView.Offset > 0 {
			prev := a.tableView.Offset - a.pageSize()
			if prev < 0 {
				prev = 0
			}
			return a, a.reload(prev)
		}

	case key.Matches(msg, k.OpenFilter):
		a.toggleControl()
	case key.Matches(msg, k.SortUp):
		if ctrl := a.focusedControl(); ctrl != nil {
			return a, ctrl.HandleInput(models.FieldInput{Kind: models.FieldSortUp})
		}
	case key.Matches(msg, k.SortDown):
		if ctrl := a.focusedControl(); ctrl != nil {
			return a, ctrl.HandleInput(models.FieldInput{Kind: models.FieldSortDown})
		}
	case key.Matches(msg, k.ClearAll):
		return a, a.clearAll()
	case key.Matches(msg, k.Search):
		a.searchInput.Reset()
		a.showSearch = true

	case key.Matches(msg, k.CopyCell):
		if cell, ok := a.tableView.SelectedCell(); ok {
			a.copyToClipboard(cell, "cell")
		}
	case key.Matches(msg, k.CopyFilter):
		if ctrl := a.focusedControl(); ctrl != nil {
			a.copyToClipboard(EncodeFilter(ctrl.Spec(), ctrl.Snapshot()), ctrl.ColName()+" filter")
		}
	case key.Matches(msg, k.Presets):
		a.openPresets(false)
	case key.Matches(msg, k.SavePreset):
		a.openPresets(true)
	case key.Matches(msg, k.Export):
		return a, a.exportRows()
	}

	return a, nil
}

// setColumns builds a column spec and a control per column, seeded from
// the state store
func (a *App) setColumns(infos []models.ColumnInfo) {
	a.columns = a.config.ColumnSpecs(infos)

	var snaps map[string]models.Snapshot
	if a.store != nil {
		var err error
		snaps, err = a.store.Load(a.state.View)
		if err != nil {
			a.log.Warn("failed to load stored filters", "view", a.state.View, "error", err)
		}
	}
	a.buildControls(snaps)
	a.presetPicker.SetTable(a.schema, a.table, a.columns)
	a.log.Info("columns loaded", "table", a.state.TableName, "columns", len(a.columns), "stored", len(snaps))
}

func (a *App) buildControls(snaps map[string]models.Snapshot) {
	labels := components.TrioLabels{
		Include: a.config.UI.IncludeLabel,
		Exclude: a.config.UI.ExcludeLabel,
	}

	a.controls = make([]*components.FilterSortCtrl, len(a.columns))
	a.ctrlIndex = make(map[string]int, len(a.columns))
	for i, spec := range a.columns {
		props := components.FilterSortProps{
			Action:         filterAction,
			DataType:       spec.DataType,
			StateSlice:     a.state.View,
			ColName:        spec.Name,
			ShowMinMax:     spec.ShowMinMax,
			Options:        spec.Options,
			AlwaysExpanded: a.config.UI.AlwaysExpanded,
			SortByValue:    spec.SortByValue,
			Labels:         labels,
		}
		if snap, ok := snaps[spec.Name]; ok {
			props.StateData = &snap
		}
		a.controls[i] = components.NewFilterSortCtrl(props, a.theme, a.log)
		a.ctrlIndex[spec.Name] = i
		if props.StateData != nil {
			a.columns[i] = spec.WithLayout(*props.StateData)
		}
	}
	a.active = -1
	if a.state.ViewMode == models.FilterMode {
		a.state.ViewMode = models.NormalMode
	}
}

// currentFilter combines every control's state into one query filter
func (a *App) currentFilter() models.Filter {
	cols := make([]models.ColumnFilter, 0, len(a.controls))
	for _, ctrl := range a.controls {
		cols = append(cols, models.ColumnFilter{Column: ctrl.Spec(), State: ctrl.Snapshot()})
	}
	return filter.FromColumns(a.schema, a.table, cols)
}

// snapshots returns the active snapshot of every column
func (a *App) snapshots() []models.Snapshot {
	var out []models.Snapshot
	for _, ctrl := range a.controls {
		if snap := ctrl.Snapshot(); snap.IsActive() {
			out = append(out, snap)
		}
	}
	return out
}

// applyChange stores a control's new state and reloads the grid. With
// single sort enabled, sorting one column clears every other sort.
func (a *App) applyChange(msg components.FilterSortChangeMsg) tea.Cmd {
	a.log.Info("filter changed", "column", msg.ColName, "field", msg.Subtype.String(), "value", msg.Value)
	a.persist(msg.StateSlice, msg.Snapshot)

	if a.config.UI.SingleSort && (msg.Subtype == models.FieldSortUp || msg.Subtype == models.FieldSortDown) {
		if order, ok := msg.Value.(models.SortOrder); ok && order != models.SortNone {
			for _, ctrl := range a.controls {
				if ctrl.ColName() == msg.ColName || ctrl.Order() == models.SortNone {
					continue
				}
				ctrl.SetOrder(models.SortNone)
				a.persist(msg.StateSlice, ctrl.Snapshot())
			}
		}
	}

	return a.reload(0)
}

func (a *App) persist(view string, snap models.Snapshot) {
	if a.store == nil {
		return
	}
	if view == "" {
		view = a.state.View
	}
	if err := a.store.Put(view, snap); err != nil {
		a.log.Error("failed to store filter", "column", snap.Field, "error", err)
		a.statusMsg = "Could not save filter state: " + err.Error()
	}
}

func (a *App) clearAll() tea.Cmd {
	if a.store != nil {
		if err := a.store.Clear(a.state.View); err != nil {
			a.log.Error("failed to clear filters", "error", err)
		}
	}
	a.buildControls(nil)
	a.statusMsg = "Cleared all filters and sorts"
	return a.reload(0)
}

func (a *App) pageSize() int {
	if a.config.Data.PageSize > 0 {
		return a.config.Data.PageSize
	}
	return 100
}

func (a *App) queryTimeout() time.Duration {
	if a.config.Data.QueryTimeout > 0 {
		return time.Duration(a.config.Data.QueryTimeout) * time.Millisecond
	}
	return 10 * time.Second
}

// loadColumns reads the table's column list
func (a *App) loadColumns() tea.Cmd {
	if a.source == nil {
		return func() tea.Msg {
			return ColumnsLoadedMsg{Err: errors.New("no data source")}
		}
	}
	source, schema, table, timeout := a.source, a.schema, a.table, a.queryTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cols, err := source.Columns(ctx, schema, table)
		return ColumnsLoadedMsg{Columns: cols, Err: err}
	}
}

// reload queries one page of rows under the current filters
func (a *App) reload(offset int) tea.Cmd {
	if a.source == nil {
		return nil
	}
	a.loadSeq++
	seq := a.loadSeq
	f := a.currentFilter()
	source, limit, timeout := a.source, a.pageSize(), a.queryTimeout()
	log := a.log

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		data, err := source.QueryTableData(ctx, f, offset, limit)
		if err != nil {
			log.Error("query failed", "table", f.TableName, "error", err)
			return TableDataLoadedMsg{Seq: seq, Err: err}
		}
		log.Debug("rows loaded", "rows", len(data.Rows), "total", data.TotalRows, "took", time.Since(start))

		return TableDataLoadedMsg{
			Seq:       seq,
			Columns:   data.Columns,
			Rows:      data.Rows,
			TotalRows: int(data.TotalRows),
			Offset:    offset,
		}
	}
}

// exportRows writes every row matching the current filters to a CSV file
func (a *App) exportRows() tea.Cmd {
	if a.source == nil {
		return nil
	}
	f := a.currentFilter()
	source, timeout := a.source, a.queryTimeout()
	path := fmt.Sprintf("%s-%s.csv", a.table, time.Now().Format("20060102-150405"))

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := source.QueryTableData(ctx, f, 0, 0)
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		if err := export.ExportRows(export.FormatCSV, data.Columns, data.Rows, path); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path, Rows: len(data.Rows)}
	}
}

// focusedControl returns the control of the grid's focused column
func (a *App) focusedControl() *components.FilterSortCtrl {
	col := a.tableView.FocusedCol
	if col < 0 || col >= len(a.tableView.Columns) {
		return nil
	}
	i, ok := a.ctrlIndex[a.tableView.Columns[col]]
	if !ok {
		return nil
	}
	return a.controls[i]
}

func (a *App) openControl() *components.FilterSortCtrl {
	if a.active < 0 || a.active >= len(a.controls) {
		return nil
	}
	if ctrl := a.controls[a.active]; !ctrl.Hidden() {
		return ctrl
	}
	return nil
}

func (a *App) toggleControl() {
	ctrl := a.focusedControl()
	if ctrl == nil {
		return
	}
	if a.config.UI.AlwaysExpanded {
		a.active = a.ctrlIndex[ctrl.ColName()]
		a.state.ViewMode = models.FilterMode
		return
	}
	ctrl.Toggle()
	if ctrl.Hidden() {
		a.closeControl()
		return
	}
	a.active = a.ctrlIndex[ctrl.ColName()]
	a.state.ViewMode = models.FilterMode
	a.updateDimensions()
}

func (a *App) closeControl() {
	a.active = -1
	if a.state.ViewMode == models.FilterMode {
		a.state.ViewMode = models.NormalMode
	}
	a.updateDimensions()
}

func (a *App) handleSearch(msg components.SearchInputMsg) tea.Cmd {
	switch msg.Mode {
	case components.SearchFilter:
		ctrl := a.focusedControl()
		if ctrl == nil {
			return nil
		}
		dt := ctrl.DataType()
		if dt != models.DataTypeText && (dt != models.DataTypeNumber || ctrl.ShowMinMax()) {
			a.statusMsg = fmt.Sprintf("%s is filtered from its control, press Enter", ctrl.ColName())
			return nil
		}
		return ctrl.HandleInput(models.FieldInput{Kind: models.FieldFilter, Value: msg.Query})

	default:
		matches := components.FindColumns(a.columns, components.ParseColumnQuery(msg.Query))
		if len(matches) == 0 {
			a.statusMsg = fmt.Sprintf("No column matches %q", msg.Query)
			return nil
		}
		name := a.columns[matches[0]].Name
		for i, col := range a.tableView.Columns {
			if col == name {
				a.tableView.FocusColumn(i)
				a.state.FocusedColumn = i
				break
			}
		}
		return nil
	}
}

func (a *App) openPresets(save bool) {
	if a.presets == nil {
		a.statusMsg = "Presets are not available"
		return
	}
	a.presetPicker.Reset()
	a.presetPicker.SetPresets(a.presets.ForTable(a.table))
	if save {
		a.presetPicker.StartSave()
	}
	a.state.ViewMode = models.PresetMode
}

func (a *App) savePreset(msg components.SavePresetMsg) {
	if a.presets == nil {
		return
	}
	p, err := a.presets.Add(msg.Name, msg.Description, a.table, a.snapshots())
	if err != nil {
		a.presetPicker.StartSave()
		a.presetPicker.SetError(err.Error())
		return
	}
	a.log.Info("preset saved", "preset", p.Name, "columns", len(p.Columns))
	a.presetPicker.SetPresets(a.presets.ForTable(a.table))
	a.statusMsg = fmt.Sprintf("Saved preset %q", p.Name)
}

// applyPreset replaces every column's state with the preset's snapshots
func (a *App) applyPreset(p models.Preset) tea.Cmd {
	snaps := make(map[string]models.Snapshot, len(p.Columns))
	for _, snap := range p.Columns {
		snaps[snap.Field] = snap
	}

	if a.store != nil {
		if err := a.store.Replace(a.state.View, p.Columns); err != nil {
			a.log.Error("failed to store preset", "preset", p.Name, "error", err)
		}
	}
	if a.presets != nil {
		if err := a.presets.RecordUsage(p.ID); err != nil {
			a.log.Warn("failed to record preset usage", "preset", p.Name, "error", err)
		}
	}

	a.buildControls(snaps)
	a.state.ViewMode = models.NormalMode
	a.statusMsg = fmt.Sprintf("Applied preset %q", p.Name)
	return a.reload(0)
}

func (a *App) copyToClipboard(text, what string) {
	if err := clipboard.WriteAll(text); err != nil {
		a.ShowError("Clipboard Error", fmt.Sprintf("Could not copy %s:\n\n%v", what, err))
		return
	}
	a.statusMsg = "Copied " + what
}

// EncodeFilter renders a column's filter in the compact form the control
// accepts as input
func EncodeFilter(spec models.ColumnSpec, snap models.Snapshot) string {
	switch spec.DataType {
	case models.DataTypeBool:
		return filter.TriStateValue(snap.Bool)
	case models.DataTypeOption:
		return filter.EncodeSelection(snap.Options)
	case models.DataTypeNumber, models.DataTypeDate, models.DataTypeDateTime:
		if spec.DataType == models.DataTypeNumber && !spec.ShowMinMax {
			return snap.Filter
		}
		return filter.FormatBound(spec.DataType, snap.Min) + ".." + filter.FormatBound(spec.DataType, snap.Max)
	default:
		return snap.Filter
	}
}

// renderHeader draws a grid header cell through the column's control
func (a *App) renderHeader(col, width int, focused bool) string {
	name := a.tableView.Columns[col]
	if i, ok := a.ctrlIndex[name]; ok {
		return a.controls[i].HeaderView(width, focused)
	}
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Bold(true).Render(name)
}

// matchCell highlights cells matched by their column's text filter
func (a *App) matchCell(col int, cell string) bool {
	i, ok := a.ctrlIndex[a.tableView.Columns[col]]
	if !ok {
		return false
	}
	ctrl := a.controls[i]
	if ctrl.DataType() != models.DataTypeText {
		return false
	}
	text := ctrl.Snapshot().Filter
	return text != "" && filter.MatchText(text, cell)
}
