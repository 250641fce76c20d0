package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/logging"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// FilterSortChangeMsg is sent when the user changes a column's filter or sort
type FilterSortChangeMsg struct {
	StateSlice string
	ColName    string
	Action     string

	// Subtype is the field that changed
	Subtype models.FieldKind

	// Value is the new value of the field: string for filter and option,
	// int64 for min and max, TriState for bool, SortOrder for order
	Value interface{}

	// Snapshot is the control's full state after the change
	Snapshot models.Snapshot
}

// FilterSortClosedMsg is sent when the control panel is dismissed with esc
type FilterSortClosedMsg struct {
	ColName string
}

// FilterSortLayoutMsg is sent when a number column switches between a
// single value filter and a min/max range
type FilterSortLayoutMsg struct {
	ColName    string
	ShowMinMax bool
}

// FilterSortProps configures a FilterSortCtrl
type FilterSortProps struct {
	// Action is the host action name echoed in change messages
	Action string

	DataType   models.DataType
	StateSlice string
	ColName    string

	Order  models.SortOrder
	Filter string
	Min    int64
	Max    int64
	Bool   models.TriState

	// ShowMinMax renders a min/max pair instead of a single filter input
	ShowMinMax bool

	// StateData seeds the control from externally stored state. It wins
	// over the individual value props above.
	StateData *models.Snapshot

	Options        []models.Option
	Expanded       bool
	AlwaysExpanded bool
	SortByValue    bool

	Labels TrioLabels
}

type focusKind int

const (
	focusFilter focusKind = iota
	focusRangeToggle
	focusMin
	focusMax
	focusBool
	focusOption
	focusSortUp
	focusSortDown
)

type focusItem struct {
	kind     focusKind
	optionID int
}

// FilterSortCtrl is the combined filter and sort control for one grid column
type FilterSortCtrl struct {
	Theme theme.Theme
	Width int

	action     string
	stateSlice string
	colName    string
	field      string
	dataType   models.DataType

	filter          string
	min             int64
	max             int64
	boolState       models.TriState
	order           models.SortOrder
	options         []models.Option
	filteredOptions []models.OptionFilter
	lastOptStr      string
	value           interface{}

	showMinMax     bool
	sortByValue    bool
	expanded       bool
	alwaysExpanded bool
	labels         TrioLabels

	filterInput textinput.Model
	minInput    textinput.Model
	maxInput    textinput.Model

	focus           int
	validationError string

	log *logging.Logger
}

// NewFilterSortCtrl creates a control and seeds it from props.StateData
func NewFilterSortCtrl(props FilterSortProps, th theme.Theme, log *logging.Logger) *FilterSortCtrl {
	c := &FilterSortCtrl{
		Theme:          th,
		Width:          60,
		action:         props.Action,
		stateSlice:     props.StateSlice,
		colName:        props.ColName,
		field:          props.ColName,
		dataType:       props.DataType,
		filter:         props.Filter,
		min:            props.Min,
		max:            props.Max,
		boolState:      props.Bool,
		order:          props.Order,
		options:        props.Options,
		showMinMax:     props.ShowMinMax,
		sortByValue:    props.SortByValue,
		expanded:       props.Expanded,
		alwaysExpanded: props.AlwaysExpanded,
		labels:         props.Labels.withDefaults(),
		log:            log.WithComponent("filter_sort").With("column", props.ColName),
	}
	if c.dataType == "" {
		c.dataType = models.DataTypeText
	}

	var prior []models.OptionFilter
	if props.StateData != nil {
		sd := props.StateData
		if sd.Field != "" {
			c.field = sd.Field
		}
		c.filter = sd.Filter
		c.min = sd.Min
		c.max = sd.Max
		c.order = sd.Order
		c.boolState = sd.Bool
		if c.dataType == models.DataTypeNumber && sd.Layout != models.LayoutDefault {
			c.showMinMax = sd.Layout == models.LayoutRange
		}
		prior = sd.Options
	}

	if c.dataType == models.DataTypeOption {
		c.filteredOptions = filter.SeedSelection(c.options, prior)
		c.lastOptStr = filter.EncodeSelection(c.filteredOptions)
	}

	c.filterInput = newCtrlInput("Filter by...")
	c.filterInput.SetValue(c.filter)
	c.minInput = newCtrlInput(c.boundPlaceholder())
	c.minInput.SetValue(filter.FormatBound(c.dataType, c.min))
	c.maxInput = newCtrlInput(c.boundPlaceholder())
	c.maxInput.SetValue(filter.FormatBound(c.dataType, c.max))

	c.applyFocus()
	return c
}

func newCtrlInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 30
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (c *FilterSortCtrl) boundPlaceholder() string {
	switch c.dataType {
	case models.DataTypeDate:
		return "YYYY-MM-DD"
	case models.DataTypeDateTime:
		return "YYYY-MM-DDTHH:MM"
	default:
		return "number"
	}
}

// ColName returns the column the control belongs to
func (c *FilterSortCtrl) ColName() string {
	return c.colName
}

// DataType returns the control's data type
func (c *FilterSortCtrl) DataType() models.DataType {
	return c.dataType
}

// Order returns the current sort order
func (c *FilterSortCtrl) Order() models.SortOrder {
	return c.order
}

// SetOrder sets the sort order without emitting a change. The host uses it
// to clear the other columns when only one column may sort.
func (c *FilterSortCtrl) SetOrder(order models.SortOrder) {
	c.order = order
}

// ShowMinMax reports whether the control filters by range
func (c *FilterSortCtrl) ShowMinMax() bool {
	return c.usesRange()
}

// Value returns the value of the most recent change
func (c *FilterSortCtrl) Value() interface{} {
	return c.value
}

// ValidationError returns the message for the last rejected input
func (c *FilterSortCtrl) ValidationError() string {
	return c.validationError
}

// Toggle opens or closes the control panel
func (c *FilterSortCtrl) Toggle() {
	c.expanded = !c.expanded
	if c.expanded {
		c.focus = 0
		c.applyFocus()
	} else {
		c.blurAll()
	}
}

// Hidden reports whether the panel is collapsed
func (c *FilterSortCtrl) Hidden() bool {
	return !c.expanded && !c.alwaysExpanded
}

// Snapshot returns the control state in its externally stored form
func (c *FilterSortCtrl) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Field:  c.field,
		Filter: c.filter,
		Min:    c.min,
		Max:    c.max,
		Order:  c.order,
		Bool:   c.boolState,
	}
	if c.dataType == models.DataTypeNumber {
		snap.Layout = models.LayoutValue
		if c.showMinMax {
			snap.Layout = models.LayoutRange
		}
	}
	for _, opt := range c.filteredOptions {
		if opt.Mode != models.Ignore {
			snap.Options = append(snap.Options, opt)
		}
	}
	return snap
}

// Spec returns the column description the control's filters apply to
func (c *FilterSortCtrl) Spec() models.ColumnSpec {
	return models.ColumnSpec{
		Name:        c.colName,
		DataType:    c.dataType,
		Options:     c.options,
		ShowMinMax:  c.usesRange(),
		SortByValue: c.sortByValue,
	}
}

// usesRange reports whether min/max inputs are shown. Date types always
// filter by range.
func (c *FilterSortCtrl) usesRange() bool {
	if !c.dataType.IsRange() {
		return false
	}
	return c.dataType.IsTemporal() || c.showMinMax
}

// HandleInput applies one user edit. It returns a command yielding a
// FilterSortChangeMsg when the edit changed the control's state, or nil.
func (c *FilterSortCtrl) HandleInput(in models.FieldInput) tea.Cmd {
	switch in.Kind {
	case models.FieldFilter:
		if c.filterInput.Value() != in.Value {
			c.filterInput.SetValue(in.Value)
		}
		if c.filter == in.Value {
			return nil
		}
		c.filter = in.Value
		c.value = in.Value

	case models.FieldMin:
		if c.minInput.Value() != in.Value {
			c.minInput.SetValue(in.Value)
		}
		v, ok := c.parseBound(in)
		if !ok || c.min == v {
			return nil
		}
		c.min = v
		c.value = v

	case models.FieldMax:
		if c.maxInput.Value() != in.Value {
			c.maxInput.SetValue(in.Value)
		}
		v, ok := c.parseBound(in)
		if !ok {
			return nil
		}
		if strings.TrimSpace(in.Value) != "" {
			v = filter.AdjustMax(c.dataType, v)
		}
		if c.max == v {
			return nil
		}
		c.max = v
		c.value = v

	case models.FieldBool:
		t := filter.ParseTriState(in.Value)
		if c.boolState == t {
			return nil
		}
		c.boolState = t
		c.value = t

	case models.FieldOption:
		c.filteredOptions = filter.UpdateSelection(c.filteredOptions, in.ChildID, in.Value)
		encoded := filter.EncodeSelection(c.filteredOptions)
		if c.lastOptStr == encoded {
			return nil
		}
		c.lastOptStr = encoded
		c.value = encoded

	case models.FieldSortUp:
		if c.order != models.SortDescending {
			c.order = models.SortDescending
		} else {
			c.order = models.SortNone
		}
		c.value = c.order

	case models.FieldSortDown:
		if c.order != models.SortAscending {
			c.order = models.SortAscending
		} else {
			c.order = models.SortNone
		}
		c.value = c.order

	default:
		return nil
	}

	return c.emit(in.Kind)
}

func (c *FilterSortCtrl) parseBound(in models.FieldInput) (int64, bool) {
	v, err := filter.ParseBound(c.dataType, in.Value)
	if err != nil {
		c.validationError = fmt.Sprintf("Invalid %s value %q", in.Kind, in.Value)
		c.log.Debug("rejected bound", "field", in.Kind.String(), "input", in.Value)
		return 0, false
	}
	c.validationError = ""
	return v, true
}

func (c *FilterSortCtrl) emit(kind models.FieldKind) tea.Cmd {
	msg := FilterSortChangeMsg{
		StateSlice: c.stateSlice,
		ColName:    c.colName,
		Action:     c.action,
		Subtype:    kind,
		Value:      c.value,
		Snapshot:   c.Snapshot(),
	}
	c.log.Debug("filter sort change", "field", kind.String(), "value", c.value)

	return func() tea.Msg {
		return msg
	}
}

// focusItems lists the focusable parts of the panel in tab order
func (c *FilterSortCtrl) focusItems() []focusItem {
	var items []focusItem

	switch c.dataType {
	case models.DataTypeBool:
		items = append(items, focusItem{kind: focusBool})
	case models.DataTypeOption:
		for _, opt := range c.options {
			items = append(items, focusItem{kind: focusOption, optionID: opt.ID})
		}
	default:
		if c.dataType == models.DataTypeNumber {
			items = append(items, focusItem{kind: focusRangeToggle})
		}
		if c.usesRange() {
			items = append(items, focusItem{kind: focusMin}, focusItem{kind: focusMax})
		} else {
			items = append(items, focusItem{kind: focusFilter})
		}
	}

	return append(items, focusItem{kind: focusSortUp}, focusItem{kind: focusSortDown})
}

func (c *FilterSortCtrl) current() focusItem {
	items := c.focusItems()
	if c.focus < 0 || c.focus >= len(items) {
		c.focus = 0
	}
	return items[c.focus]
}

func (c *FilterSortCtrl) moveFocus(delta int) {
	n := len(c.focusItems())
	c.focus = (c.focus + delta + n) % n
	c.applyFocus()
}

func (c *FilterSortCtrl) blurAll() {
	c.filterInput.Blur()
	c.minInput.Blur()
	c.maxInput.Blur()
}

// applyFocus gives keyboard focus to the text input under the cursor, if any
func (c *FilterSortCtrl) applyFocus() {
	c.blurAll()
	if c.Hidden() {
		return
	}
	switch c.current().kind {
	case focusFilter:
		c.filterInput.Focus()
	case focusMin:
		c.minInput.Focus()
	case focusMax:
		c.maxInput.Focus()
	}
}

func (c *FilterSortCtrl) focusedInput() (*textinput.Model, models.FieldKind, bool) {
	switch c.current().kind {
	case focusFilter:
		return &c.filterInput, models.FieldFilter, true
	case focusMin:
		return &c.minInput, models.FieldMin, true
	case focusMax:
		return &c.maxInput, models.FieldMax, true
	}
	return nil, 0, false
}

// Update handles keyboard input while the panel is open
func (c *FilterSortCtrl) Update(msg tea.Msg) (*FilterSortCtrl, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || c.Hidden() {
		return c, nil
	}

	item := c.current()

	switch keyMsg.String() {
	case "esc":
		if c.alwaysExpanded {
			return c, nil
		}
		c.Toggle()
		name := c.colName
		return c, func() tea.Msg {
			return FilterSortClosedMsg{ColName: name}
		}
	case "tab", "down":
		c.moveFocus(1)
		return c, nil
	case "shift+tab", "up":
		c.moveFocus(-1)
		return c, nil
	}

	if input, kind, ok := c.focusedInput(); ok {
		if keyMsg.String() == "enter" {
			c.moveFocus(1)
			return c, nil
		}
		before := input.Value()
		var cmd tea.Cmd
		*input, cmd = input.Update(keyMsg)
		if input.Value() == before {
			return c, cmd
		}
		return c, tea.Batch(cmd, c.HandleInput(models.FieldInput{Kind: kind, Value: input.Value()}))
	}

	switch keyMsg.String() {
	case "left", "h", "right", "l":
		dir := 1
		if k := keyMsg.String(); k == "left" || k == "h" {
			dir = -1
		}
		switch item.kind {
		case focusBool:
			next := StepTriState(c.boolState, dir)
			return c, c.HandleInput(models.FieldInput{Kind: models.FieldBool, Value: filter.TriStateValue(next)})
		case focusOption:
			next := StepTriState(filter.OptionMode(item.optionID, c.filteredOptions), dir)
			return c, c.HandleInput(models.FieldInput{Kind: models.FieldOption, Value: filter.TriStateValue(next), ChildID: item.optionID})
		case focusRangeToggle:
			return c, c.toggleRange()
		case focusSortUp, focusSortDown:
			c.moveFocus(dir)
		}
	case "enter", " ":
		switch item.kind {
		case focusSortUp:
			return c, c.HandleInput(models.FieldInput{Kind: models.FieldSortUp})
		case focusSortDown:
			return c, c.HandleInput(models.FieldInput{Kind: models.FieldSortDown})
		case focusRangeToggle:
			return c, c.toggleRange()
		}
	case "u":
		return c, c.HandleInput(models.FieldInput{Kind: models.FieldSortUp})
	case "d":
		return c, c.HandleInput(models.FieldInput{Kind: models.FieldSortDown})
	}

	return c, nil
}

func (c *FilterSortCtrl) toggleRange() tea.Cmd {
	c.showMinMax = !c.showMinMax
	c.validationError = ""
	msg := FilterSortLayoutMsg{ColName: c.colName, ShowMinMax: c.showMinMax}
	return func() tea.Msg {
		return msg
	}
}

// HeaderView renders the column header button: name, sort glyph and filter
// badge
func (c *FilterSortCtrl) HeaderView(width int, focused bool) string {
	label := c.colName
	if glyph := SortGlyph(c.order); glyph != "" {
		label += " " + lipgloss.NewStyle().Foreground(c.Theme.SortActive).Render(glyph)
	}
	if badge := FilterBadge(c.Theme, c.Snapshot()); badge != "" {
		label += " " + badge
	}

	style := lipgloss.NewStyle().
		Foreground(c.Theme.TableHeader).
		Bold(true).
		MaxWidth(width)
	if width > 0 {
		style = style.Width(width)
	}
	if focused {
		style = style.Background(c.Theme.Selection).Underline(true)
	}
	return style.Render(label)
}

// View renders the expanded panel, or nothing when collapsed
func (c *FilterSortCtrl) View() string {
	if c.Hidden() {
		return ""
	}

	var sections []string
	item := c.current()

	titleStyle := lipgloss.NewStyle().
		Foreground(c.Theme.Foreground).
		Background(c.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Filter and sort: "+c.colName), "")

	switch c.dataType {
	case models.DataTypeBool:
		sections = append(sections, c.labelLine("Filter by"), TriStateTrio(c.Theme, c.boolState, item.kind == focusBool, c.labels))
	case models.DataTypeOption:
		focusedID := -1
		if item.kind == focusOption {
			focusedID = item.optionID
		}
		sections = append(sections, c.labelLine("Filter by"), OptionList(c.Theme, c.options, c.filteredOptions, focusedID, c.labels))
	default:
		if c.dataType == models.DataTypeNumber {
			sections = append(sections, ToggleInput(c.Theme, c.showMinMax, "Filter by range", "Filter by value", item.kind == focusRangeToggle))
		}
		if c.usesRange() {
			sections = append(sections,
				ValueInput(c.Theme, "Minimum", c.minInput.View(), item.kind == focusMin),
				ValueInput(c.Theme, "Maximum", c.maxInput.View(), item.kind == focusMax))
		} else {
			sections = append(sections, ValueInput(c.Theme, "Filter by", c.filterInput.View(), item.kind == focusFilter))
		}
	}

	if c.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(c.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+c.validationError))
	}

	if note := c.BoundNote(); note != "" {
		noteStyle := lipgloss.NewStyle().
			Foreground(c.Theme.Warning).
			Padding(0, 1)
		sections = append(sections, noteStyle.Render(note))
	}

	if c.dataType == models.DataTypeText {
		sections = append(sections, "", HelpText(c.Theme))
	}

	sections = append(sections, "", lipgloss.JoinHorizontal(lipgloss.Center,
		SortButton(c.Theme, models.FieldSortUp, c.order, item.kind == focusSortUp),
		" ",
		SortButton(c.Theme, models.FieldSortDown, c.order, item.kind == focusSortDown),
	))

	instructionStyle := lipgloss.NewStyle().
		Foreground(c.Theme.Muted).
		Italic(true)
	sections = append(sections, instructionStyle.Render(c.instructions()))

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Theme.BorderFocused).
		Background(c.Theme.Background).
		Foreground(c.Theme.Foreground).
		Width(c.Width).
		Padding(0, 1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

// BoundNote warns when a typed min or max parsed to 0, which filters
// nothing because 0 stands for an unset bound
func (c *FilterSortCtrl) BoundNote() string {
	if !c.usesRange() || c.validationError != "" {
		return ""
	}
	var names []string
	if c.min == 0 && strings.TrimSpace(c.minInput.Value()) != "" {
		names = append(names, "Minimum")
	}
	if c.max == 0 && strings.TrimSpace(c.maxInput.Value()) != "" {
		names = append(names, "Maximum")
	}
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, " and ") + " of 0 is treated as no bound"
}

func (c *FilterSortCtrl) labelLine(label string) string {
	return lipgloss.NewStyle().Foreground(c.Theme.Muted).Render("  " + label + ":")
}

func (c *FilterSortCtrl) instructions() string {
	if _, _, ok := c.focusedInput(); ok {
		return "Tab/↑↓: move │ Enter: next │ Esc: close"
	}
	switch c.current().kind {
	case focusBool, focusOption:
		return "←→: select │ Tab/↑↓: move │ u/d: sort │ Esc: close"
	case focusRangeToggle:
		return "Space: toggle │ Tab/↑↓: move │ u/d: sort │ Esc: close"
	}
	return "Enter: sort │ Tab/↑↓: move │ u/d: sort │ Esc: close"
}
