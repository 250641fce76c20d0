package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// ApplyPresetMsg is sent when a preset should replace the current filters
type ApplyPresetMsg struct {
	Preset models.Preset
}

// SavePresetMsg is sent when the current filters should be saved as a preset
type SavePresetMsg struct {
	Name        string
	Description string
}

// DeletePresetMsg is sent when a preset should be removed
type DeletePresetMsg struct {
	ID string
}

// ClosePresetPickerMsg is sent when the picker should close
type ClosePresetPickerMsg struct{}

const (
	presetModeList = ""
	presetModeName = "name"
	presetModeDesc = "description"
)

// PresetPicker lists the presets saved for a table and saves new ones
type PresetPicker struct {
	Width   int
	Height  int
	Theme   theme.Theme
	builder *filter.Builder

	schema  string
	table   string
	columns []models.ColumnSpec
	presets []models.Preset

	currentIndex    int
	editMode        string
	nameInput       textinput.Model
	descInput       textinput.Model
	validationError string
	previewSQL      string
}

// NewPresetPicker creates a picker that previews SQL in the given dialect
func NewPresetPicker(th theme.Theme, dialect filter.Dialect) *PresetPicker {
	return &PresetPicker{
		Width:     70,
		Height:    24,
		Theme:     th,
		builder:   filter.NewBuilder(dialect),
		nameInput: newPresetInput("Preset name"),
		descInput: newPresetInput("Description (optional)"),
	}
}

func newPresetInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// SetTable sets the table and columns presets are previewed against
func (pp *PresetPicker) SetTable(schema, table string, columns []models.ColumnSpec) {
	pp.schema = schema
	pp.table = table
	pp.columns = columns
	pp.updatePreview()
}

// SetPresets replaces the listed presets
func (pp *PresetPicker) SetPresets(presets []models.Preset) {
	pp.presets = presets
	if pp.currentIndex >= len(presets) {
		pp.currentIndex = len(presets) - 1
	}
	if pp.currentIndex < 0 {
		pp.currentIndex = 0
	}
	pp.updatePreview()
}

// SetError shows a validation error, for example a duplicate name
func (pp *PresetPicker) SetError(msg string) {
	pp.validationError = msg
}

// Selected returns the highlighted preset
func (pp *PresetPicker) Selected() (models.Preset, bool) {
	if pp.currentIndex < 0 || pp.currentIndex >= len(pp.presets) {
		return models.Preset{}, false
	}
	return pp.presets[pp.currentIndex], true
}

// StartSave switches straight to naming a new preset
func (pp *PresetPicker) StartSave() {
	pp.editMode = presetModeName
	pp.nameInput.SetValue("")
	pp.descInput.SetValue("")
	pp.nameInput.Focus()
	pp.validationError = ""
}

// Reset returns the picker to list mode
func (pp *PresetPicker) Reset() {
	pp.editMode = presetModeList
	pp.nameInput.Blur()
	pp.descInput.Blur()
	pp.validationError = ""
}

// Update handles keyboard input
func (pp *PresetPicker) Update(msg tea.KeyMsg) (*PresetPicker, tea.Cmd) {
	switch pp.editMode {
	case presetModeName:
		return pp.handleNameMode(msg)
	case presetModeDesc:
		return pp.handleDescriptionMode(msg)
	}
	return pp.handleListMode(msg)
}

// handleListMode handles keys while browsing presets
func (pp *PresetPicker) handleListMode(msg tea.KeyMsg) (*PresetPicker, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if pp.currentIndex > 0 {
			pp.currentIndex--
			pp.updatePreview()
		}
	case "down", "j":
		if pp.currentIndex < len(pp.presets)-1 {
			pp.currentIndex++
			pp.updatePreview()
		}
	case "a", "n":
		pp.StartSave()
	case "d", "x":
		p, ok := pp.Selected()
		if !ok {
			return pp, nil
		}
		return pp, func() tea.Msg {
			return DeletePresetMsg{ID: p.ID}
		}
	case "enter":
		p, ok := pp.Selected()
		if !ok {
			pp.validationError = "No presets saved for this table yet"
			return pp, nil
		}
		pp.validationError = ""
		return pp, func() tea.Msg {
			return ApplyPresetMsg{Preset: p}
		}
	case "esc":
		return pp, func() tea.Msg {
			return ClosePresetPickerMsg{}
		}
	}
	return pp, nil
}

// handleNameMode handles the preset name input
func (pp *PresetPicker) handleNameMode(msg tea.KeyMsg) (*PresetPicker, tea.Cmd) {
	switch msg.String() {
	case "esc":
		pp.Reset()
		return pp, nil
	case "enter", "tab":
		if strings.TrimSpace(pp.nameInput.Value()) == "" {
			pp.validationError = "Preset name cannot be empty"
			return pp, nil
		}
		pp.validationError = ""
		pp.editMode = presetModeDesc
		pp.nameInput.Blur()
		pp.descInput.Focus()
		return pp, nil
	}
	var cmd tea.Cmd
	pp.nameInput, cmd = pp.nameInput.Update(msg)
	return pp, cmd
}

// handleDescriptionMode handles the optional description input
func (pp *PresetPicker) handleDescriptionMode(msg tea.KeyMsg) (*PresetPicker, tea.Cmd) {
	switch msg.String() {
	case "esc":
		pp.editMode = presetModeName
		pp.descInput.Blur()
		pp.nameInput.Focus()
		return pp, nil
	case "enter":
		save := SavePresetMsg{
			Name:        strings.TrimSpace(pp.nameInput.Value()),
			Description: strings.TrimSpace(pp.descInput.Value()),
		}
		pp.Reset()
		return pp, func() tea.Msg {
			return save
		}
	}
	var cmd tea.Cmd
	pp.descInput, cmd = pp.descInput.Update(msg)
	return pp, cmd
}

// updatePreview updates the SQL preview of the highlighted preset
func (pp *PresetPicker) updatePreview() {
	p, ok := pp.Selected()
	if !ok || pp.table == "" {
		pp.previewSQL = ""
		return
	}

	byField := make(map[string]models.Snapshot, len(p.Columns))
	for _, snap := range p.Columns {
		byField[snap.Field] = snap
	}
	var cols []models.ColumnFilter
	for _, spec := range pp.columns {
		if snap, ok := byField[spec.Name]; ok {
			cols = append(cols, models.ColumnFilter{Column: spec.WithLayout(snap), State: snap})
		}
	}

	query, _, err := pp.builder.BuildSelect(filter.FromColumns(pp.schema, pp.table, cols), 0, 0)
	if err != nil {
		pp.previewSQL = fmt.Sprintf("Error: %s", err.Error())
		return
	}
	pp.previewSQL = query
}

// View renders the preset picker
func (pp *PresetPicker) View() string {
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().
		Foreground(pp.Theme.Foreground).
		Background(pp.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Presets: "+pp.table))

	instructionStyle := lipgloss.NewStyle().
		Foreground(pp.Theme.Muted).
		Padding(0, 1)

	var instructions string
	switch pp.editMode {
	case presetModeName:
		instructions = "Type a name, Enter to continue, Esc to cancel"
	case presetModeDesc:
		instructions = "Type a description, Enter to save, Esc to go back"
	default:
		instructions = "↑↓ Select  Enter=Apply  n=Save current  d=Delete  Esc=Close"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	// Validation error
	if pp.validationError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(pp.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+pp.validationError))
	}

	if pp.editMode != presetModeList {
		sections = append(sections, "",
			ValueInput(pp.Theme, "Name", pp.nameInput.View(), pp.editMode == presetModeName),
			ValueInput(pp.Theme, "About", pp.descInput.View(), pp.editMode == presetModeDesc))
	} else if len(pp.presets) == 0 {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(pp.Theme.Muted).Italic(true).Render("  No presets yet"))
	} else {
		sections = append(sections, "")
		for i, p := range pp.presets {
			line := fmt.Sprintf(" %d. %s (%d columns)", i+1, p.Name, len(p.Columns))
			if p.Description != "" {
				line += " - " + p.Description
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if i == pp.currentIndex {
				style = style.Background(pp.Theme.Selection).Foreground(pp.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	// SQL Preview
	if pp.previewSQL != "" && pp.editMode == presetModeList {
		sections = append(sections, "", "SQL Preview:")
		previewStyle := lipgloss.NewStyle().
			Padding(0, 1).
			Width(pp.Width - 4)
		sections = append(sections, previewStyle.Render(highlightSQL(pp.previewSQL)))
	}

	panel := Panel{
		Content: strings.Join(sections, "\n"),
		Width:   pp.Width,
		Focused: true,
		Theme:   pp.Theme,
	}
	return panel.View()
}

// highlightSQL colours a query for the terminal, falling back to the plain
// text when the lexer or formatter fails
func highlightSQL(query string) string {
	lexer := lexers.Get("sql")
	if lexer == nil {
		return query
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, query)
	if err != nil {
		return query
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return query
	}
	return strings.TrimRight(buf.String(), "\n")
}
