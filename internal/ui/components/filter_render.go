package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/filter"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// TrioLabels are the words shown for the include and exclude choices of a
// tri-state trio
type TrioLabels struct {
	Include string
	Exclude string
}

// DefaultTrioLabels returns the stock Include/Exclude labels
func DefaultTrioLabels() TrioLabels {
	return TrioLabels{Include: "Include", Exclude: "Exclude"}
}

func (l TrioLabels) withDefaults() TrioLabels {
	if l.Include == "" {
		l.Include = "Include"
	}
	if l.Exclude == "" {
		l.Exclude = "Exclude"
	}
	return l
}

// Label returns the word for a tri-state value
func (l TrioLabels) Label(t models.TriState) string {
	l = l.withDefaults()
	switch t {
	case models.Include:
		return l.Include
	case models.Exclude:
		return l.Exclude
	default:
		return "Ignore"
	}
}

// trioOrder is the left to right order of a trio's choices
var trioOrder = []models.TriState{models.Ignore, models.Include, models.Exclude}

// StepTriState moves a trio selection one place left (dir < 0) or right
// (dir > 0), stopping at the ends
func StepTriState(t models.TriState, dir int) models.TriState {
	idx := 0
	for i, v := range trioOrder {
		if v == t {
			idx = i
			break
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(trioOrder) {
		idx = len(trioOrder) - 1
	}
	return trioOrder[idx]
}

func triColor(th theme.Theme, t models.TriState) lipgloss.Color {
	switch t {
	case models.Include:
		return th.Include
	case models.Exclude:
		return th.Exclude
	default:
		return th.Ignore
	}
}

// TriStateTrio renders an Ignore/Include/Exclude radio trio with value
// selected
func TriStateTrio(th theme.Theme, value models.TriState, focused bool, labels TrioLabels) string {
	return focusPrefix(th, focused) + trioChoices(th, value, focused, labels)
}

func trioChoices(th theme.Theme, value models.TriState, focused bool, labels TrioLabels) string {
	parts := make([]string, 0, len(trioOrder))
	for _, choice := range trioOrder {
		mark := "( )"
		style := lipgloss.NewStyle().Foreground(th.Muted)
		if choice == value {
			mark = "(•)"
			style = lipgloss.NewStyle().Foreground(triColor(th, choice)).Bold(true)
			if focused {
				style = style.Underline(true)
			}
		}
		parts = append(parts, style.Render(mark+" "+labels.Label(choice)))
	}
	return strings.Join(parts, "  ")
}

func focusPrefix(th theme.Theme, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Foreground(th.BorderFocused).Render("› ")
	}
	return "  "
}

// OptionList renders one labelled trio per option. focusedID is the option
// whose trio has focus, or -1 for none.
func OptionList(th theme.Theme, options []models.Option, selection []models.OptionFilter, focusedID int, labels TrioLabels) string {
	if len(options) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted).Italic(true).Render("  No options")
	}

	width := 0
	for _, opt := range options {
		if w := lipgloss.Width(opt.Name); w > width {
			width = w
		}
	}

	nameStyle := lipgloss.NewStyle().Width(width + 2)
	lines := make([]string, 0, len(options))
	for _, opt := range options {
		focused := opt.ID == focusedID
		mode := filter.OptionMode(opt.ID, selection)
		lines = append(lines, focusPrefix(th, focused)+
			nameStyle.Render(opt.Name+":")+
			trioChoices(th, mode, focused, labels))
	}
	return strings.Join(lines, "\n")
}

// ValueInput renders a labelled input line. view is the rendered input.
func ValueInput(th theme.Theme, label, view string, focused bool) string {
	labelStyle := lipgloss.NewStyle().Foreground(th.Muted).Width(10)
	if focused {
		labelStyle = labelStyle.Foreground(th.BorderFocused).Bold(true)
	}
	return focusPrefix(th, focused) + labelStyle.Render(label+":") + " " + view
}

// ToggleInput renders a checkbox whose caption reflects its state
func ToggleInput(th theme.Theme, checked bool, trueTxt, falseTxt string, focused bool) string {
	box := "[ ]"
	txt := falseTxt
	style := lipgloss.NewStyle().Foreground(th.Muted)
	if checked {
		box = "[x]"
		txt = trueTxt
		style = lipgloss.NewStyle().Foreground(th.Foreground)
	}

	if focused {
		style = style.Bold(true).Underline(true)
	}
	return focusPrefix(th, focused) + style.Render(box+" "+txt)
}

// helpLines describe the text filter syntax understood by filter.ParseTextFilter
var helpLines = []struct{ text, code string }{
	{"To filter on multiple text fragments, separate each fragment with a semicolon", ";"},
	{"To only match from the start, use a caret at the start of the fragment", "^"},
	{"To only match the end, use a dollar sign at the end of the fragment", "$"},
	{"To exclude matched items, precede your fragment with an exclamation mark", "!"},
}

// HelpText renders the text filter help block
func HelpText(th theme.Theme) string {
	textStyle := lipgloss.NewStyle().Foreground(th.Muted).Italic(true)
	codeStyle := lipgloss.NewStyle().Foreground(th.Foreground).Background(th.Selection).Padding(0, 1)

	lines := make([]string, len(helpLines))
	for i, l := range helpLines {
		lines[i] = textStyle.Render("• "+l.text+" ") + codeStyle.Render(l.code)
	}
	return strings.Join(lines, "\n")
}

// SortGlyph returns the header glyph for a sort order
func SortGlyph(order models.SortOrder) string {
	switch order {
	case models.SortDescending:
		return "▲"
	case models.SortAscending:
		return "▼"
	default:
		return ""
	}
}

// SortButton renders one of the two sort buttons
func SortButton(th theme.Theme, kind models.FieldKind, order models.SortOrder, focused bool) string {
	glyph, label, active := "▲", "Descending", order == models.SortDescending
	if kind == models.FieldSortDown {
		glyph, label, active = "▼", "Ascending", order == models.SortAscending
	}
	if active {
		label = "Sorted " + strings.ToLower(label)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Foreground(th.Muted).
		Padding(0, 1)
	if active {
		style = style.Foreground(th.SortActive).Bold(true)
	}
	if focused {
		style = style.BorderForeground(th.BorderFocused)
	}
	return style.Render(glyph + " " + label)
}

// FilterBadge returns a marker when the snapshot filters rows
func FilterBadge(th theme.Theme, snap models.Snapshot) string {
	snap.Order = models.SortNone
	// Only the inputs of the stored layout filter a number column
	switch snap.Layout {
	case models.LayoutValue:
		snap.Min, snap.Max = 0, 0
	case models.LayoutRange:
		snap.Filter = ""
	}
	if !snap.IsActive() {
		return ""
	}
	return lipgloss.NewStyle().Foreground(th.Badge).Render("●")
}

// DescribeFilter renders a compact summary of one column's filter, as shown
// in the grid's filter summary bar. Empty when the column is not filtered.
func DescribeFilter(th theme.Theme, col models.ColumnSpec, snap models.Snapshot, labels TrioLabels) string {
	var desc string

	switch col.DataType {
	case models.DataTypeBool:
		if snap.Bool != models.Ignore {
			desc = lipgloss.NewStyle().Foreground(triColor(th, snap.Bool)).Render(labels.Label(snap.Bool))
		}

	case models.DataTypeOption:
		var parts []string
		for _, opt := range col.Options {
			mode := filter.OptionMode(opt.ID, snap.Options)
			switch mode {
			case models.Include:
				parts = append(parts, lipgloss.NewStyle().Foreground(th.Include).Render("+"+opt.Name))
			case models.Exclude:
				parts = append(parts, lipgloss.NewStyle().Foreground(th.Exclude).Render("-"+opt.Name))
			}
		}
		desc = strings.Join(parts, " ")

	case models.DataTypeNumber, models.DataTypeDate, models.DataTypeDateTime:
		if col.DataType == models.DataTypeNumber && !col.ShowMinMax {
			desc = snap.Filter
			if desc != "" {
				desc = "= " + desc
			}
			break
		}
		if snap.Min == 0 && snap.Max == 0 {
			break
		}
		desc = fmt.Sprintf("%s..%s",
			filter.FormatBound(col.DataType, snap.Min),
			filter.FormatBound(col.DataType, snap.Max))

	default:
		desc = snap.Filter
	}

	if desc == "" {
		return ""
	}
	name := lipgloss.NewStyle().Foreground(th.TableHeader).Bold(true).Render(col.Name)
	return name + " " + desc
}
