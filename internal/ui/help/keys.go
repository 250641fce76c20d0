package help

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the grid key bindings
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding

	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	OpenFilter key.Binding
	SortUp     key.Binding
	SortDown   key.Binding
	ClearAll   key.Binding
	Search     key.Binding

	CopyCell   key.Binding
	CopyFilter key.Binding
	Presets    key.Binding
	SavePreset key.Binding
	Export     key.Binding
}

// DefaultKeyMap returns the default grid key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q, Ctrl+C", "Quit application")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Toggle help")),
		Refresh: key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r, F5", "Reload rows")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "Move up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "Move down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "Previous column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "Next column")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("PgUp", "Page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("PgDn", "Page down")),
		NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "Load next page")),
		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "Load previous page")),

		OpenFilter: key.NewBinding(key.WithKeys("enter", "f"), key.WithHelp("Enter, f", "Open column filter and sort")),
		SortUp:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "Sort column descending (toggle)")),
		SortDown:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Sort column ascending (toggle)")),
		ClearAll:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Clear all filters and sorts")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Find column or filter focused column")),

		CopyCell:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Copy cell")),
		CopyFilter: key.NewBinding(key.WithKeys("C"), key.WithHelp("Shift+C", "Copy column filter")),
		Presets:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Apply a preset")),
		SavePreset: key.NewBinding(key.WithKeys("P"), key.WithHelp("Shift+P", "Save filters as preset")),
		Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Export filtered rows")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OpenFilter, k.SortUp, k.SortDown, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Quit, k.Refresh},
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.NextPage, k.PrevPage},
		{k.OpenFilter, k.SortUp, k.SortDown, k.ClearAll, k.Search},
		{k.CopyCell, k.CopyFilter, k.Presets, k.SavePreset, k.Export},
	}
}
