package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// Search modes
const (
	SearchColumns = "columns" // jump to a matching column
	SearchFilter  = "filter"  // use the query as the focused column's text filter
)

// SearchInputMsg is sent when search should be executed
type SearchInputMsg struct {
	Query string
	Mode  string
}

// CloseSearchMsg is sent when search should be closed
type CloseSearchMsg struct{}

// SearchInput provides a search input box
type SearchInput struct {
	Input   textinput.Model
	Mode    string
	Theme   theme.Theme
	Width   int
	Visible bool
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Column name, n: d: t: b: o: to narrow by type"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input: ti,
		Mode:  SearchColumns,
		Theme: th,
	}
}

// ToggleMode switches between column and filter search
func (s *SearchInput) ToggleMode() {
	if s.Mode == SearchColumns {
		s.Mode = SearchFilter
		s.Input.Placeholder = "Text filter for the focused column"
	} else {
		s.Mode = SearchColumns
		s.Input.Placeholder = "Column name, n: d: t: b: o: to narrow by type"
	}
}

// Reset clears the search input
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.Mode = SearchColumns
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.ToggleMode()
			return s, nil
		case "enter":
			query := s.Input.Value()
			mode := s.Mode
			if query != "" || mode == SearchFilter {
				return s, func() tea.Msg {
					return SearchInputMsg{Query: query, Mode: mode}
				}
			}
			return s, nil
		case "esc":
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		}
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the search input
func (s *SearchInput) View() string {
	modeIndicator := "[Column]"
	modeColor := s.Theme.Success
	if s.Mode == SearchFilter {
		modeIndicator = "[Filter]"
		modeColor = s.Theme.Info
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(modeColor).
		Bold(true)

	// Calculate input width
	inputWidth := s.Width - 20 // Reserve space for mode indicator
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Muted).
		Italic(true)

	content := modeStyle.Render(modeIndicator) + " " + s.Input.View()
	helpText := helpStyle.Render("Tab: toggle mode │ Enter: search │ Esc: close")

	return boxStyle.Render(content + "\n" + helpText)
}
