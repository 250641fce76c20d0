package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// Panel represents a bordered UI panel
type Panel struct {
	Title   string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// View renders the panel. A zero Height sizes the panel to its content.
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height < 0 {
		return ""
	}

	borderColor := p.Theme.Border
	if p.Focused {
		borderColor = p.Theme.BorderFocused
	}

	// Create border style
	style := lipgloss.NewStyle().
		Width(p.Width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)
	if p.Height > 0 {
		style = style.Height(p.Height)
	}

	// Add title if present
	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor).Padding(0, 1)
		content = titleStyle.Render(p.Title) + "\n" + content
	}

	return style.Render(content)
}
