package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/models"
	"github.com/rebeliceyang/lazygrid/internal/ui/components"
	"github.com/rebeliceyang/lazygrid/internal/ui/help"
)

// controlWidth is the width of the filter panel beside the grid
const controlWidth = 56

// View implements tea.Model
func (a *App) View() string {
	// If error overlay is showing, render it centered on top of everything
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		return help.Render(a.state.Width, a.state.Height, a.theme, a.keys)
	case models.PresetMode:
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.presetPicker.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the grid with its bars and any open control
func (a *App) renderNormalView() string {
	topBarLeft := "lazygrid │ " + a.state.Source.Label() + " │ " + a.state.TableName
	topBarRight := "view: " + a.state.View
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(a.formatStatusBar(topBarLeft, topBarRight))

	summaryBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Padding(0, 1).
		MaxHeight(1).
		Render(a.filterSummary())

	a.updateDimensions()
	main := a.tableView.View()
	if ctrl := a.visibleControl(); ctrl != nil {
		ctrl.Width = controlWidth
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", ctrl.View())
	}

	var bottomBar string
	if a.showSearch {
		a.searchInput.Width = a.state.Width - 4
		bottomBar = a.searchInput.View()
	} else {
		left := a.statusMsg
		if left == "" {
			a.hints.Width = a.state.Width - 4
			left = a.hints.ShortHelpView(a.keys.ShortHelp())
		}
		bottomBar = lipgloss.NewStyle().
			Width(a.state.Width).
			Background(a.theme.Selection).
			Foreground(a.theme.Foreground).
			Padding(0, 2).
			Render(a.formatStatusBar(left, ""))
	}

	// Combine all
	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		summaryBar,
		main,
		bottomBar,
	)
}

// visibleControl returns the control panel shown beside the grid, if any
func (a *App) visibleControl() *components.FilterSortCtrl {
	if ctrl := a.openControl(); ctrl != nil && a.state.ViewMode == models.FilterMode {
		return ctrl
	}
	if a.config.UI.AlwaysExpanded {
		return a.focusedControl()
	}
	return nil
}

// filterSummary lists every filtered column on one line
func (a *App) filterSummary() string {
	labels := components.TrioLabels{Include: a.config.UI.IncludeLabel, Exclude: a.config.UI.ExcludeLabel}

	var parts []string
	for _, ctrl := range a.controls {
		if desc := components.DescribeFilter(a.theme, ctrl.Spec(), ctrl.Snapshot(), labels); desc != "" {
			parts = append(parts, desc)
		}
	}
	if len(parts) == 0 {
		return lipgloss.NewStyle().Foreground(a.theme.Muted).Italic(true).Render("No filters")
	}
	return strings.Join(parts, "  ")
}

// updateDimensions sizes the grid to the window
func (a *App) updateDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// Top bar, summary bar and bottom bar take a line each
	height := a.state.Height - 3
	if a.showSearch {
		height -= 2
	}
	if height < 5 {
		height = 5
	}

	width := a.state.Width
	if a.visibleControl() != nil {
		width -= controlWidth + 3
	}
	if width < 20 {
		width = 20
	}

	a.tableView.Width = width
	a.tableView.Height = height
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	// If content is too wide, truncate
	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return lipgloss.NewStyle().MaxWidth(availableWidth-rightLen).Render(left) + right
		}
		return lipgloss.NewStyle().MaxWidth(availableWidth).Render(left)
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.log.Error(title, "message", message)
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
