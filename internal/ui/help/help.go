package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazygrid/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

func fromBindings(bindings ...key.Binding) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyBinding{Key: h.Key, Description: h.Desc})
	}
	return out
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys(k KeyMap) []KeyBinding {
	return append(fromBindings(k.Help, k.Quit, k.Refresh), KeyBinding{"Esc/Enter", "Dismiss error"})
}

// GetNavigationKeys returns grid navigation key bindings
func GetNavigationKeys(k KeyMap) []KeyBinding {
	return fromBindings(k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.NextPage, k.PrevPage)
}

// GetDataViewKeys returns filter, sort and data key bindings
func GetDataViewKeys(k KeyMap) []KeyBinding {
	return fromBindings(k.OpenFilter, k.SortUp, k.SortDown, k.ClearAll, k.Search,
		k.CopyCell, k.CopyFilter, k.Presets, k.SavePreset, k.Export)
}

// GetFilterControlKeys returns the key bindings of an open column control
func GetFilterControlKeys() []KeyBinding {
	return []KeyBinding{
		{"Tab/↓", "Next field"},
		{"Shift+Tab/↑", "Previous field"},
		{"←/→", "Ignore, include or exclude"},
		{"Space", "Toggle value or range filter"},
		{"Enter", "Press sort button"},
		{"u / d", "Sort descending / ascending"},
		{"Esc", "Close control"},
	}
}

// GetTextFilterSyntax describes the text filter mini language
func GetTextFilterSyntax() []KeyBinding {
	return []KeyBinding{
		{"a;b", "Match either fragment"},
		{"^abc", "Match from the start"},
		{"abc$", "Match the end"},
		{"!abc", "Exclude matches"},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme, keys KeyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("lazygrid - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys(keys)},
		{"Navigation", GetNavigationKeys(keys)},
		{"Filter and Sort", GetDataViewKeys(keys)},
		{"Column Control", GetFilterControlKeys()},
		{"Text Filters", GetTextFilterSyntax()},
	}

	for _, s := range sections {
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kb := range s.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
