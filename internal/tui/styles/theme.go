package styles

import (
	"v2browse/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the core UI styles
type Theme struct {
	Name string

	App        lipgloss.Style
	Title      lipgloss.Style
	Crumb      lipgloss.Style
	CrumbSep   lipgloss.Style
	Pane       lipgloss.Style
	Focused    lipgloss.Style
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Directory  lipgloss.Style
	File       lipgloss.Style
	Muted      lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
}

// ForName builds the theme for a palette name known to config.
// Unknown names fall back to the default palette.
func ForName(name string) Theme {
	if name == "" {
		name = "default"
	}
	t := New(config.GetTheme(name))
	t.Name = name
	return t
}
