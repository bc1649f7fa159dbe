package styles

import "github.com/charmbracelet/lipgloss"

// New builds a Theme from a palette of ANSI color codes keyed by role
// (primary, success, warning, error, info, emphasis, border, text).
func New(palette map[string]string) Theme {
	c := func(role string) lipgloss.Color { return lipgloss.Color(palette[role]) }

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(c("primary")),
		Crumb: lipgloss.NewStyle().
			Foreground(c("info")),
		CrumbSep: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Pane: pane,
		Focused: pane.
			BorderForeground(c("border")),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(c("primary")),
		Selected: lipgloss.NewStyle().
			Foreground(c("success")).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(c("text")),
		Directory: lipgloss.NewStyle().
			Foreground(c("info")).
			Bold(true),
		File: lipgloss.NewStyle().
			Foreground(c("text")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(c("emphasis")),
		Error: lipgloss.NewStyle().
			Foreground(c("error")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(c("success")),
	}
}
