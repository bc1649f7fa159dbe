// Package cli holds the styled output helpers shared by the v2browse
// commands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"v2browse/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// ColorTheme represents a set of styles for the CLI
type ColorTheme struct {
	Name    string
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
	Box     lipgloss.Style
	Muted   lipgloss.Style
}

// CurrentTheme is the active theme, starts with default
var CurrentTheme = newTheme("default")

func newTheme(name string) ColorTheme {
	p := config.GetTheme(name)
	color := func(role string) lipgloss.Color { return lipgloss.Color(p[role]) }
	return ColorTheme{
		Name:    name,
		Success: lipgloss.NewStyle().Foreground(color("success")),
		Error:   lipgloss.NewStyle().Foreground(color("error")),
		Warning: lipgloss.NewStyle().Foreground(color("warning")),
		Info:    lipgloss.NewStyle().Foreground(color("info")),
		Header:  lipgloss.NewStyle().Foreground(color("primary")).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("border")).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().Faint(true),
	}
}

// SetTheme sets the current theme by name
func SetTheme(themeName string) {
	CurrentTheme = newTheme(themeName)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Success.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Error.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Warning.Render("! "+message))
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Info.Render("ℹ "+message))
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Header.Render(message))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(message)))
}

// DrawBox draws a rounded box around content.
func DrawBox(content string) string {
	return CurrentTheme.Box.Render(content)
}

// Muted renders secondary text.
func Muted(s string) string {
	return CurrentTheme.Muted.Render(s)
}

// Logo is shown above the root command help.
func Logo() string {
	return CurrentTheme.Header.Render(`
       ___  __
 _  __|_  |/ /  _______ _    _____ ___
| |/ / __// _ \/ __/ _ \ |/|/ (_-</ -_)
|___/____/_.__/_/  \___/__,__/___/\__/
`)
}
