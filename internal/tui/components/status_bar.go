package components

import (
	"v2browse/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusBar shows a spinner while requests are in flight, the latest info
// text, and the error line.
type StatusBar struct {
	text    string
	err     string
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &StatusBar{spinner: s}
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
}

func (s *StatusBar) Text() string {
	return s.text
}

// SetError sets the error line; empty clears it.
func (s *StatusBar) SetError(msg string) {
	s.err = msg
}

func (s *StatusBar) Error() string {
	return s.err
}

// Tick starts the spinner.
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View(t styles.Theme) string {
	var out string
	if s.loading {
		out = s.spinner.View() + " "
	}
	out += t.Help.Render(s.text)
	if s.err != "" {
		out += "  " + t.Error.Render(s.err)
	}
	return out
}
