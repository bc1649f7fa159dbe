package components

import (
	"v2browse/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompt is the one-line input used for the glob filter and go-to-path.
type Prompt struct {
	input textinput.Model
	label string
}

func NewPrompt() *Prompt {
	in := textinput.New()
	in.CharLimit = 512
	in.Width = 40
	return &Prompt{input: in}
}

// Open focuses the prompt with a label and an initial value.
func (p *Prompt) Open(label, placeholder, value string) tea.Cmd {
	p.label = label
	p.input.Placeholder = placeholder
	p.input.SetValue(value)
	p.input.CursorEnd()
	return p.input.Focus()
}

// Close blurs the prompt and returns its value.
func (p *Prompt) Close() string {
	v := p.input.Value()
	p.input.Blur()
	p.input.SetValue("")
	return v
}

func (p *Prompt) Value() string {
	return p.input.Value()
}

func (p *Prompt) Focused() bool {
	return p.input.Focused()
}

func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *Prompt) View(t styles.Theme) string {
	return t.Title.Render(p.label) + " " + p.input.View()
}
