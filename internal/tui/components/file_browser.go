package components

import (
	"fmt"
	"strings"

	"v2browse/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// FileBrowser previews the open file in a scrollable viewport. Text bodies
// are shown as is; binary bodies are summarized by type and size.
type FileBrowser struct {
	viewport viewport.Model
	title    string
	summary  string
	loading  bool
}

// NewFileBrowser creates an empty preview.
func NewFileBrowser() *FileBrowser {
	return &FileBrowser{viewport: viewport.New(40, 10)}
}

// SetSize resizes the viewport.
func (fb *FileBrowser) SetSize(width, height int) {
	fb.viewport.Width = max(width, 1)
	fb.viewport.Height = max(height, 1)
}

// SetFile shows a file body. An empty name clears the preview.
func (fb *FileBrowser) SetFile(name, contentType string, body []byte, binary, loading bool) {
	fb.loading = loading
	fb.title = name
	switch {
	case name == "":
		fb.summary = ""
		fb.viewport.SetContent("")
	case loading:
		fb.summary = ""
		fb.viewport.SetContent("")
	case binary:
		fb.summary = fmt.Sprintf("%s · %s", contentType, humanize.Bytes(uint64(len(body))))
		fb.viewport.SetContent("Binary file (" + fb.summary + ")")
	default:
		fb.summary = fmt.Sprintf("%s · %s", contentType, humanize.Bytes(uint64(len(body))))
		fb.viewport.SetContent(strings.ReplaceAll(string(body), "\t", "    "))
	}
	fb.viewport.GotoTop()
}

// Title returns the previewed file name.
func (fb *FileBrowser) Title() string {
	return fb.title
}

// Loading reports whether the previewed file is still being fetched.
func (fb *FileBrowser) Loading() bool {
	return fb.loading
}

// Summary returns "type · size" for the loaded file.
func (fb *FileBrowser) Summary() string {
	return fb.summary
}

// Update scrolls the viewport.
func (fb *FileBrowser) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	fb.viewport, cmd = fb.viewport.Update(msg)
	return cmd
}

// View renders the preview.
func (fb *FileBrowser) View(t styles.Theme) string {
	switch {
	case fb.title == "":
		return t.Muted.Render("(no file open)")
	case fb.loading:
		return t.Muted.Render("Loading " + fb.title + "…")
	}
	return fb.viewport.View()
}
