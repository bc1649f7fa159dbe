package views

import (
	"fmt"
	"strings"

	"v2browse/internal/tui/common"
	"v2browse/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

// Dimensions are the inner sizes of the three panes for a terminal size.
type Dimensions struct {
	TreeWidth       int
	RightWidth      int
	BodyHeight      int
	ContainerHeight int
	PreviewHeight   int
}

// Chrome lines outside the panes: header, prompt/status line and help.
const chromeLines = 4

// Layout splits a terminal of width x height between the panes. Each pane
// loses two columns and two rows to its border.
func Layout(width, height int) Dimensions {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	body := max(height-chromeLines, 6)
	treeOuter := width * 45 / 100
	rightOuter := width - treeOuter - 2

	containerOuter := body * 2 / 5
	previewOuter := body - containerOuter

	return Dimensions{
		TreeWidth:       max(treeOuter-4, 10),
		RightWidth:      max(rightOuter-4, 10),
		BodyHeight:      max(body-2, 1),
		ContainerHeight: max(containerOuter-3, 1),
		PreviewHeight:   max(previewOuter-3, 1),
	}
}

// RenderMainView renders the whole screen.
func RenderMainView(m common.ModelReader) string {
	t := m.Theme()
	w, h := m.Size()
	d := Layout(w, h)

	var sb strings.Builder
	sb.WriteString(RenderHeader(m))
	sb.WriteString("\n")

	treeStyle, containerStyle, previewStyle := t.Pane, t.Pane, t.Pane
	switch m.Pane() {
	case types.ListingPane:
		treeStyle = t.Focused
	case types.ContainerPane:
		containerStyle = t.Focused
	case types.PreviewPane:
		previewStyle = t.Focused
	}

	tree := treeStyle.
		Width(d.TreeWidth + 2).
		Height(d.BodyHeight).
		Render(m.Tree().View(t, m.Selected(), m.Pane() == types.ListingPane))

	containerTitle := fmt.Sprintf("Container (%d) · %s", len(m.ContainerList().Items()), m.SelectionMode())
	containerBox := containerStyle.
		Width(d.RightWidth + 2).
		Height(d.ContainerHeight + 1).
		Render(t.Title.Render(containerTitle) + "\n" +
			m.ContainerList().View(t, m.ContainerChecked(), m.Pane() == types.ContainerPane))

	previewTitle := "Preview"
	if title := m.Preview().Title(); title != "" {
		previewTitle = title
		if s := m.Preview().Summary(); s != "" {
			previewTitle += "  " + t.Muted.Render(s)
		}
	}
	previewBox := previewStyle.
		Width(d.RightWidth + 2).
		Height(d.PreviewHeight + 1).
		Render(t.Title.Render(previewTitle) + "\n" + m.Preview().View(t))

	right := lipgloss.JoinVertical(lipgloss.Left, containerBox, previewBox)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tree, right))
	sb.WriteString("\n")

	if m.Mode() != types.Normal {
		sb.WriteString(m.Prompt().View(t))
	} else {
		sb.WriteString(m.Status().View(t))
	}
	sb.WriteString("\n")
	sb.WriteString(m.HelpView())

	return t.App.Render(sb.String())
}

// RenderHeader renders the title and the breadcrumb trail.
func RenderHeader(m common.ModelReader) string {
	t := m.Theme()
	crumbs := m.Breadcrumbs()
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		parts[i] = t.Crumb.Render(c.Label)
	}
	header := t.Title.Render("v2browse") + "  " + strings.Join(parts, t.CrumbSep.Render(" › "))
	if f := m.Filter(); f != "" {
		header += "  " + t.Muted.Render("filter: "+f)
	}
	return header
}
