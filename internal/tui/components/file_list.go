package components

import (
	"fmt"
	"strings"

	"v2browse/internal/container"
	"v2browse/internal/tui/styles"
)

// FileList displays the container, one row per entry, keyed by full path.
type FileList struct {
	items  container.Container
	cursor int
	offset int
	height int
	width  int
}

// NewFileList creates an empty container list.
func NewFileList() *FileList {
	return &FileList{height: 10, width: 40}
}

// SetSize sets the number of visible rows and the width.
func (fl *FileList) SetSize(width, height int) {
	fl.width = width
	fl.height = height
	fl.clamp()
}

// SetItems replaces the displayed container.
func (fl *FileList) SetItems(c container.Container) {
	fl.items = c
	fl.clamp()
}

// Items returns the displayed container.
func (fl *FileList) Items() container.Container {
	return fl.items
}

// Cursor returns the cursor position.
func (fl *FileList) Cursor() int {
	return fl.cursor
}

// Current returns the entry under the cursor.
func (fl *FileList) Current() (container.Entry, bool) {
	if fl.cursor < 0 || fl.cursor >= len(fl.items) {
		return container.Entry{}, false
	}
	return fl.items[fl.cursor], true
}

// MoveCursor moves the cursor by delta rows.
func (fl *FileList) MoveCursor(delta int) {
	fl.cursor += delta
	fl.clamp()
}

func (fl *FileList) clamp() {
	if fl.cursor >= len(fl.items) {
		fl.cursor = len(fl.items) - 1
	}
	if fl.cursor < 0 {
		fl.cursor = 0
	}
	if fl.height > 0 {
		if fl.cursor < fl.offset {
			fl.offset = fl.cursor
		}
		if fl.cursor >= fl.offset+fl.height {
			fl.offset = fl.cursor - fl.height + 1
		}
	}
	if fl.offset > max(0, len(fl.items)-fl.height) {
		fl.offset = max(0, len(fl.items)-fl.height)
	}
}

// View renders the container rows. checked holds the checked row keys.
func (fl *FileList) View(t styles.Theme, checked map[string]bool, focused bool) string {
	if len(fl.items) == 0 {
		return t.Muted.Render("(container is empty)")
	}

	var b strings.Builder
	end := min(len(fl.items), fl.offset+max(fl.height, 1))
	for i := fl.offset; i < end; i++ {
		e := fl.items[i]
		key := e.Key()

		check := "[ ]"
		if checked[key] {
			check = "[x]"
		}
		label := key
		if e.IsDir() {
			label += fmt.Sprintf("/ (%d)", len(e.Contents))
		}
		line := check + " " + label
		if r := []rune(line); fl.width > 1 && len(r) > fl.width {
			line = string(r[:fl.width-1]) + "…"
		}

		switch {
		case focused && i == fl.cursor:
			line = t.Cursor.Render(line)
		case checked[key]:
			line = t.Selected.Render(line)
		case e.IsDir():
			line = t.Directory.Render(line)
		default:
			line = t.File.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(fl.items) {
		b.WriteString("\n" + t.Muted.Render(fmt.Sprintf("(%d more)", len(fl.items)-end)))
	}
	return b.String()
}
