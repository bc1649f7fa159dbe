package components

import (
	"fmt"
	"strings"

	"v2browse/internal/tui/styles"
	"v2browse/pkg/types"
)

// TreeRow is one visible row of the listing tree: a top-level entry, or an
// inline child of an expanded directory.
type TreeRow struct {
	Entry  types.Entry
	Parent *types.Entry // nil for top-level rows
	Level  int
}

// Name returns the selectable name of the row.
func (r TreeRow) Name() string { return r.Entry.Name }

// FileTree displays a listing with expandable inline children and
// selection checkboxes.
type FileTree struct {
	listing  types.Listing
	expanded map[string]bool

	VisibleRows []TreeRow
	Cursor      int
	Offset      int // For scrolling
	Height      int
	Width       int
}

// NewFileTree creates an empty tree.
func NewFileTree() *FileTree {
	return &FileTree{
		expanded: make(map[string]bool),
		Height:   20,
		Width:    40,
	}
}

// SetListing replaces the displayed listing. Expanded directories stay
// expanded when keep is true (a filter change), otherwise the tree resets
// (a navigation).
func (f *FileTree) SetListing(l types.Listing, keep bool) {
	f.listing = l
	if !keep {
		f.expanded = make(map[string]bool)
		f.Cursor = 0
		f.Offset = 0
	}
	f.UpdateVisibleRows()
}

// UpdateVisibleRows rebuilds the flattened rows from the listing.
func (f *FileTree) UpdateVisibleRows() {
	rows := make([]TreeRow, 0, len(f.listing))
	for i := range f.listing {
		e := f.listing[i]
		rows = append(rows, TreeRow{Entry: e})
		if e.IsDir() && f.expanded[e.Name] {
			parent := &f.listing[i]
			for _, c := range e.Contents {
				rows = append(rows, TreeRow{Entry: c, Parent: parent, Level: 1})
			}
		}
	}
	f.VisibleRows = rows
	if f.Cursor >= len(rows) {
		f.Cursor = max(0, len(rows)-1)
	}
	f.EnsureCursorVisible()
}

// Current returns the row under the cursor.
func (f *FileTree) Current() (TreeRow, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.VisibleRows) {
		return TreeRow{}, false
	}
	return f.VisibleRows[f.Cursor], true
}

// Toggle expands or collapses the directory under the cursor. On a child
// row it collapses the parent and moves the cursor onto it.
func (f *FileTree) Toggle() {
	row, ok := f.Current()
	if !ok {
		return
	}
	if row.Parent != nil {
		f.expanded[row.Parent.Name] = false
		f.UpdateVisibleRows()
		f.moveTo(row.Parent.Name)
		return
	}
	if !row.Entry.IsDir() {
		return
	}
	f.expanded[row.Entry.Name] = !f.expanded[row.Entry.Name]
	f.UpdateVisibleRows()
}

// IsExpanded reports whether the top-level directory name is expanded.
func (f *FileTree) IsExpanded(name string) bool {
	return f.expanded[name]
}

func (f *FileTree) moveTo(name string) {
	for i, r := range f.VisibleRows {
		if r.Parent == nil && r.Entry.Name == name {
			f.Cursor = i
			break
		}
	}
	f.EnsureCursorVisible()
}

// MoveUp moves the cursor one row up.
func (f *FileTree) MoveUp() {
	if f.Cursor > 0 {
		f.Cursor--
		f.EnsureCursorVisible()
	}
}

// MoveDown moves the cursor one row down.
func (f *FileTree) MoveDown() {
	if f.Cursor < len(f.VisibleRows)-1 {
		f.Cursor++
		f.EnsureCursorVisible()
	}
}

// MoveTop moves the cursor to the first row.
func (f *FileTree) MoveTop() {
	f.Cursor = 0
	f.EnsureCursorVisible()
}

// MoveBottom moves the cursor to the last row.
func (f *FileTree) MoveBottom() {
	f.Cursor = max(0, len(f.VisibleRows)-1)
	f.EnsureCursorVisible()
}

// EnsureCursorVisible makes sure the cursor is visible by adjusting the scroll offset
func (f *FileTree) EnsureCursorVisible() {
	if f.Height <= 0 {
		return
	}
	if f.Cursor < f.Offset {
		f.Offset = f.Cursor
	}
	if f.Cursor >= f.Offset+f.Height {
		f.Offset = f.Cursor - f.Height + 1
	}
	maxOffset := max(0, len(f.VisibleRows)-f.Height)
	if f.Offset > maxOffset {
		f.Offset = maxOffset
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// View renders the visible rows. selected holds the checked names.
func (f *FileTree) View(t styles.Theme, selected map[string]bool, focused bool) string {
	if len(f.VisibleRows) == 0 {
		return t.Muted.Render("(empty directory)")
	}

	var b strings.Builder
	end := min(len(f.VisibleRows), f.Offset+max(f.Height, 1))
	for i := f.Offset; i < end; i++ {
		row := f.VisibleRows[i]

		check := "[ ]"
		if selected[row.Name()] {
			check = "[x]"
		}

		marker := "  "
		if row.Entry.IsDir() && row.Parent == nil {
			if f.expanded[row.Entry.Name] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		name := row.Entry.Name
		if row.Entry.IsDir() {
			name += "/"
			if row.Parent == nil && len(row.Entry.Contents) > 0 {
				name += fmt.Sprintf(" (%d)", len(row.Entry.Contents))
			}
		}

		line := strings.Repeat("   ", row.Level) + marker + check + " " + name
		switch {
		case focused && i == f.Cursor:
			line = t.Cursor.Render(line)
		case selected[row.Name()]:
			line = t.Selected.Render(line)
		case row.Entry.IsDir():
			line = t.Directory.Render(line)
		default:
			line = t.File.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(f.VisibleRows) {
		b.WriteString("\n" + t.Muted.Render(fmt.Sprintf("(%d more items)", len(f.VisibleRows)-end)))
	}
	return b.String()
}
