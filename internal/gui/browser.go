//go:build !nogui

package gui

import (
	"fmt"
	"strings"

	"v2browse/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func (a *App) createNavBar() fyne.CanvasObject {
	up := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		a.dispatch(a.session.Up())
	})
	reload := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		a.dispatch(a.session.Reload())
	})

	a.pathEntry = widget.NewEntry()
	a.pathEntry.SetPlaceHolder("path")
	a.pathEntry.OnSubmitted = func(p string) {
		a.dispatch(a.session.Navigate(p))
	}

	a.filterIn = widget.NewEntry()
	a.filterIn.SetPlaceHolder("Filter, e.g. *.pdf")
	a.filterIn.OnChanged = a.setFilter

	filterBox := container.NewGridWrap(fyne.NewSize(200, a.filterIn.MinSize().Height), a.filterIn)
	return container.NewBorder(nil, nil, container.NewHBox(up, reload), filterBox, a.pathEntry)
}

func (a *App) createCrumbBar() fyne.CanvasObject {
	a.crumbs = container.NewHBox()
	return a.crumbs
}

func (a *App) createListingPane() fyne.CanvasObject {
	a.tree = widget.NewTree(a.childUIDs, a.isBranch,
		func(bool) fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewIcon(nil), widget.NewLabel(""))
		},
		a.updateNode,
	)
	a.tree.OnSelected = func(uid widget.TreeNodeID) {
		a.tree.Unselect(uid)
		a.openNode(uid)
	}

	selectAll := widget.NewButton("Select all", func() { a.check(a.session.SelectAll()) })
	clearSel := widget.NewButton("Clear", func() { a.check(a.session.ClearSelection()) })
	return container.NewBorder(nil, container.NewHBox(selectAll, clearSel), nil, nil, a.tree)
}

func (a *App) createContainerPane() fyne.CanvasObject {
	a.containerL = widget.NewList(
		func() int { return len(a.session.Container()) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewLabel(""))
		},
		a.updateContainerRow,
	)
	a.containerL.OnSelected = func(id widget.ListItemID) {
		a.containerL.Unselect(id)
		items := a.session.Container()
		if id >= 0 && id < len(items) {
			a.dispatch(a.session.OpenContainerEntry(items[id]))
		}
	}

	a.modeLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	del := widget.NewButtonWithIcon("Delete selected", theme.DeleteIcon(), func() {
		a.check(a.session.DeleteSelected())
	})
	clearAll := widget.NewButton("Empty", func() { a.check(a.session.ClearContainer()) })
	export := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), a.exportContainer)
	return container.NewBorder(a.modeLabel, container.NewHBox(del, clearAll, export), nil, nil, a.containerL)
}

func (a *App) createPreviewPane() fyne.CanvasObject {
	a.previewTtl = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.preview = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	return container.NewBorder(a.previewTtl, nil, nil, nil, container.NewScroll(a.preview))
}

// Tree node IDs are the entry name for top-level rows and parent/child for
// inline children.

func (a *App) childUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	if uid == "" {
		ids := make([]widget.TreeNodeID, len(a.listing))
		for i, e := range a.listing {
			ids[i] = e.Name
		}
		return ids
	}
	e, ok := a.listing.Find(uid)
	if !ok {
		return nil
	}
	ids := make([]widget.TreeNodeID, len(e.Contents))
	for i, c := range e.Contents {
		ids[i] = uid + "/" + c.Name
	}
	return ids
}

func (a *App) isBranch(uid widget.TreeNodeID) bool {
	if uid == "" {
		return true
	}
	parent, child := splitNode(uid)
	if child != "" {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.listing.Find(parent)
	return ok && e.IsDir() && len(e.Contents) > 0
}

// node resolves a tree ID to its entry and, for children, the parent.
func (a *App) node(uid widget.TreeNodeID) (types.Entry, *types.Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name, child := splitNode(uid)
	e, ok := a.listing.Find(name)
	if !ok {
		return types.Entry{}, nil, false
	}
	if child == "" {
		return e, nil, true
	}
	for _, c := range e.Contents {
		if c.Name == child {
			return c, &e, true
		}
	}
	return types.Entry{}, nil, false
}

func (a *App) updateNode(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	e, parent, ok := a.node(uid)
	if !ok {
		return
	}
	row := obj.(*fyne.Container)
	check := row.Objects[0].(*widget.Check)
	icon := row.Objects[1].(*widget.Icon)
	label := row.Objects[2].(*widget.Label)

	check.OnChanged = nil
	check.SetChecked(a.session.State().Selected[e.Name])
	name := e.Name
	check.OnChanged = func(bool) { a.check(a.session.ToggleSelection(name)) }

	if e.IsDir() {
		icon.SetResource(theme.FolderIcon())
	} else {
		icon.SetResource(theme.FileIcon())
	}
	label.SetText(entryLabel(e, parent == nil))
}

func (a *App) openNode(uid widget.TreeNodeID) {
	e, parent, ok := a.node(uid)
	if !ok {
		return
	}
	if parent != nil {
		a.dispatch(a.session.OpenChild(*parent, e))
		return
	}
	a.dispatch(a.session.OpenEntry(e))
}

func (a *App) updateContainerRow(id widget.ListItemID, obj fyne.CanvasObject) {
	items := a.session.Container()
	if id < 0 || id >= len(items) {
		return
	}
	e := items[id]
	row := obj.(*fyne.Container)
	check := row.Objects[0].(*widget.Check)
	label := row.Objects[1].(*widget.Label)

	key := e.Key()
	check.OnChanged = nil
	check.SetChecked(a.session.State().ContainerSelected[key])
	check.OnChanged = func(bool) {
		a.session.ToggleContainerSelection(key)
		a.refresh()
	}
	label.SetText(containerLabel(e))
}

func (a *App) exportContainer() {
	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			a.ShowError("Export failed", err)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := writeExport(w, w.URI().Name(), a.session.Container()); err != nil {
			a.ShowError("Export failed", err)
			return
		}
		a.ShowInfo("Container exported to " + w.URI().Name())
	}, a.mainWindow)
	save.SetFileName("container.json")
	save.Show()
}

func (a *App) setFilter(text string) {
	p, err := types.CompilePattern(text)
	if err != nil {
		// keep the last good pattern while the user is typing
		return
	}
	a.mu.Lock()
	a.filter = p
	a.mu.Unlock()
	a.refresh()
}

func (a *App) navigateCrumb(p string) func() {
	return func() { a.dispatch(a.session.Navigate(p)) }
}

// refresh copies the session state into the widgets.
func (a *App) refresh() {
	st := a.session.State()

	a.mu.Lock()
	a.listing = a.filter.Filter(st.Listing)
	reset := !st.LoadingDir && a.shown != st.DirSeq
	if reset {
		a.shown = st.DirSeq
	}
	a.mu.Unlock()

	if a.tree == nil {
		return
	}
	if reset {
		a.tree.CloseAllBranches()
		a.tree.ScrollToTop()
		a.pathEntry.SetText(st.Path)
		a.crumbs.Objects = nil
		for i, c := range types.Breadcrumbs(st.Path) {
			if i > 0 {
				a.crumbs.Add(widget.NewLabel("›"))
			}
			b := widget.NewButton(c.Label, a.navigateCrumb(c.Path))
			b.Importance = widget.LowImportance
			a.crumbs.Add(b)
		}
		a.crumbs.Refresh()
	}
	a.tree.Refresh()
	a.containerL.Refresh()

	items := a.session.Container()
	a.modeLabel.SetText(fmt.Sprintf("Container (%d) · %s", len(items), a.session.Mode()))

	title, body := previewText(st)
	a.previewTtl.SetText(title)
	a.preview.SetText(body)

	status := statusText(st, len(items))
	if st.Loading() {
		status = "Loading… " + status
	}
	a.status.SetText(status)
	var errs []string
	for _, e := range []string{st.Err, st.StorageErr} {
		if e != "" {
			errs = append(errs, e)
		}
	}
	a.errLabel.SetText(strings.Join(errs, " · "))
}
