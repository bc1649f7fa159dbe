package container

import (
	"v2browse/internal/config"
	"v2browse/pkg/types"
)

// Reconciler turns the rows checked in the listing of dir into the next
// container.
type Reconciler interface {
	Reconcile(current Container, dir string, listing types.Listing, selected map[string]bool) Container
	Name() string
}

// NewReconciler returns the reconciler for a selection mode.
func NewReconciler(mode string) Reconciler {
	if mode == config.ModeLegacy {
		return LegacyReconciler{}
	}
	return AccumulatingReconciler{}
}

// LegacyReconciler rebuilds the container from the current listing alone.
// Entries selected in other directories are dropped, and a directory whose
// own name is checked is appended a second time after the first pass. A
// directory listed with an empty contents array counts as fully selected;
// one listed without contents never does.
type LegacyReconciler struct{}

func (LegacyReconciler) Name() string { return config.ModeLegacy }

func (LegacyReconciler) Reconcile(_ Container, dir string, listing types.Listing, selected map[string]bool) Container {
	next := Container{}

	for _, e := range listing {
		if e.IsDir() {
			children := e.Children()
			if e.Contents != nil && allSelected(children, selected) {
				next = append(next, NewEntry(dir, types.Entry{Name: e.Name, Type: types.Directory, Contents: children}))
				continue
			}
			if picked := selectedChildren(children, selected); len(picked) > 0 {
				next = append(next, NewEntry(dir, types.Entry{Name: e.Name, Type: types.Directory, Contents: picked}))
			}
			continue
		}
		if selected[e.Name] {
			next = append(next, NewEntry(dir, types.Entry{Name: e.Name, Type: types.File}))
		}
	}

	for _, e := range listing {
		if e.IsDir() && selected[e.Name] {
			next = append(next, NewEntry(dir, types.Entry{Name: e.Name, Type: types.Directory, Contents: e.Children()}))
		}
	}

	return next
}

// AccumulatingReconciler keeps selections from every directory, keyed by
// full path. Only the entries selected in dir are rebuilt and each
// directory appears at most once.
type AccumulatingReconciler struct{}

func (AccumulatingReconciler) Name() string { return config.ModeAccumulate }

func (AccumulatingReconciler) Reconcile(current Container, dir string, listing types.Listing, selected map[string]bool) Container {
	dir = types.CleanPath(dir)

	fresh := make(map[string]Entry)
	var order []string
	add := func(e Entry) {
		k := e.Key()
		if _, dup := fresh[k]; !dup {
			order = append(order, k)
		}
		fresh[k] = e
	}

	for _, e := range listing {
		if !e.IsDir() {
			if selected[e.Name] {
				add(NewEntry(dir, types.Entry{Name: e.Name, Type: types.File}))
			}
			continue
		}
		children := e.Children()
		switch {
		case selected[e.Name], len(children) > 0 && allSelected(children, selected):
			add(NewEntry(dir, types.Entry{Name: e.Name, Type: types.Directory, Contents: children}))
		default:
			if picked := selectedChildren(children, selected); len(picked) > 0 {
				add(NewEntry(dir, types.Entry{Name: e.Name, Type: types.Directory, Contents: picked}))
			}
		}
	}

	next := Container{}
	placed := make(map[string]bool)
	for _, e := range current {
		if e.Path != dir {
			next = append(next, e)
			continue
		}
		k := e.Key()
		if repl, ok := fresh[k]; ok && !placed[k] {
			next = append(next, repl)
			placed[k] = true
		}
	}
	for _, k := range order {
		if !placed[k] {
			next = append(next, fresh[k])
		}
	}
	return next
}

func allSelected(children []types.Entry, selected map[string]bool) bool {
	for _, c := range children {
		if !selected[c.Name] {
			return false
		}
	}
	return true
}

func selectedChildren(children []types.Entry, selected map[string]bool) []types.Entry {
	var picked []types.Entry
	for _, c := range children {
		if selected[c.Name] {
			picked = append(picked, c)
		}
	}
	return picked
}
