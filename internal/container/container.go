// Package container holds the user's selection: the entries picked from the
// listings they visited, the reconcilers that turn a set of checked rows into
// container entries, and the persistence of the container blob.
package container

import (
	"v2browse/pkg/types"
)

// Entry is a selected file or directory together with the directory it was
// selected in. Blobs written before paths were tracked load with Path "".
type Entry struct {
	types.Entry `yaml:",inline"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

// NewEntry returns a container entry for e selected in dir.
func NewEntry(dir string, e types.Entry) Entry {
	return Entry{Entry: e.Clone(), Path: types.CleanPath(dir)}
}

// Key identifies the entry's row: path/name, or just name at root.
func (e Entry) Key() string {
	return types.JoinPath(e.Path, e.Name)
}

// FullPath is the entry's location on the service.
func (e Entry) FullPath() string {
	return e.Key()
}

// Container is the ordered selection.
type Container []Entry

// Keys returns the row keys in order. Duplicates are kept.
func (c Container) Keys() []string {
	keys := make([]string, len(c))
	for i, e := range c {
		keys[i] = e.Key()
	}
	return keys
}

// Find returns the first entry with the given row key.
func (c Container) Find(key string) (Entry, bool) {
	for _, e := range c {
		if e.Key() == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Clone returns a deep copy.
func (c Container) Clone() Container {
	if c == nil {
		return Container{}
	}
	out := make(Container, len(c))
	for i, e := range c {
		out[i] = Entry{Entry: e.Entry.Clone(), Path: e.Path}
	}
	return out
}

// Equal reports whether both containers hold the same entries in order.
func (c Container) Equal(other Container) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if !entryEqual(c[i], other[i]) {
			return false
		}
	}
	return true
}

func entryEqual(a, b Entry) bool {
	return a.Path == b.Path && typesEqual(a.Entry, b.Entry)
}

func typesEqual(a, b types.Entry) bool {
	if a.Name != b.Name || a.Type != b.Type || len(a.Contents) != len(b.Contents) {
		return false
	}
	for i := range a.Contents {
		if !typesEqual(a.Contents[i], b.Contents[i]) {
			return false
		}
	}
	return true
}

// Delete removes every entry whose row key is in keys. Nested children of a
// kept entry are never touched.
func Delete(c Container, keys map[string]bool) Container {
	out := Container{}
	for _, e := range c {
		if keys[e.Key()] {
			continue
		}
		out = append(out, e)
	}
	return out
}
