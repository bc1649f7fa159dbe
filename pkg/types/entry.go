package types

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// EntryType is the kind of a filesystem node reported by the directory service.
type EntryType string

const (
	// File is a leaf node. Files never carry contents.
	File EntryType = "file"
	// Directory is a node that may carry its children inline.
	Directory EntryType = "directory"
)

// Entry represents one filesystem node as returned by the directory service.
type Entry struct {
	Name     string    `json:"name" yaml:"name"`
	Type     EntryType `json:"type" yaml:"type"`
	Contents []Entry   `json:"contents,omitempty" yaml:"contents,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == Directory
}

// Children returns the inline contents of a directory, or an empty slice.
func (e Entry) Children() []Entry {
	if e.Contents == nil {
		return []Entry{}
	}
	return e.Contents
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := Entry{Name: e.Name, Type: e.Type}
	if e.Contents != nil {
		out.Contents = make([]Entry, len(e.Contents))
		for i, c := range e.Contents {
			out.Contents[i] = c.Clone()
		}
	}
	return out
}

// String returns a short human-readable representation
func (e Entry) String() string {
	if e.IsDir() {
		return fmt.Sprintf("%s/ (%d items)", e.Name, len(e.Contents))
	}
	return e.Name
}

// ToJSON converts the entry to a JSON string
func (e Entry) ToJSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Listing is the ordered set of entries for one path.
type Listing []Entry

// Names returns the set of names a user can select in this listing: every
// top-level entry plus the children carried inline by directories.
func (l Listing) Names() map[string]bool {
	names := make(map[string]bool)
	for _, e := range l {
		names[e.Name] = true
		for _, c := range e.Contents {
			names[c.Name] = true
		}
	}
	return names
}

// Find returns the top-level entry with the given name.
func (l Listing) Find(name string) (Entry, bool) {
	for _, e := range l {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// CleanPath normalizes a service path: slash separated, no leading or
// trailing slash, "" means root.
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "." || p == "/" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// JoinPath joins a directory path and a child name.
func JoinPath(dir, name string) string {
	dir = CleanPath(dir)
	if dir == "" {
		return CleanPath(name)
	}
	return CleanPath(dir + "/" + name)
}

// ParentPath returns the parent of p ("" for top-level paths and root).
func ParentPath(p string) string {
	p = CleanPath(p)
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Crumb is one element of a breadcrumb trail.
type Crumb struct {
	Label string
	Path  string
}

// Breadcrumbs returns the trail from root to p. The first crumb is always root.
func Breadcrumbs(p string) []Crumb {
	crumbs := []Crumb{{Label: "Root", Path: ""}}
	p = CleanPath(p)
	if p == "" {
		return crumbs
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		crumbs = append(crumbs, Crumb{Label: part, Path: strings.Join(parts[:i+1], "/")})
	}
	return crumbs
}
