// Package session is the directory browsing state machine. All state lives in
// one State value and every change goes through Reduce, one case per event.
// Network results arrive as events tagged with the sequence number of the
// request that produced them; results older than the latest request of the
// same kind are discarded.
package session

import (
	"v2browse/internal/errors"
	"v2browse/pkg/types"
)

// State is the complete browsing state shown by a front end.
type State struct {
	// Path is the directory whose listing is shown ("" is root).
	Path    string
	Listing types.Listing
	// Selected holds the checked row names of Listing.
	Selected map[string]bool

	// File is the open file's name and FileDir the directory it lives in.
	File        string
	FileDir     string
	Content     []byte
	ContentType string
	Binary      bool

	// ContainerSelected holds the checked container row keys.
	ContainerSelected map[string]bool

	// Err is the user-visible failure message, empty when there is none.
	Err string
	// StorageErr reports the last failed container write.
	StorageErr string

	LoadingDir  bool
	LoadingFile bool

	// Latest issued sequence numbers per request kind.
	DirSeq  uint64
	FileSeq uint64
}

// Event is something that happened to the session.
type Event interface {
	event()
}

// NavigateIssued records a new directory request.
type NavigateIssued struct {
	Seq  uint64
	Path string
}

// ListingLoaded delivers a listing.
type ListingLoaded struct {
	Seq   uint64
	Path  string
	Items types.Listing
}

// ListingFailed reports a failed directory request.
type ListingFailed struct {
	Seq  uint64
	Path string
	Err  error
}

// FileIssued records a new file request.
type FileIssued struct {
	Seq  uint64
	Dir  string
	Name string
}

// FileLoaded delivers a file body.
type FileLoaded struct {
	Seq         uint64
	Dir         string
	Name        string
	Content     []byte
	ContentType string
	Binary      bool
}

// FileFailed reports a failed file request.
type FileFailed struct {
	Seq  uint64
	Dir  string
	Name string
	Err  error
}

// SelectionChanged replaces the checked rows.
type SelectionChanged struct {
	Keys map[string]bool
}

// ContainerSelectionChanged replaces the checked container rows.
type ContainerSelectionChanged struct {
	Keys map[string]bool
}

// ContainerChanged follows any change to the container; checked container
// rows that no longer exist are dropped.
type ContainerChanged struct {
	Keys []string
}

// StorageFailed reports a failed container write.
type StorageFailed struct {
	Err error
}

// ErrorDismissed clears the visible messages.
type ErrorDismissed struct{}

func (NavigateIssued) event()            {}
func (ListingLoaded) event()             {}
func (ListingFailed) event()             {}
func (FileIssued) event()                {}
func (FileLoaded) event()                {}
func (FileFailed) event()                {}
func (SelectionChanged) event()          {}
func (ContainerSelectionChanged) event() {}
func (ContainerChanged) event()          {}
func (StorageFailed) event()             {}
func (ErrorDismissed) event()            {}

// Stale reports whether ev answers a request that has been superseded.
func Stale(s State, ev Event) bool {
	switch e := ev.(type) {
	case ListingLoaded:
		return e.Seq != s.DirSeq
	case ListingFailed:
		return e.Seq != s.DirSeq
	case FileLoaded:
		return e.Seq != s.FileSeq
	case FileFailed:
		return e.Seq != s.FileSeq
	}
	return false
}

// Reduce returns the state after ev. Stale results leave s unchanged.
func Reduce(s State, ev Event) State {
	if Stale(s, ev) {
		return s
	}

	switch e := ev.(type) {
	case NavigateIssued:
		s.DirSeq = e.Seq
		s.LoadingDir = true

	case ListingLoaded:
		s.Path = types.CleanPath(e.Path)
		s.Listing = e.Items
		if s.Listing == nil {
			s.Listing = types.Listing{}
		}
		s.Selected = map[string]bool{}
		s.File, s.FileDir = "", ""
		s.Content, s.ContentType, s.Binary = nil, "", false
		s.LoadingFile = false
		// file requests issued before this navigation are void
		if s.FileSeq < e.Seq {
			s.FileSeq = e.Seq
		}
		s.Err = ""
		s.LoadingDir = false

	case ListingFailed:
		s.Err = errors.MsgDirectoryLoad
		s.LoadingDir = false

	case FileIssued:
		s.FileSeq = e.Seq
		s.File, s.FileDir = e.Name, types.CleanPath(e.Dir)
		s.Content, s.ContentType, s.Binary = nil, "", false
		s.LoadingFile = true

	case FileLoaded:
		s.File, s.FileDir = e.Name, types.CleanPath(e.Dir)
		s.Content = e.Content
		s.ContentType = e.ContentType
		s.Binary = e.Binary
		s.Err = ""
		s.LoadingFile = false

	case FileFailed:
		s.Err = errors.MsgFileLoad
		s.LoadingFile = false

	case SelectionChanged:
		names := s.Listing.Names()
		sel := make(map[string]bool, len(e.Keys))
		for k, on := range e.Keys {
			if on && names[k] {
				sel[k] = true
			}
		}
		s.Selected = sel

	case ContainerSelectionChanged:
		sel := make(map[string]bool, len(e.Keys))
		for k, on := range e.Keys {
			if on {
				sel[k] = true
			}
		}
		s.ContainerSelected = sel

	case ContainerChanged:
		present := make(map[string]bool, len(e.Keys))
		for _, k := range e.Keys {
			present[k] = true
		}
		sel := make(map[string]bool)
		for k := range s.ContainerSelected {
			if present[k] {
				sel[k] = true
			}
		}
		s.ContainerSelected = sel

	case StorageFailed:
		if e.Err != nil {
			s.StorageErr = errors.UserMessage(e.Err)
		}

	case ErrorDismissed:
		s.Err = ""
		s.StorageErr = ""
	}
	return s
}

// Loading reports whether any request is in flight.
func (s State) Loading() bool {
	return s.LoadingDir || s.LoadingFile
}

// SelectedNames returns the checked names in listing order, children after
// their directory.
func (s State) SelectedNames() []string {
	var out []string
	for _, e := range s.Listing {
		if s.Selected[e.Name] {
			out = append(out, e.Name)
		}
		for _, c := range e.Contents {
			if s.Selected[c.Name] {
				out = append(out, c.Name)
			}
		}
	}
	return out
}
