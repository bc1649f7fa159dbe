package session

import (
	"context"
	"sync"

	"v2browse/internal/config"
	"v2browse/internal/container"
	"v2browse/internal/log"
	"v2browse/pkg/types"

	"github.com/gabriel-vasile/mimetype"
)

// Directory is the remote service a session browses.
type Directory interface {
	ListDirectory(ctx context.Context, path string) (types.Listing, error)
	ReadFile(ctx context.Context, dir, name string) ([]byte, error)
}

// RequestKind is the kind of a network request.
type RequestKind int

const (
	ListRequest RequestKind = iota
	FileRequest
)

// Request describes a network call issued by the session. Execute performs
// it; the resulting event is applied later.
type Request struct {
	Kind RequestKind
	Seq  uint64
	// Path is the directory to list, or the directory holding Name.
	Path string
	Name string
}

// Session couples the browsing state with the directory service and the
// container. State changes are serialized; Execute may run concurrently.
type Session struct {
	mu    sync.Mutex
	state State
	seq   uint64

	svc       Directory
	container *container.Manager
	logger    *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session over svc and the container manager c.
func New(svc Directory, c *container.Manager, opts ...Option) *Session {
	if c == nil {
		c, _ = container.NewManager(nil, nil)
	}
	s := &Session{
		svc:       svc,
		container: c,
		logger:    log.Default(),
		state: State{
			Listing:           types.Listing{},
			Selected:          map[string]bool{},
			ContainerSelected: map[string]bool{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Container returns a copy of the container.
func (s *Session) Container() container.Container {
	return s.container.Items()
}

// Mode returns the selection mode in use.
func (s *Session) Mode() string {
	return s.container.Mode()
}

func (s *Session) next() uint64 {
	s.seq++
	return s.seq
}

// Navigate issues a listing request for p.
func (s *Session) Navigate(p string) Request {
	p = types.CleanPath(p)

	s.mu.Lock()
	seq := s.next()
	s.state = Reduce(s.state, NavigateIssued{Seq: seq, Path: p})
	s.mu.Unlock()

	s.logger.With(log.F("seq", seq), log.F("path", p)).Debug("Navigate")
	return Request{Kind: ListRequest, Seq: seq, Path: p}
}

// Reload re-requests the current directory.
func (s *Session) Reload() Request {
	return s.Navigate(s.State().Path)
}

// Up navigates to the parent of the current directory.
func (s *Session) Up() Request {
	return s.Navigate(types.ParentPath(s.State().Path))
}

// Breadcrumbs returns the trail for the current directory.
func (s *Session) Breadcrumbs() []types.Crumb {
	return types.Breadcrumbs(s.State().Path)
}

// OpenFile issues a request for file name in the current directory.
func (s *Session) OpenFile(name string) Request {
	return s.openFileIn(s.State().Path, name)
}

func (s *Session) openFileIn(dir, name string) Request {
	dir = types.CleanPath(dir)

	s.mu.Lock()
	seq := s.next()
	s.state = Reduce(s.state, FileIssued{Seq: seq, Dir: dir, Name: name})
	s.mu.Unlock()

	s.logger.With(log.F("seq", seq), log.F("path", types.JoinPath(dir, name))).Debug("Open file")
	return Request{Kind: FileRequest, Seq: seq, Path: dir, Name: name}
}

// OpenEntry navigates into a directory entry or opens a file entry of the
// current listing.
func (s *Session) OpenEntry(e types.Entry) Request {
	if e.IsDir() {
		return s.Navigate(types.JoinPath(s.State().Path, e.Name))
	}
	return s.OpenFile(e.Name)
}

// OpenChild opens an inline child of the directory entry parent.
func (s *Session) OpenChild(parent, child types.Entry) Request {
	dir := types.JoinPath(s.State().Path, parent.Name)
	if child.IsDir() {
		return s.Navigate(types.JoinPath(dir, child.Name))
	}
	return s.openFileIn(dir, child.Name)
}

// OpenContainerEntry opens a container entry relative to the directory it
// was selected in.
func (s *Session) OpenContainerEntry(e container.Entry) Request {
	if e.IsDir() {
		return s.Navigate(e.Key())
	}
	return s.openFileIn(e.Path, e.Name)
}

// Execute performs req against the directory service and returns the
// resulting event. It does not touch the session state.
func (s *Session) Execute(ctx context.Context, req Request) Event {
	switch req.Kind {
	case FileRequest:
		body, err := s.svc.ReadFile(ctx, req.Path, req.Name)
		if err != nil {
			return FileFailed{Seq: req.Seq, Dir: req.Path, Name: req.Name, Err: err}
		}
		mt := mimetype.Detect(body)
		return FileLoaded{
			Seq:         req.Seq,
			Dir:         req.Path,
			Name:        req.Name,
			Content:     body,
			ContentType: mt.String(),
			Binary:      !isText(mt),
		}
	default:
		items, err := s.svc.ListDirectory(ctx, req.Path)
		if err != nil {
			return ListingFailed{Seq: req.Seq, Path: req.Path, Err: err}
		}
		return ListingLoaded{Seq: req.Seq, Path: req.Path, Items: items}
	}
}

// Apply reduces ev into the state. It returns false when ev was a stale
// result and was discarded.
func (s *Session) Apply(ev Event) bool {
	s.mu.Lock()
	if Stale(s.state, ev) {
		s.mu.Unlock()
		s.logger.With(log.F("event", eventName(ev))).Debug("Discarding stale result")
		return false
	}
	s.state = Reduce(s.state, ev)

	// revisiting a directory restores the checkmarks of what the container
	// already holds from it
	if loaded, ok := ev.(ListingLoaded); ok && s.container.Mode() == config.ModeAccumulate {
		restored := s.container.SelectedIn(loaded.Path, s.state.Listing)
		if len(restored) > 0 {
			s.state = Reduce(s.state, SelectionChanged{Keys: restored})
		}
	}
	s.mu.Unlock()

	switch e := ev.(type) {
	case ListingFailed:
		s.logger.With(log.ErrorFields(e.Err)...).Warn("Listing failed")
	case FileFailed:
		s.logger.With(log.ErrorFields(e.Err)...).Warn("File load failed")
	}
	return true
}

// Do executes req and applies the result. It returns the applied event's
// error, if any, so synchronous callers can report it.
func (s *Session) Do(ctx context.Context, req Request) error {
	ev := s.Execute(ctx, req)
	if !s.Apply(ev) {
		return nil
	}
	switch e := ev.(type) {
	case ListingFailed:
		return e.Err
	case FileFailed:
		return e.Err
	}
	return nil
}

// SetSelection replaces the checked rows of the listing and reconciles the
// container. A failed container write is returned and shown as StorageErr.
func (s *Session) SetSelection(keys map[string]bool) error {
	s.mu.Lock()
	s.state = Reduce(s.state, SelectionChanged{Keys: keys})
	path, listing, selected := s.state.Path, s.state.Listing, s.state.Selected
	s.mu.Unlock()

	err := s.container.Reconcile(path, listing, selected)
	s.afterContainerChange(err)
	return err
}

// ToggleSelection flips one row name.
func (s *Session) ToggleSelection(name string) error {
	cur := s.State().Selected
	next := make(map[string]bool, len(cur)+1)
	for k := range cur {
		next[k] = true
	}
	if next[name] {
		delete(next, name)
	} else {
		next[name] = true
	}
	return s.SetSelection(next)
}

// SelectAll checks every selectable row of the listing.
func (s *Session) SelectAll() error {
	return s.SetSelection(s.State().Listing.Names())
}

// ClearSelection unchecks every row.
func (s *Session) ClearSelection() error {
	return s.SetSelection(map[string]bool{})
}

// SetContainerSelection replaces the checked container rows.
func (s *Session) SetContainerSelection(keys map[string]bool) {
	s.mu.Lock()
	s.state = Reduce(s.state, ContainerSelectionChanged{Keys: keys})
	s.mu.Unlock()
}

// ToggleContainerSelection flips one container row key.
func (s *Session) ToggleContainerSelection(key string) {
	cur := s.State().ContainerSelected
	next := make(map[string]bool, len(cur)+1)
	for k := range cur {
		next[k] = true
	}
	if next[key] {
		delete(next, key)
	} else {
		next[key] = true
	}
	s.SetContainerSelection(next)
}

// DeleteSelected removes the checked container rows and clears the
// container selection.
func (s *Session) DeleteSelected() error {
	return s.DeleteFromContainer(s.State().ContainerSelected)
}

// DeleteFromContainer removes the container entries with the given row keys.
func (s *Session) DeleteFromContainer(keys map[string]bool) error {
	err := s.container.Delete(keys)
	s.SetContainerSelection(nil)
	s.afterContainerChange(err)
	return err
}

// ClearContainer removes every container entry.
func (s *Session) ClearContainer() error {
	err := s.container.Clear()
	s.afterContainerChange(err)
	return err
}

// ReplaceContainer installs a container changed by another process.
func (s *Session) ReplaceContainer(c container.Container) {
	s.container.Replace(c)
	s.afterContainerChange(nil)
}

// Dismiss clears the visible error messages.
func (s *Session) Dismiss() {
	s.mu.Lock()
	s.state = Reduce(s.state, ErrorDismissed{})
	s.mu.Unlock()
}

func (s *Session) afterContainerChange(err error) {
	keys := s.container.Items().Keys()
	s.mu.Lock()
	s.state = Reduce(s.state, ContainerChanged{Keys: keys})
	if err != nil {
		s.state = Reduce(s.state, StorageFailed{Err: err})
	}
	s.mu.Unlock()
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func eventName(ev Event) string {
	switch ev.(type) {
	case ListingLoaded:
		return "listing-loaded"
	case ListingFailed:
		return "listing-failed"
	case FileLoaded:
		return "file-loaded"
	case FileFailed:
		return "file-failed"
	}
	return "event"
}
