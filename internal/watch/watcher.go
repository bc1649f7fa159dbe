// Package watch reports changes to individual files using fsnotify. The
// store uses it to notice when another v2browse process rewrites the
// persisted container.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"v2browse/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single atomic write produces.
const DefaultDebounce = 50 * time.Millisecond

// FileModification represents a change detected on a watched file
type FileModification struct {
	Path      string
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors a set of files. fsnotify watches their parent
// directories so atomic replace-by-rename is seen as a change.
type Watcher struct {
	// Files being watched, by absolute path
	files map[string]bool

	// Channel to receive file modifications
	fileModChan chan FileModification

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Closed when the event loop exits
	done chan struct{}

	debounce time.Duration
	mutex    sync.RWMutex
	running  bool
}

// New creates a new file watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		files:       make(map[string]bool),
		fileModChan: make(chan FileModification, 10),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
		debounce:    DefaultDebounce,
	}, nil
}

// SetDebounce changes the coalescing window. Zero delivers every event.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mutex.Lock()
	w.debounce = d
	w.mutex.Unlock()
}

// AddFile starts watching path. The file itself need not exist yet, but its
// directory must.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	w.files[abs] = true
	w.mutex.Unlock()

	log.LogWithFields(log.F("file", abs)).Debug("Watching file")
	return nil
}

// Files returns the watched paths.
func (w *Watcher) Files() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// FileChannel returns the channel that delivers file modification events
func (w *Watcher) FileChannel() <-chan FileModification {
	return w.fileModChan
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.done = make(chan struct{})
	debounce := w.debounce
	w.mutex.Unlock()

	go w.loop(debounce)
	return nil
}

func (w *Watcher) loop(debounce time.Duration) {
	defer close(w.done)
	defer close(w.fileModChan)

	pending := make(map[string]FileModification)
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() {
		for _, mod := range pending {
			select {
			case w.fileModChan <- mod:
			default:
				log.LogWithFields(log.F("file", mod.Path)).Warn("Event channel is full, dropped event")
			}
		}
		pending = make(map[string]FileModification)
		fire = nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mutex.RLock()
			watched := w.files[name]
			w.mutex.RUnlock()
			if !watched {
				continue
			}

			mod := FileModification{Path: name, Timestamp: time.Now(), Op: event.Op}
			if prev, ok := pending[name]; ok {
				mod.Op |= prev.Op
			}
			pending[name] = mod

			if debounce <= 0 {
				flush()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			flush()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop halts the watcher and closes FileChannel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		_ = w.fsWatcher.Close()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mutex.Unlock()

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	<-done
}
