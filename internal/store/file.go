package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/internal/watch"
)

// FileStore keeps each key in its own <key>.json file under a directory.
// Writes go to a temp file that is renamed over the target.
type FileStore struct {
	dir string

	mu     sync.Mutex
	closed bool
	// last blob this process wrote or read per key, so Watch can skip
	// notifications caused by our own writes
	last map[string][]byte
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.NewStorageError("storage directory is required", "", errors.StorageUnavailable, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewStorageError("cannot create storage directory", dir, errors.StorageUnavailable, err)
	}
	return &FileStore{dir: dir, last: make(map[string][]byte)}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

// fileName maps a key to a safe file name.
func fileName(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return r.Replace(key) + ".json"
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, errors.ErrStoreClosed
	}

	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, readErr(key, err)
	}
	s.last[key] = data
	return data, true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrStoreClosed
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+fileName(key)+"-*")
	if err != nil {
		return writeErr(key, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return writeErr(key, err)
	}

	if _, err := tmp.Write(value); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return writeErr(key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return writeErr(key, err)
	}

	s.last[key] = append([]byte(nil), value...)
	return nil
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrStoreClosed
	}
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return writeErr(key, err)
	}
	s.last[key] = nil
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Watch reports blobs written to key by other processes.
func (s *FileStore) Watch(key string) (<-chan []byte, func(), error) {
	w, err := watch.New()
	if err != nil {
		return nil, nil, errors.NewStorageError("cannot watch storage", key, errors.StorageUnavailable, err)
	}
	if err := w.AddFile(s.Path(key)); err != nil {
		w.Stop()
		return nil, nil, errors.NewStorageError("cannot watch storage", key, errors.StorageUnavailable, err)
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, nil, errors.NewStorageError("cannot watch storage", key, errors.StorageUnavailable, err)
	}

	out := make(chan []byte, 1)
	quit := make(chan struct{})
	go func() {
		defer close(out)
		for range w.FileChannel() {
			data, err := os.ReadFile(s.Path(key))
			if err != nil && !os.IsNotExist(err) {
				log.LogWithError(readErr(key, err)).Warn("Reading changed container failed")
				continue
			}

			s.mu.Lock()
			prev, seen := s.last[key]
			same := seen && bytes.Equal(prev, data)
			if !same {
				s.last[key] = data
			}
			s.mu.Unlock()
			if same {
				continue
			}

			log.LogWithFields(log.F("key", key), log.F("bytes", len(data))).Debug("External change to stored blob")
			select {
			case out <- data:
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(quit)
			w.Stop()
		})
	}
	return out, stop, nil
}
