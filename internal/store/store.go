// Package store is the durable key/value storage behind the container. A
// key maps to an opaque blob that is overwritten in full on every write.
package store

import (
	"v2browse/internal/config"
	"v2browse/internal/errors"
)

// Store persists opaque blobs by key.
type Store interface {
	// Get returns the blob for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set overwrites the blob for key.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	Close() error
}

// Watchable is implemented by stores that can report writes made by other
// processes. The channel receives the new blob (nil when the key was
// removed) and is closed by stop.
type Watchable interface {
	Watch(key string) (changes <-chan []byte, stop func(), err error)
}

// Open returns the store selected by cfg.Storage.Driver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return NewFileStore(cfg.Storage.Dir)
	case config.DriverSQLite:
		return NewSQLiteStore(SQLitePath(cfg.Storage.Dir))
	}
	return nil, errors.NewConfigError("unknown storage driver", "storage.driver", errors.InvalidConfig, nil)
}

func readErr(key string, err error) error {
	return errors.NewStorageError("read failed", key, errors.StorageReadFailed, err)
}

func writeErr(key string, err error) error {
	return errors.NewStorageError("write failed", key, errors.StorageWriteFailed, err)
}
