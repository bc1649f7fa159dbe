package container

import (
	"encoding/json"

	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/internal/store"
)

// DefaultKey is the storage key of the container blob.
const DefaultKey = "selectedContainer"

// Persister writes the whole container under one key on every change.
type Persister struct {
	store  store.Store
	key    string
	logger *log.Logger
}

// NewPersister returns a persister over s. An empty key uses DefaultKey.
func NewPersister(s store.Store, key string, logger *log.Logger) *Persister {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Persister{store: s, key: key, logger: logger}
}

// Key returns the storage key.
func (p *Persister) Key() string {
	return p.key
}

// Save overwrites the stored blob with c.
func (p *Persister) Save(c Container) error {
	if c == nil {
		c = Container{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return errors.NewStorageError("encode container", p.key, errors.StorageWriteFailed, err)
	}
	if err := p.store.Set(p.key, data); err != nil {
		if !errors.IsStorage(err) {
			err = errors.NewStorageError("write failed", p.key, errors.StorageWriteFailed, err)
		}
		p.logger.With(log.ErrorFields(err)...).Error("Saving container failed")
		return err
	}
	p.logger.With(log.F("key", p.key), log.F("entries", len(c))).Debug("Container saved")
	return nil
}

// Load reads the stored container. An absent or unreadable blob yields an
// empty container; a read failure is also returned so it can be shown.
func (p *Persister) Load() (Container, error) {
	data, ok, err := p.store.Get(p.key)
	if err != nil {
		p.logger.With(log.ErrorFields(err)...).Warn("Reading saved container failed")
		return Container{}, err
	}
	if !ok {
		return Container{}, nil
	}
	c, err := Decode(data)
	if err != nil {
		p.logger.With(log.F("key", p.key), log.F("error", err.Error())).Warn("Ignoring invalid saved container")
		return Container{}, nil
	}
	return c, nil
}

// Decode parses a container blob. Empty input is an empty container.
func Decode(data []byte) (Container, error) {
	if len(data) == 0 {
		return Container{}, nil
	}
	var c Container
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = Container{}
	}
	return c, nil
}
