package store

import (
	"database/sql"
	"embed"
	"path/filepath"
	"sync"
	"time"

	"v2browse/internal/errors"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed db/schema.sql
var dbFS embed.FS

// SQLitePath returns the database file used inside a storage directory.
func SQLitePath(dir string) string {
	return filepath.Join(dir, "v2browse.db")
}

// SQLiteStore keeps blobs in a single kv table.
type SQLiteStore struct {
	db *sql.DB

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (and initializes) the database at dbPath. An empty
// path opens an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := InitDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// InitDatabase opens the SQLite database and applies the embedded schema.
func InitDatabase(dbPath string) (*sql.DB, error) {
	connectionString := dbPath
	if connectionString == "" {
		connectionString = ":memory:"
	}

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return nil, errors.NewStorageError("failed to open SQLite database", connectionString, errors.StorageUnavailable, err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	schemaSQL, err := dbFS.ReadFile("db/schema.sql")
	if err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to read schema SQL", "", errors.StorageUnavailable, err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to initialize database schema", connectionString, errors.StorageUnavailable, err)
	}
	return db, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, errors.ErrStoreClosed
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, readErr(key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.ErrStoreClosed
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return writeErr(key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.ErrStoreClosed
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return writeErr(key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (s *SQLiteStore) UpdatedAt(key string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return time.Time{}, false, errors.ErrStoreClosed
	}

	var ts time.Time
	err := s.db.QueryRow(`SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, readErr(key, err)
	}
	return ts, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
