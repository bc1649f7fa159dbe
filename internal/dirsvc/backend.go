// Package dirsvc serves a directory tree in the directory service wire
// format: GET /list-directory?path=<p> answers a JSON listing whose
// directories carry one level of inline contents, and GET /static/<p>/<name>
// answers the raw bytes of a file. Trees come from a local directory or an
// S3 bucket.
package dirsvc

import (
	"context"
	"sort"
	"strings"

	"v2browse/internal/errors"
	"v2browse/pkg/types"
)

// Backend errors, mapped to HTTP statuses by the server.
var (
	ErrNotFound = errors.New("no such file or directory")
	ErrNotDir   = errors.New("not a directory")
	ErrIsDir    = errors.New("is a directory")
	ErrBadPath  = errors.New("bad path")
)

// Backend is a read-only tree the service exposes. Paths are slash
// separated and relative to the tree root ("" is root).
type Backend interface {
	// List returns the entries of directory p. Directories carry their
	// own children inline, one level deep.
	List(ctx context.Context, p string) (types.Listing, error)
	// Read returns the bytes of file p.
	Read(ctx context.Context, p string) ([]byte, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}

// CleanRequestPath validates a path received from a client and returns it
// in canonical form. Raw ".." segments are rejected rather than resolved.
func CleanRequestPath(raw string) (string, error) {
	if strings.Contains(raw, "\x00") {
		return "", ErrBadPath
	}
	for _, seg := range strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return "", ErrBadPath
		}
	}
	return types.CleanPath(raw), nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// hiddenPath reports whether any segment of p is hidden.
func hiddenPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if hidden(seg) {
			return true
		}
	}
	return false
}

// sortEntries orders directories first, then by case-insensitive name.
func sortEntries(items []types.Entry) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDir() != items[j].IsDir() {
			return items[i].IsDir()
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}
