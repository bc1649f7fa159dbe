package dirsvc

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"v2browse/internal/errors"
	"v2browse/pkg/types"
)

// LocalBackend serves a directory on the local filesystem.
type LocalBackend struct {
	root string
}

// NewLocalBackend returns a backend rooted at dir.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewConfigError("invalid root", "root", errors.InvalidConfig, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, errors.NewConfigError("root does not exist", "root", errors.ConfigNotFound, err)
	}
	if !st.IsDir() {
		return nil, errors.NewConfigError("root is not a directory", "root", errors.InvalidConfig, nil)
	}
	return &LocalBackend{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute root directory.
func (b *LocalBackend) Root() string { return b.root }

// Name implements Backend.
func (b *LocalBackend) Name() string { return "local" }

// List implements Backend.
func (b *LocalBackend) List(ctx context.Context, p string) (types.Listing, error) {
	abs, err := b.resolve(p)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, statErr(err)
	}
	if !st.IsDir() {
		return nil, ErrNotDir
	}

	ents, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", p)
	}
	items := make(types.Listing, 0, len(ents))
	for _, e := range ents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if hidden(e.Name()) {
			continue
		}
		if !e.IsDir() {
			items = append(items, types.Entry{Name: e.Name(), Type: types.File})
			continue
		}
		children, err := readChildren(filepath.Join(abs, e.Name()))
		if err != nil {
			// an unreadable subdirectory is still listed, just without children
			children = []types.Entry{}
		}
		items = append(items, types.Entry{Name: e.Name(), Type: types.Directory, Contents: children})
	}
	sortEntries(items)
	return items, nil
}

// readChildren lists one directory level without descending further.
func readChildren(dir string) ([]types.Entry, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, 0, len(ents))
	for _, e := range ents {
		if hidden(e.Name()) {
			continue
		}
		typ := types.File
		if e.IsDir() {
			typ = types.Directory
		}
		out = append(out, types.Entry{Name: e.Name(), Type: typ})
	}
	sortEntries(out)
	return out, nil
}

// Read implements Backend.
func (b *LocalBackend) Read(ctx context.Context, p string) ([]byte, error) {
	if types.CleanPath(p) == "" {
		return nil, ErrIsDir
	}
	abs, err := b.resolve(p)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, statErr(err)
	}
	if st.IsDir() {
		return nil, ErrIsDir
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", p)
	}
	return data, nil
}

// resolve returns the absolute path of p under the root. Hidden paths are
// reported as missing.
func (b *LocalBackend) resolve(p string) (string, error) {
	rel := types.CleanPath(p)
	if rel == "" {
		return b.root, nil
	}
	if hiddenPath(rel) {
		return "", ErrNotFound
	}
	return joinWithinRoot(b.root, rel)
}

// joinWithinRoot returns an absolute filesystem path under root for a clean
// relative path. It rejects escapes.
func joinWithinRoot(root, rel string) (string, error) {
	if strings.Contains(rel, "\x00") {
		return "", ErrBadPath
	}
	abs := filepath.Clean(filepath.Join(root, filepath.FromSlash(rel)))
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrBadPath
	}
	return abs, nil
}

func statErr(err error) error {
	if os.IsNotExist(err) || errors.Is(err, os.ErrPermission) {
		return ErrNotFound
	}
	return err
}
