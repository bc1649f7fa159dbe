// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTree lays out files (slash separated relative path -> content)
// under a new temp dir and returns it. Paths ending in "/" create empty
// directories.
func CreateTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteTree(t, root, files)
	return root
}

// WriteTree is CreateTree for an existing directory.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

// SampleTree is a small tree with nested, hidden and empty directories.
func SampleTree(t *testing.T) string {
	return CreateTree(t, map[string]string{
		"readme.txt":          "hello",
		"docs/a.txt":          "alpha",
		"docs/sub/deep.txt":   "deep",
		"docs/.secret":        "hidden",
		"my docs/50%?.txt":    "odd name",
		".git/config":         "hidden dir",
		"empty/":              "",
		"Music/live/song.mp3": "ID3",
	})
}
