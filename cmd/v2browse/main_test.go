package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"v2browse/internal/config"
	"v2browse/internal/dirsvc"
	"v2browse/internal/log"
	"v2browse/pkg/testutils"
	"v2browse/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupService serves a small tree over HTTP and writes a config file that
// points at it with a private storage dir.
func setupService(t *testing.T) string {
	t.Helper()

	root := testutils.CreateTree(t, map[string]string{
		"docs/2024/q1.pdf": "%PDF-1.4 q1",
		"docs/2024/q2.pdf": "%PDF-1.4 q2",
		"readme.txt":       "hello\n",
		".hidden":          "secret",
	})

	backend, err := dirsvc.NewLocalBackend(root)
	require.NoError(t, err)
	quiet := log.NewLogger(log.WithOutput(io.Discard))
	srv := httptest.NewServer(dirsvc.NewServer(backend, dirsvc.WithLogger(quiet)).Handler())
	t.Cleanup(srv.Close)

	cfg := config.NewTestConfig(srv.URL, filepath.Join(t.TempDir(), "state"))
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.SaveConfig(cfg, cfgPath))
	return cfgPath
}

func run(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestLs(t *testing.T) {
	cfgPath := setupService(t)

	out, _, err := run(t, cfgPath, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "docs/")
	assert.Contains(t, out, "readme.txt")
	assert.NotContains(t, out, ".hidden")

	out, _, err = run(t, cfgPath, "ls", "docs", "--children")
	require.NoError(t, err)
	assert.Contains(t, out, "2024/")
	assert.Contains(t, out, "  q1.pdf")

	out, _, err = run(t, cfgPath, "ls", "--json")
	require.NoError(t, err)
	var listing types.Listing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing, 2)
	assert.Equal(t, "docs", listing[0].Name)
	assert.True(t, listing[0].IsDir())
}

func TestLsMatch(t *testing.T) {
	cfgPath := setupService(t)

	out, _, err := run(t, cfgPath, "ls", "--match", "*.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "readme.txt")
	assert.NotContains(t, out, "docs/")

	_, _, err = run(t, cfgPath, "ls", "--match", "[")
	assert.Error(t, err)
}

func TestLsMissingDirectory(t *testing.T) {
	cfgPath := setupService(t)

	_, _, err := run(t, cfgPath, "ls", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load directory contents")
}

func TestCat(t *testing.T) {
	cfgPath := setupService(t)

	out, _, err := run(t, cfgPath, "cat", "readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, _, err = run(t, cfgPath, "cat", "--info", "readme.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "readme.txt\ttext/plain")
	assert.Contains(t, out, "6 B")

	_, _, err = run(t, cfgPath, "cat", "docs/missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to load file")

	_, _, err = run(t, cfgPath, "cat", "/")
	assert.Error(t, err)
}

func TestContainerCommands(t *testing.T) {
	cfgPath := setupService(t)

	out, _, err := run(t, cfgPath, "container", "add", "docs/2024/q1.pdf", "readme.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Container holds 2 entries")

	out, _, err = run(t, cfgPath, "container", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Container (2)")
	assert.Contains(t, out, "accumulate")
	assert.Contains(t, out, "docs/2024/q1.pdf")
	assert.Contains(t, out, "readme.txt")

	out, _, err = run(t, cfgPath, "container", "export", "--format", "paths")
	require.NoError(t, err)
	assert.Equal(t, "docs/2024/q1.pdf\nreadme.txt\n", out)

	exported := filepath.Join(t.TempDir(), "picked.yaml")
	_, _, err = run(t, cfgPath, "container", "export", "-f", "yaml", "-o", exported)
	require.NoError(t, err)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), "path: docs/2024")

	out, errOut, err := run(t, cfgPath, "container", "rm", "readme.txt", "nope.txt")
	require.NoError(t, err)
	assert.Contains(t, errOut, "nope.txt")
	assert.Contains(t, out, "Removed 1, 1 left")

	out, _, err = run(t, cfgPath, "container", "show", "--json")
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "q1.pdf", items[0]["name"])
	assert.Equal(t, "docs/2024", items[0]["path"])

	_, _, err = run(t, cfgPath, "container", "clear")
	require.NoError(t, err)
	out, _, err = run(t, cfgPath, "container", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing selected")
}

func TestContainerAddErrors(t *testing.T) {
	cfgPath := setupService(t)

	_, _, err := run(t, cfgPath, "container", "add", "docs/2024/q9.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q9.pdf")

	_, _, err = run(t, cfgPath, "container", "add", "/")
	assert.Error(t, err)

	_, _, err = run(t, cfgPath, "container", "export", "--format", "csv")
	assert.Error(t, err)
}

func TestBrokenExplicitConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("service: [broken"), 0o644))

	_, _, err := run(t, cfgPath, "ls")
	assert.Error(t, err)
}

func TestBaseURLFlag(t *testing.T) {
	cfgPath := setupService(t)

	_, _, err := run(t, cfgPath, "--base-url", "not a url", "ls")
	assert.Error(t, err)
}

func TestGroupByParent(t *testing.T) {
	byDir, order, err := groupByParent([]string{"docs/a.pdf", "b.txt", "/docs/c.pdf/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", ""}, order)
	assert.Equal(t, []string{"a.pdf", "c.pdf"}, byDir["docs"])
	assert.Equal(t, []string{"b.txt"}, byDir[""])

	_, _, err = groupByParent([]string{""})
	assert.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	root := t.TempDir()

	b, err := newBackend(context.Background(), root, dirsvc.S3Config{})
	require.NoError(t, err)
	assert.Equal(t, "local", b.Name())

	_, err = newBackend(context.Background(), filepath.Join(root, "missing"), dirsvc.S3Config{})
	assert.Error(t, err)

	b, err = newBackend(context.Background(), root, dirsvc.S3Config{
		Bucket:    "archive",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3", b.Name())
}

func TestHelpShowsCommands(t *testing.T) {
	cfgPath := setupService(t)

	out, _, err := run(t, cfgPath, "--help")
	require.NoError(t, err)
	for _, name := range []string{"browse", "gui", "ls", "cat", "container", "serve"} {
		assert.True(t, strings.Contains(out, name), "help should list %s", name)
	}
}
