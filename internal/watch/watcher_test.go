package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFileChanges(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "selectedContainer.json")
	other := filepath.Join(tempDir, "other.json")

	w, err := New()
	require.NoError(t, err, "New watcher creation failed")
	require.NoError(t, w.AddFile(target), "Failed to add file to watcher")
	assert.Equal(t, []string{target}, w.Files())

	require.NoError(t, w.Start(), "Failed to start watcher")
	defer w.Stop()

	evChan := w.FileChannel()

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	// Unwatched siblings are ignored
	require.NoError(t, os.WriteFile(other, []byte("[]"), 0644))

	// Atomic replace: write a temp file, rename over the target
	tmp := filepath.Join(tempDir, ".tmp-container")
	require.NoError(t, os.WriteFile(tmp, []byte(`[{"name":"A","type":"file"}]`), 0644))
	require.NoError(t, os.Rename(tmp, target))

	select {
	case event, ok := <-evChan:
		require.True(t, ok, "Event channel closed unexpectedly")
		assert.Equal(t, target, event.Path, "Event path mismatch")
		assert.True(t, event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename),
			"Expected a create, write or rename, got %s", event.Op)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for change event")
	}
}

func TestWatcherNoDebounce(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "blob.json")

	w, err := New()
	require.NoError(t, err)
	w.SetDebounce(0)
	require.NoError(t, w.AddFile(target))
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	select {
	case event := <-w.FileChannel():
		assert.Equal(t, target, event.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for write event")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	err = w.AddFile(filepath.Join(t.TempDir(), "missing", "blob.json"))
	assert.Error(t, err)
}

func TestWatcherStartStop(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddFile(filepath.Join(t.TempDir(), "blob.json")))

	require.NoError(t, w.Start())
	assert.Error(t, w.Start(), "second start should fail")

	w.Stop()
	_, ok := <-w.FileChannel()
	assert.False(t, ok, "channel should be closed after stop")

	// idempotent
	w.Stop()
}
