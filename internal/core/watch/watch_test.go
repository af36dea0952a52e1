package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

func TestFileWatcher_ReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := NewFileWatcher(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))

	select {
	case ev := <-w.Events():
		assert.Equal(t, w.Path(), ev.Path)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}
}

func TestFileWatcher_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := NewFileWatcher(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	tmp := filepath.Join(dir, ".notes.txt.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("two"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("no change event after rename")
	}
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := NewFileWatcher(path, WithDebounce(testDebounce))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-w.Events():
		t.Fatal("sibling change must not be reported")
	case <-time.After(10 * testDebounce):
	}
}

func TestFileWatcher_CloseClosesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := NewFileWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestFile_CallsOnChangeUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, func() { calls.Add(1) }, WithDebounce(testDebounce))
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(time.Now().String()), 0o644)
		return calls.Load() > 0
	}, 2*time.Second, 5*testDebounce)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("File did not return after cancel")
	}
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "notes.txt"))
	require.Error(t, err)
}
