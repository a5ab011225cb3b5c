package document

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

func startWatcher(t *testing.T, path string) *atomic.Int32 {
	t.Helper()

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var calls atomic.Int32
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(string) { calls.Add(1) })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &calls
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	calls := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"summary":"a"}`), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`{"summary":"b"}`), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	calls := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	assert.Never(t, func() bool { return calls.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.json")
	w, err := NewWatcher(path, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx, func(string) {}), context.Canceled)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "resume.json"), 0)
	assert.Error(t, err)
}
