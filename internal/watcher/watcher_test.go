package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsMatchingChanges(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	w, err := New(dir, 20*time.Millisecond, func(path string) bool {
		return strings.HasPrefix(filepath.Base(path), "item")
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	runErr := make(chan error, 1)
	go func() {
		runErr <- w.Run(ctx, func(_ context.Context, events []Event) {
			mu.Lock()
			defer mu.Unlock()
			for _, e := range events {
				seen = append(seen, filepath.Base(e.Path))
			}
		})
	}()

	// --- Act ---
	// Keep touching the files until the watcher has picked them up, since
	// Run registers the directory asynchronously.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600)
		_ = os.WriteFile(filepath.Join(dir, "item_a.txt"), []byte("x"), 0o600)

		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	// --- Assert ---
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotContains(t, seen, "notes.txt")
	require.Contains(t, seen, "item_a.txt")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	t.Parallel()

	w, err := New(filepath.Join(t.TempDir(), "missing"), time.Millisecond, nil)
	require.NoError(t, err)

	err = w.Run(context.Background(), func(context.Context, []Event) {})

	require.ErrorContains(t, err, "failed to watch")
}

func TestConvertEvent(t *testing.T) {
	t.Parallel()

	w := &Watcher{filter: func(path string) bool { return path != "skip.txt" }}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  Event
		ok    bool
	}{
		{"create", fsnotify.Event{Name: "a.txt", Op: fsnotify.Create}, Event{Path: "a.txt", Op: OpCreate}, true},
		{"write", fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}, Event{Path: "a.txt", Op: OpWrite}, true},
		{"remove", fsnotify.Event{Name: "a.txt", Op: fsnotify.Remove}, Event{Path: "a.txt", Op: OpRemove}, true},
		{"rename", fsnotify.Event{Name: "a.txt", Op: fsnotify.Rename}, Event{Path: "a.txt", Op: OpRename}, true},
		{"chmod only", fsnotify.Event{Name: "a.txt", Op: fsnotify.Chmod}, Event{}, false},
		{"filtered", fsnotify.Event{Name: "skip.txt", Op: fsnotify.Write}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.convertEvent(tt.event)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
