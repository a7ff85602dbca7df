package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	mu      sync.Mutex
	batches [][]Event
}

func (r *flushRecorder) flush(events []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, events)
}

func (r *flushRecorder) get() [][]Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]Event(nil), r.batches...)
}

func TestDebouncer_CoalescesEvents(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := &flushRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.flush)

	// --- Act ---
	d.Add(Event{Path: "b.txt", Op: OpCreate})
	d.Add(Event{Path: "a.txt", Op: OpWrite})
	d.Add(Event{Path: "b.txt", Op: OpWrite})

	// --- Assert ---
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, []Event{
		{Path: "a.txt", Op: OpWrite},
		{Path: "b.txt", Op: OpWrite},
	}, rec.get()[0])
}

func TestDebouncer_StopFlushesPending(t *testing.T) {
	t.Parallel()

	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, rec.flush)

	d.Add(Event{Path: "a.txt", Op: OpRemove})
	d.Stop()
	d.Add(Event{Path: "b.txt", Op: OpCreate})
	d.Stop()

	require.Equal(t, [][]Event{{{Path: "a.txt", Op: OpRemove}}}, rec.get())
}

func TestDebouncer_StopWithoutEvents(t *testing.T) {
	t.Parallel()

	rec := &flushRecorder{}
	d := NewDebouncer(time.Millisecond, rec.flush)

	d.Stop()

	require.Empty(t, rec.get())
}

func TestOp_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "create", OpCreate.String())
	require.Equal(t, "write", OpWrite.String())
	require.Equal(t, "remove", OpRemove.String())
	require.Equal(t, "rename", OpRename.String())
	require.Equal(t, "unknown", Op(42).String())
}
