// =============================================================================
// KCD2 Item Exporter - Input Watcher
// =============================================================================
//
// This module watches the input directory and reports batches of changes to
// item files, so the workbook can be regenerated while the files are edited.
//
// EVENT FLOW:
//   fsnotify event -> Filter -> Debouncer -> batch -> OnChange
//
// OnChange runs on the goroutine that called Run, one batch at a time.
// Changes made while OnChange is running are collected into the next batch.
//
// =============================================================================

package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ginjaninja78/kcd2items/internal/logging"
)

// Filter reports whether a changed path is of interest.
type Filter func(path string) bool

// OnChange is called with each debounced batch of events.
type OnChange func(ctx context.Context, events []Event)

// Watcher watches one directory tree.
type Watcher struct {
	dir       string
	filter    Filter
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	batches   chan []Event
	done      chan struct{}
}

// New creates a Watcher for dir. Nothing is watched until Run is called.
//
// PARAMETERS:
//   - dir: The directory to watch, including its subdirectories.
//   - window: How long the directory must stay quiet before a batch is sent.
//   - filter: Selects the paths that count as changes. A nil filter accepts
//     every path.
func New(dir string, window time.Duration, filter Filter) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		dir:       dir,
		filter:    filter,
		fsWatcher: fsWatcher,
		batches:   make(chan []Event),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(window, w.send)

	return w, nil
}

// Run watches until ctx is cancelled, calling onChange for every batch.
// It closes the Watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange OnChange) error {
	logger := logging.FromContext(ctx).With("dir", w.dir)

	defer func() {
		close(w.done)
		w.debouncer.Stop()
		w.fsWatcher.Close()
	}()

	if err := w.addTree(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logger.Info("watching for changes")

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching")
			return nil

		case events := <-w.batches:
			onChange(ctx, events)

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("file event", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if e, ok := w.convertEvent(event); ok {
				w.debouncer.Add(e)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}

// send hands a flushed batch to Run. It gives up once Run has returned.
func (w *Watcher) send(events []Event) {
	select {
	case w.batches <- events:
	case <-w.done:
	}
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.fsWatcher.Add(path)
	})
}

// convertEvent maps an fsnotify event to an Event. Permission-only changes
// and filtered paths are dropped.
func (w *Watcher) convertEvent(event fsnotify.Event) (Event, bool) {
	if w.filter != nil && !w.filter(event.Name) {
		return Event{}, false
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return Event{}, false
	}

	return Event{Path: event.Name, Op: op}, true
}
