package watcher

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects events until no new event has arrived for window, then
// hands the batch to onFlush. Repeated events for a path keep the latest.
type Debouncer struct {
	window  time.Duration
	events  map[string]Event
	mu      sync.Mutex
	timer   *time.Timer
	onFlush func([]Event)
	stopped bool
}

// NewDebouncer creates a Debouncer. onFlush runs on a timer goroutine, or on
// the caller of Stop, and receives events sorted by path.
func NewDebouncer(window time.Duration, onFlush func([]Event)) *Debouncer {
	return &Debouncer{
		window:  window,
		events:  make(map[string]Event),
		onFlush: onFlush,
	}
}

// Add queues event and restarts the quiet-period timer. It is a no-op after
// Stop.
func (d *Debouncer) Add(event Event) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.events[event.Path] = event

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if !d.stopped {
			d.flushLocked()
		} else {
			d.mu.Unlock()
		}
	})

	d.mu.Unlock()
}

// flushLocked must be called with mu held; it releases mu before calling
// onFlush.
func (d *Debouncer) flushLocked() {
	events := make([]Event, 0, len(d.events))
	for _, event := range d.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	d.events = make(map[string]Event)

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.mu.Unlock()

	if len(events) > 0 && d.onFlush != nil {
		d.onFlush(events)
	}
}

// Stop cancels the pending timer and flushes whatever is queued. Later
// calls to Add are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(d.events) > 0 {
		d.flushLocked()
	} else {
		d.mu.Unlock()
	}
}
