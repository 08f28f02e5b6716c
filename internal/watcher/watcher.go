// Package watcher notifies the app when the open document changes on disk,
// coalescing bursts of file system events into a single signal.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 500 * time.Millisecond,
	}
}

// Watcher monitors the open document for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	docPath   string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// New creates a new document watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		docPath:   cfg.Path,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching and returns the channel that signals document
// changes. The document's directory is watched rather than the file itself:
// editors that save atomically replace the file, which drops a direct watch.
func (w *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.docPath)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop debounces relevant events. The timer is allocated once; fire is nil
// while no signal is pending, so the timer case stays disabled.
func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if fire != nil && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.onChange <- struct{}{}:
			default:
				// A signal is already queued, one reload covers both.
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching. Callers can wrap the watcher if they need
			// error visibility.

		case <-w.done:
			return
		}
	}
}

// isRelevantEvent reports whether the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Write for in-place saves, Create and Rename for atomic replacement.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(w.docPath)
}
