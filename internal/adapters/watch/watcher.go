// Package watch provides file system watching for sheet files, so the
// editor learns when a sheet changed on disk behind its back and a
// reconcile pass is due.
package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventOp represents the type of file system operation.
type EventOp int

const (
	// OpCreate indicates a new sheet file was created.
	OpCreate EventOp = iota
	// OpModify indicates an existing sheet file was modified.
	OpModify
	// OpDelete indicates a sheet file was deleted or renamed away.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// SheetEvent represents a file system event for a sheet file.
type SheetEvent struct {
	// Path is the absolute path to the sheet file that changed.
	Path string
	// Op is the operation that occurred (create, modify, delete).
	Op EventOp
	// Autosave is true when the event is for an autosaved copy rather
	// than a primary file.
	Autosave bool
}

// SheetWatcher watches a project directory for changes to sheet files.
// It uses fsnotify for cross-platform file system event monitoring.
// Backup directories are not watched: the retention policy is the only
// writer there.
type SheetWatcher struct {
	watcher    *fsnotify.Watcher
	events     chan SheetEvent
	errors     chan error
	done       chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
	projectDir string
	ext        string
}

// NewSheetWatcher creates a new SheetWatcher instance. The watcher must
// be started with Start() before it will emit events.
func NewSheetWatcher(ext string) (*SheetWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &SheetWatcher{
		watcher: watcher,
		events:  make(chan SheetEvent, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
		ext:     ext,
	}, nil
}

// Start begins watching the project directory for sheet file events.
func (sw *SheetWatcher) Start(projectDir string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.running {
		return fmt.Errorf("watcher already running")
	}
	sw.projectDir = projectDir

	if err := sw.watcher.Add(projectDir); err != nil {
		return fmt.Errorf("failed to watch project directory %s: %w", projectDir, err)
	}

	sw.running = true
	sw.wg.Add(1)
	go sw.processEvents()

	return nil
}

// Stop stops watching for file system events and cleans up resources.
// It blocks until the event processing goroutine has exited.
func (sw *SheetWatcher) Stop() error {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return nil
	}
	sw.running = false
	sw.mu.Unlock()

	close(sw.done)

	// Closing the underlying watcher unblocks the event loop
	if err := sw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	sw.wg.Wait()

	close(sw.events)
	close(sw.errors)

	return nil
}

// Events returns the channel that emits SheetEvent notifications.
// This channel is closed when the watcher is stopped.
func (sw *SheetWatcher) Events() <-chan SheetEvent {
	return sw.events
}

// Errors returns the channel that emits error notifications.
// This channel is closed when the watcher is stopped.
func (sw *SheetWatcher) Errors() <-chan error {
	return sw.errors
}

// processEvents is the main event loop that converts fsnotify events
// to SheetEvent notifications.
func (sw *SheetWatcher) processEvents() {
	defer sw.wg.Done()

	for {
		select {
		case <-sw.done:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if sheetEvent, ok := sw.convertEvent(event); ok {
				select {
				case sw.events <- sheetEvent:
				case <-sw.done:
					return
				}
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case sw.errors <- err:
			case <-sw.done:
				return
			}
		}
	}
}

// convertEvent converts an fsnotify event to a SheetEvent. Returns
// false when the event is not for a sheet file.
func (sw *SheetWatcher) convertEvent(event fsnotify.Event) (SheetEvent, bool) {
	if filepath.Ext(event.Name) != sw.ext {
		return SheetEvent{}, false
	}

	se := SheetEvent{
		Path:     event.Name,
		Autosave: strings.HasSuffix(event.Name, ".autosave"+sw.ext),
	}
	switch {
	case event.Has(fsnotify.Create):
		se.Op = OpCreate
	case event.Has(fsnotify.Write):
		se.Op = OpModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		se.Op = OpDelete
	default:
		return SheetEvent{}, false
	}
	return se, true
}
