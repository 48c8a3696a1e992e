package record

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // file rewritten and still parses
	ChangeRemoved                    // file deleted or renamed away
	ChangeInvalid                    // file present but unreadable or malformed
)

// Change is a debounced change to the watched chart file.
type Change struct {
	Kind   ChangeKind
	Record Record // set for ChangeModified
	Err    error  // set for ChangeInvalid
	File   string
}

// Watcher monitors one chart file. It watches the parent directory so that
// editors that save by renaming a temp file over the original are seen.
type Watcher struct {
	File    string
	Changes <-chan Change // Read-only external channel

	changes  chan Change // Internal write channel
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the chart file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		File:    abs,
		Changes: ch,
		changes: ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It does not wait for the
// consumer to drain pending changes, and it is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.watcher.Close()
		<-w.done // Wait for loop to exit
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Editors often write a file in several steps; coalesce them.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emitChange()
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				w.emitChange()
				pending = time.Time{}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) emitChange() {
	c := Change{File: w.File}
	r, err := Load(w.File)
	switch {
	case err == nil:
		c.Kind, c.Record = ChangeModified, r
	case errors.Is(err, os.ErrNotExist):
		c.Kind = ChangeRemoved
	default:
		c.Kind, c.Err = ChangeInvalid, err
	}
	// A consumer that stopped reading must not block Stop.
	select {
	case w.changes <- c:
	case <-w.stop:
	}
}
