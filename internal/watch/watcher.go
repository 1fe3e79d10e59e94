// Package watch monitors the config file for changes. The dance command's
// encore mode consults it between routine repeats so tempo and threshold
// edits take effect without restarting.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ballet-labs/vacballet/pkg/log"
)

const debounceDelay = 100 * time.Millisecond

// Watcher reports writes to a single config file. Events are debounced:
// editors often produce several writes per save.
type Watcher struct {
	path    string
	logger  log.Logger
	fsw     *fsnotify.Watcher
	changed chan struct{}

	mu       sync.Mutex
	debounce *time.Timer
	closed   bool
}

// New starts watching the directory containing path for writes to path.
// The directory is watched rather than the file itself so atomic
// save-and-rename editors don't silently detach the watch.
func New(path string, logger log.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		logger:  logger,
		fsw:     fsw,
		changed: make(chan struct{}, 1),
	}
	go w.loop()
	return w, nil
}

// Changed receives one value per (debounced) config file change.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.kick()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", log.Err(err))
		}
	}
}

// kick (re)arms the debounce timer; when it fires, one change notification
// is delivered unless one is already pending.
func (w *Watcher) kick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, func() {
		select {
		case w.changed <- struct{}{}:
		default:
		}
	})
}
