// Package watcher watches the config file and publishes debounced change
// notifications, so the demo can pick up edits made in another editor.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/maskedit/internal/log"
	"github.com/zjrosen/maskedit/internal/pubsub"
)

// EventType distinguishes watcher notifications.
type EventType int

const (
	// FileChanged means the watched file was written, created or replaced.
	FileChanged EventType = iota
	// WatchError carries an error reported by the file system watcher.
	WatchError
)

// Event is the payload published on the watcher's broker.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// Config holds watcher configuration options.
type Config struct {
	Path     string
	Debounce time.Duration
}

// DefaultConfig returns sensible defaults for watching path.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 200 * time.Millisecond,
	}
}

// Watcher monitors one file. It watches the parent directory because saves
// replace the file with an atomic rename.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[Event]
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher for cfg.Path. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		path:      filepath.Clean(cfg.Path),
		debounce:  cfg.Debounce,
		broker:    pubsub.NewBroker[Event](),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker change events are published on.
func (w *Watcher) Broker() *pubsub.Broker[Event] {
	return w.broker
}

// Start begins watching the file's directory.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatConfig, "Watching config", "path", w.path)
	go w.loop()
	return nil
}

// Stop terminates the watcher and closes its broker. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.broker.Close()
	})
	return err
}

// loop coalesces bursts of events into one notification per quiet period.
func (w *Watcher) loop() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			log.Debug(log.CatConfig, "Config changed on disk", "path", w.path)
			w.broker.Publish(pubsub.FileEvent, Event{Type: FileChanged, Path: w.path})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatConfig, "Config watcher error", "error", err)
			w.broker.Publish(pubsub.FileEvent, Event{Type: WatchError, Path: w.path, Error: err})

		case <-w.done:
			return
		}
	}
}

// isRelevantEvent reports whether event touches the watched file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
