// Package watch reports changes to a single file on disk.
//
// The parent directory is watched rather than the file itself: editors and
// tools commonly save by writing a temp file and renaming it over the
// original, which would silently detach a watch placed on the old inode.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/logging"
)

// DefaultDebounce is how long a burst of events must settle before one
// change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Event is a settled change to the watched file.
type Event struct {
	Path      string
	Timestamp time.Time
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) { w.debounce = d }
}

// FileWatcher watches one file and emits an Event per settled change.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan Event
	log      zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher starts watching path.
func NewFileWatcher(path string, opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &FileWatcher{
		path:     abs,
		watcher:  watcher,
		debounce: DefaultDebounce,
		// One slot: changes that pile up while nobody reads collapse into one.
		events: make(chan Event, 1),
		log:    logging.Component("watch"),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string { return w.path }

// Events returns the change channel. It is closed by Close.
func (w *FileWatcher) Events() <-chan Event { return w.events }

// Close stops watching and closes the Events channel.
func (w *FileWatcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	close(w.events)
	w.mu.Unlock()
	return err
}

func (w *FileWatcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Str("path", w.path).Msg("watch error")
		}
	}
}

func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.emit)
}

func (w *FileWatcher) emit() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}

	select {
	case w.events <- Event{Path: w.path, Timestamp: time.Now()}:
		w.log.Debug().Str("path", w.path).Msg("file changed")
	default:
		// A change is already pending.
	}
}

// File calls onChange after every settled change to path until ctx is done.
func File(ctx context.Context, path string, onChange func(), opts ...Option) error {
	w, err := NewFileWatcher(path, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Events():
			if !ok {
				return nil
			}
			onChange()
		}
	}
}
