package document

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor emits on save
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to one document file. The containing directory is
// watched so that files replaced by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
}

// NewWatcher starts watching path. Events that happen after NewWatcher
// returns are delivered by Run.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, fs: fs}, nil
}

// Run calls onChange once per settled burst of writes to the file. It blocks
// until ctx is cancelled and closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer func() { _ = w.fs.Close() }()

	log.Printf("[document] watching %s", w.path)

	// Reset and Stop need no draining with Go 1.23 timers
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			log.Printf("[document] %s changed", w.path)
			onChange(w.path)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Printf("[document] watcher error: %v", err)

		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Close stops the watcher without running it
func (w *Watcher) Close() error {
	return w.fs.Close()
}
