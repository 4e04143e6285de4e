package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is used when fsnotify is unavailable.
const DefaultPollInterval = 2 * time.Second

// Watcher calls a function whenever a gallery file changes on disk.
type Watcher struct {
	path         string
	debouncer    *Debouncer
	pollInterval time.Duration
	log          zerolog.Logger
	onChange     func()
	polling      bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debouncer = NewDebouncer(d) }
}

// WithPollInterval sets the fallback polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// ForcePolling skips fsnotify entirely.
func ForcePolling() Option {
	return func(w *Watcher) { w.polling = true }
}

// New creates a watcher for path. onChange runs on a timer goroutine after
// the debounce window, never concurrently with itself for one burst.
func New(path string, onChange func(), opts ...Option) *Watcher {
	w := &Watcher{
		path:         path,
		debouncer:    NewDebouncer(0),
		pollInterval: DefaultPollInterval,
		log:          zerolog.Nop(),
		onChange:     onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. It watches the file's directory, since
// editors often replace files instead of writing them in place, and falls
// back to polling the modification time when fsnotify cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	if w.path == "" {
		return fmt.Errorf("watcher: empty path")
	}
	defer w.debouncer.Cancel()

	if !w.polling {
		err := w.runNotify(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		w.log.Warn().Err(err).Str("path", w.path).Msg("fsnotify unavailable, falling back to polling")
	}
	return w.runPoll(ctx)
}

func (w *Watcher) runNotify(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	name := filepath.Base(abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher: event channel closed")
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("gallery file changed")
			w.debouncer.Trigger(w.onChange)
		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher: error channel closed")
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context) error {
	last := modTime(w.path)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := modTime(w.path)
			if !current.Equal(last) {
				last = current
				w.debouncer.Trigger(w.onChange)
			}
		}
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
