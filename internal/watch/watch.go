// Package watch keeps the active OAuth profile in sync with token refreshes
// the assistant writes to its credentials file.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events one credentials rewrite produces
const DefaultDebounce = 500 * time.Millisecond

// Capturer copies live credentials into the active profile
type Capturer interface {
	CaptureLiveCredentials() (bool, error)
}

// Watcher runs a capture shortly after every change to the watched files
type Watcher struct {
	capturer Capturer
	files    map[string]bool
	debounce time.Duration
	logger   zerolog.Logger
}

// New creates a watcher over the given files. Their parent directories are
// watched so that replace-by-rename writes are seen.
func New(capturer Capturer, logger zerolog.Logger, paths ...string) *Watcher {
	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		files[filepath.Clean(p)] = true
	}
	return &Watcher{
		capturer: capturer,
		files:    files,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// SetDebounce overrides the quiet period before a capture runs
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run captures once, then watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Info().Str("dir", dir).Msg("watching for credential changes")
	}

	w.capture()
	return w.handleEvents(ctx, watcher.Events, watcher.Errors)
}

// handleEvents debounces relevant events into captures until ctx ends or a channel closes
func (w *Watcher) handleEvents(ctx context.Context, events <-chan fsnotify.Event, errors <-chan error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("credential file changed")
			timer.Reset(w.debounce)
		case err, ok := <-errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			w.capture()
		case <-ctx.Done():
			w.logger.Info().Msg("watcher stopped")
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}

func (w *Watcher) capture() {
	changed, err := w.capturer.CaptureLiveCredentials()
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to capture credentials")
		return
	}
	if changed {
		w.logger.Info().Msg("stored refreshed credentials in the active profile")
	}
}
