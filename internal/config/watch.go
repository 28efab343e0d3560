package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an atomic save produces
// (create temp, write, rename) into one reload.
const watchDebounce = 100 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk.
// The parent directory is watched rather than the file, because atomic
// writers replace the file and a file watch would be lost on rename.
type Watcher struct {
	path     string
	onChange func(AppConfig)
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher starts watching the directory of path. onChange receives the
// freshly loaded config after each settled change; load failures are logged
// and skipped.
func NewWatcher(path string, onChange func(AppConfig)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: resolve path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, fmt.Errorf("watch config: add %q: %w", filepath.Dir(absPath), err)
	}
	return &Watcher{
		path:     absPath,
		onChange: onChange,
		fsw:      fsw,
		debounce: watchDebounce,
	}, nil
}

// Run processes file events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Warn("[WARN-CONFIG] failed to close config watcher", "error", err)
		}
	}()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("[WARN-CONFIG] config watcher error", "error", err)
		case <-timerC:
			timerC = nil
			w.reload()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("[WARN-CONFIG] reload after external edit failed, keeping current config",
			"path", w.path, "error", err)
		return
	}
	slog.Debug("[DEBUG-CONFIG] config reloaded from disk", "path", w.path)
	w.onChange(cfg)
}
