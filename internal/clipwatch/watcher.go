// Package clipwatch polls the system clipboard and records new text in the
// clipboard history.
package clipwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"clipmark/internal/workerutil"
)

// DefaultInterval is how often the clipboard is sampled.
const DefaultInterval = 500 * time.Millisecond

// Test seams over the system clipboard.
var (
	readClipboardFn  = clipboard.ReadAll
	writeClipboardFn = clipboard.WriteAll
	unsupportedFn    = func() bool { return clipboard.Unsupported }
)

// ErrUnsupported is returned by Write when no clipboard backend exists.
var ErrUnsupported = errors.New("clipboard is not supported on this system")

// Recorder stores clipboard text. store.Store satisfies it.
type Recorder interface {
	AddHistoryItem(ctx context.Context, item string, maxItems int) (bool, error)
}

// Watcher samples the clipboard and feeds changes to a Recorder.
type Watcher struct {
	rec      Recorder
	maxItems func() int
	onChange func()
	interval time.Duration

	mu       sync.Mutex
	last     string
	readFail bool
}

// New creates a watcher. maxItems is consulted on every change so config
// edits apply immediately; onChange runs after the history changed and may
// be nil.
func New(rec Recorder, maxItems func() int, onChange func()) *Watcher {
	return &Watcher{
		rec:      rec,
		maxItems: maxItems,
		onChange: onChange,
		interval: DefaultInterval,
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if unsupportedFn() {
		slog.Warn("[DEBUG-CLIP] no clipboard backend available, history capture disabled")
		return
	}
	workerutil.Every(ctx, w.interval, func(ctx context.Context) {
		if _, err := w.Poll(ctx); err != nil {
			slog.Warn("[DEBUG-CLIP] failed to record clipboard text", "error", err)
		}
	})
}

// Poll samples the clipboard once and reports whether the history changed.
// Read failures are logged once per failure streak and otherwise ignored,
// since an empty or non-text clipboard also fails to read on some systems.
func (w *Watcher) Poll(ctx context.Context) (bool, error) {
	text, err := readClipboardFn()

	w.mu.Lock()
	if err != nil {
		if !w.readFail {
			slog.Debug("[DEBUG-CLIP] clipboard read failed", "error", err)
		}
		w.readFail = true
		w.mu.Unlock()
		return false, nil
	}
	w.readFail = false
	if text == "" || text == w.last {
		w.mu.Unlock()
		return false, nil
	}
	w.mu.Unlock()

	// last advances only after the text is stored.
	changed, err := w.rec.AddHistoryItem(ctx, text, w.limit())
	if err != nil {
		return false, err
	}
	w.mu.Lock()
	w.last = text
	w.mu.Unlock()
	if changed {
		slog.Debug("[DEBUG-CLIP] clipboard history updated", "length", len(text))
		if w.onChange != nil {
			w.onChange()
		}
	}
	return changed, nil
}

// Write places text on the system clipboard. The next poll records it as
// the newest history entry.
func (w *Watcher) Write(text string) error {
	if unsupportedFn() {
		return ErrUnsupported
	}
	if err := writeClipboardFn(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func (w *Watcher) limit() int {
	if w.maxItems == nil {
		return 1
	}
	return w.maxItems()
}
