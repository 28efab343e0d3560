package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"clipmark/internal/clipwatch"
	"clipmark/internal/config"
	"clipmark/internal/formstate"
	"clipmark/internal/notify"
	"clipmark/internal/store"
	"clipmark/internal/workerutil"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...interface{})
	Infof(context.Context, string, ...interface{})
	Errorf(context.Context, string, ...interface{})
}

type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	runtimeWindowHideFn                            = runtime.WindowHide
	runtimeWindowShowFn                            = runtime.WindowShow
	runtimeWindowUnminimiseFn                      = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	openStoreFn                                    = store.Open
	newConfigWatcherFn                             = config.NewWatcher
)

const (
	shutdownWaitTimeout = 10 * time.Second
	databaseFileName    = "clipmark.db"
)

func (a *App) addPendingConfigLoadWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	a.startupWarnMu.Lock()
	a.configLoadWarnings = append(a.configLoadWarnings, trimmed)
	a.startupWarnMu.Unlock()
}

func (a *App) consumePendingConfigLoadWarning() string {
	a.startupWarnMu.Lock()
	defer a.startupWarnMu.Unlock()
	if len(a.configLoadWarnings) == 0 {
		return ""
	}
	message := strings.Join(a.configLoadWarnings, "\n")
	a.configLoadWarnings = nil
	return message
}

func (a *App) flushPendingConfigLoadWarnings() {
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	if warning := a.consumePendingConfigLoadWarning(); warning != "" {
		a.emitRuntimeEventWithContext(ctx, configLoadFailedEventName, map[string]string{
			"message": warning,
		})
	}
}

func (a *App) startup(ctx context.Context) {
	a.setRuntimeContext(ctx)

	if a.configPath == "" {
		a.configPath = config.DefaultPath()
	}
	for _, message := range config.ConsumeDefaultPathWarnings() {
		a.addPendingConfigLoadWarning(message)
	}

	cfg, err := config.EnsureFile(a.configPath)
	if err != nil {
		// Config load failures are non-fatal. Continue with defaults and
		// surface a warning to the user.
		cfg = config.DefaultConfig()
		a.addPendingConfigLoadWarning(
			"Failed to load config file at startup. Running with defaults. Error: " + err.Error(),
		)
		runtimeLogger.Warningf(ctx, "failed to load config from %s: %v", a.configPath, err)
	}
	a.form.Set(cfg, formstate.OriginLoad)
	a.configureShortcuts(cfg)

	a.openStore(ctx)
	a.forwardBusTopics()

	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancel = cancel
	a.startConfigWatcher(bgCtx)
	a.startClipboardWatcher(bgCtx)

	// Warnings are not flushed here: the frontend has not registered its
	// event handlers yet. GetConfigAndFlushWarnings delivers them.
}

func (a *App) configureShortcuts(cfg config.AppConfig) {
	logCtx := a.runtimeContext()
	if err := a.applyShortcuts(cfg); err != nil {
		runtimeLogger.Warningf(logCtx, "shortcut registration failed: %v", err)
		if isShortcutConflict(err) {
			a.addPendingConfigLoadWarning("A configured shortcut is taken. Choose another one in settings. Error: " + err.Error())
			return
		}
		a.addPendingConfigLoadWarning("Shortcuts could not be registered. Error: " + err.Error())
		return
	}
	runtimeLogger.Infof(logCtx, "shortcuts registered: open=%s bookmark=%s",
		cfg.OpenShortcut, cfg.BookmarkShortcut)
}

func (a *App) openStore(ctx context.Context) {
	if a.dbPath == "" {
		a.dbPath = filepath.Join(config.DataDir(), databaseFileName)
	}
	st, err := openStoreFn(ctx, a.dbPath)
	if err != nil {
		runtimeLogger.Errorf(ctx, "failed to open database %s: %v", a.dbPath, err)
		a.addPendingConfigLoadWarning(
			"Bookmarks and clipboard history are unavailable. Error: " + err.Error(),
		)
		return
	}
	a.store = st
	a.clip = clipwatch.New(st, a.maxItems, a.publishClipboard)
}

func (a *App) startConfigWatcher(ctx context.Context) {
	watcher, err := newConfigWatcherFn(a.configPath, a.applyExternalConfig)
	if err != nil {
		runtimeLogger.Warningf(a.runtimeContext(), "config watcher unavailable: %v", err)
		return
	}
	workerutil.RunWithPanicRecovery(ctx, "config-watcher", &a.bgWG, watcher.Run, a.recoveryOptions())
}

func (a *App) startClipboardWatcher(ctx context.Context) {
	if a.clip == nil {
		slog.Debug("[DEBUG-CLIP] clipboard watcher skipped because store is unavailable")
		return
	}
	workerutil.RunWithPanicRecovery(ctx, "clipboard-watcher", &a.bgWG, a.clip.Run, a.recoveryOptions())
}

func (a *App) recoveryOptions() workerutil.RecoveryOptions {
	return workerutil.RecoveryOptions{
		OnPanic: func(worker string, _ int) {
			a.emitRuntimeEvent("app:worker-panic", map[string]any{"worker": worker})
		},
		OnFatal: func(worker string, maxRetries int) {
			a.emitRuntimeEvent("app:worker-fatal", map[string]any{
				"worker":     worker,
				"maxRetries": maxRetries,
			})
		},
		IsShutdown: a.shuttingDown.Load,
	}
}

func (a *App) maxItems() int {
	return a.form.Get().MaxItems
}

func (a *App) shutdown(_ context.Context) {
	logCtx := a.runtimeContext()
	a.shuttingDown.Store(true)

	if a.bgCancel != nil {
		a.bgCancel()
		a.bgCancel = nil
	}
	if !waitWithTimeout(a.bgWG.Wait, shutdownWaitTimeout) {
		runtimeLogger.Warningf(logCtx, "timed out waiting for background workers during shutdown")
	}

	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	a.subscriptions = nil
	if a.formUnsubscribe != nil {
		a.formUnsubscribe()
		a.formUnsubscribe = nil
	}
	for owner := range a.hotkeys.Bindings() {
		a.hotkeys.Unregister(owner)
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			runtimeLogger.Warningf(logCtx, "database close failed: %v", err)
		}
	}
}

func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	// The waiting goroutine may outlive timeout when waitFn blocks
	// indefinitely. Only used during shutdown.
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// showWindow is the open-shortcut action.
func (a *App) showWindow() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Warn("[DEBUG-hotkey] showWindow dropped because runtime context is nil")
		return
	}
	a.raiseWindow(ctx)
}

func (a *App) raiseWindow(ctx context.Context) {
	runtimeWindowShowFn(ctx)
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowSetAlwaysOnTopFn(ctx, true)
	runtimeWindowSetAlwaysOnTopFn(ctx, false)
}

// toggleNewestBookmark is the bookmark-shortcut action: it bookmarks the
// newest clipboard entry, or removes the bookmark if it already exists.
func (a *App) toggleNewestBookmark() {
	st, err := a.requireStore()
	if err != nil {
		slog.Debug("[DEBUG-hotkey] bookmark shortcut ignored", "error", err)
		return
	}
	ctx := a.operationContext()
	item, err := st.HistoryItem(ctx, 0)
	if err != nil {
		slog.Debug("[DEBUG-hotkey] bookmark shortcut ignored, no clipboard entry", "error", err)
		return
	}
	added, err := st.ToggleBookmark(ctx, item)
	if err != nil {
		slog.Warn("[hotkey] bookmark toggle failed", "error", err)
		return
	}
	slog.Info("[hotkey] bookmark toggled", "added", added)
	a.publishBookmarks()
}

func (a *App) trimHistory(maxItems int) {
	if a.store == nil {
		return
	}
	trimmed, err := a.store.TrimHistory(a.operationContext(), maxItems)
	if err != nil {
		slog.Warn("[WARN-CONFIG] history trim failed", "error", err)
		return
	}
	if trimmed {
		a.publishClipboard()
	}
}

// subscribeBus records sub so shutdown can release it.
func (a *App) subscribeBus(topic string, fn notify.Handler) {
	a.subscriptions = append(a.subscriptions, a.bus.Subscribe(topic, fn))
}
