package main

import (
	"log/slog"
	"os"

	"clipmark/internal/applog"
)

const logEntryEventName = "app:log"

// newAppLogHandler writes to stderr and copies warnings and errors into app.
func newAppLogHandler(app *App, level slog.Level) slog.Handler {
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return applog.NewTeeHandler(base, slog.LevelWarn, app.recordLogEntry)
}

// recordLogEntry is the applog sink installed by main. It must not log:
// it runs inside the slog handler.
func (a *App) recordLogEntry(entry applog.Entry) {
	a.logs.Add(entry)
	if ctx := a.runtimeContext(); ctx != nil {
		runtimeEventsEmitFn(ctx, logEntryEventName, entry)
	}
}

// GetLogEntries returns recent warnings and errors, oldest first.
func (a *App) GetLogEntries() []applog.Entry {
	return a.logs.Entries()
}

// ClearLogEntries empties the warning list shown in the UI.
func (a *App) ClearLogEntries() {
	a.logs.Clear()
}
