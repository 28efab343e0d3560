package main

import (
	"log/slog"

	"clipmark/internal/capture"
	"clipmark/internal/config"
	"clipmark/internal/formstate"
)

// configShortcutModel exposes the shortcut fields of the form store to the
// capture engine. Writes are tagged OriginCapture so the reverse sync can
// ignore them.
type configShortcutModel struct {
	form *formstate.Store[config.AppConfig]
}

func (m configShortcutModel) Shortcut(field capture.FieldID) string {
	return m.form.Get().Shortcut(field)
}

func (m configShortcutModel) SetShortcut(field capture.FieldID, value string) {
	m.form.Update(func(cfg config.AppConfig) config.AppConfig {
		return cfg.WithShortcut(field, value)
	}, formstate.OriginCapture)
}

// syncCaptureFields copies model changes made outside capture (load, save,
// external edit) into the visible shortcut fields.
func (a *App) syncCaptureFields(change formstate.Change[config.AppConfig]) {
	if change.Origin == formstate.OriginCapture {
		return
	}
	for _, field := range []capture.FieldID{capture.FieldOpenShortcut, capture.FieldBookmarkShortcut} {
		if a.capture.Sync(field, change.New.Shortcut(field)) {
			slog.Debug("[DEBUG-CAPTURE] field synced from model",
				"field", field, "origin", change.Origin, "version", change.Version)
		}
	}
}

// FocusShortcut starts capturing for field. The previous value is stashed
// and restored on blur if nothing is captured.
func (a *App) FocusShortcut(field string) (capture.Outcome, error) {
	return a.capture.Focus(capture.FieldID(field))
}

// ShortcutKeyDown feeds a keydown event to field. The frontend must call
// preventDefault on the DOM event when the outcome says so.
func (a *App) ShortcutKeyDown(field string, ev capture.KeyEvent) (capture.Outcome, error) {
	return a.capture.KeyDown(capture.FieldID(field), ev)
}

// ShortcutKeyUp runs the release-time completeness check for field.
func (a *App) ShortcutKeyUp(field string) (capture.Outcome, error) {
	return a.capture.KeyUp(capture.FieldID(field))
}

// BlurShortcut ends capturing for field.
func (a *App) BlurShortcut(field string) (capture.Outcome, error) {
	return a.capture.Blur(capture.FieldID(field))
}

// GetDeniedKeyCodes returns the physical key codes capture lets through to
// the browser. The frontend decides preventDefault synchronously from it.
func (a *App) GetDeniedKeyCodes() []string {
	return capture.DeniedCodes()
}

// GetShortcutState returns the capture state of field.
func (a *App) GetShortcutState(field string) (capture.State, error) {
	return a.capture.State(capture.FieldID(field))
}
