package main

import (
	"errors"
	"log/slog"
	"time"

	"clipmark/internal/capture"
	"clipmark/internal/config"
	"clipmark/internal/formstate"
	"clipmark/internal/hotkeys"
)

const (
	configUpdatedEventName    = "config:updated"
	configLoadFailedEventName = "config:load-failed"
)

type configUpdatedEvent struct {
	Config             config.AppConfig `json:"config"`
	Origin             formstate.Origin `json:"origin"`
	Version            uint64           `json:"version"`
	UpdatedAtUnixMilli int64            `json:"updated_at_unix_milli"`
}

// GetConfig returns the current model value, including any accelerator
// captured but not yet saved.
func (a *App) GetConfig() config.AppConfig {
	return a.form.Get()
}

// GetConfigAndFlushWarnings returns the config and emits pending startup
// warnings.
func (a *App) GetConfigAndFlushWarnings() config.AppConfig {
	a.flushPendingConfigLoadWarnings()
	return a.form.Get()
}

// ValidateConfig reports per-field problems without saving.
func (a *App) ValidateConfig(cfg config.AppConfig) config.ValidationResult {
	return config.Validate(config.Normalize(cfg))
}

// SetConfig validates cfg, registers its shortcuts, persists it, updates the
// model and hides the window. Each step that fails leaves the previous state
// intact and the window open.
func (a *App) SetConfig(cfg config.AppConfig) error {
	event, err := a.saveConfigWithLock(cfg)
	if err != nil {
		return err
	}
	a.trimHistory(event.Config.MaxItems)
	// Event emission happens outside cfgSaveMu. Consumers treat the highest
	// Version as authoritative.
	a.emitRuntimeEvent(configUpdatedEventName, event)
	a.HideWindow()
	return nil
}

// HideWindow hides the main window. It never fails from the caller's view.
func (a *App) HideWindow() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Debug("[DEBUG-WINDOW] HideWindow ignored because runtime context is nil")
		return
	}
	runtimeWindowHideFn(ctx)
}

func (a *App) saveConfigWithLock(cfg config.AppConfig) (configUpdatedEvent, error) {
	a.cfgSaveMu.Lock()
	defer a.cfgSaveMu.Unlock()

	cfg = config.Normalize(cfg)
	if err := config.Validate(cfg).Err(); err != nil {
		return configUpdatedEvent{}, err
	}
	previous := a.registeredShortcuts()
	if err := a.applyShortcuts(cfg); err != nil {
		return configUpdatedEvent{}, err
	}
	saved, err := config.Save(a.configPath, cfg)
	if err != nil {
		if restoreErr := a.restoreShortcuts(previous); restoreErr != nil {
			slog.Warn("[hotkey] failed to restore shortcuts after save error", "error", restoreErr)
		}
		return configUpdatedEvent{}, err
	}
	a.form.Set(saved, formstate.OriginSave)
	return a.nextConfigEvent(saved, formstate.OriginSave), nil
}

// applyExternalConfig handles a config file edited outside the app.
func (a *App) applyExternalConfig(cfg config.AppConfig) {
	event, changed, err := a.applyExternalConfigWithLock(cfg)
	if err != nil {
		slog.Warn("[WARN-CONFIG] external config rejected", "error", err)
		a.emitRuntimeEvent(configLoadFailedEventName, map[string]string{
			"message": "Config file change ignored: " + err.Error(),
		})
		return
	}
	if !changed {
		return
	}
	a.trimHistory(event.Config.MaxItems)
	a.emitRuntimeEvent(configUpdatedEventName, event)
}

func (a *App) applyExternalConfigWithLock(cfg config.AppConfig) (configUpdatedEvent, bool, error) {
	a.cfgSaveMu.Lock()
	defer a.cfgSaveMu.Unlock()

	if cfg == a.form.Get() {
		return configUpdatedEvent{}, false, nil
	}
	if err := a.applyShortcuts(cfg); err != nil {
		return configUpdatedEvent{}, false, err
	}
	// A field being captured keeps its in-progress value so the model and
	// the visible field stay in agreement until blur.
	capturing := a.capturingFields()
	changed := a.form.Update(func(current config.AppConfig) config.AppConfig {
		merged := cfg
		for _, field := range capturing {
			merged = merged.WithShortcut(field, current.Shortcut(field))
		}
		return merged
	}, formstate.OriginExternal)
	if !changed {
		return configUpdatedEvent{}, false, nil
	}
	return a.nextConfigEvent(a.form.Get(), formstate.OriginExternal), true, nil
}

func (a *App) capturingFields() []capture.FieldID {
	var fields []capture.FieldID
	for _, field := range []capture.FieldID{capture.FieldOpenShortcut, capture.FieldBookmarkShortcut} {
		if session, ok := a.capture.Session(field); ok {
			slog.Debug("[DEBUG-CONFIG] external change skips field in capture",
				"field", field, "stashed", session.Stashed)
			fields = append(fields, field)
		}
	}
	return fields
}

func (a *App) nextConfigEvent(cfg config.AppConfig, origin formstate.Origin) configUpdatedEvent {
	return configUpdatedEvent{
		Config:             cfg,
		Origin:             origin,
		Version:            a.configEventVersion.Add(1),
		UpdatedAtUnixMilli: time.Now().UnixMilli(),
	}
}

// applyShortcuts registers both shortcut actions. A conflict leaves the
// previous registrations in place.
func (a *App) applyShortcuts(cfg config.AppConfig) error {
	return a.hotkeys.Apply([]hotkeys.Entry{
		{Owner: string(capture.FieldOpenShortcut), Spec: cfg.OpenShortcut, OnTrigger: a.showWindow},
		{Owner: string(capture.FieldBookmarkShortcut), Spec: cfg.BookmarkShortcut, OnTrigger: a.toggleNewestBookmark},
	})
}

func (a *App) registeredShortcuts() config.AppConfig {
	var cfg config.AppConfig
	for owner, accel := range a.hotkeys.Bindings() {
		cfg = cfg.WithShortcut(capture.FieldID(owner), accel)
	}
	return cfg
}

func (a *App) restoreShortcuts(previous config.AppConfig) error {
	if previous.OpenShortcut == "" || previous.BookmarkShortcut == "" {
		a.hotkeys.Unregister(string(capture.FieldOpenShortcut))
		a.hotkeys.Unregister(string(capture.FieldBookmarkShortcut))
		return nil
	}
	return a.applyShortcuts(previous)
}

// TriggerShortcut runs the action bound to accel, if any.
func (a *App) TriggerShortcut(accel string) bool {
	return a.hotkeys.Fire(accel)
}

// isShortcutConflict reports whether err came from the hotkey registry.
func isShortcutConflict(err error) bool {
	return errors.Is(err, hotkeys.ErrConflict)
}
