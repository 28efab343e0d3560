package main

import (
	"errors"
	"testing"

	"clipmark/internal/capture"
	"clipmark/internal/config"
	"clipmark/internal/formstate"
)

func TestShortcutCaptureCommitsToModel(t *testing.T) {
	app := NewApp()
	field := string(capture.FieldOpenShortcut)

	if _, err := app.FocusShortcut(field); err != nil {
		t.Fatalf("FocusShortcut() error = %v", err)
	}
	steps := []struct {
		ev             capture.KeyEvent
		wantValue      string
		preventDefault bool
	}{
		{ev: capture.KeyEvent{Key: "Control", Code: "ControlLeft", Ctrl: true}, wantValue: "Ctrl", preventDefault: true},
		{ev: capture.KeyEvent{Key: "Shift", Code: "ShiftLeft", Ctrl: true, Shift: true}, wantValue: "Ctrl+Shift", preventDefault: false},
		{ev: capture.KeyEvent{Key: "k", Code: "KeyK", Ctrl: true, Shift: true}, wantValue: "Ctrl+Shift+K", preventDefault: true},
	}
	for _, step := range steps {
		out, err := app.ShortcutKeyDown(field, step.ev)
		if err != nil {
			t.Fatalf("ShortcutKeyDown(%+v) error = %v", step.ev, err)
		}
		if out.Value != step.wantValue || out.PreventDefault != step.preventDefault {
			t.Fatalf("ShortcutKeyDown(%q) = %+v, want value %q preventDefault %v",
				step.ev.Key, out, step.wantValue, step.preventDefault)
		}
		if got := app.GetConfig().OpenShortcut; got != step.wantValue {
			t.Fatalf("model open shortcut = %q, want %q", got, step.wantValue)
		}
	}

	out, err := app.ShortcutKeyUp(field)
	if err != nil {
		t.Fatal(err)
	}
	if out.State != capture.StateComplete || out.Value != "Ctrl+Shift+K" {
		t.Fatalf("ShortcutKeyUp() = %+v", out)
	}
	if out, _ := app.BlurShortcut(field); out.Value != "Ctrl+Shift+K" || out.State != capture.StateIdle {
		t.Fatalf("BlurShortcut() = %+v", out)
	}
	// Capture edits the model but does not save.
	if got := app.hotkeys.Bindings(); len(got) != 0 {
		t.Fatalf("Bindings() = %v, capture must not register", got)
	}
}

func TestShortcutCaptureClearsIncompleteOnRelease(t *testing.T) {
	app := NewApp()
	field := string(capture.FieldBookmarkShortcut)

	if _, err := app.FocusShortcut(field); err != nil {
		t.Fatal(err)
	}
	if _, err := app.ShortcutKeyDown(field, capture.KeyEvent{Key: "Control", Code: "ControlLeft", Ctrl: true}); err != nil {
		t.Fatal(err)
	}
	out, err := app.ShortcutKeyUp(field)
	if err != nil {
		t.Fatal(err)
	}
	if out.Value != "" || out.State != capture.StateEmpty {
		t.Fatalf("ShortcutKeyUp() = %+v, want cleared", out)
	}
	if got := app.GetConfig().BookmarkShortcut; got != "" {
		t.Fatalf("model bookmark shortcut = %q, want empty", got)
	}

	// Blurring an empty field brings back the value from before focus.
	out, err = app.BlurShortcut(field)
	if err != nil {
		t.Fatal(err)
	}
	want := config.DefaultConfig().BookmarkShortcut
	if out.Value != want || app.GetConfig().BookmarkShortcut != want {
		t.Fatalf("BlurShortcut() = %+v, model = %q, want %q", out, app.GetConfig().BookmarkShortcut, want)
	}
}

func TestShortcutCaptureDeniedKeyPassesThrough(t *testing.T) {
	app := NewApp()
	field := string(capture.FieldOpenShortcut)
	if _, err := app.FocusShortcut(field); err != nil {
		t.Fatal(err)
	}
	out, err := app.ShortcutKeyDown(field, capture.KeyEvent{Key: "Escape", Code: "Escape"})
	if err != nil {
		t.Fatal(err)
	}
	if out.PreventDefault {
		t.Fatal("Escape should not prevent default")
	}
	if state, _ := app.GetShortcutState(field); state != capture.StateEmpty {
		t.Fatalf("GetShortcutState() = %v, want empty", state)
	}
}

func TestShortcutCaptureUnknownField(t *testing.T) {
	app := NewApp()
	if _, err := app.FocusShortcut("pasteShortcut"); !errors.Is(err, capture.ErrUnknownField) {
		t.Fatalf("FocusShortcut(unknown) error = %v, want ErrUnknownField", err)
	}
	if _, err := app.GetShortcutState("pasteShortcut"); !errors.Is(err, capture.ErrUnknownField) {
		t.Fatalf("GetShortcutState(unknown) error = %v, want ErrUnknownField", err)
	}
}

func TestSyncCaptureFieldsFollowsExternalChanges(t *testing.T) {
	app := NewApp()
	next := config.DefaultConfig()
	next.OpenShortcut = "Alt+Shift+O"

	app.form.Set(next, formstate.OriginExternal)
	if got, _ := app.capture.Value(capture.FieldOpenShortcut); got != "Alt+Shift+O" {
		t.Fatalf("visible open field = %q, want Alt+Shift+O", got)
	}

	// A field being captured keeps what the user is typing.
	if _, err := app.FocusShortcut(string(capture.FieldOpenShortcut)); err != nil {
		t.Fatal(err)
	}
	next.OpenShortcut = "Ctrl+Alt+P"
	app.form.Set(next, formstate.OriginSave)
	if got, _ := app.capture.Value(capture.FieldOpenShortcut); got != "" {
		t.Fatalf("visible open field during capture = %q, want empty", got)
	}
}

func TestSyncCaptureFieldsIgnoresCaptureOrigin(t *testing.T) {
	app := NewApp()
	next := config.DefaultConfig()
	next.BookmarkShortcut = "Ctrl+Alt+X"

	app.form.Set(next, formstate.OriginCapture)
	if got, _ := app.capture.Value(capture.FieldBookmarkShortcut); got != config.DefaultConfig().BookmarkShortcut {
		t.Fatalf("visible bookmark field = %q, capture-origin writes must not sync back", got)
	}
}

func TestCapturedAcceleratorCanBeSaved(t *testing.T) {
	recordRuntimeEvents(t)
	app := newAPITestApp(t)
	field := string(capture.FieldOpenShortcut)

	if _, err := app.FocusShortcut(field); err != nil {
		t.Fatal(err)
	}
	for _, ev := range []capture.KeyEvent{
		{Key: "Control", Code: "ControlLeft", Ctrl: true},
		{Key: "PrintScreen", Code: "PrintScreen", Ctrl: true, Shift: true},
	} {
		if _, err := app.ShortcutKeyDown(field, ev); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := app.ShortcutKeyUp(field); err != nil {
		t.Fatal(err)
	}
	if out, _ := app.BlurShortcut(field); out.Value != "Ctrl+Shift+PrintScreen" {
		t.Fatalf("BlurShortcut() = %+v", out)
	}

	cfg := app.GetConfig()
	if res := app.ValidateConfig(cfg); !res.Valid() {
		t.Fatalf("ValidateConfig() = %+v", res)
	}
	if err := app.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if got := app.hotkeys.Bindings()[field]; got != "Ctrl+Shift+PrintScreen" {
		t.Fatalf("open binding = %q", got)
	}
}

func TestExternalConfigKeepsFieldUnderCapture(t *testing.T) {
	recordRuntimeEvents(t)
	app := newAPITestApp(t)
	field := string(capture.FieldOpenShortcut)

	if _, err := app.FocusShortcut(field); err != nil {
		t.Fatal(err)
	}
	if _, err := app.ShortcutKeyDown(field, capture.KeyEvent{Key: "x", Code: "KeyX", Ctrl: true, Shift: true}); err != nil {
		t.Fatal(err)
	}

	external := config.DefaultConfig()
	external.MaxItems = 20
	external.BookmarkShortcut = "Alt+Shift+K"
	app.applyExternalConfig(external)

	got := app.GetConfig()
	if got.OpenShortcut != "Ctrl+Shift+X" {
		t.Fatalf("model open shortcut = %q, want captured Ctrl+Shift+X", got.OpenShortcut)
	}
	if got.MaxItems != 20 || got.BookmarkShortcut != "Alt+Shift+K" {
		t.Fatalf("external fields not applied: %+v", got)
	}

	if _, err := app.ShortcutKeyUp(field); err != nil {
		t.Fatal(err)
	}
	out, err := app.BlurShortcut(field)
	if err != nil {
		t.Fatal(err)
	}
	if model := app.GetConfig().OpenShortcut; out.Value != "Ctrl+Shift+X" || model != out.Value {
		t.Fatalf("visible after blur = %q, model = %q", out.Value, model)
	}
}

func TestGetDeniedKeyCodesMatchesCapture(t *testing.T) {
	app := NewApp()
	codes := app.GetDeniedKeyCodes()
	if len(codes) != 17 {
		t.Fatalf("len(GetDeniedKeyCodes()) = %d, want 17", len(codes))
	}
	for _, code := range codes {
		if !capture.IsDenied(code) {
			t.Fatalf("%q listed but not denied", code)
		}
	}
}
