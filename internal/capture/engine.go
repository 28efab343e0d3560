package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// FieldID identifies one shortcut input field.
type FieldID string

const (
	FieldOpenShortcut     FieldID = "openShortcut"
	FieldBookmarkShortcut FieldID = "bookmarkShortcut"
)

// ErrUnknownField is returned for a FieldID the engine was not built with.
var ErrUnknownField = errors.New("unknown shortcut field")

// Model is the committed store of shortcut values. The engine writes every
// keydown preview and every validator reset through SetShortcut.
//
// Implementations must not call back into the Engine synchronously from
// SetShortcut; the engine never holds its lock while calling the model.
type Model interface {
	Shortcut(field FieldID) string
	SetShortcut(field FieldID, value string)
}

// KeyEvent is a raw key event forwarded from the webview. Key is the
// layout-dependent KeyboardEvent.key; Code is the physical KeyboardEvent.code.
type KeyEvent struct {
	Key   string `json:"key"`
	Code  string `json:"code"`
	Ctrl  bool   `json:"ctrlKey"`
	Meta  bool   `json:"metaKey"`
	Shift bool   `json:"shiftKey"`
	Alt   bool   `json:"altKey"`
}

// Modifiers derives the modifier flags of the event. A key named Option
// counts as Alt.
func (e KeyEvent) Modifiers() Modifiers {
	return Modifiers{
		Ctrl:  e.Ctrl,
		Super: e.Meta,
		Shift: e.Shift,
		Alt:   e.Alt || strings.EqualFold(e.Key, "option"),
	}
}

// State is the capture state of one field.
type State int

const (
	StateIdle State = iota
	StateEmpty
	StateIncomplete
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEmpty:
		return "empty"
	case StateIncomplete:
		return "incomplete"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state name for JSON consumers.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is the transient state of one focus-to-blur interval.
type Session struct {
	Field   FieldID
	Stashed string
}

// Outcome reports the effect of one event on a field.
type Outcome struct {
	Field          FieldID `json:"field"`
	Value          string  `json:"value"`
	PreventDefault bool    `json:"preventDefault"`
	State          State   `json:"state"`
}

type fieldState struct {
	visible string
	session *Session
}

// Engine captures accelerators for a fixed set of fields. Each field has an
// independent session, so captures on different fields never interact.
type Engine struct {
	model Model

	mu     sync.Mutex
	fields map[FieldID]*fieldState
}

// NewEngine creates an engine over model. When no fields are given, the open
// and bookmark shortcut fields are used. Visible values start from the model.
func NewEngine(model Model, fields ...FieldID) *Engine {
	if len(fields) == 0 {
		fields = []FieldID{FieldOpenShortcut, FieldBookmarkShortcut}
	}
	e := &Engine{
		model:  model,
		fields: make(map[FieldID]*fieldState, len(fields)),
	}
	for _, id := range fields {
		e.fields[id] = &fieldState{visible: model.Shortcut(id)}
	}
	return e
}

// Focus opens a session: the visible value is stashed and cleared. The model
// keeps its value until a key event commits a new one. Focusing a field that
// already has a session keeps the original stash.
func (e *Engine) Focus(field FieldID) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fs, err := e.lookupLocked(field)
	if err != nil {
		return Outcome{}, err
	}
	if fs.session == nil {
		fs.session = &Session{Field: field, Stashed: fs.visible}
		fs.visible = ""
		slog.Debug("[DEBUG-CAPTURE] session opened", "field", field, "stashed", fs.session.Stashed)
	}
	return outcomeLocked(field, fs, false), nil
}

// KeyDown runs the denylist filter and, for accepted keys, assembles the
// accelerator and writes it to the visible field and the model.
func (e *Engine) KeyDown(field FieldID, ev KeyEvent) (Outcome, error) {
	if IsDenied(ev.Code) {
		slog.Debug("[DEBUG-CAPTURE] denied key passes through", "field", field, "code", ev.Code)
		return e.validate(field)
	}

	key := NormalizeKey(ev.Key, ev.Meta)
	value := Assemble(ev.Modifiers(), key).String()

	e.mu.Lock()
	fs, err := e.lookupLocked(field)
	if err != nil {
		e.mu.Unlock()
		return Outcome{}, err
	}
	fs.visible = value
	out := outcomeLocked(field, fs, key != TokenShift)
	e.mu.Unlock()

	e.model.SetShortcut(field, value)
	return out, nil
}

// KeyUp runs the completeness check against the field's committed value.
func (e *Engine) KeyUp(field FieldID) (Outcome, error) {
	return e.validate(field)
}

// Blur closes the session. An empty field gets the stashed value back in
// both the visible field and the model.
func (e *Engine) Blur(field FieldID) (Outcome, error) {
	e.mu.Lock()
	fs, err := e.lookupLocked(field)
	if err != nil {
		e.mu.Unlock()
		return Outcome{}, err
	}
	session := fs.session
	fs.session = nil
	restore := session != nil && fs.visible == ""
	if restore {
		fs.visible = session.Stashed
	}
	out := outcomeLocked(field, fs, false)
	e.mu.Unlock()

	if restore {
		slog.Debug("[DEBUG-CAPTURE] restored stashed value on blur", "field", field, "value", session.Stashed)
		e.model.SetShortcut(field, session.Stashed)
	}
	return out, nil
}

// Sync copies an externally changed model value into the visible field.
// Fields with an open session are left alone so a capture in progress is
// never overwritten. It reports whether the visible value changed.
func (e *Engine) Sync(field FieldID, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	fs, ok := e.fields[field]
	if !ok || fs.session != nil || fs.visible == value {
		return false
	}
	fs.visible = value
	return true
}

// Value returns the visible value of field.
func (e *Engine) Value(field FieldID) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fs, err := e.lookupLocked(field)
	if err != nil {
		return "", err
	}
	return fs.visible, nil
}

// State returns the capture state of field.
func (e *Engine) State(field FieldID) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fs, err := e.lookupLocked(field)
	if err != nil {
		return StateIdle, err
	}
	return stateLocked(fs), nil
}

// Session returns a copy of the open session for field, if any.
func (e *Engine) Session(field FieldID) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fs, ok := e.fields[field]
	if !ok || fs.session == nil {
		return Session{}, false
	}
	return *fs.session, true
}

func (e *Engine) validate(field FieldID) (Outcome, error) {
	e.mu.Lock()
	if _, err := e.lookupLocked(field); err != nil {
		e.mu.Unlock()
		return Outcome{}, err
	}
	e.mu.Unlock()

	current := e.model.Shortcut(field)
	reset := !IsComplete(current)

	e.mu.Lock()
	fs := e.fields[field]
	if reset {
		fs.visible = ""
	}
	out := outcomeLocked(field, fs, false)
	e.mu.Unlock()

	if reset {
		if current != "" {
			slog.Debug("[DEBUG-CAPTURE] incomplete accelerator cleared", "field", field, "value", current)
		}
		e.model.SetShortcut(field, "")
	}
	return out, nil
}

func (e *Engine) lookupLocked(field FieldID) (*fieldState, error) {
	fs, ok := e.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return fs, nil
}

func stateLocked(fs *fieldState) State {
	switch {
	case fs.session == nil:
		return StateIdle
	case fs.visible == "":
		return StateEmpty
	case IsComplete(fs.visible):
		return StateComplete
	default:
		return StateIncomplete
	}
}

func outcomeLocked(field FieldID, fs *fieldState, preventDefault bool) Outcome {
	return Outcome{
		Field:          field,
		Value:          fs.visible,
		PreventDefault: preventDefault,
		State:          stateLocked(fs),
	}
}
