package config

import (
	"errors"
	"fmt"
	"strings"

	"clipmark/internal/capture"
)

// ErrValidation is wrapped by every error produced from a failed Validate.
var ErrValidation = errors.New("invalid configuration")

// Field names used in FieldError.Field. They match the JSON names.
const (
	FieldMaxItems         = "maxItems"
	FieldOpenShortcut     = "openShortcut"
	FieldBookmarkShortcut = "bookmarkShortcut"
)

// Validation failure codes.
const (
	CodeRequired   = "required"
	CodeMin        = "min"
	CodeIncomplete = "incomplete"
	CodeDuplicate  = "duplicate"
)

// FieldError describes why one field failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is the per-field outcome of Validate.
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

// Valid reports whether no field failed.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Field returns the first error recorded for field, if any.
func (r ValidationResult) Field(field string) (FieldError, bool) {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Err returns nil for a valid result, otherwise an error wrapping
// ErrValidation that lists every failed field.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Validate checks cfg the way the settings form does before saving.
// Two shortcut fields holding the same accelerator are rejected on the
// bookmark field, because one accelerator cannot trigger two actions.
func Validate(cfg AppConfig) ValidationResult {
	var res ValidationResult
	add := func(field, code, format string, args ...any) {
		res.Errors = append(res.Errors, FieldError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.MaxItems < MinMaxItems {
		add(FieldMaxItems, CodeMin, "must be at least %d, got %d", MinMaxItems, cfg.MaxItems)
	}

	shortcuts := []struct {
		field string
		value string
	}{
		{field: FieldOpenShortcut, value: strings.TrimSpace(cfg.OpenShortcut)},
		{field: FieldBookmarkShortcut, value: strings.TrimSpace(cfg.BookmarkShortcut)},
	}
	for _, sc := range shortcuts {
		switch {
		case sc.value == "":
			add(sc.field, CodeRequired, "is required")
		case !capture.IsComplete(sc.value):
			add(sc.field, CodeIncomplete, "%q needs at least one modifier and one key", sc.value)
		}
	}
	if _, failed := res.Field(FieldOpenShortcut); !failed {
		if _, failed := res.Field(FieldBookmarkShortcut); !failed &&
			strings.EqualFold(shortcuts[0].value, shortcuts[1].value) {
			add(FieldBookmarkShortcut, CodeDuplicate, "%q is already used by the open shortcut", shortcuts[1].value)
		}
	}
	return res
}
