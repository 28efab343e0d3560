package config

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*AppConfig)
		wantField string
		wantCode  string
	}{
		{name: "defaults are valid", mutate: func(*AppConfig) {}},
		{name: "max items zero", mutate: func(c *AppConfig) { c.MaxItems = 0 }, wantField: FieldMaxItems, wantCode: CodeMin},
		{name: "max items negative", mutate: func(c *AppConfig) { c.MaxItems = -4 }, wantField: FieldMaxItems, wantCode: CodeMin},
		{name: "open shortcut empty", mutate: func(c *AppConfig) { c.OpenShortcut = "  " }, wantField: FieldOpenShortcut, wantCode: CodeRequired},
		{name: "bookmark shortcut empty", mutate: func(c *AppConfig) { c.BookmarkShortcut = "" }, wantField: FieldBookmarkShortcut, wantCode: CodeRequired},
		{name: "modifier only", mutate: func(c *AppConfig) { c.OpenShortcut = "Ctrl+Alt" }, wantField: FieldOpenShortcut, wantCode: CodeIncomplete},
		{name: "no modifier", mutate: func(c *AppConfig) { c.BookmarkShortcut = "F9" }, wantField: FieldBookmarkShortcut, wantCode: CodeIncomplete},
		{name: "duplicate", mutate: func(c *AppConfig) { c.BookmarkShortcut = "ctrl+shift+v" }, wantField: FieldBookmarkShortcut, wantCode: CodeDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			res := Validate(cfg)

			if tt.wantField == "" {
				if !res.Valid() || res.Err() != nil {
					t.Fatalf("Validate() = %+v, want valid", res)
				}
				return
			}
			fe, ok := res.Field(tt.wantField)
			if !ok {
				t.Fatalf("Validate() = %+v, want error on %s", res, tt.wantField)
			}
			if fe.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", fe.Code, tt.wantCode)
			}
			if !errors.Is(res.Err(), ErrValidation) {
				t.Fatalf("Err() = %v, want ErrValidation", res.Err())
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	res := Validate(AppConfig{})
	for _, field := range []string{FieldMaxItems, FieldOpenShortcut, FieldBookmarkShortcut} {
		if _, ok := res.Field(field); !ok {
			t.Errorf("missing error for %s in %+v", field, res)
		}
	}
	if _, dup := res.Field(FieldBookmarkShortcut); dup {
		if fe, _ := res.Field(FieldBookmarkShortcut); fe.Code == CodeDuplicate {
			t.Fatal("empty shortcuts must not be reported as duplicates")
		}
	}
}
