package userutil

import (
	"errors"
	"os/user"
	"testing"
)

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "alice", want: "alice"},
		{name: "domain user", input: "DOMAIN\\user", want: "DOMAIN_user"},
		{name: "email", input: "user@domain.com", want: "user_domain.com"},
		{name: "spaces collapse", input: "Jane Q  Doe", want: "Jane_Q_Doe"},
		{name: "empty", input: "", want: "unknown"},
		{name: "whitespace", input: "  ", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeUsername(tt.input); got != tt.want {
				t.Fatalf("SanitizeUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCurrentUsername(t *testing.T) {
	orig := currentUserFn
	t.Cleanup(func() { currentUserFn = orig })

	t.Run("USERNAME wins", func(t *testing.T) {
		t.Setenv("USERNAME", `CORP\bob`)
		t.Setenv("USER", "ignored")
		if got := CurrentUsername(); got != "CORP_bob" {
			t.Fatalf("CurrentUsername() = %q", got)
		}
	})
	t.Run("USER fallback", func(t *testing.T) {
		t.Setenv("USERNAME", "")
		t.Setenv("USER", "carol")
		if got := CurrentUsername(); got != "carol" {
			t.Fatalf("CurrentUsername() = %q", got)
		}
	})
	t.Run("os lookup", func(t *testing.T) {
		t.Setenv("USERNAME", "")
		t.Setenv("USER", "")
		currentUserFn = func() (*user.User, error) { return &user.User{Username: "dave"}, nil }
		if got := CurrentUsername(); got != "dave" {
			t.Fatalf("CurrentUsername() = %q", got)
		}
	})
	t.Run("unknown", func(t *testing.T) {
		t.Setenv("USERNAME", "")
		t.Setenv("USER", "")
		currentUserFn = func() (*user.User, error) { return nil, errors.New("no user") }
		if got := CurrentUsername(); got != "unknown" {
			t.Fatalf("CurrentUsername() = %q", got)
		}
	})
}
