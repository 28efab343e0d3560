package capture

import (
	"strings"
	"unicode/utf8"
)

// Canonical modifier tokens. These are the only tokens that may appear
// before the main key of a serialized accelerator.
const (
	TokenCtrl  = "Ctrl"
	TokenSuper = "Super"
	TokenShift = "Shift"
	TokenAlt   = "Alt"

	TokenSpace = "Space"
)

// AcceleratorSeparator joins tokens of a serialized accelerator.
const AcceleratorSeparator = "+"

// superKeyNames lists the raw key names browsers and webviews report for the
// platform command/meta key.
var superKeyNames = map[string]struct{}{
	"Cmd":       {},
	"CmdLeft":   {},
	"CmdRight":  {},
	"Super":     {},
	"Meta":      {},
	"MetaLeft":  {},
	"MetaRight": {},
}

// modifierKeyNames are raw key names that identify a modifier key itself.
// A keydown for one of these never contributes a main key.
var modifierKeyNames = map[string]struct{}{
	"Control":  {},
	TokenCtrl:  {},
	TokenShift: {},
	TokenAlt:   {},
	TokenSuper: {},
	"Option":   {},
}

// NormalizeKey maps a raw key identifier to its canonical token.
// meta reports whether the platform meta flag was set on the event.
func NormalizeKey(key string, meta bool) string {
	if key == " " {
		return TokenSpace
	}
	if meta {
		if _, ok := superKeyNames[key]; ok {
			return TokenSuper
		}
	}
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToUpper(key)
	}
	return key
}

// IsModifierToken reports whether token is one of Ctrl, Super, Shift, Alt.
func IsModifierToken(token string) bool {
	switch token {
	case TokenCtrl, TokenSuper, TokenShift, TokenAlt:
		return true
	}
	return false
}

func isModifierKeyName(key string) bool {
	_, ok := modifierKeyNames[key]
	return ok
}
