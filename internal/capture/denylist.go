package capture

import "sort"

// deniedCodes are physical key codes whose default behavior must be kept.
// Matching is on KeyboardEvent.code, so AltRight (AltGr) is denied while the
// left Alt key still works as a modifier.
var deniedCodes = map[string]struct{}{
	"Delete":      {},
	"Backspace":   {},
	"Insert":      {},
	"CapsLock":    {},
	"Escape":      {},
	"NumLock":     {},
	"Home":        {},
	"End":         {},
	"PageDown":    {},
	"PageUp":      {},
	"Tab":         {},
	"ArrowUp":     {},
	"ArrowDown":   {},
	"ArrowLeft":   {},
	"ArrowRight":  {},
	"AltRight":    {},
	"ContextMenu": {},
}

// IsDenied reports whether the physical key code is excluded from capture.
func IsDenied(code string) bool {
	_, ok := deniedCodes[code]
	return ok
}

// DeniedCodes returns the denied key codes sorted alphabetically.
func DeniedCodes() []string {
	out := make([]string, 0, len(deniedCodes))
	for code := range deniedCodes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
