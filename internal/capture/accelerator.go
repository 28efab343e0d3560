package capture

import "strings"

// Accelerator is a modifier set plus an optional main key.
// Values with only one of the two parts are incomplete and exist only while
// a capture is in progress.
type Accelerator struct {
	Modifiers []string
	Key       string
}

// Assemble builds the accelerator for a key event. key must already be
// normalized; modifier keys themselves never become the main key.
func Assemble(mods Modifiers, key string) Accelerator {
	acc := Accelerator{Modifiers: mods.Tokens()}
	if key != "" && !isModifierKeyName(key) {
		acc.Key = key
	}
	return acc
}

// String serializes the accelerator as "Mod+Mod+Key".
func (a Accelerator) String() string {
	parts := make([]string, 0, len(a.Modifiers)+1)
	parts = append(parts, a.Modifiers...)
	if a.Key != "" {
		parts = append(parts, a.Key)
	}
	return strings.Join(parts, AcceleratorSeparator)
}

// Complete reports whether the accelerator has at least one modifier and a
// main key.
func (a Accelerator) Complete() bool {
	return len(a.Modifiers) > 0 && a.Key != ""
}

// IsComplete applies the release-time check to a serialized value.
// A value made only of modifiers, or one with no modifier at all, fails.
func IsComplete(value string) bool {
	tokens := strings.Split(value, AcceleratorSeparator)
	onlyModifierKeys := true
	hasModifiers := false
	for _, token := range tokens {
		if IsModifierToken(token) {
			hasModifiers = true
		} else {
			onlyModifierKeys = false
		}
	}
	return !onlyModifierKeys && hasModifiers
}
