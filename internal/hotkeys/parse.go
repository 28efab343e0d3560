package hotkeys

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"clipmark/internal/capture"
)

type modifierFlag int

const (
	modCtrl modifierFlag = iota
	modSuper
	modShift
	modAlt
)

var modifierByName = map[string]modifierFlag{
	"CTRL":    modCtrl,
	"CONTROL": modCtrl,
	"SUPER":   modSuper,
	"META":    modSuper,
	"CMD":     modSuper,
	"COMMAND": modSuper,
	"WIN":     modSuper,
	"SHIFT":   modShift,
	"ALT":     modAlt,
	"OPTION":  modAlt,
}

var keyByName = map[string]string{
	"SPACE":      capture.TokenSpace,
	"ENTER":      "Enter",
	"RETURN":     "Enter",
	"ESC":        "Escape",
	"ESCAPE":     "Escape",
	"TAB":        "Tab",
	"DELETE":     "Delete",
	"DEL":        "Delete",
	"BACKSPACE":  "Backspace",
	"INSERT":     "Insert",
	"HOME":       "Home",
	"END":        "End",
	"PAGEUP":     "PageUp",
	"PAGEDOWN":   "PageDown",
	"LEFT":       "ArrowLeft",
	"ARROWLEFT":  "ArrowLeft",
	"RIGHT":      "ArrowRight",
	"ARROWRIGHT": "ArrowRight",
	"UP":         "ArrowUp",
	"ARROWUP":    "ArrowUp",
	"DOWN":       "ArrowDown",
	"ARROWDOWN":  "ArrowDown",
	"BACKQUOTE":  "`",
	"GRAVE":      "`",
	"PLUS":       "+",
}

// ParseBinding parses an accelerator like "Ctrl+Shift+F12". Modifier
// aliases (Control, Cmd, Meta, Win, Option) collapse onto the four canonical
// tokens, which are emitted in Ctrl, Super, Shift, Alt order regardless of
// how the spec orders them. A trailing "++" names the plus key.
func ParseBinding(spec string) (Binding, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Binding{}, fmt.Errorf("hotkey spec is empty")
	}

	var parts []string
	if strings.HasSuffix(raw, "++") {
		parts = append(strings.Split(strings.TrimSuffix(raw, "++"), capture.AcceleratorSeparator), "+")
	} else {
		parts = strings.Split(raw, capture.AcceleratorSeparator)
	}
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("hotkey must include modifiers and key: %s", raw)
	}

	var mods capture.Modifiers
	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		flag, ok := modifierByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in hotkey %q", token, raw)
		}
		switch flag {
		case modCtrl:
			mods.Ctrl = true
		case modSuper:
			mods.Super = true
		case modShift:
			mods.Shift = true
		case modAlt:
			mods.Alt = true
		}
	}

	key, err := parseKey(parts[len(parts)-1])
	if err != nil {
		return Binding{}, fmt.Errorf("%w in hotkey %q", err, raw)
	}
	accel := capture.Assemble(mods, key)
	if !accel.Complete() {
		return Binding{}, fmt.Errorf("at least one modifier is required: %q", raw)
	}
	return Binding{
		modifiers:  accel.Modifiers,
		key:        accel.Key,
		normalized: accel.String(),
	}, nil
}

// Normalize returns the canonical form of spec, or an error when spec does
// not parse.
func Normalize(spec string) (string, error) {
	b, err := ParseBinding(spec)
	if err != nil {
		return "", err
	}
	return b.Normalized(), nil
}

// parseKey canonicalizes the main key. Aliases map onto the names the
// capture engine emits, single characters are uppercased, F-keys get an
// uppercase F, and any other name is kept as written.
func parseKey(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", fmt.Errorf("missing hotkey key token")
	}
	if strings.ContainsFunc(token, unicode.IsSpace) {
		return "", fmt.Errorf("invalid key %q", raw)
	}
	upper := strings.ToUpper(token)
	if _, isModifier := modifierByName[upper]; isModifier {
		return "", fmt.Errorf("modifier %q cannot be the main key", token)
	}
	if name, ok := keyByName[upper]; ok {
		return name, nil
	}
	if utf8.RuneCountInString(token) == 1 {
		return upper, nil
	}
	if isFunctionKey(upper) {
		return upper, nil
	}
	return token, nil
}

func isFunctionKey(upper string) bool {
	if len(upper) < 2 || upper[0] != 'F' {
		return false
	}
	for _, r := range upper[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
