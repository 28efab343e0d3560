package capture

import (
	"strings"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		meta bool
		want string
	}{
		{name: "space", key: " ", want: "Space"},
		{name: "lowercase letter", key: "v", want: "V"},
		{name: "digit", key: "3", want: "3"},
		{name: "punctuation", key: "`", want: "`"},
		{name: "non-ascii letter", key: "é", want: "É"},
		{name: "function key", key: "F5", want: "F5"},
		{name: "enter", key: "Enter", want: "Enter"},
		{name: "meta with flag", key: "Meta", meta: true, want: "Super"},
		{name: "meta left with flag", key: "MetaLeft", meta: true, want: "Super"},
		{name: "cmd right with flag", key: "CmdRight", meta: true, want: "Super"},
		{name: "meta without flag", key: "Meta", want: "Meta"},
		{name: "control passes through", key: "Control", want: "Control"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.key, tt.meta); got != tt.want {
				t.Fatalf("NormalizeKey(%q, %v) = %q, want %q", tt.key, tt.meta, got, tt.want)
			}
		})
	}
}

func TestModifiersTokensOrder(t *testing.T) {
	// Every flag combination must serialize in Ctrl, Super, Shift, Alt order.
	canonical := []string{TokenCtrl, TokenSuper, TokenShift, TokenAlt}
	for mask := 0; mask < 16; mask++ {
		mods := Modifiers{
			Ctrl:  mask&1 != 0,
			Super: mask&2 != 0,
			Shift: mask&4 != 0,
			Alt:   mask&8 != 0,
		}
		var want []string
		for i, token := range canonical {
			if mask&(1<<i) != 0 {
				want = append(want, token)
			}
		}
		got := mods.Tokens()
		if strings.Join(got, "+") != strings.Join(want, "+") {
			t.Fatalf("mask %04b: Tokens() = %v, want %v", mask, got, want)
		}
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: false},
		{value: "Ctrl", want: false},
		{value: "Ctrl+Shift", want: false},
		{value: "A", want: false},
		{value: "F5", want: false},
		{value: "Ctrl+A", want: true},
		{value: "Ctrl+Shift+V", want: true},
		{value: "Super+Alt+Space", want: true},
		{value: "Ctrl++", want: true},
		{value: "Ctrl+Shift+PrintScreen", want: true},
	}
	for _, tt := range tests {
		if got := IsComplete(tt.value); got != tt.want {
			t.Errorf("IsComplete(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestAssembleSkipsModifierMainKey(t *testing.T) {
	acc := Assemble(Modifiers{Shift: true}, "Shift")
	if acc.Key != "" || acc.String() != "Shift" {
		t.Fatalf("Assemble(Shift) = %+v (%q), want modifier only", acc, acc.String())
	}
	if acc.Complete() {
		t.Fatal("modifier-only accelerator must be incomplete")
	}

	acc = Assemble(Modifiers{Ctrl: true}, "Space")
	if !acc.Complete() || acc.String() != "Ctrl+Space" {
		t.Fatalf("Assemble(Ctrl, Space) = %q complete=%v", acc.String(), acc.Complete())
	}
}

func TestIsDenied(t *testing.T) {
	for _, code := range []string{"Escape", "Tab", "AltRight", "ArrowLeft", "ContextMenu"} {
		if !IsDenied(code) {
			t.Errorf("IsDenied(%q) = false, want true", code)
		}
	}
	for _, code := range []string{"AltLeft", "KeyA", "Space", "F5", "Enter"} {
		if IsDenied(code) {
			t.Errorf("IsDenied(%q) = true, want false", code)
		}
	}
	if got := len(DeniedCodes()); got != 17 {
		t.Fatalf("len(DeniedCodes()) = %d, want 17", got)
	}
}
