package capture

// Modifiers holds the instantaneous modifier flags of a key event.
type Modifiers struct {
	Ctrl  bool
	Super bool
	Shift bool
	Alt   bool
}

// Tokens returns the active modifier tokens in canonical order
// Ctrl, Super, Shift, Alt. Press order never affects the result.
func (m Modifiers) Tokens() []string {
	tokens := make([]string, 0, 4)
	if m.Ctrl {
		tokens = append(tokens, TokenCtrl)
	}
	if m.Super {
		tokens = append(tokens, TokenSuper)
	}
	if m.Shift {
		tokens = append(tokens, TokenShift)
	}
	if m.Alt {
		tokens = append(tokens, TokenAlt)
	}
	return tokens
}
