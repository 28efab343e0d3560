package hotkeys

// Binding describes a parsed accelerator.
// Construct only via ParseBinding to guarantee invariant consistency.
type Binding struct {
	modifiers  []string
	key        string
	normalized string
}

// Modifiers returns the modifier tokens in canonical order.
func (b Binding) Modifiers() []string {
	out := make([]string, len(b.modifiers))
	copy(out, b.modifiers)
	return out
}

// Key returns the main key token.
func (b Binding) Key() string { return b.key }

// Normalized returns the canonical human-readable binding string.
func (b Binding) Normalized() string { return b.normalized }

// IsZero reports whether b was never parsed.
func (b Binding) IsZero() bool { return b.normalized == "" }
