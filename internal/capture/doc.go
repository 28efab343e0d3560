// Package capture records keyboard accelerators from raw key events.
//
// A field is edited between Focus and Blur. Every accepted keydown writes a
// live preview ("Ctrl+Shift+V") to the visible field and the model; every
// keyup re-checks the committed value and clears it unless it has at least
// one modifier and exactly one main key. Modifiers are always serialized in
// the order Ctrl, Super, Shift, Alt.
package capture
