package hotkeys

import (
	"errors"
	"testing"
)

func noop() {}

func TestRegistryRegisterAndFire(t *testing.T) {
	r := NewRegistry()
	fired := 0
	b, err := r.Register("open", "shift+ctrl+v", func() { fired++ })
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if b.Normalized() != "Ctrl+Shift+V" {
		t.Fatalf("binding = %q, want Ctrl+Shift+V", b.Normalized())
	}

	if !r.Fire("Ctrl+Shift+V") {
		t.Fatal("Fire() = false, want true")
	}
	if r.Fire("Ctrl+Shift+X") {
		t.Fatal("Fire() for unknown accelerator = true")
	}
	if r.Fire("not a binding") {
		t.Fatal("Fire() for unparsable spec = true")
	}
	if fired != 1 {
		t.Fatalf("callback fired %d times, want 1", fired)
	}
}

func TestRegistryConflictBetweenOwners(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("open", "Ctrl+Shift+V", noop); err != nil {
		t.Fatal(err)
	}

	_, err := r.Register("bookmark", "ctrl+shift+v", noop)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *ConflictError", err)
	}
	if ce.Owner != "bookmark" || ce.Holder != "open" || ce.Accelerator != "Ctrl+Shift+V" {
		t.Fatalf("conflict = %+v", ce)
	}
	if got := err.Error(); got != `shortcut "Ctrl+Shift+V" is already registered by open` {
		t.Fatalf("Error() = %q", got)
	}
	if !r.Binding("bookmark").IsZero() {
		t.Fatal("failed registration must not be stored")
	}
}

func TestRegistryReservedConflict(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register("open", "Win+V", noop)
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Register() error = %v, want *ConflictError", err)
	}
	if ce.Holder != "Clipboard History" {
		t.Fatalf("holder = %q, want Clipboard History", ce.Holder)
	}
}

func TestRegistryReRegisterSameOwnerReplaces(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("open", "Ctrl+Shift+V", noop); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Register("open", "Ctrl+Alt+V", noop); err != nil {
		t.Fatalf("re-register error = %v", err)
	}
	if _, ok := r.Lookup("Ctrl+Shift+V"); ok {
		t.Fatal("old accelerator still registered")
	}
	if owner, ok := r.Lookup("alt+ctrl+v"); !ok || owner != "open" {
		t.Fatalf("Lookup() = %q, %v", owner, ok)
	}
}

func TestRegistryApplyIsAtomic(t *testing.T) {
	r := NewRegistry()
	if err := r.Apply([]Entry{
		{Owner: "open", Spec: "Ctrl+Shift+V", OnTrigger: noop},
		{Owner: "bookmark", Spec: "Ctrl+Shift+B", OnTrigger: noop},
	}); err != nil {
		t.Fatal(err)
	}

	// Swapping to a set where both owners collide must keep the old set.
	err := r.Apply([]Entry{
		{Owner: "open", Spec: "Ctrl+K", OnTrigger: noop},
		{Owner: "bookmark", Spec: "Ctrl+K", OnTrigger: noop},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Apply() error = %v, want ErrConflict", err)
	}
	want := map[string]string{"open": "Ctrl+Shift+V", "bookmark": "Ctrl+Shift+B"}
	got := r.Bindings()
	if len(got) != len(want) || got["open"] != want["open"] || got["bookmark"] != want["bookmark"] {
		t.Fatalf("Bindings() = %v, want %v", got, want)
	}

	// Swapping the two accelerators in one call succeeds.
	if err := r.Apply([]Entry{
		{Owner: "open", Spec: "Ctrl+Shift+B", OnTrigger: noop},
		{Owner: "bookmark", Spec: "Ctrl+Shift+V", OnTrigger: noop},
	}); err != nil {
		t.Fatalf("swap Apply() error = %v", err)
	}
}

func TestRegistryApplyBlamesIncomingOwner(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("zeta", "Ctrl+J", noop); err != nil {
		t.Fatal(err)
	}
	err := r.Apply([]Entry{{Owner: "alpha", Spec: "Ctrl+J", OnTrigger: noop}})
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Apply() error = %v", err)
	}
	if ce.Owner != "alpha" || ce.Holder != "zeta" {
		t.Fatalf("conflict = %+v, want alpha blocked by zeta", ce)
	}
}

func TestRegistryRejectsInvalidEntries(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name  string
		entry Entry
	}{
		{name: "missing owner", entry: Entry{Spec: "Ctrl+A", OnTrigger: noop}},
		{name: "missing callback", entry: Entry{Owner: "open", Spec: "Ctrl+A"}},
		{name: "bad spec", entry: Entry{Owner: "open", Spec: "Ctrl", OnTrigger: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Apply([]Entry{tt.entry}); err == nil {
				t.Fatal("Apply() error = nil")
			}
		})
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("open", "Ctrl+Shift+V", noop); err != nil {
		t.Fatal(err)
	}
	r.Unregister("open")
	r.Unregister("missing")
	if r.Fire("Ctrl+Shift+V") {
		t.Fatal("Fire() after Unregister = true")
	}
}

func TestRegistryFireCallbackMayReRegister(t *testing.T) {
	r := NewRegistry()
	done := false
	_, err := r.Register("open", "Ctrl+Shift+V", func() {
		_, regErr := r.Register("open", "Ctrl+Shift+O", noop)
		done = regErr == nil
	})
	if err != nil {
		t.Fatal(err)
	}
	r.Fire("Ctrl+Shift+V")
	if !done {
		t.Fatal("re-register from callback failed")
	}
}
