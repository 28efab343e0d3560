package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrConflict is wrapped by every *ConflictError.
var ErrConflict = errors.New("hotkey conflict")

// ConflictError reports an accelerator that Owner tried to register while
// Holder already owns it. Holder is either another registry owner or the
// name of a reserved system shortcut.
type ConflictError struct {
	Accelerator string
	Owner       string
	Holder      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("shortcut %q is already registered by %s", e.Accelerator, e.Holder)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Entry is one owner's desired registration passed to Apply.
type Entry struct {
	Owner     string
	Spec      string
	OnTrigger func()
}

type registration struct {
	owner     string
	binding   Binding
	onTrigger func()
}

// Registry keeps the accelerators this process has claimed and dispatches
// triggers to their callbacks. It never talks to the operating system; it
// only detects collisions between owners and with reserved shortcuts.
type Registry struct {
	mu      sync.Mutex
	byOwner map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byOwner: map[string]registration{}}
}

// Register claims spec for owner, replacing any accelerator owner held
// before. A collision leaves the registry unchanged and returns a
// *ConflictError.
func (r *Registry) Register(owner string, spec string, onTrigger func()) (Binding, error) {
	if err := r.Apply([]Entry{{Owner: owner, Spec: spec, OnTrigger: onTrigger}}); err != nil {
		return Binding{}, err
	}
	return r.Binding(owner), nil
}

// Apply registers every entry or none of them. Owners not named in entries
// keep their current registrations and still take part in conflict checks.
func (r *Registry) Apply(entries []Entry) error {
	next := make(map[string]registration, len(entries))
	for _, e := range entries {
		if e.Owner == "" {
			return errors.New("hotkey owner is required")
		}
		if e.OnTrigger == nil {
			return errors.New("onTrigger callback is required")
		}
		binding, err := ParseBinding(e.Spec)
		if err != nil {
			return fmt.Errorf("register %s: %w", e.Owner, err)
		}
		if reserved := CheckReserved(binding); len(reserved) > 0 {
			return &ConflictError{Accelerator: binding.Normalized(), Owner: e.Owner, Holder: reserved[0].Name}
		}
		next[e.Owner] = registration{owner: e.Owner, binding: binding, onTrigger: e.OnTrigger}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make(map[string]registration, len(r.byOwner)+len(next))
	for owner, reg := range r.byOwner {
		merged[owner] = reg
	}
	for owner, reg := range next {
		merged[owner] = reg
	}
	holders := make(map[string]string, len(merged))
	for _, owner := range sortedOwners(merged) {
		accel := merged[owner].binding.Normalized()
		if holder, taken := holders[accel]; taken {
			// Report against the owner being applied when possible.
			culprit, other := owner, holder
			if _, applying := next[holder]; applying {
				if _, ownerApplying := next[owner]; !ownerApplying {
					culprit, other = holder, owner
				}
			}
			return &ConflictError{Accelerator: accel, Owner: culprit, Holder: other}
		}
		holders[accel] = owner
	}

	r.byOwner = merged
	for _, owner := range sortedOwners(next) {
		slog.Debug("[hotkey] registered", "owner", owner, "binding", next[owner].binding.Normalized())
	}
	return nil
}

// Unregister releases owner's accelerator. Unknown owners are ignored.
func (r *Registry) Unregister(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byOwner, owner)
}

// Binding returns owner's current binding, or the zero Binding.
func (r *Registry) Binding(owner string) Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byOwner[owner].binding
}

// Lookup returns the owner holding spec.
func (r *Registry) Lookup(spec string) (string, bool) {
	normalized, err := Normalize(spec)
	if err != nil {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for owner, reg := range r.byOwner {
		if reg.binding.Normalized() == normalized {
			return owner, true
		}
	}
	return "", false
}

// Bindings returns owner -> normalized accelerator for every registration.
func (r *Registry) Bindings() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.byOwner))
	for owner, reg := range r.byOwner {
		out[owner] = reg.binding.Normalized()
	}
	return out
}

// Fire runs the callback registered for spec and reports whether one ran.
// The callback runs outside the registry lock, so it may re-register.
func (r *Registry) Fire(spec string) bool {
	normalized, err := Normalize(spec)
	if err != nil {
		slog.Debug("[hotkey] ignoring unparsable trigger", "spec", spec, "error", err)
		return false
	}
	var onTrigger func()
	r.mu.Lock()
	for _, reg := range r.byOwner {
		if reg.binding.Normalized() == normalized {
			onTrigger = reg.onTrigger
			break
		}
	}
	r.mu.Unlock()
	if onTrigger == nil {
		return false
	}
	slog.Debug("[hotkey] trigger", "binding", normalized)
	onTrigger()
	return true
}

func sortedOwners(m map[string]registration) []string {
	owners := make([]string, 0, len(m))
	for owner := range m {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}
