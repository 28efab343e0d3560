// Package formstate holds the edited configuration as the single source of
// truth shared by the capture engine, the form sync layer and persistence.
//
// Every write carries an Origin. Subscribers use it to ignore changes they
// caused themselves, which breaks the load -> overwrite field -> new event
// loop. Writes that leave the value unchanged are never broadcast.
package formstate

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Origin tags who produced a change.
type Origin string

const (
	OriginLoad     Origin = "load"
	OriginExternal Origin = "external"
	OriginCapture  Origin = "capture"
	OriginSave     Origin = "save"
)

// Change is delivered to subscribers after a value changed.
type Change[T comparable] struct {
	Old     T
	New     T
	Origin  Origin
	Version uint64
}

type subscriber[T comparable] struct {
	id uint64
	fn func(Change[T])
}

// Store is a mutex-guarded value with change subscriptions.
//
// Subscribers are invoked synchronously on the writing goroutine, after the
// store lock is released, in subscription order. A subscriber may read the
// store but should not write to it with the origin it is filtering on.
type Store[T comparable] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	nextID  uint64
	subs    []subscriber[T]
}

// New creates a store holding initial.
func New[T comparable](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version returns the number of effective writes so far.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set stores v and notifies subscribers. It reports whether the value
// changed; an unchanged value is neither versioned nor broadcast.
func (s *Store[T]) Set(v T, origin Origin) bool {
	return s.Update(func(T) T { return v }, origin)
}

// Update applies fn to the current value under the store lock and notifies
// subscribers when the result differs.
func (s *Store[T]) Update(fn func(T) T, origin Origin) bool {
	change, subs, changed := s.apply(fn, origin)
	if !changed {
		return false
	}
	for _, sub := range subs {
		notify(sub, change)
	}
	return true
}

// Subscribe registers fn for future changes and returns a function that
// removes it. Calling the returned function more than once is safe.
func (s *Store[T]) Subscribe(fn func(Change[T])) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store[T]) apply(fn func(T) T, origin Origin) (Change[T], []subscriber[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.value)
	if next == s.value {
		return Change[T]{}, nil, false
	}
	old := s.value
	s.value = next
	s.version++
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	return Change[T]{Old: old, New: next, Origin: origin, Version: s.version}, subs, true
}

func notify[T comparable](sub subscriber[T], change Change[T]) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[DEBUG-PANIC] formstate subscriber panicked",
				"subscriber", sub.id,
				"origin", change.Origin,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	sub.fn(change)
}
