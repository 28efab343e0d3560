// Package notify fans out list changes to interested listeners.
package notify

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Topics published by clipmark. The names double as frontend event names.
const (
	TopicBookmarks = "bookmarks-updated"
	TopicClipboard = "clipboard-updated"
)

// Handler receives the payload of one published message.
type Handler func(payload any)

type subscriber struct {
	id string
	fn Handler
}

// Bus is a synchronous topic bus. Handlers run on the publishing goroutine
// in subscription order, outside the bus lock.
type Bus struct {
	mu     sync.Mutex
	topics map[string][]subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{topics: map[string][]subscriber{}}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	ID    string
	Topic string

	bus  *Bus
	once sync.Once
}

// Unsubscribe detaches the handler. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.Topic, s.ID)
	})
}

// Subscribe registers fn for topic.
func (b *Bus) Subscribe(topic string, fn Handler) *Subscription {
	sub := &Subscription{ID: uuid.NewString(), Topic: topic, bus: b}
	if fn == nil {
		return sub
	}
	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], subscriber{id: sub.ID, fn: fn})
	b.mu.Unlock()
	return sub
}

// Publish delivers payload to every handler subscribed to topic and returns
// how many handlers ran. A panicking handler is logged and skipped.
func (b *Bus) Publish(topic string, payload any) int {
	b.mu.Lock()
	subs := make([]subscriber, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	delivered := 0
	for _, sub := range subs {
		if deliver(topic, sub, payload) {
			delivered++
		}
	}
	return delivered
}

// Subscribers reports how many handlers are attached to topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

func (b *Bus) remove(topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[topic]
	for i, sub := range subs {
		if sub.id != id {
			continue
		}
		next := make([]subscriber, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.topics, topic)
		} else {
			b.topics[topic] = next
		}
		return
	}
}

func deliver(topic string, sub subscriber, payload any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[DEBUG-PANIC] notify handler panicked",
				"topic", topic,
				"subscription", sub.id,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			ok = false
		}
	}()
	sub.fn(payload)
	return true
}
