// Package signal is a small typed publish/subscribe bus.
//
// Handlers are keyed by the payload's type name, so publishing an
// EnteredDay value reaches every func(EnteredDay) subscribed to the same Bus.
// A Bus is created by whoever owns the scene and cleared when the scene is
// torn down; nothing in here is global.
package signal

import (
	"reflect"
	"sync"
)

// Bus is safe for concurrent use. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]any
}

func New() *Bus {
	return &Bus{handlers: make(map[string][]any)}
}

func keyOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Subscribe registers fn for every future Publish of a T
func Subscribe[T any](b *Bus, fn func(T)) {
	if b == nil || fn == nil {
		return
	}
	key := keyOf[T]()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[string][]any)
	}
	b.handlers[key] = append(b.handlers[key], fn)
}

// Unsubscribe drops all handlers registered for T
func Unsubscribe[T any](b *Bus) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, keyOf[T]())
}

// Publish calls the handlers for T in subscription order.
// The handler list is copied first so a handler may subscribe or unsubscribe.
func Publish[T any](b *Bus, event T) {
	if b == nil {
		return
	}

	b.mu.RLock()
	registered := b.handlers[keyOf[T]()]
	snapshot := make([]any, len(registered))
	copy(snapshot, registered)
	b.mu.RUnlock()

	for _, h := range snapshot {
		if fn, ok := h.(func(T)); ok {
			fn(event)
		}
	}
}

// Count returns the number of handlers subscribed for T
func Count[T any](b *Bus) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[keyOf[T]()])
}

// Clear removes every handler
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]any)
}
