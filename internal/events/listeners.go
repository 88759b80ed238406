package events

import (
	"context"
	"sync"
)

// Listener handles one delivered event
type Listener[T Event] func(ctx context.Context, event T)

// Listeners is a registry of callbacks keyed by event type. Unlike EventBus
// it invokes every listener synchronously, so each dispatched event reaches
// each listener exactly once.
type Listeners[T Event] struct {
	listeners map[string][]Listener[T]
	mutex     sync.RWMutex
}

func NewListeners[T Event]() *Listeners[T] {
	return &Listeners[T]{
		listeners: make(map[string][]Listener[T]),
	}
}

// AddEventListener registers l for eventType
func (r *Listeners[T]) AddEventListener(eventType string, l Listener[T]) {
	r.mutex.Lock()
	r.listeners[eventType] = append(r.listeners[eventType], l)
	r.mutex.Unlock()
}

// Dispatch invokes the listeners of eventType in registration order on the
// caller's goroutine and returns how many ran.
func (r *Listeners[T]) Dispatch(ctx context.Context, eventType string, event T) int {
	r.mutex.RLock()
	ls := make([]Listener[T], len(r.listeners[eventType]))
	copy(ls, r.listeners[eventType])
	r.mutex.RUnlock()

	for _, l := range ls {
		l(ctx, event)
	}
	return len(ls)
}
