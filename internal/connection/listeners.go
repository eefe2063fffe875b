package connection

import "sync"

// ListenerSet is a registry of callbacks for one event type. Add returns
// an unsubscribe closure that is safe to call more than once; Notify
// snapshots the set first, so a listener that unsubscribes (or
// subscribes) during dispatch never affects the in-flight notification.
type ListenerSet[T any] struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(T)
}

// NewListenerSet creates an empty registry
func NewListenerSet[T any]() *ListenerSet[T] {
	return &ListenerSet[T]{listeners: make(map[int]func(T))}
}

// Add registers fn and returns its removal closure. Calling the closure
// again after the listener is gone is a no-op.
func (s *ListenerSet[T]) Add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Notify calls every registered listener with v, in registration order
// not guaranteed. A panicking listener is the caller's bug; no recovery
// is attempted here.
func (s *ListenerSet[T]) Notify(v T) {
	s.mu.Lock()
	snapshot := make([]func(T), 0, len(s.listeners))
	for _, fn := range s.listeners {
		snapshot = append(snapshot, fn)
	}
	s.mu.Unlock()

	for _, fn := range snapshot {
		fn(v)
	}
}

// Len returns the number of registered listeners
func (s *ListenerSet[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
