// Package event provides the synchronous publish/subscribe bus that drives
// the deployment pipeline, together with its catalogue of lifecycle events.
package event

import (
	"context"
	"sync"
)

// Handler processes one event. Returning an error stops delivery to the
// remaining subscribers of that dispatch.
type Handler func(ctx context.Context, ev Event) error

// Subscription represents a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Bus dispatches events to subscribers in registration order. Dispatch is
// synchronous: every subscriber completes before Dispatch returns.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscriptionEntry
	nextID int

	lastName  string
	lastEvent Event
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscriptionEntry)}
}

// Subscribe registers handler for name.
func (b *Bus) Subscribe(name string, handler Handler) Subscription {
	if handler == nil {
		return noopSubscription{}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscriptionEntry{id: id, handler: handler})
	b.mu.Unlock()

	return subscription{
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			handlers := b.subs[name]
			for i, entry := range handlers {
				if entry.id == id {
					b.subs[name] = append(handlers[:i:i], handlers[i+1:]...)
					break
				}
			}
		},
	}
}

// HasSubscribers reports whether any handler is registered for name.
func (b *Bus) HasSubscribers(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name]) > 0
}

// Dispatch delivers ev to every subscriber of name and returns it so the
// caller can read any result a subscriber filled in. A nil ev is replaced with
// &Empty{}. Unless name is Log, a dispatch in which every subscriber succeeded
// becomes the last dispatched event.
func (b *Bus) Dispatch(ctx context.Context, name string, ev Event) (Event, error) {
	if ev == nil {
		ev = &Empty{}
	}

	b.mu.RLock()
	handlers := append([]subscriptionEntry(nil), b.subs[name]...)
	b.mu.RUnlock()

	for _, entry := range handlers {
		if err := entry.handler(ctx, ev); err != nil {
			return ev, err
		}
	}

	if name != Log {
		b.mu.Lock()
		b.lastName = name
		b.lastEvent = ev
		b.mu.Unlock()
	}
	return ev, nil
}

// LastDispatched returns the most recent non-Log dispatch, or "" and nil when
// there has been none.
func (b *Bus) LastDispatched() (string, Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastName, b.lastEvent
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler Handler
}
