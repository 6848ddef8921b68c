// Package events carries session and reservation notifications between the
// SDK and whatever front end is driving it.
package events

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names an event kind.
type Type string

const (
	SessionLoggedIn  Type = "session.logged_in"
	SessionLoggedOut Type = "session.logged_out"
	SessionExpired   Type = "session.expired"
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	CourtCreated     Type = "court.created"
	CourtUpdated     Type = "court.updated"
	RoleChanged      Type = "role.changed"
	ProfileUpdated   Type = "profile.updated"
)

// Event is a lightweight notification.
type Event struct {
	ID        string
	Type      Type
	Subject   string // email, booking id, court id...
	Detail    string
	CreatedAt time.Time
}

// Handler reacts to an event.
type Handler func(event Event) error

// Bus provides in-process pub/sub.
type Bus struct {
	subscribers map[Type][]Handler
	all         []Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for the given types, or for every type when
// none are given. A nil bus ignores subscriptions.
func (b *Bus) Subscribe(handler Handler, types ...Type) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(types) == 0 {
		b.all = append(b.all, handler)
		return
	}
	for _, t := range types {
		b.subscribers[t] = append(b.subscribers[t], handler)
	}
}

// Publish notifies subscribers and returns their joined errors.
// A nil bus is a no-op.
func (b *Bus) Publish(event Event) error {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		// Handlers run synchronously on the publisher's goroutine.
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
