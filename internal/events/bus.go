// Package events is the notification hook between the collection managers
// and whatever relays changes onward (a live-update channel, a log, a test).
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ProductAdded     = "productAdded"
	ProductUpdated   = "productUpdated"
	ProductDeleted   = "productDeleted"
	CartCreated      = "cartCreated"
	CartProductAdded = "cartProductAdded"
)

type Event struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

type Handler func(Event)

// Bus fans events out to subscribers synchronously, in subscription order.
// Subscribers that need to block should hand off to their own goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs []Handler
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, h)
}

func (b *Bus) Publish(name string, payload any) Event {
	ev := Event{
		ID:      uuid.NewString(),
		Name:    name,
		At:      time.Now().UTC(),
		Payload: payload,
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, h := range subs {
		h(ev)
	}
	return ev
}
