// File: /services/broadcast_service.go
package services

import (
	"fmt"
	"sync"
)

// UpdateSignal is the fixed, content-free frame pushed to every subscriber.
// It carries no payload; clients re-fetch whatever resources they care about.
// It must stay valid JSON because clients JSON-parse every frame.
var UpdateSignal = []byte(`{"message":"update"}`)

// Subscriber is one connected live-update client. Messages are delivered
// through a buffered channel; the transport layer drains it and writes frames.
type Subscriber struct {
	send chan []byte
}

// Messages returns the receive side of the subscriber's delivery channel.
// The channel is closed when the subscriber is evicted or unsubscribed.
func (s *Subscriber) Messages() <-chan []byte {
	return s.send
}

// Broadcaster owns the registry of connected subscribers and pushes the
// update signal to all of them whenever state changes. Registry mutations and
// broadcast iteration are serialized by the mutex, so adding a subscriber
// during a broadcast or evicting one whose send just failed cannot corrupt
// the registry.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// subscriberBuffer bounds how far a slow client may lag before it is
// considered dead and evicted. Signals are content-free, so dropping a
// subscriber that cannot keep up loses nothing a reconnect won't restore.
const subscriberBuffer = 8

// Subscribe registers a new client and returns its subscriber handle.
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{
		send: make(chan []byte, subscriberBuffer),
	}

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes a client from the registry and closes its channel.
// Safe to call more than once; a subscriber already evicted by Broadcast is
// simply skipped.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub.send)
}

// Broadcast delivers the update signal to every registered subscriber.
// Delivery is best-effort: a subscriber whose buffer is full is evicted and
// must reconnect, and one failed delivery never blocks the rest. With zero
// subscribers this is a no-op.
func (b *Broadcaster) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		select {
		case sub.send <- UpdateSignal:
		default:
			// Buffer full: the client stopped draining. Evict it.
			delete(b.subscribers, sub)
			close(sub.send)
			fmt.Println("Broadcast: evicted unresponsive subscriber")
		}
	}
}

// Count reports the number of currently registered subscribers.
func (b *Broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
