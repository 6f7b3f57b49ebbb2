package auth

import (
	"sync"
)

// SessionEvent notifies subscribers of sign-in activity.
type SessionEvent struct {
	Wallet string `json:"wallet"`
	Event  string `json:"event"`
}

// Broadcaster fans session events out to in-process subscribers. Slow
// subscribers are skipped rather than blocking sign-in.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan SessionEvent
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan SessionEvent),
	}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called to release the channel.
func (b *Broadcaster) Subscribe() (<-chan SessionEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan SessionEvent, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Notify delivers the event to every subscriber with room in its buffer.
func (b *Broadcaster) Notify(event SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
