package network

import (
	"sync"

	"github.com/sharivan/XSharp-sub001/pkg/api"
)

// Broadcaster only fans tick summaries out to subscribers.
type Broadcaster struct {
	mu sync.RWMutex
	// subscriber id -> its own channel
	subscribers map[string]chan api.TickSummary
	dropped     map[string]int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.TickSummary),
		dropped:     make(map[string]int),
	}
}

// Register creates the channel of a subscriber. A previous channel with the
// same id is closed.
func (b *Broadcaster) Register(id string) chan api.TickSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.TickSummary, 100)
	b.subscribers[id] = ch
	b.dropped[id] = 0
	return ch
}

// Unregister closes and forgets the channel of id.
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
		delete(b.dropped, id)
	}
}

// SendTo delivers msg to one subscriber. Full channels drop the message.
func (b *Broadcaster) SendTo(id string, msg api.TickSummary) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return false
	}
	return b.offerLocked(id, ch, msg)
}

// Broadcast delivers msg to every subscriber without blocking the tick loop.
func (b *Broadcaster) Broadcast(msg api.TickSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		b.offerLocked(id, ch, msg)
	}
}

func (b *Broadcaster) offerLocked(id string, ch chan api.TickSummary, msg api.TickSummary) bool {
	select {
	case ch <- msg:
		return true
	default:
		b.dropped[id]++
		return false
	}
}

func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount returns the number of active subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped is the number of summaries id missed because its channel was full.
func (b *Broadcaster) Dropped(id string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped[id]
}
