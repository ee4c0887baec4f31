// Package changefeed broadcasts ledger mutations to subscribers.
//
// It replaces the ambient global change event of older designs with an
// explicit subscription: the store calls Publish after each committed write,
// and consumers (SSE clients, report caches) re-fetch their snapshot when a
// relevant change arrives. Delivery is best-effort — a slow subscriber drops
// messages rather than blocking the writer.
package changefeed

import (
	"sync"

	"github.com/tallybook/tallybook/internal/domain"
)

// Feed fans ledger changes out to subscribers.
type Feed struct {
	mu      sync.Mutex
	clients map[chan domain.Change]struct{}
}

// New creates an empty feed.
func New() *Feed {
	return &Feed{clients: make(map[chan domain.Change]struct{})}
}

// Publish sends a change to all current subscribers.
// Subscribers with a full buffer miss the event.
func (f *Feed) Publish(c domain.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.clients {
		select {
		case ch <- c:
		default:
			// Client too slow — drop message
		}
	}
}

// Subscribe registers a new client. Returns the channel and an unsubscribe
// func; the channel is closed on unsubscribe.
func (f *Feed) Subscribe() (<-chan domain.Change, func()) {
	ch := make(chan domain.Change, 32)
	f.mu.Lock()
	f.clients[ch] = struct{}{}
	f.mu.Unlock()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.clients[ch]; ok {
			delete(f.clients, ch)
			close(ch)
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
