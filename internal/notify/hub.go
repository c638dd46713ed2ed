// Package notify fans profile change events out to connected listeners.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stemsi/profile-directory/internal/model"
)

// subscriberBuffer is how many events a slow listener may lag behind before
// events are dropped for it.
const subscriberBuffer = 16

// Publisher announces that the profile list changed.
type Publisher interface {
	Publish(ctx context.Context, ev model.ChangeEvent) error
}

// Hub delivers events to in-process subscribers. It also acts as the
// Publisher when no broker is configured.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan model.ChangeEvent]struct{}
	closed bool
	log    zerolog.Logger
}

var _ Publisher = (*Hub)(nil)

// NewHub creates an empty Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[chan model.ChangeEvent]struct{}),
		log:  log.With().Str("component", "notify_hub").Logger(),
	}
}

// Subscribe registers a listener. The returned cancel func unregisters it and
// closes the channel.
func (h *Hub) Subscribe() (<-chan model.ChangeEvent, func()) {
	ch := make(chan model.ChangeEvent, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Broadcast hands ev to every subscriber without blocking.
func (h *Hub) Broadcast(ev model.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.Warn().Str("action", string(ev.Action)).Msg("Subscriber lagging, event dropped")
		}
	}
}

// Publish broadcasts ev locally.
func (h *Hub) Publish(_ context.Context, ev model.ChangeEvent) error {
	h.Broadcast(ev)
	return nil
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later subscriptions receive a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.closed = true
}
