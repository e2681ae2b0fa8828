package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
)

// DefaultBufferSize is the per-subscriber event buffer used by Subscribe
// when a non-positive size is requested.
const DefaultBufferSize = 16

// Subscription is a handle for one realtime observer.
type Subscription struct {
	ID uuid.UUID
	ch chan Event
}

// Events returns the channel events are delivered on. It is closed when the
// subscription is removed or the hub is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Hub is the in-memory registry of realtime subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscription
	closed bool
	logger *slog.Logger
}

// Ensure Hub implements Publisher
var _ Publisher = (*Hub)(nil)

// NewHub creates an empty hub. If logger is nil, a default logger will be used.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[uuid.UUID]*Subscription),
		logger: logger.With(slog.String("component", "realtime_hub")),
	}
}

// Subscribe registers a new observer with room for buffer pending events.
// Subscribing to a closed hub returns a subscription whose channel is already closed.
func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	sub := &Subscription{ID: uuid.New(), ch: make(chan Event, buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub.ID] = sub
	h.logger.Debug("subscriber added",
		slog.String("subscription_id", sub.ID.String()),
		slog.Int("subscriber_count", len(h.subs)))
	return sub
}

// Unsubscribe removes sub and closes its channel. It is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.ID]; !ok {
		return
	}
	delete(h.subs, sub.ID)
	close(sub.ch)
	h.logger.Debug("subscriber removed",
		slog.String("subscription_id", sub.ID.String()),
		slog.Int("subscriber_count", len(h.subs)))
}

// Publish delivers event to every current subscriber without blocking.
// It returns immediately; subscribers with a full buffer miss the event.
func (h *Hub) Publish(ctx context.Context, event Event) {
	log := logger.FromContextOrDefault(ctx, h.logger)

	// Held for the whole fan-out so Unsubscribe cannot close a channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			dropped++
		}
	}

	log.Debug("realtime event published",
		slog.String("event", event.Kind),
		slog.Int("subscriber_count", len(h.subs)),
		slog.Int("dropped", dropped))
}

// Len returns the number of current subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close removes every subscriber. Later Subscribe calls get closed channels
// and Publish becomes a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
}
