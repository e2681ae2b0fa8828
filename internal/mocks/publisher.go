package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/tasklink-api/internal/events"
)

// RecordingPublisher implements events.Publisher and remembers every event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

var _ events.Publisher = (*RecordingPublisher)(nil)

// Publish implements events.Publisher.
func (p *RecordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Count returns how many events were published.
func (p *RecordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// Events returns a copy of the published events.
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}
