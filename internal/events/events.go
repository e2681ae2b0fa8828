package events

import "context"

// Event kinds
const (
	KindTaskUpdated = "task_updated"
)

// Event is the payload pushed to realtime subscribers. It deliberately
// carries no task data; clients re-fetch their list when it arrives.
type Event struct {
	Kind    string `json:"event"`
	Message string `json:"message"`
}

// TaskUpdated returns the event broadcast after any task write.
func TaskUpdated() Event {
	return Event{Kind: KindTaskUpdated, Message: "tasks updated"}
}

// Publisher fans an event out to current subscribers. Publish must not block
// on slow subscribers and never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}
