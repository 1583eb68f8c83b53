package events

import (
	"context"
	"strings"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	SessionStarted = "SESSION_STARTED"
	SessionEnded   = "SESSION_ENDED"

	TaskCreated    = "TASK_CREATED"
	TaskProcessing = "TASK_PROCESSING"
	TaskCompleted  = "TASK_COMPLETED"
	TaskFailed     = "TASK_FAILED"
)

// TaskEventType maps a task status to its event code.
func TaskEventType(status string) string {
	return "TASK_" + strings.ToUpper(status)
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher is what services depend on; pkg/nats provides the real one.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events. Used when no broker is reachable.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
