package orchestrator

import "context"

// SessionDirectory answers whether a work session exists at all, so an
// unknown id is rejected before a task record is created.
type SessionDirectory interface {
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}

// TaskRecorder persists the task at creation and at every transition.
type TaskRecorder interface {
	RecordTask(ctx context.Context, task Task) error
}

// Notifier is told about every transition after it was recorded.
type Notifier interface {
	TaskChanged(ctx context.Context, task Task)
}
