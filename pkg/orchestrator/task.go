package orchestrator

import (
	"fmt"
	"time"

	"hdt-be/pkg/apperr"
	"hdt-be/pkg/prompt"
	"hdt-be/pkg/response"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

const DefaultPriority = 5

// Task is one request executed against a session conversation. Only the
// orchestrator running it mutates it; callers get copies.
type Task struct {
	ID           string
	SessionID    string
	ProfileID    string
	Kind         prompt.TaskKind
	Command      string
	Context      prompt.TaskContext
	Priority     int
	Status       Status
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Result       *response.ParsedResult
	ErrorMessage string
	TokensUsed   int
}

// ExecutionTime is CompletedAt - StartedAt, or zero before completion.
func (t Task) ExecutionTime() time.Duration {
	if t.StartedAt == nil || t.CompletedAt == nil {
		return 0
	}
	return t.CompletedAt.Sub(*t.StartedAt)
}

func (t *Task) illegal(to Status) error {
	return apperr.New(apperr.ErrIllegalTransition, fmt.Sprintf("task %s: %s -> %s", t.ID, t.Status, to))
}

func (t *Task) start(now time.Time) error {
	if t.Status != StatusPending {
		return t.illegal(StatusProcessing)
	}
	t.Status = StatusProcessing
	t.StartedAt = &now
	return nil
}

func (t *Task) complete(now time.Time, result response.ParsedResult, tokens int) error {
	if t.Status != StatusProcessing {
		return t.illegal(StatusCompleted)
	}
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.Result = &result
	t.TokensUsed = tokens
	return nil
}

func (t *Task) fail(now time.Time, message string) error {
	if t.Status != StatusProcessing {
		return t.illegal(StatusFailed)
	}
	t.Status = StatusFailed
	t.CompletedAt = &now
	t.ErrorMessage = message
	return nil
}
