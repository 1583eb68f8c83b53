package service

import (
	"context"
	"encoding/json"
	"fmt"

	"hdt-be/internal/entity"
	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/events"
	"hdt-be/pkg/orchestrator"

	"github.com/google/uuid"
)

// TaskRecorder persists every task transition and announces it on the
// event bus. It implements orchestrator.TaskRecorder and
// orchestrator.Notifier.
type TaskRecorder struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewTaskRecorder(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, logger logger.ILogger) *TaskRecorder {
	return &TaskRecorder{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

func (r *TaskRecorder) RecordTask(ctx context.Context, task orchestrator.Task) error {
	record, err := taskEntity(task)
	if err != nil {
		return err
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	return uow.AITaskRepository().Save(ctx, record)
}

func (r *TaskRecorder) TaskChanged(ctx context.Context, task orchestrator.Task) {
	eventType := events.TaskEventType(string(task.Status))
	if task.Status == orchestrator.StatusPending {
		eventType = events.TaskCreated
	}

	data := map[string]interface{}{
		"task_id":    task.ID,
		"session_id": task.SessionID,
		"profile_id": task.ProfileID,
		"task_type":  string(task.Kind),
		"status":     string(task.Status),
		"priority":   task.Priority,
	}
	if task.Status.Terminal() {
		data["tokens_used"] = task.TokensUsed
		data["execution_time_seconds"] = int(task.ExecutionTime().Seconds())
	}
	if task.ErrorMessage != "" {
		data["error_message"] = task.ErrorMessage
	}

	if err := r.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		r.logger.Warn("TASK", "Failed to publish task event", map[string]interface{}{
			"task_id": task.ID,
			"type":    eventType,
			"error":   err.Error(),
		})
	}
}

func taskEntity(task orchestrator.Task) (*entity.AITask, error) {
	id, err := uuid.Parse(task.ID)
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	sessionId, err := uuid.Parse(task.SessionID)
	if err != nil {
		return nil, fmt.Errorf("task session id: %w", err)
	}
	profileId, err := uuid.Parse(task.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("task profile id: %w", err)
	}

	record := &entity.AITask{
		Id:          id,
		SessionId:   sessionId,
		ProfileId:   profileId,
		TaskType:    string(task.Kind),
		CommandText: task.Command,
		Context:     task.Context,
		Status:      string(task.Status),
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		StartedAt:   task.StartedAt,
		CompletedAt: task.CompletedAt,
		TokensUsed:  task.TokensUsed,
	}

	if task.StartedAt != nil && task.CompletedAt != nil {
		seconds := int(task.ExecutionTime().Seconds())
		record.ExecutionTimeSeconds = &seconds
	}
	if task.ErrorMessage != "" {
		msg := task.ErrorMessage
		record.ErrorMessage = &msg
	}
	if task.Result != nil {
		b, err := json.Marshal(task.Result)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &record.ResultData); err != nil {
			return nil, err
		}
	}
	return record, nil
}
