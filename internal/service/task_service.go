package service

import (
	"context"
	"errors"

	"hdt-be/internal/dto"
	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/orchestrator"

	"github.com/google/uuid"
)

const recentTasksLimit = 20

type ITaskService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitTaskRequest) (*dto.TaskResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error)
	Show(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error)
}

type taskService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	orchestrator   *orchestrator.Orchestrator
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	orchestrator *orchestrator.Orchestrator,
) ITaskService {
	return &taskService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		orchestrator:   orchestrator,
	}
}

// Submit runs the task to completion. A task that failed is returned
// normally with status "failed".
func (s *taskService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitTaskRequest) (*dto.TaskResponse, error) {
	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, "session_id must be a valid UUID")
	}

	session, err := s.sessionService.Owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	task, err := s.orchestrator.Submit(ctx, orchestrator.Submission{
		SessionID: session.Id.String(),
		ProfileID: session.ProfileId.String(),
		Kind:      req.TaskType,
		Command:   req.CommandText,
		Context:   req.Context,
		Priority:  req.Priority,
	})
	if err != nil {
		return nil, err
	}

	record, err := taskEntity(task)
	if err != nil {
		return nil, err
	}
	return taskResponse(record), nil
}

func (s *taskService) GetAll(ctx context.Context, userId uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var sessionIds []uuid.UUID
	if req != nil && req.SessionId != "" {
		sessionId, err := uuid.Parse(req.SessionId)
		if err != nil {
			return nil, apperr.New(apperr.ErrValidation, "session_id must be a valid UUID")
		}
		if _, err := s.sessionService.Owned(ctx, userId, sessionId); err != nil {
			return nil, err
		}
		sessionIds = []uuid.UUID{sessionId}
	} else {
		sessions, err := uow.WorkSessionRepository().FindAll(ctx, specification.ByUserID{UserID: userId})
		if err != nil {
			return nil, err
		}
		for _, session := range sessions {
			sessionIds = append(sessionIds, session.Id)
		}
	}

	res := make([]*dto.TaskResponse, 0)
	if len(sessionIds) == 0 {
		return res, nil
	}

	tasks, err := uow.AITaskRepository().FindAll(ctx,
		specification.BySessionIDs{SessionIDs: sessionIds},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: recentTasksLimit},
	)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		res = append(res, taskResponse(task))
	}
	return res, nil
}

func (s *taskService) Show(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.AITaskRepository().FindOne(ctx, specification.ByID{ID: taskId})
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.Newf(apperr.ErrTaskNotFound, "task %s not found", taskId)
	}

	if _, err := s.sessionService.Owned(ctx, userId, task.SessionId); err != nil {
		if errors.Is(err, apperr.ErrSessionNotFound) {
			return nil, apperr.Newf(apperr.ErrTaskNotFound, "task %s not found", taskId)
		}
		return nil, err
	}

	return taskResponse(task), nil
}

func taskResponse(t *entity.AITask) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:                   t.Id,
		SessionId:            t.SessionId,
		ProfileId:            t.ProfileId,
		TaskType:             t.TaskType,
		CommandText:          t.CommandText,
		Context:              t.Context,
		Status:               t.Status,
		Priority:             t.Priority,
		CreatedAt:            t.CreatedAt,
		StartedAt:            t.StartedAt,
		CompletedAt:          t.CompletedAt,
		ExecutionTimeSeconds: t.ExecutionTimeSeconds,
		ResultData:           t.ResultData,
		ErrorMessage:         t.ErrorMessage,
		TokensUsed:           t.TokensUsed,
	}
}
