package service

import (
	"context"
	"time"

	"hdt-be/internal/dto"
	"hdt-be/internal/entity"
	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/repository/specification"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/orchestrator"
	"hdt-be/pkg/prompt"

	"github.com/google/uuid"
)

const (
	interactionUser      = "user"
	interactionAssistant = "assistant"
)

type IChatService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.InteractionResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	orchestrator   *orchestrator.Orchestrator
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	orchestrator *orchestrator.Orchestrator,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		orchestrator:   orchestrator,
		logger:         logger,
	}
}

// Chat sends the message as a general task on the session conversation. The
// user's message is always stored; the reply only when the task completed.
func (s *chatService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId, err := uuid.Parse(req.SessionId)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, "session_id must be a valid UUID")
	}

	session, err := s.sessionService.Owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AIInteractionRepository().Create(ctx, &entity.AIInteraction{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      interactionUser,
		Content:   req.Message,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	task, err := s.orchestrator.Submit(ctx, orchestrator.Submission{
		SessionID: session.Id.String(),
		ProfileID: session.ProfileId.String(),
		Kind:      string(prompt.KindGeneral),
		Command:   req.Message,
	})
	if err != nil {
		return nil, err
	}

	taskId, _ := uuid.Parse(task.ID)
	res := &dto.ChatResponse{
		TaskId:     taskId,
		Status:     string(task.Status),
		TokensUsed: task.TokensUsed,
	}

	if task.Status != orchestrator.StatusCompleted {
		msg := task.ErrorMessage
		res.ErrorMessage = &msg
		return res, nil
	}

	res.Response = task.Result.RawText
	tokens := task.TokensUsed
	if err := uow.AIInteractionRepository().Create(ctx, &entity.AIInteraction{
		Id:         uuid.New(),
		SessionId:  session.Id,
		Role:       interactionAssistant,
		Content:    task.Result.RawText,
		TokensUsed: &tokens,
		Timestamp:  time.Now().UTC(),
	}); err != nil {
		s.logger.Error("CHAT", "Failed to store assistant reply", map[string]interface{}{
			"session_id": session.Id.String(),
			"task_id":    task.ID,
			"error":      err.Error(),
		})
	}

	return res, nil
}

func (s *chatService) History(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.InteractionResponse, error) {
	session, err := s.sessionService.Owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	interactions, err := uow.AIInteractionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "timestamp"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InteractionResponse, 0, len(interactions))
	for _, i := range interactions {
		res = append(res, &dto.InteractionResponse{
			Id:         i.Id,
			Role:       i.Role,
			Content:    i.Content,
			TokensUsed: i.TokensUsed,
			Timestamp:  i.Timestamp,
		})
	}
	return res, nil
}
