package service

import (
	"context"
	"errors"
	"time"

	"hdt-be/internal/dto"
	"hdt-be/internal/entity"
	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/repository/memory"
	"hdt-be/internal/repository/specification"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/conversation"
	"hdt-be/pkg/events"
	"hdt-be/pkg/orchestrator"
	"hdt-be/pkg/prompt"
	"hdt-be/pkg/telemetry"

	"github.com/google/uuid"
)

const recentSessionsLimit = 10

type ISessionService interface {
	Start(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	End(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.EndSessionRequest) (*dto.SessionResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	Summary(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionSummaryResponse, error)

	// Owned returns the session if it belongs to the user, or
	// ErrSessionNotFound.
	Owned(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.WorkSession, error)

	orchestrator.SessionDirectory
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *conversation.Registry
	aggregator *telemetry.Aggregator
	cache      *memory.SessionRepository
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	registry *conversation.Registry,
	aggregator *telemetry.Aggregator,
	cache *memory.SessionRepository,
	publisher events.Publisher,
	logger logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		registry:   registry,
		aggregator: aggregator,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *sessionService) Start(ctx context.Context, userId uuid.UUID, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	profileId, err := uuid.Parse(req.ProfileId)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, "profile_id must be a valid UUID")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.HDTProfileRepository().FindOne(ctx,
		specification.ByID{ID: profileId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.Newf(apperr.ErrProfileNotFound, "profile %s not found", profileId)
	}

	role, err := prompt.ParseRole(profile.RoleType)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, err.Error())
	}

	session := &entity.WorkSession{
		Id:        uuid.New(),
		UserId:    userId,
		ProfileId: profile.Id,
		StartTime: time.Now().UTC(),
		IsActive:  true,
	}
	if err := uow.WorkSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	sessionID := session.Id.String()
	if err := s.registry.Open(sessionID, role); err != nil && !errors.Is(err, conversation.ErrAlreadyOpen) {
		return nil, err
	}
	s.aggregator.Start(sessionID)
	s.cache.Save(session)

	s.logger.Info("SESSION", "Work session started", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userId.String(),
		"role":       string(role),
	})
	s.publish(ctx, events.SessionStarted, map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userId.String(),
		"profile_id": profile.Id.String(),
		"role_type":  profile.RoleType,
	})

	res := sessionResponse(session)
	res.RoleType = profile.RoleType
	return res, nil
}

func (s *sessionService) End(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.EndSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return sessionResponse(session), nil
	}

	sessionID := session.Id.String()
	s.registry.Close(sessionID)
	summary, finalized := s.aggregator.Finalize(sessionID)

	completed, err := uow.AITaskRepository().Count(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.ByStatus{Status: string(orchestrator.StatusCompleted)},
	)
	if err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	duration := int(end.Sub(session.StartTime).Seconds())
	session.EndTime = &end
	session.DurationSeconds = &duration
	session.TotalTasksCompleted = int(completed)
	session.IsActive = false
	if finalized {
		session.AvgCognitiveLoad = summary.AvgCognitiveLoad
		session.AvgStressLevel = summary.AvgStressLevel
	}
	if req != nil && req.Notes != "" {
		session.Notes = req.Notes
	}

	if err := uow.WorkSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	s.cache.Delete(sessionID)

	s.logger.Info("SESSION", "Work session ended", map[string]interface{}{
		"session_id":      sessionID,
		"duration":        duration,
		"tasks_completed": completed,
	})
	s.publish(ctx, events.SessionEnded, map[string]interface{}{
		"session_id":       sessionID,
		"user_id":          userId.String(),
		"duration_seconds": duration,
		"tasks_completed":  completed,
	})

	return sessionResponse(session), nil
}

func (s *sessionService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.WorkSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "start_time", Desc: true},
		specification.Pagination{Limit: recentSessionsLimit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, sessionResponse(session))
	}
	return res, nil
}

func (s *sessionService) Summary(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionSummaryResponse{Session: *sessionResponse(session)}
	if summary, ok := s.aggregator.Summary(session.Id.String()); ok {
		res.Telemetry = &summary
	}

	bySession := specification.BySessionID{SessionID: session.Id}
	if res.TasksTotal, err = uow.AITaskRepository().Count(ctx, bySession); err != nil {
		return nil, err
	}
	if res.TasksCompleted, err = uow.AITaskRepository().Count(ctx, bySession, specification.ByStatus{Status: string(orchestrator.StatusCompleted)}); err != nil {
		return nil, err
	}
	if res.TasksFailed, err = uow.AITaskRepository().Count(ctx, bySession, specification.ByStatus{Status: string(orchestrator.StatusFailed)}); err != nil {
		return nil, err
	}

	return res, nil
}

func (s *sessionService) Owned(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.WorkSession, error) {
	if cached, ok := s.cache.Get(sessionId.String()); ok && cached.UserId == userId {
		return cached, nil
	}

	session, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, sessionId)
	if err != nil {
		return nil, err
	}
	if session.IsActive {
		s.cache.Save(session)
	}
	return session, nil
}

func (s *sessionService) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	if _, ok := s.cache.Get(sessionID); ok {
		return true, nil
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return false, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.WorkSessionRepository().Count(ctx, specification.ByID{ID: id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *sessionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.WorkSession, error) {
	session, err := uow.WorkSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.Newf(apperr.ErrSessionNotFound, "session %s not found", sessionId)
	}
	return session, nil
}

func (s *sessionService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("SESSION", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func sessionResponse(s *entity.WorkSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:                  s.Id,
		ProfileId:           s.ProfileId,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		DurationSeconds:     s.DurationSeconds,
		TotalTasksCompleted: s.TotalTasksCompleted,
		AvgCognitiveLoad:    s.AvgCognitiveLoad,
		AvgStressLevel:      s.AvgStressLevel,
		Notes:               s.Notes,
		IsActive:            s.IsActive,
	}
}
