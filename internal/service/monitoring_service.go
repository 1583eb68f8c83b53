package service

import (
	"context"
	"time"

	"hdt-be/internal/dto"
	"hdt-be/internal/entity"
	"hdt-be/internal/repository/specification"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/apperr"
	"hdt-be/pkg/telemetry"

	"github.com/google/uuid"
)

type IMonitoringService interface {
	IngestPhysiological(ctx context.Context, userId uuid.UUID, req *dto.PhysiologicalRequest) (*telemetry.Sample, error)
	IngestActivity(ctx context.Context, userId uuid.UUID, req *dto.ActivityRequest) (*telemetry.Sample, error)
	CurrentState(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.CurrentStateResponse, error)
}

type monitoringService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	aggregator     *telemetry.Aggregator
}

func NewMonitoringService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	aggregator *telemetry.Aggregator,
) IMonitoringService {
	return &monitoringService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		aggregator:     aggregator,
	}
}

func (s *monitoringService) IngestPhysiological(ctx context.Context, userId uuid.UUID, req *dto.PhysiologicalRequest) (*telemetry.Sample, error) {
	session, err := s.activeSession(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	sample, err := s.aggregator.Ingest(ctx, telemetry.Sample{
		SessionID: session.Id.String(),
		Kind:      telemetry.KindPhysiological,
		Timestamp: timestampOrZero(req.Timestamp),
		Physiological: &telemetry.Physiological{
			HeartRate:            req.HeartRate,
			HeartRateVariability: req.HeartRateVariability,
			SkinTemperature:      req.SkinTemperature,
			StressLevel:          req.StressLevel,
			CognitiveLoad:        req.CognitiveLoad,
			FatigueScore:         req.FatigueScore,
			PostureScore:         req.PostureScore,
			RawSensorData:        req.RawSensorData,
		},
	})
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *monitoringService) IngestActivity(ctx context.Context, userId uuid.UUID, req *dto.ActivityRequest) (*telemetry.Sample, error) {
	session, err := s.activeSession(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	sample, err := s.aggregator.Ingest(ctx, telemetry.Sample{
		SessionID: session.Id.String(),
		Kind:      telemetry.KindActivity,
		Timestamp: timestampOrZero(req.Timestamp),
		Activity: &telemetry.Activity{
			ActivityType:    req.ActivityType,
			TypingSpeed:     req.TypingSpeed,
			MouseMovements:  req.MouseMovements,
			ApplicationName: req.ApplicationName,
			FocusScore:      req.FocusScore,
		},
	})
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *monitoringService) CurrentState(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.CurrentStateResponse, error) {
	session, err := s.sessionService.Owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	sessionID := session.Id.String()
	res := &dto.CurrentStateResponse{SessionId: sessionID, IsActive: session.IsActive}
	if summary, ok := s.aggregator.Summary(sessionID); ok {
		res.Summary = &summary
	}

	if phys, act, err := s.aggregator.Latest(sessionID); err == nil {
		res.Physiological = phys
		res.Activity = act
		return res, nil
	}

	// Not running here any more: fall back to what was persisted.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	latest := []specification.Specification{
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "timestamp", Desc: true},
	}

	phys, err := uow.PhysiologicalDataRepository().FindOne(ctx, latest...)
	if err != nil {
		return nil, err
	}
	act, err := uow.WorkActivityRepository().FindOne(ctx, latest...)
	if err != nil {
		return nil, err
	}

	res.Physiological = physiologicalSample(phys)
	res.Activity = activitySample(act)
	return res, nil
}

func (s *monitoringService) activeSession(ctx context.Context, userId uuid.UUID, rawId string) (*entity.WorkSession, error) {
	sessionId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperr.New(apperr.ErrValidation, "session_id must be a valid UUID")
	}

	session, err := s.sessionService.Owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, apperr.Newf(apperr.ErrSessionNotFound, "active session %s not found", sessionId)
	}
	return session, nil
}

func timestampOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func physiologicalSample(p *entity.PhysiologicalData) *telemetry.Sample {
	if p == nil {
		return nil
	}
	return &telemetry.Sample{
		ID:        p.Id.String(),
		SessionID: p.SessionId.String(),
		Kind:      telemetry.KindPhysiological,
		Timestamp: p.Timestamp,
		Physiological: &telemetry.Physiological{
			HeartRate:            p.HeartRate,
			HeartRateVariability: p.HeartRateVariability,
			SkinTemperature:      p.SkinTemperature,
			StressLevel:          p.StressLevel,
			CognitiveLoad:        p.CognitiveLoad,
			FatigueScore:         p.FatigueScore,
			PostureScore:         p.PostureScore,
			RawSensorData:        p.RawSensorData,
		},
	}
}

func activitySample(a *entity.WorkActivity) *telemetry.Sample {
	if a == nil {
		return nil
	}
	return &telemetry.Sample{
		ID:        a.Id.String(),
		SessionID: a.SessionId.String(),
		Kind:      telemetry.KindActivity,
		Timestamp: a.Timestamp,
		Activity: &telemetry.Activity{
			ActivityType:    a.ActivityType,
			TypingSpeed:     a.TypingSpeed,
			MouseMovements:  a.MouseMovements,
			ApplicationName: a.ApplicationName,
			FocusScore:      a.FocusScore,
		},
	}
}
