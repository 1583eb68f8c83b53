package service

import (
	"context"
	"encoding/json"

	"hdt-be/internal/entity"
	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/repository/unitofwork"
	"hdt-be/pkg/telemetry"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

// NewConsumerService persists the samples queued by TelemetryPublisher.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var sample telemetry.Sample
	if err := json.Unmarshal(msg.Payload, &sample); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal sample", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sampleId, err1 := uuid.Parse(sample.ID)
	sessionId, err2 := uuid.Parse(sample.SessionID)
	if err1 != nil || err2 != nil {
		cs.logger.Error("CONSUMER", "Sample has malformed ids", map[string]interface{}{
			"sample_id":  sample.ID,
			"session_id": sample.SessionID,
		})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var err error
	switch {
	case sample.Kind == telemetry.KindPhysiological && sample.Physiological != nil:
		p := sample.Physiological
		err = uow.PhysiologicalDataRepository().Create(ctx, &entity.PhysiologicalData{
			Id:                   sampleId,
			SessionId:            sessionId,
			Timestamp:            sample.Timestamp,
			HeartRate:            p.HeartRate,
			HeartRateVariability: p.HeartRateVariability,
			SkinTemperature:      p.SkinTemperature,
			StressLevel:          p.StressLevel,
			CognitiveLoad:        p.CognitiveLoad,
			FatigueScore:         p.FatigueScore,
			PostureScore:         p.PostureScore,
			RawSensorData:        p.RawSensorData,
		})
	case sample.Kind == telemetry.KindActivity && sample.Activity != nil:
		a := sample.Activity
		err = uow.WorkActivityRepository().Create(ctx, &entity.WorkActivity{
			Id:              sampleId,
			SessionId:       sessionId,
			Timestamp:       sample.Timestamp,
			ActivityType:    a.ActivityType,
			TypingSpeed:     a.TypingSpeed,
			MouseMovements:  a.MouseMovements,
			ApplicationName: a.ApplicationName,
			FocusScore:      a.FocusScore,
		})
	default:
		cs.logger.Warn("CONSUMER", "Dropping sample of unknown type", map[string]interface{}{
			"sample_id": sample.ID,
			"type":      string(sample.Kind),
		})
		msg.Ack()
		return
	}

	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to persist sample", map[string]interface{}{
			"sample_id":  sample.ID,
			"session_id": sample.SessionID,
			"error":      err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
