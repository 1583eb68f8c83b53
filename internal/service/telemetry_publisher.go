package service

import (
	"context"
	"encoding/json"

	"hdt-be/pkg/telemetry"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TelemetryPublisher queues samples for persistence. It is the aggregator's
// sink; TelemetryConsumer drains the topic.
type TelemetryPublisher struct {
	topicName string
	publisher message.Publisher
}

func NewTelemetryPublisher(topicName string, publisher message.Publisher) *TelemetryPublisher {
	return &TelemetryPublisher{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *TelemetryPublisher) StoreSample(ctx context.Context, sample telemetry.Sample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("session_id", sample.SessionID)
	msg.Metadata.Set("type", string(sample.Kind))

	return p.publisher.Publish(p.topicName, msg)
}
