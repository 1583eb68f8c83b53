package service

import (
	"context"
	"fmt"
	"strings"

	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/websocket"
	"hdt-be/pkg/events"
	pktNats "hdt-be/pkg/nats" // Renamed to avoid collision
)

// NotificationDelivery pushes frames to observers connected to this
// instance. Implemented by the WebSocket Hub.
type NotificationDelivery interface {
	DeliverLocal(frame websocket.Frame) int
}

// NotificationService relays task events from the bus to the live
// observers of the task's session.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	durable    string
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, instanceID string, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		durable:    "task-relay-" + instanceID,
		logger:     log,
	}
}

// Start begins listening to the event bus. Every instance uses its own
// durable consumer so each one sees every event.
func (s *NotificationService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event bus, task events are not relayed", nil)
		return nil
	}
	if err := s.subscriber.Subscribe(ctx, pktNats.Subject(">"), s.durable, s.handleEvent); err != nil {
		return err
	}
	s.logger.Info("NotificationService", "Relaying task events to stream observers", map[string]interface{}{"durable": s.durable})
	return nil
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	if !strings.HasPrefix(event.EventType(), "TASK_") {
		return nil
	}

	payload := event.Payload()
	sessionID, _ := payload["session_id"].(string)
	if sessionID == "" {
		s.logger.Warn("NotificationService", fmt.Sprintf("Task event %s has no session_id", event.EventType()), nil)
		return nil
	}

	data := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		data[k] = v
	}
	data["event"] = event.EventType()

	delivered := s.delivery.DeliverLocal(websocket.Frame{
		Type:      websocket.FrameTask,
		SessionID: sessionID,
		Data:      data,
	})
	s.logger.Debug("NotificationService", "Task event relayed", map[string]interface{}{
		"type":       event.EventType(),
		"session_id": sessionID,
		"observers":  delivered,
	})
	return nil
}
