package nats

import (
	"testing"
	"time"

	"hdt-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKeepsTypeAndTime(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	raw, err := encode(events.BaseEvent{Type: events.TaskCompleted, Data: map[string]interface{}{"task_id": "t1"}, OccurredAt: at})
	require.NoError(t, err)

	got, err := decode(Subject(events.TaskCompleted), raw)
	require.NoError(t, err)
	assert.Equal(t, events.TaskCompleted, got.EventType())
	assert.True(t, at.Equal(got.Timestamp()))
	assert.Equal(t, "t1", got.Payload()["task_id"])
}

func TestDecodeBareProducer(t *testing.T) {
	got, err := decode("events.SESSION_ENDED", []byte(`{"data":{"session_id":"s"}}`))
	require.NoError(t, err)
	assert.Equal(t, events.SessionEnded, got.EventType())
	assert.False(t, got.Timestamp().IsZero())

	_, err = decode("events.X", []byte("not json"))
	assert.Error(t, err)
}

func TestTaskEventType(t *testing.T) {
	assert.Equal(t, events.TaskFailed, events.TaskEventType("failed"))
	assert.Equal(t, events.TaskProcessing, events.TaskEventType("processing"))
}
