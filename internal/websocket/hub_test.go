package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, "test-instance", logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub, cancel
}

func waitObservers(t *testing.T, hub *Hub, sessionID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Observers(sessionID) == n }, time.Second, 5*time.Millisecond)
}

func TestDeliverLocalTargetsSession(t *testing.T) {
	hub, _ := startHub(t)

	a := NewClient(hub, nil, "s1", "u1")
	b := NewClient(hub, nil, "s2", "u1")
	hub.Register(a)
	hub.Register(b)
	waitObservers(t, hub, "s1", 1)
	waitObservers(t, hub, "s2", 1)

	n := hub.DeliverLocal(Frame{Type: FrameTask, SessionID: "s1", Data: map[string]string{"status": "completed"}})
	assert.Equal(t, 1, n)

	var frame Frame
	require.NoError(t, json.Unmarshal(<-a.Send, &frame))
	assert.Equal(t, FrameTask, frame.Type)
	assert.Equal(t, "s1", frame.SessionID)
	assert.Len(t, b.Send, 0)
}

func TestFullClientMissesFrames(t *testing.T) {
	hub, _ := startHub(t)

	slow := NewClient(hub, nil, "s1", "u1")
	hub.Register(slow)
	waitObservers(t, hub, "s1", 1)

	for i := 0; i < sendBuffer+10; i++ {
		hub.DeliverLocal(Frame{Type: FrameTelemetry, SessionID: "s1"})
	}
	assert.Len(t, slow.Send, sendBuffer)
	assert.Equal(t, 1, hub.Observers("s1"))
}

func TestUnregisterClosesSend(t *testing.T) {
	hub, _ := startHub(t)

	c := NewClient(hub, nil, "s1", "u1")
	hub.Register(c)
	waitObservers(t, hub, "s1", 1)

	hub.Unregister(c)
	waitObservers(t, hub, "s1", 0)
	_, open := <-c.Send
	assert.False(t, open)

	assert.NotPanics(t, func() { hub.Unregister(c) })
}

func TestShutdownClosesClientsAndRejectsLateRegistrations(t *testing.T) {
	hub, cancel := startHub(t)

	c := NewClient(hub, nil, "s1", "u1")
	hub.Register(c)
	waitObservers(t, hub, "s1", 1)

	cancel()
	<-hub.done
	_, open := <-c.Send
	assert.False(t, open)

	late := NewClient(hub, nil, "s1", "u2")
	hub.Register(late)
	_, open = <-late.Send
	assert.False(t, open)
}

func TestRelayForwardsSamples(t *testing.T) {
	hub, _ := startHub(t)

	c := NewClient(hub, nil, "s1", "u1")
	hub.Register(c)
	waitObservers(t, hub, "s1", 1)

	stream := make(chan telemetry.Sample, 1)
	stream <- telemetry.Sample{ID: "x", SessionID: "s1", Kind: telemetry.KindActivity}
	close(stream)
	hub.Relay(context.Background(), stream)

	var frame struct {
		Type string           `json:"type"`
		Data telemetry.Sample `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-c.Send, &frame))
	assert.Equal(t, FrameTelemetry, frame.Type)
	assert.Equal(t, "x", frame.Data.ID)
}
