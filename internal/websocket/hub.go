package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"hdt-be/internal/pkg/logger"
	"hdt-be/pkg/telemetry"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "hdt_stream_events"

const (
	FrameTelemetry = "telemetry"
	FrameTask      = "task"
)

// Frame is the JSON document pushed to observers.
type Frame struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data"`
}

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub keeps the observers of each session on this instance. Frames produced
// here are also published on Redis so observers connected to other
// instances receive them.
type Hub struct {
	// Registered clients: SessionID -> set of clients
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Guards clients; Run is the only writer.
	mu sync.RWMutex

	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, instanceID string, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: instanceID,
		logger:     log,
	}
}

// Run owns client registration until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.clients[client.SessionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.SessionID] = set
			}
			set[client] = struct{}{}
			observers := len(set)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"user_id":    client.UserID,
				"observers":  observers,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					close(client.Send)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.SessionID)
	}
	h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.SessionID})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Observers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// DeliverLocal pushes a frame to this instance's observers only. A client
// with a full buffer misses the frame.
func (h *Hub) DeliverLocal(frame Frame) int {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode frame", map[string]interface{}{"error": err.Error()})
		return 0
	}
	return h.deliverRaw(frame.SessionID, data)
}

func (h *Hub) deliverRaw(sessionID string, data []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
			delivered++
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping frame", map[string]interface{}{
				"session_id": sessionID,
				"user_id":    client.UserID,
			})
		}
	}
	return delivered
}

// Deliver pushes a frame locally and to the other instances.
func (h *Hub) Deliver(ctx context.Context, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode frame", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliverRaw(frame.SessionID, data)

	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{Origin: h.instanceID, SessionID: frame.SessionID, Message: data})
	if err := h.rdb.Publish(ctx, clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{
			"session_id": frame.SessionID,
			"error":      err.Error(),
		})
	}
}

// Relay forwards every sample of the stream as a telemetry frame until the
// stream closes or ctx ends.
func (h *Hub) Relay(ctx context.Context, stream <-chan telemetry.Sample) {
	for {
		select {
		case sample, ok := <-stream:
			if !ok {
				return
			}
			h.Deliver(ctx, Frame{Type: FrameTelemetry, SessionID: sample.SessionID, Data: sample})
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Our own frames were delivered locally already.
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliverRaw(payload.SessionID, payload.Message)
		}
	}
}
