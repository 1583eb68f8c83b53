package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches the connection to the hub and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID, userID string) {
	client := NewClient(hub, c, sessionID, userID)
	hub.Register(client)

	go client.writePump()
	client.readPump()
}
