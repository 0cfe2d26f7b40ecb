package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches c to the hub and blocks until the peer disconnects.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID uuid.UUID) {
	client := NewClient(hub, c, sessionID)
	hub.Register(client)

	go client.writePump()
	client.readPump()
}
