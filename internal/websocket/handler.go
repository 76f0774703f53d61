package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles a watch-channel connection for an authenticated user.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump(context.Background()) // Run readPump in current goroutine (handler)
}
