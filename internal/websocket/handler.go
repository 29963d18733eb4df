package websocket

import (
	"github.com/iZhuoxx/AI-web/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection and blocks until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, sendBuffer)}
	if !hub.Register(client) {
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// UpgradeMiddleware rejects plain HTTP requests and carries the session user
// into the websocket locals.
func UpgradeMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("allowed", true)
		return ctx.Next()
	}
}

// Handler serves /api/ws behind the session middleware.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userIdStr, _ := c.Locals(serverutils.UserIDKey).(string)
		userID, err := uuid.Parse(userIdStr)
		if err != nil {
			_ = c.Close()
			return
		}
		ServeWs(hub, c, userID)
	})
}
