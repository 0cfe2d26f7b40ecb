package handler

import (
	"turkgpt/internal/pkg/logger"
	internalWS "turkgpt/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SessionFeedHandler streams the events of one chat session over a websocket.
type SessionFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewSessionFeedHandler(hub *internalWS.Hub, log logger.ILogger) *SessionFeedHandler {
	return &SessionFeedHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *SessionFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/sessions/:id", h.Upgrade, websocket.New(h.ServeWs))
}

// Upgrade rejects plain HTTP requests and malformed session ids before
// the handshake.
func (h *SessionFeedHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	c.Locals("session_id", sessionID)
	return c.Next()
}

func (h *SessionFeedHandler) ServeWs(c *websocket.Conn) {
	sessionID, ok := c.Locals("session_id").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	h.logger.Info("SessionFeedHandler", "Websocket connected", map[string]interface{}{"session_id": sessionID})
	internalWS.ServeWs(h.hub, c, sessionID)
}
