package handler

import (
	"context"
	"encoding/json"
	"time"

	"urbanmind-be/internal/dto"
	"urbanmind-be/internal/pkg/logger"
	"urbanmind-be/internal/service"
	internalWS "urbanmind-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SessionStreamHandler upgrades to a websocket that streams session snapshots.
type SessionStreamHandler struct {
	service service.IConversationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewSessionStreamHandler(service service.IConversationService, hub *internalWS.Hub, log logger.ILogger) *SessionStreamHandler {
	return &SessionStreamHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *SessionStreamHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/sessions/:id/ws", h.ServeWs)
}

// ServeWs sends the current snapshot first, then one message per change.
// Every message carries the session version; watchers keep the highest.
func (h *SessionStreamHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	// Resolve before upgrading so a missing session is a plain 404.
	if _, err := h.service.GetSession(c.UserContext(), sessionID); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("SessionStream", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID, h.snapshotFunc(sessionID))
		h.logger.Info("SessionStream", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

// snapshotFunc is called after the client joined the hub, so no change can
// fall between the snapshot and the first relayed message.
func (h *SessionStreamHandler) snapshotFunc(sessionID uuid.UUID) internalWS.SnapshotFunc {
	return func() ([]byte, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		snap, err := h.service.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(dto.SessionEventMessage{Type: "snapshot", Data: *snap})
	}
}
