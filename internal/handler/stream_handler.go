package handler

import (
	"hdt-be/internal/pkg/logger"
	"hdt-be/internal/pkg/serverutils"
	"hdt-be/internal/service"
	internalWS "hdt-be/internal/websocket"
	"hdt-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// StreamHandler upgrades observers of a work session to a websocket fed by
// the hub with telemetry and task frames.
type StreamHandler struct {
	sessions  service.ISessionService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewStreamHandler(sessions service.ISessionService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		sessions:  sessions,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ServeWs handles websocket requests from the peer. Browsers cannot set
// headers on the handshake, so the token may come as ?token=.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	userIDStr, err := serverutils.ParseUserID(tokenStr, h.jwtSecret)
	if err != nil {
		h.logger.Warn("StreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid user ID format in token"))
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.New(apperr.ErrValidation, "id must be a valid UUID")
	}

	session, err := h.sessions.Owned(c.UserContext(), userID, sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive {
		return apperr.Newf(apperr.ErrSessionNotFound, "active session %s not found", sessionID)
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		details := map[string]interface{}{"user_id": userIDStr, "session_id": session.Id.String()}
		h.logger.Info("StreamHandler", "Observer connected", details)
		internalWS.ServeWs(h.hub, conn, session.Id.String(), userIDStr)
		h.logger.Info("StreamHandler", "Observer disconnected", details)
	})(c)
}

func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/monitoring/stream/:id", h.ServeWs)
}
