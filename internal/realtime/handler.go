package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codedocs/snippets-api/internal/core/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cookie auth means the browser attaches credentials regardless of
	// origin; CORS policy for the realtime path is delegated to the
	// fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests on the online-users path into gateway
// connections.
type Handler struct {
	hub        *Hub
	tokens     ports.TokenService
	online     ports.PresenceService
	cookieName string
	log        zerolog.Logger
}

func NewHandler(hub *Hub, tokens ports.TokenService, online ports.PresenceService, cookieName string, log zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		tokens:     tokens,
		online:     online,
		cookieName: cookieName,
		log:        log,
	}
}

// Serve handles GET /ws/online-users.
//
// Identity comes from the same access cookie the HTTP API uses. A
// missing or invalid token downgrades the connection to anonymous
// instead of rejecting it: anonymous clients receive presence pushes
// but are never marked present themselves.
func (h *Handler) Serve(c echo.Context) error {
	var userID, username string
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		if claims, err := h.tokens.ValidateAccess(cookie.Value); err == nil {
			userID = claims.UserID
			username = claims.Username
		}
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	client := newClient(h.hub, conn, h.online, userID, username, h.log)

	select {
	case h.hub.register <- client:
	case <-h.hub.ctx.Done():
		_ = conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()

	h.log.Info().
		Str("user_id", userID).
		Str("username", username).
		Bool("authenticated", userID != "").
		Msg("realtime client connected")
	return nil
}
