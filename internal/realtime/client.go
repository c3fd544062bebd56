package realtime

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/codedocs/snippets-api/internal/api/metrics"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Inbound frames are
	// no-ops, so anything beyond a heartbeat is oversized.
	maxMessageSize = 1024

	// Budget for one presence-list read when pushing an update.
	listTimeout = 5 * time.Second
)

// onlineUsersEvent is the only server→client message type.
type onlineUsersEvent struct {
	Type  string      `json:"type"`
	Users interface{} `json:"users"`
}

// Client is one websocket connection. userID is empty for anonymous
// connections, which are accepted but never marked present.
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	online ports.PresenceService
	log    zerolog.Logger

	userID   string
	username string

	// notify carries at most one pending presence nudge; the write
	// pump re-reads the full list on each one.
	notify chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, online ports.PresenceService, userID, username string, log zerolog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		online:   online,
		log:      log,
		userID:   userID,
		username: username,
		notify:   make(chan struct{}, 1),
	}
}

// readPump consumes inbound frames until the connection drops. Frame
// content is ignored: inbound traffic exists only to keep the
// connection alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Str("user_id", c.userID).Msg("websocket read ended")
			}
			return
		}
	}
}

// writePump pushes a fresh online_users event for every presence nudge
// and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case _, ok := <-c.notify:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped us.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.pushOnlineUsers(); err != nil {
				return
			}
		}
	}
}

func (c *Client) pushOnlineUsers() error {
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	users, err := c.online.ListOnline(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load online users for push")
		// A failed read is not fatal to the connection; the next
		// presence change retries.
		return nil
	}
	metrics.UsersOnline.Set(float64(len(users)))

	return c.conn.WriteJSON(onlineUsersEvent{Type: "online_users", Users: users})
}
