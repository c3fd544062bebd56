// Package realtime implements the websocket gateway: one hub per
// process, one client per connection. The hub subscribes to the shared
// presence broadcast channel and fans each event out as a notification;
// every client then re-reads the presence list itself before pushing it
// to its peer, so no connection ever relays a stale snapshot.
package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/codedocs/snippets-api/internal/api/metrics"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

// Hub tracks the clients connected to this process and wires them to
// the cross-instance presence broadcast.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	presence    ports.PresenceStore
	broadcaster ports.PresenceBroadcaster
	log         zerolog.Logger

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(ctx context.Context, presence ports.PresenceStore, broadcaster ports.PresenceBroadcaster, log zerolog.Logger) *Hub {
	hubCtx, cancel := context.WithCancel(ctx)
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		presence:    presence,
		broadcaster: broadcaster,
		log:         log,
		ctx:         hubCtx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Run processes registrations and presence events until the hub is
// stopped. It owns the presence flag transitions: a flag is set when an
// authenticated client registers and cleared when it unregisters, and
// both transitions publish to the shared channel.
func (h *Hub) Run() {
	defer close(h.done)

	events, closeSub, err := h.broadcaster.Subscribe(h.ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("presence subscription failed, gateway pushes disabled")
		events = nil
	} else {
		defer func() { _ = closeSub() }()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.WSConnections.Inc()

			if client.userID != "" {
				h.markPresent(client)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.notify)
			}
			h.mu.Unlock()
			metrics.WSConnections.Dec()

			if client.userID != "" {
				h.markAbsent(client)
			}

		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			h.notifyAll()
		}
	}
}

// Stop cancels the hub, drops every client, and clears the presence
// flags this instance owns so shutdown does not strand anyone online.
func (h *Hub) Stop() {
	h.cancel()
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.notify)
		delete(h.clients, client)
		if client.userID != "" {
			h.markAbsent(client)
		}
	}
}

// drop unregisters a client. After Stop the registry is already being
// torn down, so the send is abandoned rather than blocked on.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// ClientCount reports the number of connections on this instance.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) markPresent(client *Client) {
	if err := h.presence.SetPresent(h.ctx, client.userID); err != nil {
		h.log.Error().Err(err).Str("user_id", client.userID).Msg("failed to set presence flag")
		return
	}
	if err := h.broadcaster.Publish(h.ctx); err != nil {
		h.log.Error().Err(err).Msg("failed to publish presence change")
	}
}

func (h *Hub) markAbsent(client *Client) {
	// Shutdown still clears the flag: use a fresh context because the
	// hub's own context is already cancelled at that point.
	ctx := h.ctx
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := h.presence.ClearPresent(ctx, client.userID); err != nil {
		h.log.Error().Err(err).Str("user_id", client.userID).Msg("failed to clear presence flag")
		return
	}
	if err := h.broadcaster.Publish(ctx); err != nil {
		h.log.Error().Err(err).Msg("failed to publish presence change")
	}
}

// notifyAll nudges every local client. The notification is coalesced
// per client: a client that is already due to refresh will pick up this
// change in the same read.
func (h *Hub) notifyAll() {
	metrics.PresenceBroadcastsTotal.Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.notify <- struct{}{}:
		default:
		}
	}
}
