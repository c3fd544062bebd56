package ports

import (
	"context"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// PresenceStore records which user IDs currently hold a live realtime
// connection. Flags carry no TTL: they exist exactly while the user is
// known connected and are cleared explicitly on disconnect, logout, or
// account deletion. Implementations must be reachable from every
// process (shared store, not in-process memory).
type PresenceStore interface {
	SetPresent(ctx context.Context, userID string) error
	ClearPresent(ctx context.Context, userID string) error
	// PresentAmong filters ids down to those currently flagged present.
	PresentAmong(ctx context.Context, ids []string) (map[string]bool, error)
}

// PresenceBroadcaster is the single shared channel every gateway
// instance subscribes to. Events carry no payload: subscribers re-read
// the presence list themselves, so a stale snapshot can never be
// embedded in an event.
type PresenceBroadcaster interface {
	Publish(ctx context.Context) error
	// Subscribe returns a channel that receives one value per presence
	// change and a function that cancels the subscription.
	Subscribe(ctx context.Context) (<-chan struct{}, func() error, error)
}

// PresenceService joins the presence store against the credential store
// to produce the list pushed to realtime clients.
type PresenceService interface {
	ListOnline(ctx context.Context) ([]domain.OnlineUser, error)
}
