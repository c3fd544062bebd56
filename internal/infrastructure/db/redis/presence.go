package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key format: presence:user:<user_id>. Flags carry no TTL: a user is
// present exactly until their connection drops, they log out, or an
// admin deletes them.
const presenceKeyPrefix = "presence:user:"

// PresenceStore records live-connection flags in Redis so every API
// and gateway instance sees the same membership.
type PresenceStore struct {
	client *redis.Client
}

// NewPresenceStore creates a PresenceStore wrapping the given Redis client.
func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

func (p *PresenceStore) SetPresent(ctx context.Context, userID string) error {
	if err := p.client.Set(ctx, p.key(userID), "1", 0).Err(); err != nil {
		return fmt.Errorf("set presence: %w", err)
	}
	return nil
}

func (p *PresenceStore) ClearPresent(ctx context.Context, userID string) error {
	if err := p.client.Del(ctx, p.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear presence: %w", err)
	}
	return nil
}

// PresentAmong reports which of ids currently hold a presence flag,
// using a single MGET round trip.
func (p *PresenceStore) PresentAmong(ctx context.Context, ids []string) (map[string]bool, error) {
	present := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return present, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = p.key(id)
	}

	vals, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("presence lookup: %w", err)
	}
	for i, v := range vals {
		if v != nil {
			present[ids[i]] = true
		}
	}
	return present, nil
}

func (p *PresenceStore) key(userID string) string {
	return presenceKeyPrefix + userID
}
