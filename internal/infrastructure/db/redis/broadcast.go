package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// All instances share one pub/sub channel. Events are payload-free:
// subscribers re-read the presence store on receipt, so no event can
// carry a stale list.
const presenceChannel = "presence:changed"

// PresenceBroadcaster fans presence-change notifications out to every
// subscribed gateway instance via Redis pub/sub.
type PresenceBroadcaster struct {
	client *redis.Client
}

func NewPresenceBroadcaster(client *redis.Client) *PresenceBroadcaster {
	return &PresenceBroadcaster{client: client}
}

func (b *PresenceBroadcaster) Publish(ctx context.Context) error {
	if err := b.client.Publish(ctx, presenceChannel, "1").Err(); err != nil {
		return fmt.Errorf("publish presence change: %w", err)
	}
	return nil
}

// Subscribe returns a notification channel and a cancel function.
// Notifications are coalesced: if one is already pending it is not
// queued again, which is safe because receivers always re-read the
// current state rather than the event.
func (b *PresenceBroadcaster) Subscribe(ctx context.Context) (<-chan struct{}, func() error, error) {
	sub := b.client.Subscribe(ctx, presenceChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe presence channel: %w", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range sub.Channel() {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	return out, sub.Close, nil
}
