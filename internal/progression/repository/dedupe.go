package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeTTL = 24 * time.Hour

// DedupeCache is a best-effort redis front for event idempotency. A cache
// hit short-circuits a redelivery before it reaches the database; a miss
// (or a redis outage) falls through to the database, which stays the
// authority on whether an event was seen.
type DedupeCache struct {
	client *redis.Client
}

// NewDedupeCache creates a dedupe cache on the given redis client.
func NewDedupeCache(client *redis.Client) *DedupeCache {
	return &DedupeCache{client: client}
}

// MarkSeen records the event id and reports whether it was already present.
func (c *DedupeCache) MarkSeen(ctx context.Context, eventID string) (seen bool, err error) {
	set, err := c.client.SetNX(ctx, dedupeKey(eventID), 1, dedupeTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event seen: %w", err)
	}
	return !set, nil
}

// Forget removes the event id, letting a failed delivery be retried.
func (c *DedupeCache) Forget(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, dedupeKey(eventID)).Err(); err != nil {
		return fmt.Errorf("failed to forget event: %w", err)
	}
	return nil
}

func dedupeKey(eventID string) string {
	return "progression:event:" + eventID
}
