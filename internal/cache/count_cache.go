package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCountCache keeps per-form response counts in front of the store's
// CountDocuments. Entries are invalidated on submit and delete rather than
// mutated, so a stale entry can only survive for the TTL.
type ResponseCountCache interface {
	Get(ctx context.Context, formID string) (int64, bool, error)
	Set(ctx context.Context, formID string, count int64) error
	Invalidate(ctx context.Context, formID string) error
}

type responseCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCountCache creates a new response count cache
func NewResponseCountCache(client *redis.Client) ResponseCountCache {
	return &responseCountCache{
		client: client,
		ttl:    30 * time.Second,
	}
}

func (c *responseCountCache) key(formID string) string {
	return "responsecount:" + formID
}

func (c *responseCountCache) Get(ctx context.Context, formID string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(formID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *responseCountCache) Set(ctx context.Context, formID string, count int64) error {
	return c.client.Set(ctx, c.key(formID), count, c.ttl).Err()
}

func (c *responseCountCache) Invalidate(ctx context.Context, formID string) error {
	return c.client.Del(ctx, c.key(formID)).Err()
}
