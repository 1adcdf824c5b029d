package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdentityCache caches resolved AWS account identities so repeated deploys do
// not hit STS on every request. Lookups degrade to a miss when redis is
// unreachable.
type IdentityCache struct {
	client *redis.Client
}

func NewIdentityCache(addr string) *IdentityCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &IdentityCache{client: rdb}
}

func (c *IdentityCache) Get(ctx context.Context, region string) (string, bool) {
	val, err := c.client.Get(ctx, key(region)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	} else if err != nil {
		return "", false
	}
	return val, true
}

func (c *IdentityCache) Set(ctx context.Context, region, accountID string, expiration time.Duration) error {
	return c.client.Set(ctx, key(region), accountID, expiration).Err()
}

func key(region string) string {
	return "sts:account:" + region
}
