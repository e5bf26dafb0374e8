package emission

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	factorCacheKey = "emission:factors:current"
	factorCacheTTL = 10 * time.Minute
)

// FactorCache caches the current factor set in Redis. A nil client disables it.
type FactorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFactorCache(client *redis.Client) *FactorCache {
	return &FactorCache{client: client, ttl: factorCacheTTL}
}

// Get returns the cached set, or false on a miss or when caching is disabled.
func (c *FactorCache) Get(ctx context.Context) (FactorSet, bool) {
	if c == nil || c.client == nil {
		return FactorSet{}, false
	}
	raw, err := c.client.Get(ctx, factorCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("factor cache read failed")
		}
		return FactorSet{}, false
	}
	var f FactorSet
	if err := json.Unmarshal(raw, &f); err != nil {
		return FactorSet{}, false
	}
	return f, true
}

func (c *FactorCache) Set(ctx context.Context, f FactorSet) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, factorCacheKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("factor cache write failed")
	}
}

func (c *FactorCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, factorCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("factor cache invalidate failed")
	}
}
