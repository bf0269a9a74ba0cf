package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"redcrm-backend/internal/infra/telegram"
)

// ResolutionCache is the redis-backed variant of the phone resolution cache,
// for deployments running more than one backend process against the same
// telegram account. TTL is enforced by redis key expiry; ResolvedAt is kept
// in the payload for parity with the in-process cache.
type ResolutionCache struct {
	client *Client
	ttl    time.Duration
	log    *zerolog.Logger
}

var _ telegram.ResolutionCache = (*ResolutionCache)(nil)

func NewResolutionCache(client *Client, ttl time.Duration, logger *zerolog.Logger) *ResolutionCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResolutionCache{client: client, ttl: ttl, log: logger}
}

func key(phone string) string { return "tg_resolve:" + phone }

func (c *ResolutionCache) Get(ctx context.Context, phone string) (telegram.CacheEntry, bool) {
	data, err := c.client.Get(ctx, key(phone))
	if err != nil {
		if !IsNil(err) {
			c.log.Warn().Err(err).Msg("resolution cache read failed")
		}
		return telegram.CacheEntry{}, false
	}
	var e telegram.CacheEntry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return telegram.CacheEntry{}, false
	}
	return e, true
}

func (c *ResolutionCache) Put(ctx context.Context, phone string, e telegram.CacheEntry) {
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(phone), data, c.ttl); err != nil {
		c.log.Warn().Err(err).Msg("resolution cache write failed")
	}
}

func (c *ResolutionCache) Invalidate(ctx context.Context, phone string) {
	if err := c.client.Del(ctx, key(phone)); err != nil {
		c.log.Warn().Err(err).Msg("resolution cache delete failed")
	}
}
