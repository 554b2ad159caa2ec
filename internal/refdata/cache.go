package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStore wraps a Store with a per-workspace redis snapshot cache.
//
// Reference data changes rarely relative to how often clones run, so a
// short TTL keeps clones cheap without a dedicated invalidation path.
// Cache failures degrade to the inner store; they are never fatal.
type CachedStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
}

const defaultCacheTTL = 2 * time.Minute

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(workspaceID string) string { return "refdata:ctx:" + workspaceID }

func (s *CachedStore) Load(ctx context.Context, workspaceID string) (Context, error) {
	if s.inner == nil {
		return Context{}, errors.New("refdata: inner store not configured")
	}
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, cacheKey(workspaceID)).Bytes()
		if err == nil {
			var c Context
			if json.Unmarshal(raw, &c) == nil {
				return c, nil
			}
			// Corrupt entry; fall through and overwrite it below.
		}
	}

	c, err := s.inner.Load(ctx, workspaceID)
	if err != nil {
		return Context{}, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(c); err == nil {
			_ = s.rdb.Set(ctx, cacheKey(workspaceID), raw, s.ttl).Err()
		}
	}
	return c, nil
}
