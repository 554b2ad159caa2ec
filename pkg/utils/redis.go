package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig controls redis client behavior.
// Keep it config-driven; defaults should be safe and conservative.
type RedisConfig struct {
	Addr string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	PingTimeout time.Duration
}

func (c RedisConfig) withDefaults() RedisConfig {
	out := c
	if out.DialTimeout <= 0 {
		out.DialTimeout = 3 * time.Second
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = 2 * time.Second
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = 2 * time.Second
	}
	if out.PoolSize <= 0 {
		out.PoolSize = 20
	}
	if out.MinIdleConns < 0 {
		out.MinIdleConns = 0
	}
	if out.PoolTimeout <= 0 {
		out.PoolTimeout = 4 * time.Second
	}
	if out.ConnMaxIdleTime <= 0 {
		out.ConnMaxIdleTime = 5 * time.Minute
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = 30 * time.Minute
	}
	if out.PingTimeout <= 0 {
		out.PingTimeout = 2 * time.Second
	}
	return out
}

// OpenRedis initializes a Redis client and validates connectivity via PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	cfg = cfg.withDefaults()
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

var cloneLockReleaseScript = redis.NewScript(`
-- KEYS[1] = lock key
-- ARGV[1] = holder token
-- Delete only if still held by this token.
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

func cloneLockKey(policyID string) string { return "clone:lock:" + policyID }

// AcquireCloneLock takes the single-flight lock for a policy clone.
// Returns the holder token when acquired; ok is false when another clone of
// the same policy is in flight.
//
// Safety properties:
// - Atomic acquire via SET NX.
// - TTL prevents leaked locks on process crash.
func AcquireCloneLock(ctx context.Context, rdb *redis.Client, policyID string, ttl time.Duration) (token string, ok bool, err error) {
	if rdb == nil {
		return "", false, fmt.Errorf("redis client is nil")
	}
	if policyID == "" {
		return "", false, fmt.Errorf("policy id is required")
	}
	if ttl <= 0 {
		return "", false, fmt.Errorf("ttl must be > 0")
	}

	token = uuid.NewString()
	ok, err = rdb.SetNX(ctx, cloneLockKey(policyID), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseCloneLock releases a previously acquired clone lock. Releasing a
// lock that expired and was re-acquired elsewhere is a no-op.
func ReleaseCloneLock(ctx context.Context, rdb *redis.Client, policyID, token string) error {
	if rdb == nil {
		return fmt.Errorf("redis client is nil")
	}
	if policyID == "" || token == "" {
		return fmt.Errorf("policy id and token are required")
	}
	_, err := cloneLockReleaseScript.Run(ctx, rdb, []string{cloneLockKey(policyID)}, token).Result()
	return err
}
