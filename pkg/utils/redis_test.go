package utils

import (
	"context"
	"testing"
	"time"
)

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}

func TestAcquireCloneLock_ArgValidation(t *testing.T) {
	if _, _, err := AcquireCloneLock(context.Background(), nil, "p1", time.Minute); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestReleaseCloneLock_ArgValidation(t *testing.T) {
	if err := ReleaseCloneLock(context.Background(), nil, "p1", "tok"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestRedisConfig_Defaults(t *testing.T) {
	got := RedisConfig{}.withDefaults()
	if got.DialTimeout <= 0 || got.PoolSize <= 0 || got.PingTimeout <= 0 {
		t.Fatalf("expected conservative defaults: %+v", got)
	}
}
