package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxAttempts != defaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", defaultMaxAttempts, th.maxAttempts)
	}
	if th.lockout != defaultLockout {
		t.Errorf("expected %s lockout, got %s", defaultLockout, th.lockout)
	}
	if got := th.key("ada@example.com"); got != "login:fail:ada@example.com" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestLoginThrottle_UnreachableRedisReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	th := NewLoginThrottle(client, 3, time.Minute)

	allowed, err := th.Allowed(context.Background(), "ada@example.com")
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if allowed {
		t.Error("expected allowed=false alongside an error")
	}
	if err := th.Fail(context.Background(), "ada@example.com"); err == nil {
		t.Error("expected Fail to return an error")
	}
}

// TestLoginThrottle_Redis runs against a live server when REDIS_TEST_ADDR is set.
func TestLoginThrottle_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	email := "throttle-" + time.Now().Format("150405.000000") + "@example.com"
	th := NewLoginThrottle(client, 2, time.Minute)
	defer th.Reset(ctx, email)

	for i := 0; i < 2; i++ {
		ok, err := th.Allowed(ctx, email)
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v %v", i, ok, err)
		}
		if err := th.Fail(ctx, email); err != nil {
			t.Fatalf("fail: %v", err)
		}
	}
	if ok, _ := th.Allowed(ctx, email); ok {
		t.Fatal("expected lockout after max attempts")
	}
	ttl := client.TTL(ctx, th.key(email)).Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected ttl %s", ttl)
	}

	if err := th.Reset(ctx, email); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := th.Allowed(ctx, email); !ok {
		t.Fatal("expected allowed after reset")
	}
}
