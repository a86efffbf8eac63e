package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// requireRedis skips the test unless RESEARCH_TEST_REDIS_ADDR points at a
// reachable Redis instance, since SetSession/GetSession/DeleteSession
// exercise the real client rather than a fake.
func requireRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("RESEARCH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RESEARCH_TEST_REDIS_ADDR not set, skipping redis-backed session test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("could not reach redis at %s: %v", addr, err)
	}
	return rdb
}

func TestSessionSetGetDelete(t *testing.T) {
	rdb := requireRedis(t)
	ctx := context.Background()

	userID := uint(12345)
	token := "session_test_token"

	if err := SetSession(ctx, rdb, userID, token, 2*time.Second); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	gotToken, err := GetSession(ctx, rdb, userID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if gotToken != token {
		t.Errorf("expected token %q, got %q", token, gotToken)
	}

	if err := DeleteSession(ctx, rdb, userID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	if _, err := GetSession(ctx, rdb, userID); err == nil {
		t.Errorf("expected error for deleted session, got nil")
	}
}
