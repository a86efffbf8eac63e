package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "session:%d"

// SessionTTL is how long a session survives between requests before it
// must be refreshed by another authenticated call.
const SessionTTL = 30 * time.Minute

// SetSession records token as userID's active session, valid for ttl.
func SetSession(ctx context.Context, rdb *redis.Client, userID uint, token string, ttl time.Duration) error {
	key := fmt.Sprintf(sessionKeyFmt, userID)
	return rdb.Set(ctx, key, token, ttl).Err()
}

// GetSession returns userID's currently recorded session token.
func GetSession(ctx context.Context, rdb *redis.Client, userID uint) (string, error) {
	key := fmt.Sprintf(sessionKeyFmt, userID)
	return rdb.Get(ctx, key).Result()
}

// DeleteSession removes userID's session, logging them out.
func DeleteSession(ctx context.Context, rdb *redis.Client, userID uint) error {
	key := fmt.Sprintf(sessionKeyFmt, userID)
	return rdb.Del(ctx, key).Err()
}

// OnlineUserCount returns the number of users with an active session.
func OnlineUserCount(ctx context.Context, rdb *redis.Client) (int, error) {
	var cursor uint64
	userIDs := make(map[string]struct{})
	for {
		keys, newCursor, err := rdb.Scan(ctx, cursor, "session:*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			parts := strings.Split(key, ":")
			if len(parts) == 2 && parts[0] == "session" && parts[1] != "" {
				userIDs[parts[1]] = struct{}{}
			}
		}
		if newCursor == 0 {
			break
		}
		cursor = newCursor
	}
	return len(userIDs), nil
}
