package routing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "dispatch:lock:moderator:"

// Deletes the key only if it still carries our token, so a lock that expired
// and was taken by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every process pointed at the same Redis,
// so the server, the worker and dispatchctl never decide for the same
// moderator at once.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisLocker returns a locker whose keys expire after ttl and whose Lock
// gives up after wait.
func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  50 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, moderatorIDs []int64) (func(), error) {
	ids := lockOrder(moderatorIDs)
	token := uuid.NewString()
	held := make([]string, 0, len(ids))

	release := func() {
		// Release even when the caller's context is already cancelled.
		rctx := context.WithoutCancel(ctx)
		for i := len(held) - 1; i >= 0; i-- {
			if err := releaseScript.Run(rctx, l.client, []string{held[i]}, token).Err(); err != nil {
				slog.WarnContext(rctx, "failed to release moderator lock", "key", held[i], "error", err)
			}
		}
	}

	wctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for _, modID := range ids {
		key := lockKey(modID)
		if err := l.acquire(wctx, key, token); err != nil {
			release()
			return nil, fmt.Errorf("locking moderator %d: %w", modID, err)
		}
		held = append(held, key)
	}

	return release, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func lockKey(moderatorID int64) string {
	return lockKeyPrefix + strconv.FormatInt(moderatorID, 10)
}
