package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sanatorium-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minRetryDelay = 20 * time.Millisecond
	maxRetryDelay = 200 * time.Millisecond
	unlockTimeout = 2 * time.Second
)

// Deletes the key only while it still carries our token, so an expired holder
// cannot release a lock someone else has since taken.
var unlockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisLocker shares per-room exclusion between service replicas. The TTL
// bounds how long a crashed holder can block a room.
type RedisLocker struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

func NewRedisLocker(client redis.Cmdable, prefix string, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *RedisLocker) key(roomID uuid.UUID) string {
	return l.prefix + roomID.String()
}

func (l *RedisLocker) Lock(ctx context.Context, roomID uuid.UUID) (func(), error) {
	key := l.key(roomID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	delay := minRetryDelay

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errs.Wrapf(err, "acquire lock for room %s", roomID)
		}
		if ok {
			break
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, errs.Wrapf(errs.ErrLockTimeout, "room %s", roomID)
		}
		sleep := min(delay, remaining)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
		delay = min(delay*2, maxRetryDelay)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
			defer cancel()
			if err := unlockScript.Run(uctx, l.client, []string{key}, token).Err(); err != nil {
				slog.Warn("failed to release room lock", "room_id", roomID, "error", err.Error())
			}
		})
	}, nil
}
