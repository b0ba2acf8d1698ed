package components

import (
	"sanatorium-booking/internal/infra/lock"
	"sanatorium-booking/internal/pkg/config"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// MemoryLockModule serializes bookings per room inside one process only.
var MemoryLockModule = fx.Module("lock/memory",
	fx.Provide(
		fx.Annotate(
			NewMemoryLocker,
			fx.As(new(shared.RoomLocker)),
		),
	),
)

var RedisLockModule = fx.Module("lock/redis",
	fx.Provide(
		fx.Annotate(
			NewRedisLocker,
			fx.As(new(shared.RoomLocker)),
		),
	),
)

func NewMemoryLocker(cfg config.Config) *lock.MemoryLocker {
	return lock.NewMemoryLocker(cfg.Booking.LockWait)
}

func NewRedisLocker(client *redis.Client, cfg config.Config) *lock.RedisLocker {
	return lock.NewRedisLocker(client, cfg.Redis.KeyPrefix, cfg.Booking.LockTTL, cfg.Booking.LockWait)
}
