package bootstrap

import (
	"sanatorium-booking/cmd/bootstrap/components"
	"sanatorium-booking/internal/pkg/config"

	"go.uber.org/fx"
)

// NewModule picks the storage, lock and relay backends named by cfg.
func NewModule(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		ConfigModule,
		LoggerModule,
		JWTModule,
		StorageModule(cfg.Booking.Storage),
		LockModule(cfg.Booking.LockDriver),
		components.UseCaseModule,
		components.HandlerModule,
		WorkerModule(cfg.Outbox.Enabled),
	)
}

func StorageModule(storage string) fx.Option {
	if storage == config.StorageMemory {
		return components.MemoryPersistenceModule
	}
	return fx.Options(DBModule, components.PostgresPersistenceModule)
}

func LockModule(driver string) fx.Option {
	if driver == config.LockDriverRedis {
		return fx.Options(RedisModule, components.RedisLockModule)
	}
	return components.MemoryLockModule
}

func WorkerModule(enabled bool) fx.Option {
	if !enabled {
		return fx.Options()
	}
	return fx.Options(AMQPModule, components.OutboxWorkerModule)
}
