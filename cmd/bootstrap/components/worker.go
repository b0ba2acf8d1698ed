package components

import (
	"context"

	"sanatorium-booking/internal/infra/messaging"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/pkg/config"
	"sanatorium-booking/internal/worker"

	"go.uber.org/fx"
)

var OutboxWorkerModule = fx.Module("worker/outbox",
	fx.Provide(
		func(p *messaging.RabbitPublisher) worker.Publisher { return p },
		NewOutboxRelay,
	),
	fx.Invoke(startOutboxRelay),
)

func NewOutboxRelay(store worker.JobStore, publisher worker.Publisher, clk clock.Clock, cfg config.Config) *worker.OutboxRelay {
	return worker.NewOutboxRelay(store, publisher, clk, worker.OutboxConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
		RetryBackoff: cfg.Outbox.RetryBackoff,
	})
}

func startOutboxRelay(lc fx.Lifecycle, relay *worker.OutboxRelay) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				relay.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
