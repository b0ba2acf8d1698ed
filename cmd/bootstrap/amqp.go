package bootstrap

import (
	"context"

	"sanatorium-booking/internal/infra/messaging"
	"sanatorium-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewRabbitPublisher,
	),
)

// NewRabbitPublisher dials lazily, so a broker outage only delays the outbox.
func NewRabbitPublisher(lc fx.Lifecycle, cfg config.Config) *messaging.RabbitPublisher {
	publisher := messaging.NewRabbitPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}
