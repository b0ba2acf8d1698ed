package bootstrap

import (
	"time"

	"sanatorium-booking/internal/pkg/config"

	"go.uber.org/fx"
)

// ConfigModule derives typed values from the supplied Config.
var ConfigModule = fx.Module("config",
	fx.Provide(
		NewBookingLocation,
	),
)

func NewBookingLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
