package components

import (
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/pkg/config"
	"sanatorium-booking/internal/usecase"
	"sanatorium-booking/internal/usecase/commands"
	"sanatorium-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewNightlyPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	func(clock clock.Clock, calc reservation.PriceCalculator, loc *time.Location) *reservation.Services {
		return &reservation.Services{
			Clock:           clock,
			PriceCalculator: calc,
			Location:        loc,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(cfg config.Config) commands.Config {
			return commands.Config{
				LockWait:       cfg.Booking.LockWait,
				IdempotencyTTL: cfg.Booking.IdempotencyTTL,
			}
		},
		func(q queries.ReservationQueries) commands.ReservationViewReader { return q },
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(cfg config.Config, loc *time.Location) queries.CalendarConfig {
			return queries.CalendarConfig{
				MaxHorizonDays: cfg.Booking.MaxHorizonDays,
				Location:       loc,
			}
		},
		queries.NewRoomQueries,
		queries.NewAvailabilityQueries,
		queries.NewCalendarQueries,
		queries.NewReservationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
