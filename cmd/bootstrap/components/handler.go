package components

import (
	"sanatorium-booking/internal/handler"
	"sanatorium-booking/internal/handler/api"
	"sanatorium-booking/internal/handler/middleware"
	"sanatorium-booking/internal/pkg/config"
	"sanatorium-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(r queries.RoomQueries, a queries.AvailabilityQueries, c queries.CalendarQueries, cfg config.Config) *api.RoomHandler {
			return api.NewRoomHandler(r, a, c, cfg.Booking.DefaultHorizonDays)
		},
		api.NewReservationHandler,
		api.NewStaffHandler,
		func(rooms *api.RoomHandler, reservations *api.ReservationHandler, staff *api.StaffHandler) handler.Handlers {
			return handler.Handlers{Rooms: rooms, Reservations: reservations, Staff: staff}
		},
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
