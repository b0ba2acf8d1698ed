package components

import (
	"log/slog"

	"sanatorium-booking/internal/infra/memstore"
	"sanatorium-booking/internal/infra/readstore"
	"sanatorium-booking/internal/infra/repository"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/infra/uow"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/pkg/config"
	"sanatorium-booking/internal/usecase/queries"
	"sanatorium-booking/internal/usecase/shared"
	"sanatorium-booking/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PostgresPersistenceModule = fx.Module("persistence/postgres",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Room
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.RoomReadQueries)),
		),
		fx.Annotate(
			readstore.NewRoomReadStore,
			fx.As(new(queries.RoomReadStore)),
		),
		// Ledger
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.LedgerReadQueries)),
		),
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(queries.AvailabilityReadStore)),
			fx.As(new(queries.CalendarReadStore)),
		),
		// Reservation
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ReservationViewQueries)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
	),
)

// Write repositories are built per transaction by the UnitOfWork.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			repository.NewOutboxStore,
			fx.As(new(worker.JobStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}

// MemoryPersistenceModule keeps the ledger in process; state is lost on restart.
var MemoryPersistenceModule = fx.Module("persistence/memory",
	fx.Provide(
		NewMemStore,
		memstore.NewReadStore,
		fx.Annotate(
			memstore.NewUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			memstore.NewOutboxStore,
			fx.As(new(worker.JobStore)),
		),
		func(r *memstore.ReadStore) queries.RoomReadStore {
			return memstore.RoomReadStore{ReadStore: r}
		},
		func(r *memstore.ReadStore) queries.ReservationReadStore {
			return memstore.ReservationReadStore{ReadStore: r}
		},
		func(r *memstore.ReadStore) queries.AvailabilityReadStore { return r },
		func(r *memstore.ReadStore) queries.CalendarReadStore { return r },
	),
)

func NewMemStore(clk clock.Clock, cfg config.Config) (*memstore.Store, error) {
	store := memstore.New(clk)
	if cfg.Booking.SeedDemoRooms {
		if err := store.SeedDemoRooms(); err != nil {
			return nil, err
		}
		slog.Info("seeded demo rooms into memory storage")
	}
	return store, nil
}
