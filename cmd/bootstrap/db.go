package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"sanatorium-booking/internal/infra/db"
	"sanatorium-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

const dbConnectTimeout = 10 * time.Second

// DBModule is only included when the ledger is stored in Postgres.
var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to ledger database",
		"host", cfg.DB.Host,
		"database", cfg.DB.DBName,
		"max_conns", cfg.DB.MaxConns)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			stat := pool.Stat()
			slog.Info("closing ledger database",
				"acquired_conns", stat.AcquiredConns(),
				"total_conns", stat.TotalConns())
			cleanup()
			return nil
		},
	})

	return pool, nil
}
