//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike accepts a pool or a transaction.
type DBLike = sqlc.DBTX

func CreateTestRoom(t *testing.T, db DBLike, b *builder.RoomBuilder) uuid.UUID {
	t.Helper()

	row := b.BuildInfra()
	id, err := sqlc.New().CreateRoom(context.Background(), db, sqlc.CreateRoomParams{
		ID:                row.ID,
		Category:          row.Category,
		Name:              row.Name,
		Capacity:          row.Capacity,
		NightlyPriceMinor: row.NightlyPriceMinor,
		Description:       row.Description,
		IsActive:          row.IsActive,
		CreatedAt:         row.CreatedAt,
	})
	require.NoError(t, err)
	return id
}

func SetRoomActive(t *testing.T, db DBLike, roomID uuid.UUID, active bool) {
	t.Helper()

	n, err := sqlc.New().SetRoomActive(context.Background(), db, sqlc.SetRoomActiveParams{
		ID:        roomID,
		IsActive:  active,
		UpdatedAt: pgconv.TimeToPgtype(time.Now()),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func CountNotificationJobs(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO rooms (id, category, name, capacity, nightly_price_minor, description) VALUES
		    (gen_random_uuid(), 'standard', 'Reference Standard', 2, 5000, ''),
		    (gen_random_uuid(), 'deluxe', 'Reference Deluxe', 4, 12000, '')
		ON CONFLICT (name) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
