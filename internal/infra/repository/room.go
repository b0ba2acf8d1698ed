package repository

import (
	"context"
	"strconv"
	"time"

	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomWriteQueries interface {
	SetLocalLockTimeout(ctx context.Context, db sqlc.DBTX, timeout string) error
	GetRoomForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Rooms, error)
}

type RoomRepository struct {
	queries RoomWriteQueries
	db      sqlc.DBTX
}

func NewRoomRepository(queries RoomWriteQueries, db sqlc.DBTX) *RoomRepository {
	return &RoomRepository{
		queries: queries,
		db:      db,
	}
}

// LockForBooking takes the room row lock for the rest of the transaction.
// Postgres aborts the wait with 55P03 once wait elapses.
func (r *RoomRepository) LockForBooking(ctx context.Context, id uuid.UUID, wait time.Duration) (*shared.RoomSnapshot, error) {
	if wait > 0 {
		timeout := strconv.FormatInt(wait.Milliseconds(), 10) + "ms"
		if err := r.queries.SetLocalLockTimeout(ctx, r.db, timeout); err != nil {
			return nil, infra.WrapRepoErr("failed to set lock timeout", err)
		}
	}

	row, err := r.queries.GetRoomForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock room for booking", err)
	}

	return &shared.RoomSnapshot{
		ID:                row.ID,
		Capacity:          int(row.Capacity),
		NightlyPriceMinor: row.NightlyPriceMinor,
		Active:            row.IsActive,
	}, nil
}
