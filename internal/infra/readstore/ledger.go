package readstore

import (
	"context"
	"time"

	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type LedgerReadQueries interface {
	ExistsOverlappingReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.ExistsOverlappingReservationParams) (bool, error)
	ListBusyRanges(ctx context.Context, db sqlc.DBTX, arg sqlc.ListBusyRangesParams) ([]sqlc.ListBusyRangesRow, error)
}

// LedgerReadStore answers unlocked occupancy questions. Answers are advisory.
type LedgerReadStore struct {
	queries LedgerReadQueries
	db      sqlc.DBTX
}

func NewLedgerReadStore(queries LedgerReadQueries, db sqlc.DBTX) *LedgerReadStore {
	return &LedgerReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *LedgerReadStore) HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excluding *uuid.UUID) (bool, error) {
	params := sqlc.ExistsOverlappingReservationParams{
		RoomID:    roomID,
		CheckIn:   pgconv.DateToPgtype(checkIn),
		CheckOut:  pgconv.DateToPgtype(checkOut),
		ExcludeID: pgconv.UUIDPtrToPgtype(excluding),
	}

	exists, err := r.queries.ExistsOverlappingReservation(ctx, r.db, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check availability", err)
	}
	return exists, nil
}

func (r *LedgerReadStore) BusyRanges(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]queries.BusyRange, error) {
	params := sqlc.ListBusyRangesParams{
		RoomID:      roomID,
		WindowStart: pgconv.DateToPgtype(from),
		WindowEnd:   pgconv.DateToPgtype(to),
	}

	rows, err := r.queries.ListBusyRanges(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list busy ranges", err)
	}

	result := make([]queries.BusyRange, len(rows))
	for i, row := range rows {
		result[i] = queries.BusyRange{
			Start:  pgconv.DateFromPgtype(row.CheckIn),
			End:    pgconv.DateFromPgtype(row.CheckOut),
			Status: row.Status,
		}
	}
	return result, nil
}
