package readstore

import (
	"context"

	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type RoomReadQueries interface {
	GetRoomByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Rooms, error)
	ListActiveRooms(ctx context.Context, db sqlc.DBTX) ([]sqlc.Rooms, error)
}

type RoomReadStore struct {
	queries RoomReadQueries
	db      sqlc.DBTX
}

func NewRoomReadStore(queries RoomReadQueries, db sqlc.DBTX) *RoomReadStore {
	return &RoomReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	row, err := r.queries.GetRoomByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room by ID", err)
	}

	return toRoomView(row), nil
}

// ListActive relies on the enum order of room_category for category rank.
func (r *RoomReadStore) ListActive(ctx context.Context) ([]*queries.RoomView, error) {
	rows, err := r.queries.ListActiveRooms(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active rooms", err)
	}

	result := make([]*queries.RoomView, len(rows))
	for i, row := range rows {
		result[i] = toRoomView(row)
	}
	return result, nil
}

func toRoomView(row sqlc.Rooms) *queries.RoomView {
	return &queries.RoomView{
		ID:                row.ID,
		Category:          row.Category,
		Name:              row.Name,
		Capacity:          int(row.Capacity),
		NightlyPriceMinor: row.NightlyPriceMinor,
		Description:       row.Description,
		IsActive:          row.IsActive,
		CreatedAt:         pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:         pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
