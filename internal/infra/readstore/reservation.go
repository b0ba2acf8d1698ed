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

type ReservationViewQueries interface {
	GetReservationViewByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.ReservationViewRow, error)
	ListReservationsByOwnerFirstPage(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByOwnerFirstPageParams) ([]sqlc.ReservationViewRow, error)
	ListReservationsByOwnerKeyset(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByOwnerKeysetParams) ([]sqlc.ReservationViewRow, error)
	ListReservationsForStaff(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsForStaffParams) ([]sqlc.ReservationViewRow, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationViewByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return toReservationView(row), nil
}

func (r *ReservationReadStore) FindByOwnerFirstPage(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	params := sqlc.ListReservationsByOwnerFirstPageParams{
		OwnerID: ownerID,
		Limit:   limit,
	}

	rows, err := r.queries.ListReservationsByOwnerFirstPage(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations first page", err)
	}

	return toReservationViews(rows), nil
}

func (r *ReservationReadStore) FindByOwnerKeyset(ctx context.Context, ownerID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	params := sqlc.ListReservationsByOwnerKeysetParams{
		OwnerID:   ownerID,
		CreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		ID:        lastID,
		Limit:     limit,
	}

	rows, err := r.queries.ListReservationsByOwnerKeyset(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations keyset", err)
	}

	return toReservationViews(rows), nil
}

func (r *ReservationReadStore) FindForStaff(ctx context.Context, filter queries.StaffFilter) ([]*queries.ReservationView, error) {
	params := sqlc.ListReservationsForStaffParams{
		RoomID: pgconv.UUIDPtrToPgtype(filter.RoomID),
		Status: pgconv.StringPtrToPgtype(filter.Status),
		Limit:  int32(filter.Limit),
	}

	rows, err := r.queries.ListReservationsForStaff(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations for staff", err)
	}

	return toReservationViews(rows), nil
}

func toReservationViews(rows []sqlc.ReservationViewRow) []*queries.ReservationView {
	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = toReservationView(row)
	}
	return result
}

func toReservationView(row sqlc.ReservationViewRow) *queries.ReservationView {
	return &queries.ReservationView{
		ID:              row.ID,
		RoomID:          row.RoomID,
		RoomName:        row.RoomName,
		OwnerID:         row.OwnerID,
		CheckIn:         pgconv.DateFromPgtype(row.CheckIn),
		CheckOut:        pgconv.DateFromPgtype(row.CheckOut),
		Guests:          int(row.Guests),
		TotalPriceMinor: row.TotalPriceMinor,
		Status:          row.Status,
		Notes:           row.Notes,
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
