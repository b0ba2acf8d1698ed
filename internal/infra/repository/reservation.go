package repository

import (
	"context"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/repository/converter"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (uuid.UUID, error)
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	ExistsOverlappingReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.ExistsOverlappingReservationParams) (bool, error)
	UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

// Create fails with KindConflict when the exclusion constraint sees an overlap.
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	params := converter.ReservationToInfra(res)

	resultID, err := r.queries.CreateReservation(ctx, r.db, params)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err)
	}

	return resultID, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	res, err := converter.ReservationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation is invalid", err, infra.KindDBFailure)
	}
	return res, nil
}

func (r *ReservationRepository) HasOverlap(ctx context.Context, roomID uuid.UUID, period reservation.StayPeriod, excluding *uuid.UUID) (bool, error) {
	params := sqlc.ExistsOverlappingReservationParams{
		RoomID:    roomID,
		CheckIn:   pgconv.DateToPgtype(period.CheckIn()),
		CheckOut:  pgconv.DateToPgtype(period.CheckOut()),
		ExcludeID: pgconv.UUIDPtrToPgtype(excluding),
	}

	exists, err := r.queries.ExistsOverlappingReservation(ctx, r.db, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check reservation overlap", err)
	}
	return exists, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation, from reservation.Status) error {
	params := sqlc.UpdateReservationStatusParams{
		ID:         res.ID(),
		FromStatus: from.String(),
		ToStatus:   res.Status().String(),
		UpdatedAt:  pgconv.TimeToPgtype(res.UpdatedAt()),
	}

	affected, err := r.queries.UpdateReservationStatus(ctx, r.db, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("reservation status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}
