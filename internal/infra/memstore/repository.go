package memstore

import (
	"context"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/repository/converter"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type roomRepository struct {
	data *state
}

// LockForBooking needs no row lock: the transaction already owns the store.
func (r *roomRepository) LockForBooking(_ context.Context, id uuid.UUID, _ time.Duration) (*shared.RoomSnapshot, error) {
	row, ok := r.data.rooms[id]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return &shared.RoomSnapshot{
		ID:                row.ID,
		Capacity:          int(row.Capacity),
		NightlyPriceMinor: row.NightlyPriceMinor,
		Active:            row.IsActive,
	}, nil
}

type reservationRepository struct {
	data *state
}

func (r *reservationRepository) Create(_ context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	params := converter.ReservationToInfra(res)
	if _, ok := r.data.rooms[params.RoomID]; !ok {
		return uuid.Nil, infra.WrapRepoErr("room does not exist", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := r.data.reservations[params.ID]; ok {
		return uuid.Nil, infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	if res.Status().IsAdmitted() && overlaps(r.data, res.RoomID(), res.Period(), nil) {
		return uuid.Nil, infra.WrapRepoErr("overlapping admitted reservation", nil, infra.KindConflict)
	}

	r.data.reservations[params.ID] = sqlc.Reservations{
		ID:              params.ID,
		RoomID:          params.RoomID,
		OwnerID:         params.OwnerID,
		CheckIn:         params.CheckIn,
		CheckOut:        params.CheckOut,
		Guests:          params.Guests,
		TotalPriceMinor: params.TotalPriceMinor,
		Status:          params.Status,
		Notes:           params.Notes,
		CreatedAt:       params.CreatedAt,
		UpdatedAt:       params.CreatedAt,
	}
	return params.ID, nil
}

func (r *reservationRepository) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := r.data.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	res, err := converter.ReservationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation is invalid", err, infra.KindDBFailure)
	}
	return res, nil
}

func (r *reservationRepository) HasOverlap(_ context.Context, roomID uuid.UUID, period reservation.StayPeriod, excluding *uuid.UUID) (bool, error) {
	return overlaps(r.data, roomID, period, excluding), nil
}

func (r *reservationRepository) UpdateStatus(_ context.Context, res *reservation.Reservation, from reservation.Status) error {
	row, ok := r.data.reservations[res.ID()]
	if !ok || row.Status != from.String() {
		return infra.WrapRepoErr("reservation status changed concurrently", nil, infra.KindConflict)
	}
	row.Status = res.Status().String()
	row.UpdatedAt = pgconv.TimeToPgtype(res.UpdatedAt())
	r.data.reservations[res.ID()] = row
	return nil
}

func overlaps(data *state, roomID uuid.UUID, period reservation.StayPeriod, excluding *uuid.UUID) bool {
	for _, row := range data.reservations {
		if row.RoomID != roomID || !isAdmitted(row.Status) {
			continue
		}
		if excluding != nil && row.ID == *excluding {
			continue
		}
		if rowPeriod(row).Overlaps(period) {
			return true
		}
	}
	return false
}

func isAdmitted(status string) bool {
	s, err := reservation.ParseStatus(status)
	return err == nil && s.IsAdmitted()
}

func rowPeriod(row sqlc.Reservations) reservation.StayPeriod {
	period, _ := reservation.NewStayPeriod(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
	return period
}

type idempotencyRepository struct {
	data *state
}

func (r *idempotencyRepository) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, now, expiresAt time.Time) (bool, error) {
	id := idempotencyID{key: key, userID: userID}
	if existing, ok := r.data.keys[id]; ok && existing.ExpiresAt.Time.After(now) {
		return false, nil
	}
	r.data.keys[id] = sqlc.IdempotencyKeys{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		Status:      shared.IdempotencyStatusProcessing,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		CreatedAt:   pgconv.TimeToPgtype(now),
		UpdatedAt:   pgconv.TimeToPgtype(now),
	}
	return true, nil
}

func (r *idempotencyRepository) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, ok := r.data.keys[idempotencyID{key: key, userID: userID}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &shared.IdempotencyRecord{
		Key:                 row.Key,
		UserID:              row.UserID,
		Status:              row.Status,
		RequestHash:         row.RequestHash,
		ResultReservationID: pgconv.UUIDPtrFromPgtype(row.ResultReservationID),
		ExpiresAt:           pgconv.TimeFromPgtype(row.ExpiresAt),
	}, nil
}

func (r *idempotencyRepository) MarkCompleted(_ context.Context, key, userID, reservationID uuid.UUID, now time.Time) error {
	id := idempotencyID{key: key, userID: userID}
	row, ok := r.data.keys[id]
	if !ok {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	row.Status = shared.IdempotencyStatusCompleted
	row.ResultReservationID = pgconv.UUIDToPgtype(reservationID)
	row.UpdatedAt = pgconv.TimeToPgtype(now)
	r.data.keys[id] = row
	return nil
}

// Delete only drops keys still processing; completed keys keep replaying.
func (r *idempotencyRepository) Delete(_ context.Context, key, userID uuid.UUID) error {
	id := idempotencyID{key: key, userID: userID}
	if row, ok := r.data.keys[id]; ok && row.Status == shared.IdempotencyStatusProcessing {
		delete(r.data.keys, id)
	}
	return nil
}

type notificationRepository struct {
	data *state
}

func (r *notificationRepository) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	id := uuid.New()
	r.data.jobs[id] = sqlc.NotificationJobs{
		ID:        id,
		Kind:      kind,
		Topic:     topic,
		Payload:   payload,
		RunAt:     pgconv.TimeToPgtype(runAt),
		Status:    shared.NotificationStatusQueued,
		CreatedAt: pgconv.TimeToPgtype(runAt),
		UpdatedAt: pgconv.TimeToPgtype(runAt),
	}
	return nil
}
