package queries

import (
	"context"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/pkg/errs"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByOwnerFirstPage(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*ReservationView, error)
	FindByOwnerKeyset(ctx context.Context, ownerID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ReservationView, error)
	FindForStaff(ctx context.Context, filter StaffFilter) ([]*ReservationView, error)
}

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock . ReservationQueries,RoomQueries,AvailabilityQueries,CalendarQueries
type ReservationQueries interface {
	// GetByID hides other guests' reservations behind ErrReservationNotFound.
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem skips ownership checks; used for read-after-write and replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, after *Cursor, limit int) ([]*ReservationView, *Cursor, error)
	ListForStaff(ctx context.Context, filter StaffFilter) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && view.OwnerID != actor.ID {
		return nil, errs.Wrapf(errs.ErrReservationNotFound, "reservation %s", id)
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrReservationNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, after *Cursor, limit int) ([]*ReservationView, *Cursor, error) {
	limit = ValidateLimit(limit)
	// One extra row tells whether another page exists.
	fetch := int32(limit + 1)

	var (
		rows []*ReservationView
		err  error
	)
	if after == nil || after.After == "" {
		rows, err = q.store.FindByOwnerFirstPage(ctx, ownerID, fetch)
	} else {
		lastCreatedAt, lastID, decodeErr := DecodeAfterCursor(after.After)
		if decodeErr != nil {
			return nil, nil, errs.Mark(decodeErr, errs.ErrInvalidCursor)
		}
		rows, err = q.store.FindByOwnerKeyset(ctx, ownerID, lastCreatedAt, lastID, fetch)
	}
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}

func (q *reservationQueriesImpl) ListForStaff(ctx context.Context, filter StaffFilter) ([]*ReservationView, error) {
	if filter.Status != nil {
		if _, err := reservation.ParseStatus(*filter.Status); err != nil {
			return nil, err
		}
	}
	filter.Limit = ValidateLimit(filter.Limit)
	rows, err := q.store.FindForStaff(ctx, filter)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rows, nil
}
