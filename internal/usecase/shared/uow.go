package shared

import (
	"context"
	"time"

	"sanatorium-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one transaction and retries it on serialization failures.
	// Returning an error rolls back every write made through tx.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Rooms() RoomRepository
	Reservations() ReservationRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
}

// RoomLocker gives the caller exclusive booking rights on one room.
// Lock waits at most the configured bound and then fails with errs.ErrLockTimeout.
type RoomLocker interface {
	Lock(ctx context.Context, roomID uuid.UUID) (unlock func(), err error)
}

type RoomRepository interface {
	// LockForBooking reads the current room terms and holds the room row until
	// the transaction ends, waiting at most wait for a competing booking.
	LockForBooking(ctx context.Context, id uuid.UUID, wait time.Duration) (*RoomSnapshot, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	HasOverlap(ctx context.Context, roomID uuid.UUID, period reservation.StayPeriod, excluding *uuid.UUID) (bool, error)
	// UpdateStatus stores res.Status() only if the stored status still equals from.
	UpdateStatus(ctx context.Context, res *reservation.Reservation, from reservation.Status) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key. false means a live record already exists.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, now, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, userID, reservationID uuid.UUID, now time.Time) error
	Delete(ctx context.Context, key, userID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
