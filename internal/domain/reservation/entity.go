package reservation

import (
	"errors"
	"time"

	"sanatorium-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrPastDate          = errors.New("check-in date is in the past")
	ErrCapacityExceeded  = errors.New("guest count exceeds room capacity")
	ErrRoomInactive      = errors.New("room is not open for booking")
	ErrIllegalTransition = errors.New("illegal reservation status transition")
)

// RoomTerms is the slice of a room that booking rules read.
// It is loaded fresh for every request.
type RoomTerms struct {
	ID           uuid.UUID
	Capacity     int
	NightlyPrice Money
	Active       bool
}

type Services struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	// Location decides which calendar day is "today".
	Location *time.Location
}

func (s *Services) Today() time.Time {
	return clock.Today(s.Clock, s.Location)
}

type Reservation struct {
	id         uuid.UUID
	roomID     uuid.UUID
	ownerID    uuid.UUID
	period     StayPeriod
	guests     GuestCount
	totalPrice Money
	status     Status
	note       Note
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReservation validates a booking request against the room terms and returns a
// pending reservation with its total price. Overlap is the caller's job since it
// needs the ledger.
func NewReservation(
	services *Services,
	room RoomTerms,
	ownerID uuid.UUID,
	period StayPeriod,
	guests GuestCount,
	note Note,
) (*Reservation, error) {
	if period.StartsBefore(services.Today()) {
		return nil, ErrPastDate
	}
	if !room.Active {
		return nil, ErrRoomInactive
	}
	if guests.Int() > room.Capacity {
		return nil, ErrCapacityExceeded
	}

	total, err := services.PriceCalculator.Calculate(room.NightlyPrice, period)
	if err != nil {
		return nil, err
	}

	now := services.Clock.Now()
	return &Reservation{
		id:         uuid.New(),
		roomID:     room.ID,
		ownerID:    ownerID,
		period:     period,
		guests:     guests,
		totalPrice: total,
		status:     StatusPending,
		note:       note,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructReservation(
	id, roomID, ownerID uuid.UUID,
	period StayPeriod,
	guests GuestCount,
	totalPrice Money,
	status Status,
	note Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		roomID:     roomID,
		ownerID:    ownerID,
		period:     period,
		guests:     guests,
		totalPrice: totalPrice,
		status:     status,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Reservation) Confirm(now time.Time) error {
	return r.transitionTo(StatusConfirmed, now)
}

func (r *Reservation) Cancel(now time.Time) error {
	return r.transitionTo(StatusCancelled, now)
}

func (r *Reservation) Complete(now time.Time) error {
	return r.transitionTo(StatusCompleted, now)
}

func (r *Reservation) transitionTo(next Status, now time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	r.status = next
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.ownerID == userID
}

// Conflicts reports whether both reservations hold the same room for a shared night.
func (r *Reservation) Conflicts(other *Reservation) bool {
	return r.roomID == other.roomID &&
		r.status.IsAdmitted() && other.status.IsAdmitted() &&
		r.period.Overlaps(other.period)
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) RoomID() uuid.UUID    { return r.roomID }
func (r *Reservation) OwnerID() uuid.UUID   { return r.ownerID }
func (r *Reservation) Period() StayPeriod   { return r.period }
func (r *Reservation) Guests() GuestCount   { return r.guests }
func (r *Reservation) TotalPrice() Money    { return r.totalPrice }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) Note() Note           { return r.note }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
