package queries

import (
	"context"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type AvailabilityReadStore interface {
	HasOverlap(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excluding *uuid.UUID) (bool, error)
}

// AvailabilityQueries answers live UI questions. Results are advisory: create
// re-checks under the room lock.
type AvailabilityQueries interface {
	IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excluding *uuid.UUID) (*Availability, error)
	ComputePrice(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (*PriceQuote, error)
}

type availabilityQueriesImpl struct {
	rooms        RoomReadStore
	reservations AvailabilityReadStore
	pricing      reservation.PriceCalculator
}

func NewAvailabilityQueries(
	rooms RoomReadStore,
	reservations AvailabilityReadStore,
	pricing reservation.PriceCalculator,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		rooms:        rooms,
		reservations: reservations,
		pricing:      pricing,
	}
}

func (q *availabilityQueriesImpl) IsAvailable(
	ctx context.Context,
	roomID uuid.UUID,
	checkIn, checkOut time.Time,
	excluding *uuid.UUID,
) (*Availability, error) {
	period, err := reservation.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if _, err := findActiveRoom(ctx, q.rooms, roomID); err != nil {
		return nil, err
	}

	busy, err := q.reservations.HasOverlap(ctx, roomID, period.CheckIn(), period.CheckOut(), excluding)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &Availability{
		RoomID:    roomID,
		CheckIn:   period.CheckIn(),
		CheckOut:  period.CheckOut(),
		Available: !busy,
	}, nil
}

func (q *availabilityQueriesImpl) ComputePrice(
	ctx context.Context,
	roomID uuid.UUID,
	checkIn, checkOut time.Time,
) (*PriceQuote, error) {
	period, err := reservation.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	room, err := findActiveRoom(ctx, q.rooms, roomID)
	if err != nil {
		return nil, err
	}

	nightly, err := reservation.NewMoney(room.NightlyPriceMinor)
	if err != nil {
		return nil, err
	}
	total, err := q.pricing.Calculate(nightly, period)
	if err != nil {
		return nil, err
	}

	return &PriceQuote{
		RoomID:            roomID,
		CheckIn:           period.CheckIn(),
		CheckOut:          period.CheckOut(),
		Nights:            period.Nights(),
		NightlyPriceMinor: nightly.Minor(),
		TotalPriceMinor:   total.Minor(),
	}, nil
}
