package converter

import (
	"fmt"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
)

func ReservationToInfra(res *reservation.Reservation) sqlc.CreateReservationParams {
	period := res.Period()
	return sqlc.CreateReservationParams{
		ID:              res.ID(),
		RoomID:          res.RoomID(),
		OwnerID:         res.OwnerID(),
		CheckIn:         pgconv.DateToPgtype(period.CheckIn()),
		CheckOut:        pgconv.DateToPgtype(period.CheckOut()),
		Guests:          int32(res.Guests().Int()),
		TotalPriceMinor: res.TotalPrice().Minor(),
		Status:          res.Status().String(),
		Notes:           res.Note().String(),
		CreatedAt:       pgconv.TimeToPgtype(res.CreatedAt()),
	}
}

// ReservationFromInfra rebuilds the aggregate from a stored row. Rows violating
// current rules (e.g. a note longer than today's limit) are reported, not repaired.
func ReservationFromInfra(row sqlc.Reservations) (*reservation.Reservation, error) {
	period, err := reservation.NewStayPeriod(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	guests, err := reservation.NewGuestCount(int(row.Guests))
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	total, err := reservation.NewMoney(row.TotalPriceMinor)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}
	note, err := reservation.NewNote(row.Notes)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", row.ID, err)
	}

	return reservation.ReconstructReservation(
		row.ID, row.RoomID, row.OwnerID,
		period, guests, total, status, note,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
