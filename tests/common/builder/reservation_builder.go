//go:build unit || e2e

package builder

import (
	"time"

	domres "sanatorium-booking/internal/domain/reservation"
	reqdto "sanatorium-booking/internal/handler/dto/request"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Fixed "today" used by reservation builders: 2024-05-20 10:00 Moscow time.
var DefaultNow = time.Date(2024, 5, 20, 7, 0, 0, 0, time.UTC)

type ReservationBuilder struct {
	ReservationID    uuid.UUID
	RoomID           uuid.UUID
	OwnerID          uuid.UUID
	CheckIn          string
	CheckOut         string
	Guests           int
	Notes            string
	Status           domres.Status
	TotalPriceMinor  int64
	RoomCapacity     int
	RoomNightlyPrice int64
	RoomActive       bool
	Now              time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		RoomID:           uuid.New(),
		OwnerID:          uuid.New(),
		CheckIn:          "2024-06-01",
		CheckOut:         "2024-06-04",
		Guests:           2,
		Notes:            "Late arrival",
		Status:           domres.StatusPending,
		RoomCapacity:     2,
		RoomNightlyPrice: 5000,
		RoomActive:       true,
		Now:              DefaultNow,
		TotalPriceMinor:  15000,
		ReservationID:    uuid.New(),
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithPeriod(checkIn, checkOut string) *ReservationBuilder {
	r.CheckIn = checkIn
	r.CheckOut = checkOut
	return r
}

func (r *ReservationBuilder) WithGuests(n int) *ReservationBuilder {
	r.Guests = n
	return r
}

func (r *ReservationBuilder) WithNotes(notes string) *ReservationBuilder {
	r.Notes = notes
	return r
}

func (r *ReservationBuilder) WithStatus(status domres.Status) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) Services() *domres.Services {
	return &domres.Services{
		Clock:           clock.NewMockClock(r.Now),
		PriceCalculator: domres.NewNightlyPriceCalculator(),
		Location:        moscow(),
	}
}

// Build methods
func (r *ReservationBuilder) BuildDomain() (*domres.Reservation, error) {
	checkIn, err := domres.ParseDate(r.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := domres.ParseDate(r.CheckOut)
	if err != nil {
		return nil, err
	}
	period, err := domres.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	guests, err := domres.NewGuestCount(r.Guests)
	if err != nil {
		return nil, err
	}
	note, err := domres.NewNote(r.Notes)
	if err != nil {
		return nil, err
	}
	price, err := domres.NewMoney(r.RoomNightlyPrice)
	if err != nil {
		return nil, err
	}

	terms := domres.RoomTerms{
		ID:           r.RoomID,
		Capacity:     r.RoomCapacity,
		NightlyPrice: price,
		Active:       r.RoomActive,
	}
	return domres.NewReservation(r.Services(), terms, r.OwnerID, period, guests, note)
}

// BuildReconstructed skips creation rules and yields a reservation in r.Status.
func (r *ReservationBuilder) BuildReconstructed() *domres.Reservation {
	checkIn, _ := domres.ParseDate(r.CheckIn)
	checkOut, _ := domres.ParseDate(r.CheckOut)
	period, _ := domres.NewStayPeriod(checkIn, checkOut)
	guests, _ := domres.NewGuestCount(r.Guests)
	note, _ := domres.NewNote(r.Notes)
	total, _ := domres.NewMoney(r.TotalPriceMinor)
	return domres.ReconstructReservation(
		r.ReservationID, r.RoomID, r.OwnerID,
		period, guests, total, r.Status, note,
		r.Now, r.Now,
	)
}

func (r *ReservationBuilder) BuildInfra() sqlc.Reservations {
	checkIn, _ := domres.ParseDate(r.CheckIn)
	checkOut, _ := domres.ParseDate(r.CheckOut)
	return sqlc.Reservations{
		ID:              r.ReservationID,
		RoomID:          r.RoomID,
		OwnerID:         r.OwnerID,
		CheckIn:         pgtype.Date{Time: checkIn, Valid: true},
		CheckOut:        pgtype.Date{Time: checkOut, Valid: true},
		Guests:          int32(r.Guests),
		TotalPriceMinor: r.TotalPriceMinor,
		Status:          r.Status.String(),
		Notes:           r.Notes,
		CreatedAt:       pgtype.Timestamptz{Time: r.Now, Valid: true},
		UpdatedAt:       pgtype.Timestamptz{Time: r.Now, Valid: true},
	}
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		RoomID:   r.RoomID,
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
		Guests:   r.Guests,
		Notes:    r.Notes,
	}
}

func moscow() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	checkIn, _ := domres.ParseDate(r.CheckIn)
	checkOut, _ := domres.ParseDate(r.CheckOut)
	return &queries.ReservationView{
		ID:              r.ReservationID,
		RoomID:          r.RoomID,
		RoomName:        "Room 101",
		OwnerID:         r.OwnerID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          r.Guests,
		TotalPriceMinor: r.TotalPriceMinor,
		Status:          r.Status.String(),
		Notes:           r.Notes,
		CreatedAt:       r.Now,
		UpdatedAt:       r.Now,
	}
}
