package response

import (
	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RoomResponse struct {
	ID                uuid.UUID `json:"id"`
	Category          string    `json:"category"`
	Name              string    `json:"name"`
	Capacity          int       `json:"capacity"`
	NightlyPriceMinor int64     `json:"nightlyPriceMinor"`
	Description       string    `json:"description"`
	IsActive          bool      `json:"isActive"`
}

func FromRoomView(v *queries.RoomView) (*RoomResponse, error) {
	var out RoomResponse
	if err := copier.Copy(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromRoomViews(views []*queries.RoomView) ([]*RoomResponse, error) {
	out := make([]*RoomResponse, 0, len(views))
	for _, v := range views {
		r, err := FromRoomView(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type AvailabilityResponse struct {
	RoomID    uuid.UUID `json:"roomId"`
	CheckIn   string    `json:"checkIn"`
	CheckOut  string    `json:"checkOut"`
	Available bool      `json:"available"`
}

func FromAvailability(a *queries.Availability) *AvailabilityResponse {
	return &AvailabilityResponse{
		RoomID:    a.RoomID,
		CheckIn:   reservation.FormatDate(a.CheckIn),
		CheckOut:  reservation.FormatDate(a.CheckOut),
		Available: a.Available,
	}
}

type PriceQuoteResponse struct {
	RoomID            uuid.UUID `json:"roomId"`
	CheckIn           string    `json:"checkIn"`
	CheckOut          string    `json:"checkOut"`
	Nights            int64     `json:"nights"`
	NightlyPriceMinor int64     `json:"nightlyPriceMinor"`
	TotalPriceMinor   int64     `json:"totalPriceMinor"`
}

func FromPriceQuote(q *queries.PriceQuote) *PriceQuoteResponse {
	return &PriceQuoteResponse{
		RoomID:            q.RoomID,
		CheckIn:           reservation.FormatDate(q.CheckIn),
		CheckOut:          reservation.FormatDate(q.CheckOut),
		Nights:            q.Nights,
		NightlyPriceMinor: q.NightlyPriceMinor,
		TotalPriceMinor:   q.TotalPriceMinor,
	}
}

type BusyRangeResponse struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Status string `json:"status"`
}

type BusyRangesResponse struct {
	RoomID      uuid.UUID           `json:"roomId"`
	HorizonDays int                 `json:"horizonDays"`
	Ranges      []BusyRangeResponse `json:"ranges"`
}

func FromBusyRange(r queries.BusyRange) BusyRangeResponse {
	return BusyRangeResponse{
		Start:  reservation.FormatDate(r.Start),
		End:    reservation.FormatDate(r.End),
		Status: r.Status,
	}
}
