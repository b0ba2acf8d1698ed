package response

import (
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"roomId"`
	RoomName        string    `json:"roomName"`
	OwnerID         uuid.UUID `json:"ownerId"`
	CheckIn         string    `json:"checkIn"`
	CheckOut        string    `json:"checkOut"`
	Guests          int       `json:"guests"`
	TotalPriceMinor int64     `json:"totalPriceMinor"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:              v.ID,
		RoomID:          v.RoomID,
		RoomName:        v.RoomName,
		OwnerID:         v.OwnerID,
		CheckIn:         reservation.FormatDate(v.CheckIn),
		CheckOut:        reservation.FormatDate(v.CheckOut),
		Guests:          v.Guests,
		TotalPriceMinor: v.TotalPriceMinor,
		Status:          v.Status,
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func FromReservationViews(views []*queries.ReservationView, next *queries.Cursor) *ReservationListResponse {
	items := make([]*ReservationResponse, 0, len(views))
	for _, v := range views {
		items = append(items, FromReservationView(v))
	}
	resp := &ReservationListResponse{Items: items}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp
}
