package request

import (
	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	RoomID   uuid.UUID `json:"roomId" binding:"required"`
	CheckIn  string    `json:"checkIn" binding:"required,isodate"`
	CheckOut string    `json:"checkOut" binding:"required,isodate"`
	Guests   int       `json:"guests" binding:"required,min=1"`
	Notes    string    `json:"notes"`
}

// ToInput parses the dates; range and capacity rules stay with the usecase.
func (r CreateReservationRequest) ToInput() (commands.CreateReservationInput, error) {
	checkIn, err := reservation.ParseDate(r.CheckIn)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	checkOut, err := reservation.ParseDate(r.CheckOut)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		RoomID:   r.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   r.Guests,
		Notes:    r.Notes,
	}, nil
}

type ListReservationsQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type StaffReservationsQuery struct {
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (q StaffReservationsQuery) RoomUUID() *uuid.UUID {
	if q.RoomID == "" {
		return nil
	}
	id, err := uuid.Parse(q.RoomID)
	if err != nil {
		return nil
	}
	return &id
}

func (q StaffReservationsQuery) StatusFilter() *string {
	if q.Status == "" {
		return nil
	}
	s := q.Status
	return &s
}
