package request

import (
	"time"

	"sanatorium-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

type StayQuery struct {
	CheckIn  string `form:"check_in" binding:"required,isodate"`
	CheckOut string `form:"check_out" binding:"required,isodate"`
	Exclude  string `form:"exclude" binding:"omitempty,uuid"`
}

func (q StayQuery) Dates() (time.Time, time.Time, error) {
	checkIn, err := reservation.ParseDate(q.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := reservation.ParseDate(q.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

// Excluding is the reservation ignored by the overlap check, for moving an existing stay.
func (q StayQuery) Excluding() *uuid.UUID {
	if q.Exclude == "" {
		return nil
	}
	id, err := uuid.Parse(q.Exclude)
	if err != nil {
		return nil
	}
	return &id
}

type BusyQuery struct {
	HorizonDays *int `form:"horizon_days"`
}

func (q BusyQuery) Horizon(defaultDays int) int {
	if q.HorizonDays == nil {
		return defaultDays
	}
	return *q.HorizonDays
}
