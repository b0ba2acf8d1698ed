package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models returned by the query side. Dates are calendar dates at midnight UTC.

type RoomView struct {
	ID                uuid.UUID `json:"id"`
	Category          string    `json:"category"`
	Name              string    `json:"name"`
	Capacity          int       `json:"capacity"`
	NightlyPriceMinor int64     `json:"nightly_price_minor"`
	Description       string    `json:"description"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ReservationView struct {
	ID              uuid.UUID `json:"id"`
	RoomID          uuid.UUID `json:"room_id"`
	RoomName        string    `json:"room_name"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	Guests          int       `json:"guests"`
	TotalPriceMinor int64     `json:"total_price_minor"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BusyRange is an occupied [Start, End) window. It carries no guest identity.
type BusyRange struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

type Availability struct {
	RoomID    uuid.UUID `json:"room_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Available bool      `json:"available"`
}

type PriceQuote struct {
	RoomID            uuid.UUID `json:"room_id"`
	CheckIn           time.Time `json:"check_in"`
	CheckOut          time.Time `json:"check_out"`
	Nights            int64     `json:"nights"`
	NightlyPriceMinor int64     `json:"nightly_price_minor"`
	TotalPriceMinor   int64     `json:"total_price_minor"`
}

type StaffFilter struct {
	RoomID *uuid.UUID
	Status *string
	Limit  int
}
