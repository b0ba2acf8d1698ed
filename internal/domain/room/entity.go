package room

import (
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoomName       = errors.New("room name cannot be empty")
	ErrRoomNameTooLong     = errors.New("room name is too long (max 100 characters)")
	ErrInvalidCapacity     = errors.New("room capacity must be positive")
	ErrNegativePrice       = errors.New("nightly price cannot be negative")
	ErrDescriptionTooLong  = errors.New("room description is too long (max 500 characters)")
	ErrRoomAlreadyInactive = errors.New("room is already inactive")
)

const (
	MaxRoomNameLength    = 100
	MaxDescriptionLength = 500
	DefaultCapacity      = 2
)

// Room is inventory owned by an external management tool. The booking engine
// reads it at validation and pricing time and never caches it between requests.
type Room struct {
	id                uuid.UUID
	category          Category
	name              string
	capacity          int
	nightlyPriceMinor int64
	description       string
	active            bool
	createdAt         time.Time
	updatedAt         time.Time
}

func NewRoom(category Category, name string, capacity int, nightlyPriceMinor int64, description string, now time.Time) (*Room, error) {
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	name = strings.TrimSpace(name)
	if err := validateRoomName(name); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if nightlyPriceMinor < 0 {
		return nil, ErrNegativePrice
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	return &Room{
		id:                uuid.New(),
		category:          category,
		name:              name,
		capacity:          capacity,
		nightlyPriceMinor: nightlyPriceMinor,
		description:       description,
		active:            true,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func ReconstructRoom(
	id uuid.UUID,
	category Category,
	name string,
	capacity int,
	nightlyPriceMinor int64,
	description string,
	active bool,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:                id,
		category:          category,
		name:              name,
		capacity:          capacity,
		nightlyPriceMinor: nightlyPriceMinor,
		description:       description,
		active:            active,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (r *Room) Accommodates(guests int) bool {
	return guests <= r.capacity
}

// Deactivate hides the room from new bookings; existing reservations keep referencing it.
func (r *Room) Deactivate(now time.Time) error {
	if !r.active {
		return ErrRoomAlreadyInactive
	}
	r.active = false
	r.updatedAt = now
	return nil
}

func validateRoomName(name string) error {
	if name == "" {
		return ErrEmptyRoomName
	}
	if utf8.RuneCountInString(name) > MaxRoomNameLength {
		return ErrRoomNameTooLong
	}
	return nil
}

// SortForListing orders rooms by category rank, then by name.
func SortForListing(rooms []*Room) {
	slices.SortStableFunc(rooms, func(a, b *Room) int {
		if d := a.category.Rank() - b.category.Rank(); d != 0 {
			return d
		}
		return strings.Compare(a.name, b.name)
	})
}

func (r *Room) ID() uuid.UUID            { return r.id }
func (r *Room) Category() Category       { return r.category }
func (r *Room) Name() string             { return r.name }
func (r *Room) Capacity() int            { return r.capacity }
func (r *Room) NightlyPriceMinor() int64 { return r.nightlyPriceMinor }
func (r *Room) Description() string      { return r.description }
func (r *Room) IsActive() bool           { return r.active }
func (r *Room) CreatedAt() time.Time     { return r.createdAt }
func (r *Room) UpdatedAt() time.Time     { return r.updatedAt }
