// Package memstore is the in-process ledger behind BOOKING_STORAGE=memory.
// It keeps the same rows as the Postgres schema and enforces the same
// constraints: unique room names, one admitted stay per room night, and
// status compare-and-set.
package memstore

import (
	"maps"
	"strings"
	"sync"

	"sanatorium-booking/internal/domain/room"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type idempotencyID struct {
	key    uuid.UUID
	userID uuid.UUID
}

// state is one consistent copy of every table. A published state is never
// mutated; writers clone it and swap the pointer under the store mutex.
type state struct {
	rooms        map[uuid.UUID]sqlc.Rooms
	reservations map[uuid.UUID]sqlc.Reservations
	keys         map[idempotencyID]sqlc.IdempotencyKeys
	jobs         map[uuid.UUID]sqlc.NotificationJobs
}

func (s *state) clone() *state {
	return &state{
		rooms:        maps.Clone(s.rooms),
		reservations: maps.Clone(s.reservations),
		keys:         maps.Clone(s.keys),
		jobs:         maps.Clone(s.jobs),
	}
}

type Store struct {
	mu    sync.RWMutex
	data  *state
	clock clock.Clock
}

func New(clk clock.Clock) *Store {
	return &Store{
		data: &state{
			rooms:        make(map[uuid.UUID]sqlc.Rooms),
			reservations: make(map[uuid.UUID]sqlc.Reservations),
			keys:         make(map[idempotencyID]sqlc.IdempotencyKeys),
			jobs:         make(map[uuid.UUID]sqlc.NotificationJobs),
		},
		clock: clk,
	}
}

// AddRoom stands in for the external inventory tool.
func (s *Store) AddRoom(r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.data.rooms {
		if strings.EqualFold(existing.Name, r.Name()) {
			return infra.WrapRepoErr("room name already taken", nil, infra.KindDuplicateKey)
		}
	}
	data := s.data.clone()
	data.rooms[r.ID()] = sqlc.Rooms{
		ID:                r.ID(),
		Category:          r.Category().String(),
		Name:              r.Name(),
		Capacity:          int32(r.Capacity()),
		NightlyPriceMinor: r.NightlyPriceMinor(),
		Description:       r.Description(),
		IsActive:          r.IsActive(),
		CreatedAt:         pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt:         pgconv.TimeToPgtype(r.UpdatedAt()),
	}
	s.data = data
	return nil
}

func (s *Store) SetRoomActive(id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.data.rooms[id]
	if !ok {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	row.IsActive = active
	row.UpdatedAt = pgconv.TimeToPgtype(s.clock.Now())
	data := s.data.clone()
	data.rooms[id] = row
	s.data = data
	return nil
}

// SeedDemoRooms adds one room per category, priced like the legacy category tariffs.
func (s *Store) SeedDemoRooms() error {
	demo := []struct {
		category room.Category
		name     string
		capacity int
		price    int64
	}{
		{room.CategoryStandard, "Standard 101", 2, 5000},
		{room.CategoryComfort, "Comfort 201", 3, 8000},
		{room.CategoryDeluxe, "Deluxe 301", 4, 12000},
	}
	now := s.clock.Now()
	for _, d := range demo {
		r, err := room.NewRoom(d.category, d.name, d.capacity, d.price, "", now)
		if err != nil {
			return err
		}
		if err := s.AddRoom(r); err != nil {
			return err
		}
	}
	return nil
}
