package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/domain/room"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReadStore serves every query-side store interface from committed state.
type ReadStore struct {
	store *Store
}

func NewReadStore(store *Store) *ReadStore {
	return &ReadStore{store: store}
}

func (r *ReadStore) snapshot() *state {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.data
}

func (r *ReadStore) FindRoom(_ context.Context, id uuid.UUID) (*queries.RoomView, error) {
	row, ok := r.snapshot().rooms[id]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return roomView(row), nil
}

func (r *ReadStore) ListActiveRooms(_ context.Context) ([]*queries.RoomView, error) {
	data := r.snapshot()
	active := make([]*room.Room, 0, len(data.rooms))
	for _, row := range data.rooms {
		if !row.IsActive {
			continue
		}
		active = append(active, room.ReconstructRoom(
			row.ID, room.Category(row.Category), row.Name, int(row.Capacity),
			row.NightlyPriceMinor, row.Description, row.IsActive,
			row.CreatedAt.Time, row.UpdatedAt.Time,
		))
	}
	room.SortForListing(active)

	result := make([]*queries.RoomView, len(active))
	for i, rm := range active {
		result[i] = roomView(data.rooms[rm.ID()])
	}
	return result, nil
}

func (r *ReadStore) FindReservation(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	data := r.snapshot()
	row, ok := data.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return reservationView(data, row), nil
}

// ownerRows returns the owner's reservations newest first, ties broken by ID descending.
func (r *ReadStore) ownerRows(data *state, ownerID uuid.UUID) []sqlc.Reservations {
	var rows []sqlc.Reservations
	for _, row := range data.reservations {
		if row.OwnerID == ownerID {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b sqlc.Reservations) int {
		if c := b.CreatedAt.Time.Compare(a.CreatedAt.Time); c != 0 {
			return c
		}
		return compareUUID(b.ID, a.ID)
	})
	return rows
}

func (r *ReadStore) FindByOwnerFirstPage(_ context.Context, ownerID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	data := r.snapshot()
	return views(data, r.ownerRows(data, ownerID), int(limit)), nil
}

func (r *ReadStore) FindByOwnerKeyset(_ context.Context, ownerID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	data := r.snapshot()
	rows := r.ownerRows(data, ownerID)
	start := len(rows)
	for i, row := range rows {
		c := row.CreatedAt.Time.Compare(lastCreatedAt)
		if c < 0 || (c == 0 && compareUUID(row.ID, lastID) < 0) {
			start = i
			break
		}
	}
	return views(data, rows[start:], int(limit)), nil
}

func (r *ReadStore) FindForStaff(_ context.Context, filter queries.StaffFilter) ([]*queries.ReservationView, error) {
	data := r.snapshot()
	var rows []sqlc.Reservations
	for _, row := range data.reservations {
		if filter.RoomID != nil && row.RoomID != *filter.RoomID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b sqlc.Reservations) int {
		if c := a.CheckIn.Time.Compare(b.CheckIn.Time); c != 0 {
			return c
		}
		return compareUUID(a.ID, b.ID)
	})
	return views(data, rows, filter.Limit), nil
}

func (r *ReadStore) HasOverlap(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excluding *uuid.UUID) (bool, error) {
	period, err := reservation.NewStayPeriod(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return overlaps(r.snapshot(), roomID, period, excluding), nil
}

func (r *ReadStore) BusyRanges(_ context.Context, roomID uuid.UUID, from, to time.Time) ([]queries.BusyRange, error) {
	window, err := reservation.NewStayPeriod(from, to)
	if err != nil {
		return nil, err
	}
	var result []queries.BusyRange
	for _, row := range r.snapshot().reservations {
		if row.RoomID != roomID || !isAdmitted(row.Status) {
			continue
		}
		period := rowPeriod(row)
		if !period.Overlaps(window) {
			continue
		}
		result = append(result, queries.BusyRange{
			Start:  period.CheckIn(),
			End:    period.CheckOut(),
			Status: row.Status,
		})
	}
	slices.SortFunc(result, func(a, b queries.BusyRange) int {
		return cmp.Or(a.Start.Compare(b.Start), a.End.Compare(b.End))
	})
	return result, nil
}

func views(data *state, rows []sqlc.Reservations, limit int) []*queries.ReservationView {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = reservationView(data, row)
	}
	return result
}

func compareUUID(a, b uuid.UUID) int {
	return slices.Compare(a[:], b[:])
}

func roomView(row sqlc.Rooms) *queries.RoomView {
	return &queries.RoomView{
		ID:                row.ID,
		Category:          row.Category,
		Name:              row.Name,
		Capacity:          int(row.Capacity),
		NightlyPriceMinor: row.NightlyPriceMinor,
		Description:       row.Description,
		IsActive:          row.IsActive,
		CreatedAt:         pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:         pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func reservationView(data *state, row sqlc.Reservations) *queries.ReservationView {
	return &queries.ReservationView{
		ID:              row.ID,
		RoomID:          row.RoomID,
		RoomName:        data.rooms[row.RoomID].Name,
		OwnerID:         row.OwnerID,
		CheckIn:         pgconv.DateFromPgtype(row.CheckIn),
		CheckOut:        pgconv.DateFromPgtype(row.CheckOut),
		Guests:          int(row.Guests),
		TotalPriceMinor: row.TotalPriceMinor,
		Status:          row.Status,
		Notes:           row.Notes,
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

// Adapters give each query interface its expected method names.

type RoomReadStore struct{ *ReadStore }

func (r RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	return r.FindRoom(ctx, id)
}

func (r RoomReadStore) ListActive(ctx context.Context) ([]*queries.RoomView, error) {
	return r.ListActiveRooms(ctx)
}

type ReservationReadStore struct{ *ReadStore }

func (r ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return r.FindReservation(ctx, id)
}
