package queries

import (
	"context"

	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type RoomReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RoomView, error)
	ListActive(ctx context.Context) ([]*RoomView, error)
}

type RoomQueries interface {
	// Get returns the room even when it is inactive, so history stays resolvable.
	Get(ctx context.Context, id uuid.UUID) (*RoomView, error)
	// ListActive orders rooms by category, then name.
	ListActive(ctx context.Context) ([]*RoomView, error)
}

type roomQueriesImpl struct {
	store RoomReadStore
}

func NewRoomQueries(store RoomReadStore) RoomQueries {
	return &roomQueriesImpl{store: store}
}

func (q *roomQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*RoomView, error) {
	return findRoom(ctx, q.store, id)
}

func (q *roomQueriesImpl) ListActive(ctx context.Context) ([]*RoomView, error) {
	rooms, err := q.store.ListActive(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rooms, nil
}

func findRoom(ctx context.Context, store RoomReadStore, id uuid.UUID) (*RoomView, error) {
	room, err := store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return room, nil
}

func findActiveRoom(ctx context.Context, store RoomReadStore, id uuid.UUID) (*RoomView, error) {
	room, err := findRoom(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, errs.Wrapf(errs.ErrRoomNotFound, "room %s is inactive", id)
	}
	return room, nil
}
