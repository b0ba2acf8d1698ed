package memstore

import (
	"context"

	"sanatorium-booking/internal/usecase/shared"
)

// UoW serializes transactions on the store mutex. Writes go to a private copy
// that replaces the store state only when fn succeeds. The copy spans the whole
// store, so each write costs O(total rows); fine for tests and dev, not for load.
type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	work := u.store.data.clone()
	if err := fn(ctx, &memTx{data: work}); err != nil {
		return err
	}
	u.store.data = work
	return nil
}

type memTx struct {
	data *state
}

func (t *memTx) Rooms() shared.RoomRepository {
	return &roomRepository{data: t.data}
}

func (t *memTx) Reservations() shared.ReservationRepository {
	return &reservationRepository{data: t.data}
}

func (t *memTx) Idempotency() shared.IdempotencyRepository {
	return &idempotencyRepository{data: t.data}
}

func (t *memTx) Notifications() shared.NotificationRepository {
	return &notificationRepository{data: t.data}
}
