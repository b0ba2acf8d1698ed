package lock

import (
	"context"
	"sync"
	"time"

	"sanatorium-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

// MemoryLocker grants one holder per room inside this process. Waiters give up
// after wait and get errs.ErrLockTimeout.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
	wait  time.Duration
}

type slot struct {
	held chan struct{}
	refs int
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		slots: make(map[uuid.UUID]*slot),
		wait:  wait,
	}
}

func (l *MemoryLocker) Lock(ctx context.Context, roomID uuid.UUID) (func(), error) {
	s := l.acquireSlot(roomID)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s.held <- struct{}{}:
	case <-timer.C:
		l.releaseSlot(roomID, s)
		return nil, errs.Wrapf(errs.ErrLockTimeout, "room %s", roomID)
	case <-ctx.Done():
		l.releaseSlot(roomID, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.held
			l.releaseSlot(roomID, s)
		})
	}, nil
}

func (l *MemoryLocker) acquireSlot(roomID uuid.UUID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[roomID]
	if !ok {
		s = &slot{held: make(chan struct{}, 1)}
		l.slots[roomID] = s
	}
	s.refs++
	return s
}

// releaseSlot drops the slot once nobody holds or waits on it.
func (l *MemoryLocker) releaseSlot(roomID uuid.UUID, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, roomID)
	}
}
