package commands

import (
	"context"
	"time"

	"sanatorium-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReservationViewReader serves read-after-write and idempotent replays.
type ReservationViewReader interface {
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
}

type Config struct {
	// LockWait bounds how long create waits for a competing booking of the same room.
	LockWait       time.Duration
	IdempotencyTTL time.Duration
}
