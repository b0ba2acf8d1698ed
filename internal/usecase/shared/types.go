package shared

import (
	"time"

	"sanatorium-booking/internal/domain/user"

	"github.com/google/uuid"
)

// Write-side snapshots keep commands independent of read models.
type RoomSnapshot struct {
	ID                uuid.UUID
	Capacity          int
	NightlyPriceMinor int64
	Active            bool
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

// Actor is the caller identity asserted by the identity service.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

const (
	NotificationStatusQueued  = "queued"
	NotificationStatusRunning = "running"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// NotificationJob is an outbox row claimed by the relay.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
	Status   string
	RunAt    time.Time
}
