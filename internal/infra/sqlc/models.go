package sqlc

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Rooms struct {
	ID                uuid.UUID          `json:"id"`
	Category          string             `json:"category"`
	Name              string             `json:"name"`
	Capacity          int32              `json:"capacity"`
	NightlyPriceMinor int64              `json:"nightly_price_minor"`
	Description       string             `json:"description"`
	IsActive          bool               `json:"is_active"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
	UpdatedAt         pgtype.Timestamptz `json:"updated_at"`
}

type Reservations struct {
	ID              uuid.UUID          `json:"id"`
	RoomID          uuid.UUID          `json:"room_id"`
	OwnerID         uuid.UUID          `json:"owner_id"`
	CheckIn         pgtype.Date        `json:"check_in"`
	CheckOut        pgtype.Date        `json:"check_out"`
	Guests          int32              `json:"guests"`
	TotalPriceMinor int64              `json:"total_price_minor"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type IdempotencyKeys struct {
	Key                 uuid.UUID          `json:"key"`
	UserID              uuid.UUID          `json:"user_id"`
	Endpoint            string             `json:"endpoint"`
	RequestHash         string             `json:"request_hash"`
	Status              string             `json:"status"`
	ResultReservationID pgtype.UUID        `json:"result_reservation_id"`
	ExpiresAt           pgtype.Timestamptz `json:"expires_at"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

type NotificationJobs struct {
	ID        uuid.UUID          `json:"id"`
	Kind      string             `json:"kind"`
	Topic     string             `json:"topic"`
	Payload   []byte             `json:"payload"`
	RunAt     pgtype.Timestamptz `json:"run_at"`
	Attempts  int32              `json:"attempts"`
	Status    string             `json:"status"`
	LastError pgtype.Text        `json:"last_error"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
