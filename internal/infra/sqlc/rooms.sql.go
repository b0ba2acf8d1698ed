package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const roomColumns = `id, category::text, name, capacity, nightly_price_minor, description, is_active, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (Rooms, error) {
	var i Rooms
	err := row.Scan(
		&i.ID,
		&i.Category,
		&i.Name,
		&i.Capacity,
		&i.NightlyPriceMinor,
		&i.Description,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createRoom = `-- name: CreateRoom :one
INSERT INTO rooms (id, category, name, capacity, nightly_price_minor, description, is_active, created_at, updated_at)
VALUES ($1, $2::room_category, $3, $4, $5, $6, $7, $8, $8)
RETURNING id`

type CreateRoomParams struct {
	ID                uuid.UUID          `json:"id"`
	Category          string             `json:"category"`
	Name              string             `json:"name"`
	Capacity          int32              `json:"capacity"`
	NightlyPriceMinor int64              `json:"nightly_price_minor"`
	Description       string             `json:"description"`
	IsActive          bool               `json:"is_active"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateRoom(ctx context.Context, db DBTX, arg CreateRoomParams) (uuid.UUID, error) {
	row := db.QueryRow(ctx, createRoom,
		arg.ID,
		arg.Category,
		arg.Name,
		arg.Capacity,
		arg.NightlyPriceMinor,
		arg.Description,
		arg.IsActive,
		arg.CreatedAt,
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getRoomByID = `-- name: GetRoomByID :one
SELECT ` + roomColumns + `
FROM rooms
WHERE id = $1`

func (q *Queries) GetRoomByID(ctx context.Context, db DBTX, id uuid.UUID) (Rooms, error) {
	return scanRoom(db.QueryRow(ctx, getRoomByID, id))
}

// Serializes bookings of one room across transactions; readers are not blocked.
const getRoomForUpdate = `-- name: GetRoomForUpdate :one
SELECT ` + roomColumns + `
FROM rooms
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetRoomForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Rooms, error) {
	return scanRoom(db.QueryRow(ctx, getRoomForUpdate, id))
}

// Qualified so the sort uses the room_category enum order, not the ::text output column.
const listActiveRooms = `-- name: ListActiveRooms :many
SELECT ` + roomColumns + `
FROM rooms
WHERE is_active
ORDER BY rooms.category, rooms.name`

func (q *Queries) ListActiveRooms(ctx context.Context, db DBTX) ([]Rooms, error) {
	rows, err := db.Query(ctx, listActiveRooms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Rooms
	for rows.Next() {
		i, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setRoomActive = `-- name: SetRoomActive :execrows
UPDATE rooms
SET is_active = $2, updated_at = $3
WHERE id = $1`

type SetRoomActiveParams struct {
	ID        uuid.UUID          `json:"id"`
	IsActive  bool               `json:"is_active"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetRoomActive(ctx context.Context, db DBTX, arg SetRoomActiveParams) (int64, error) {
	result, err := db.Exec(ctx, setRoomActive, arg.ID, arg.IsActive, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// Applies to the current transaction only.
const setLocalLockTimeout = `-- name: SetLocalLockTimeout :exec
SELECT set_config('lock_timeout', $1, true)`

func (q *Queries) SetLocalLockTimeout(ctx context.Context, db DBTX, timeout string) error {
	_, err := db.Exec(ctx, setLocalLockTimeout, timeout)
	return err
}
