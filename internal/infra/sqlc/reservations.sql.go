package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `r.id, r.room_id, r.owner_id, r.check_in, r.check_out, r.guests, r.total_price_minor, r.status, r.notes, r.created_at, r.updated_at`

func scanReservation(row interface{ Scan(...any) error }) (Reservations, error) {
	var i Reservations
	err := row.Scan(
		&i.ID,
		&i.RoomID,
		&i.OwnerID,
		&i.CheckIn,
		&i.CheckOut,
		&i.Guests,
		&i.TotalPriceMinor,
		&i.Status,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createReservation = `-- name: CreateReservation :one
INSERT INTO reservations (id, room_id, owner_id, check_in, check_out, guests, total_price_minor, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING id`

type CreateReservationParams struct {
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
}

func (q *Queries) CreateReservation(ctx context.Context, db DBTX, arg CreateReservationParams) (uuid.UUID, error) {
	row := db.QueryRow(ctx, createReservation,
		arg.ID,
		arg.RoomID,
		arg.OwnerID,
		arg.CheckIn,
		arg.CheckOut,
		arg.Guests,
		arg.TotalPriceMinor,
		arg.Status,
		arg.Notes,
		arg.CreatedAt,
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getReservationByID = `-- name: GetReservationByID :one
SELECT ` + reservationColumns + `
FROM reservations r
WHERE r.id = $1`

func (q *Queries) GetReservationByID(ctx context.Context, db DBTX, id uuid.UUID) (Reservations, error) {
	return scanReservation(db.QueryRow(ctx, getReservationByID, id))
}

const existsOverlappingReservation = `-- name: ExistsOverlappingReservation :one
SELECT EXISTS (
    SELECT 1
    FROM reservations
    WHERE room_id = $1
      AND status IN ('pending', 'confirmed')
      AND check_in < $3
      AND $2 < check_out
      AND ($4::uuid IS NULL OR id <> $4::uuid)
)`

type ExistsOverlappingReservationParams struct {
	RoomID    uuid.UUID   `json:"room_id"`
	CheckIn   pgtype.Date `json:"check_in"`
	CheckOut  pgtype.Date `json:"check_out"`
	ExcludeID pgtype.UUID `json:"exclude_id"`
}

func (q *Queries) ExistsOverlappingReservation(ctx context.Context, db DBTX, arg ExistsOverlappingReservationParams) (bool, error) {
	row := db.QueryRow(ctx, existsOverlappingReservation, arg.RoomID, arg.CheckIn, arg.CheckOut, arg.ExcludeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

// Compare-and-set on status: zero rows means another request moved it first.
const updateReservationStatus = `-- name: UpdateReservationStatus :execrows
UPDATE reservations
SET status = $3, updated_at = $4
WHERE id = $1 AND status = $2`

type UpdateReservationStatusParams struct {
	ID         uuid.UUID          `json:"id"`
	FromStatus string             `json:"from_status"`
	ToStatus   string             `json:"to_status"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateReservationStatus(ctx context.Context, db DBTX, arg UpdateReservationStatusParams) (int64, error) {
	result, err := db.Exec(ctx, updateReservationStatus, arg.ID, arg.FromStatus, arg.ToStatus, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listBusyRanges = `-- name: ListBusyRanges :many
SELECT id, check_in, check_out, status
FROM reservations
WHERE room_id = $1
  AND status IN ('pending', 'confirmed')
  AND check_in < $3
  AND $2 < check_out
ORDER BY check_in, id`

type ListBusyRangesParams struct {
	RoomID      uuid.UUID   `json:"room_id"`
	WindowStart pgtype.Date `json:"window_start"`
	WindowEnd   pgtype.Date `json:"window_end"`
}

type ListBusyRangesRow struct {
	ID       uuid.UUID   `json:"id"`
	CheckIn  pgtype.Date `json:"check_in"`
	CheckOut pgtype.Date `json:"check_out"`
	Status   string      `json:"status"`
}

func (q *Queries) ListBusyRanges(ctx context.Context, db DBTX, arg ListBusyRangesParams) ([]ListBusyRangesRow, error) {
	rows, err := db.Query(ctx, listBusyRanges, arg.RoomID, arg.WindowStart, arg.WindowEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListBusyRangesRow
	for rows.Next() {
		var i ListBusyRangesRow
		if err := rows.Scan(&i.ID, &i.CheckIn, &i.CheckOut, &i.Status); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ReservationViewRow is a reservation joined with its room name.
type ReservationViewRow struct {
	Reservations
	RoomName string `json:"room_name"`
}

func scanReservationView(row interface{ Scan(...any) error }) (ReservationViewRow, error) {
	var i ReservationViewRow
	err := row.Scan(
		&i.ID,
		&i.RoomID,
		&i.OwnerID,
		&i.CheckIn,
		&i.CheckOut,
		&i.Guests,
		&i.TotalPriceMinor,
		&i.Status,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.RoomName,
	)
	return i, err
}

func collectReservationViews(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
	Close()
}) ([]ReservationViewRow, error) {
	defer rows.Close()
	var items []ReservationViewRow
	for rows.Next() {
		i, err := scanReservationView(rows)
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

const getReservationViewByID = `-- name: GetReservationViewByID :one
SELECT ` + reservationColumns + `, rm.name
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
WHERE r.id = $1`

func (q *Queries) GetReservationViewByID(ctx context.Context, db DBTX, id uuid.UUID) (ReservationViewRow, error) {
	return scanReservationView(db.QueryRow(ctx, getReservationViewByID, id))
}

const listReservationsByOwnerFirstPage = `-- name: ListReservationsByOwnerFirstPage :many
SELECT ` + reservationColumns + `, rm.name
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
WHERE r.owner_id = $1
ORDER BY r.created_at DESC, r.id DESC
LIMIT $2`

type ListReservationsByOwnerFirstPageParams struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Limit   int32     `json:"limit"`
}

func (q *Queries) ListReservationsByOwnerFirstPage(ctx context.Context, db DBTX, arg ListReservationsByOwnerFirstPageParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationsByOwnerFirstPage, arg.OwnerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectReservationViews(rows)
}

const listReservationsByOwnerKeyset = `-- name: ListReservationsByOwnerKeyset :many
SELECT ` + reservationColumns + `, rm.name
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
WHERE r.owner_id = $1
  AND (r.created_at, r.id) < ($2::timestamptz, $3::uuid)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

type ListReservationsByOwnerKeysetParams struct {
	OwnerID   uuid.UUID          `json:"owner_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	ID        uuid.UUID          `json:"id"`
	Limit     int32              `json:"limit"`
}

func (q *Queries) ListReservationsByOwnerKeyset(ctx context.Context, db DBTX, arg ListReservationsByOwnerKeysetParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationsByOwnerKeyset, arg.OwnerID, arg.CreatedAt, arg.ID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectReservationViews(rows)
}

const listReservationsForStaff = `-- name: ListReservationsForStaff :many
SELECT ` + reservationColumns + `, rm.name
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
WHERE ($1::uuid IS NULL OR r.room_id = $1::uuid)
  AND ($2::text IS NULL OR r.status = $2::text)
ORDER BY r.check_in, r.id
LIMIT $3`

type ListReservationsForStaffParams struct {
	RoomID pgtype.UUID `json:"room_id"`
	Status pgtype.Text `json:"status"`
	Limit  int32       `json:"limit"`
}

func (q *Queries) ListReservationsForStaff(ctx context.Context, db DBTX, arg ListReservationsForStaffParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationsForStaff, arg.RoomID, arg.Status, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectReservationViews(rows)
}
