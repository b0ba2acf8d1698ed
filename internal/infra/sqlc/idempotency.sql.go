package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Inserts a processing row, or takes over an expired one. Zero rows means a live
// key already exists.
const tryInsertIdempotencyKey = `-- name: TryInsertIdempotencyKey :execrows
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'processing', $5, $6, $6)
ON CONFLICT (key, user_id) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    status = 'processing',
    result_reservation_id = NULL,
    expires_at = EXCLUDED.expires_at,
    updated_at = EXCLUDED.updated_at
WHERE idempotency_keys.expires_at <= $6`

type TryInsertIdempotencyKeyParams struct {
	Key         uuid.UUID          `json:"key"`
	UserID      uuid.UUID          `json:"user_id"`
	Endpoint    string             `json:"endpoint"`
	RequestHash string             `json:"request_hash"`
	ExpiresAt   pgtype.Timestamptz `json:"expires_at"`
	Now         pgtype.Timestamptz `json:"now"`
}

func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, tryInsertIdempotencyKey,
		arg.Key,
		arg.UserID,
		arg.Endpoint,
		arg.RequestHash,
		arg.ExpiresAt,
		arg.Now,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getIdempotencyKey = `-- name: GetIdempotencyKey :one
SELECT key, user_id, endpoint, request_hash, status, result_reservation_id, expires_at, created_at, updated_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

type GetIdempotencyKeyParams struct {
	Key    uuid.UUID `json:"key"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, arg GetIdempotencyKeyParams) (IdempotencyKeys, error) {
	row := db.QueryRow(ctx, getIdempotencyKey, arg.Key, arg.UserID)
	var i IdempotencyKeys
	err := row.Scan(
		&i.Key,
		&i.UserID,
		&i.Endpoint,
		&i.RequestHash,
		&i.Status,
		&i.ResultReservationID,
		&i.ExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateIdempotencyKeyCompleted = `-- name: UpdateIdempotencyKeyCompleted :exec
UPDATE idempotency_keys
SET status = 'completed', result_reservation_id = $3, updated_at = $4
WHERE key = $1 AND user_id = $2`

type UpdateIdempotencyKeyCompletedParams struct {
	Key                 uuid.UUID          `json:"key"`
	UserID              uuid.UUID          `json:"user_id"`
	ResultReservationID pgtype.UUID        `json:"result_reservation_id"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateIdempotencyKeyCompleted(ctx context.Context, db DBTX, arg UpdateIdempotencyKeyCompletedParams) error {
	_, err := db.Exec(ctx, updateIdempotencyKeyCompleted, arg.Key, arg.UserID, arg.ResultReservationID, arg.UpdatedAt)
	return err
}

const deleteIdempotencyKey = `-- name: DeleteIdempotencyKey :exec
DELETE FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND status = 'processing'`

type DeleteIdempotencyKeyParams struct {
	Key    uuid.UUID `json:"key"`
	UserID uuid.UUID `json:"user_id"`
}

func (q *Queries) DeleteIdempotencyKey(ctx context.Context, db DBTX, arg DeleteIdempotencyKeyParams) error {
	_, err := db.Exec(ctx, deleteIdempotencyKey, arg.Key, arg.UserID)
	return err
}

const deleteExpiredIdempotencyKeys = `-- name: DeleteExpiredIdempotencyKeys :execrows
DELETE FROM idempotency_keys
WHERE expires_at <= $1`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX, now pgtype.Timestamptz) (int64, error) {
	result, err := db.Exec(ctx, deleteExpiredIdempotencyKeys, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
