package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJob = `-- name: CreateNotificationJob :exec
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $5, $5)`

type CreateNotificationJobParams struct {
	ID      uuid.UUID          `json:"id"`
	Kind    string             `json:"kind"`
	Topic   string             `json:"topic"`
	Payload []byte             `json:"payload"`
	RunAt   pgtype.Timestamptz `json:"run_at"`
	Status  string             `json:"status"`
}

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob,
		arg.ID,
		arg.Kind,
		arg.Topic,
		arg.Payload,
		arg.RunAt,
		arg.Status,
	)
	return err
}

// Claims due jobs for one relay instance. Jobs stuck in running since StaleBefore
// (a crashed relay) are claimed again.
const claimDueNotificationJobs = `-- name: ClaimDueNotificationJobs :many
UPDATE notification_jobs
SET status = 'running', attempts = attempts + 1, updated_at = $1
WHERE id IN (
    SELECT id
    FROM notification_jobs
    WHERE (status = 'queued' AND run_at <= $1)
       OR (status = 'running' AND updated_at < $2)
    ORDER BY run_at, id
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING id, kind, topic, payload, run_at, attempts, status, last_error, created_at, updated_at`

type ClaimDueNotificationJobsParams struct {
	Now         pgtype.Timestamptz `json:"now"`
	StaleBefore pgtype.Timestamptz `json:"stale_before"`
	Limit       int32              `json:"limit"`
}

func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, arg ClaimDueNotificationJobsParams) ([]NotificationJobs, error) {
	rows, err := db.Query(ctx, claimDueNotificationJobs, arg.Now, arg.StaleBefore, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NotificationJobs
	for rows.Next() {
		var i NotificationJobs
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Topic,
			&i.Payload,
			&i.RunAt,
			&i.Attempts,
			&i.Status,
			&i.LastError,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateNotificationJobStatus = `-- name: UpdateNotificationJobStatus :exec
UPDATE notification_jobs
SET status = $2, last_error = $3, run_at = $4, updated_at = $5
WHERE id = $1`

type UpdateNotificationJobStatusParams struct {
	ID        uuid.UUID          `json:"id"`
	Status    string             `json:"status"`
	LastError pgtype.Text        `json:"last_error"`
	RunAt     pgtype.Timestamptz `json:"run_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateNotificationJobStatus(ctx context.Context, db DBTX, arg UpdateNotificationJobStatusParams) error {
	_, err := db.Exec(ctx, updateNotificationJobStatus,
		arg.ID,
		arg.Status,
		arg.LastError,
		arg.RunAt,
		arg.UpdatedAt,
	)
	return err
}
