package repository

import (
	"context"
	"time"

	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateNotificationJobParams) error
	ClaimDueNotificationJobs(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimDueNotificationJobsParams) ([]sqlc.NotificationJobs, error)
	UpdateNotificationJobStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateNotificationJobStatusParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      sqlc.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db sqlc.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	params := sqlc.CreateNotificationJobParams{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgconv.TimeToPgtype(runAt),
		Status:  shared.NotificationStatusQueued,
	}

	err := r.queries.CreateNotificationJob(ctx, r.db, params)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// ClaimDue moves up to limit due jobs to running. Jobs left running since
// staleBefore are reclaimed.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]shared.NotificationJob, error) {
	params := sqlc.ClaimDueNotificationJobsParams{
		Now:         pgconv.TimeToPgtype(now),
		StaleBefore: pgconv.TimeToPgtype(staleBefore),
		Limit:       int32(limit),
	}

	rows, err := r.queries.ClaimDueNotificationJobs(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]shared.NotificationJob, len(rows))
	for i, row := range rows {
		jobs[i] = shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			Attempts: int(row.Attempts),
			Status:   row.Status,
			RunAt:    pgconv.TimeFromPgtype(row.RunAt),
		}
	}
	return jobs, nil
}

func (r *NotificationRepository) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError *string, runAt, now time.Time) error {
	params := sqlc.UpdateNotificationJobStatusParams{
		ID:        jobID,
		Status:    status,
		LastError: pgconv.StringPtrToPgtype(lastError),
		RunAt:     pgconv.TimeToPgtype(runAt),
		UpdatedAt: pgconv.TimeToPgtype(now),
	}

	err := r.queries.UpdateNotificationJobStatus(ctx, r.db, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}

	return nil
}
