package repository

import (
	"context"
	"time"

	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxStore serves the relay outside any request transaction. Every call
// runs as its own statement on db.
type OutboxStore struct {
	notifications *NotificationRepository
	idempotency   *IdempotencyRepository
}

func NewOutboxStore(queries *sqlc.Queries, db sqlc.DBTX) *OutboxStore {
	return &OutboxStore{
		notifications: NewNotificationRepository(queries, db),
		idempotency:   NewIdempotencyRepository(queries, db),
	}
}

func (s *OutboxStore) ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]shared.NotificationJob, error) {
	return s.notifications.ClaimDue(ctx, now, staleBefore, limit)
}

func (s *OutboxStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError *string, runAt, now time.Time) error {
	return s.notifications.UpdateJobStatus(ctx, jobID, status, lastError, runAt, now)
}

func (s *OutboxStore) PurgeExpiredKeys(ctx context.Context, now time.Time) (int64, error) {
	return s.idempotency.DeleteExpired(ctx, now)
}
