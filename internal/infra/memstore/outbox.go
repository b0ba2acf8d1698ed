package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"sanatorium-booking/internal/pkg/pgconv"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxStore gives the relay the same claim semantics as the Postgres queue.
type OutboxStore struct {
	store *Store
}

func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

func (o *OutboxStore) ClaimDue(_ context.Context, now, staleBefore time.Time, limit int) ([]shared.NotificationJob, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	data := o.store.data.clone()
	var due []uuid.UUID
	for id, job := range data.jobs {
		queued := job.Status == shared.NotificationStatusQueued && !job.RunAt.Time.After(now)
		stale := job.Status == shared.NotificationStatusRunning && job.UpdatedAt.Time.Before(staleBefore)
		if queued || stale {
			due = append(due, id)
		}
	}
	slices.SortFunc(due, func(a, b uuid.UUID) int {
		return cmp.Or(data.jobs[a].RunAt.Time.Compare(data.jobs[b].RunAt.Time), compareUUID(a, b))
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	claimed := make([]shared.NotificationJob, 0, len(due))
	for _, id := range due {
		job := data.jobs[id]
		job.Status = shared.NotificationStatusRunning
		job.Attempts++
		job.UpdatedAt = pgconv.TimeToPgtype(now)
		data.jobs[id] = job
		claimed = append(claimed, shared.NotificationJob{
			ID:       job.ID,
			Kind:     job.Kind,
			Topic:    job.Topic,
			Payload:  job.Payload,
			Attempts: int(job.Attempts),
			Status:   job.Status,
			RunAt:    job.RunAt.Time,
		})
	}
	o.store.data = data
	return claimed, nil
}

func (o *OutboxStore) UpdateJobStatus(_ context.Context, jobID uuid.UUID, status string, lastError *string, runAt, now time.Time) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	data := o.store.data.clone()
	job, ok := data.jobs[jobID]
	if !ok {
		return nil
	}
	job.Status = status
	job.LastError = pgconv.StringPtrToPgtype(lastError)
	job.RunAt = pgconv.TimeToPgtype(runAt)
	job.UpdatedAt = pgconv.TimeToPgtype(now)
	data.jobs[jobID] = job
	o.store.data = data
	return nil
}

func (o *OutboxStore) PurgeExpiredKeys(_ context.Context, now time.Time) (int64, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	data := o.store.data.clone()
	var purged int64
	for id, key := range data.keys {
		if !key.ExpiresAt.Time.After(now) {
			delete(data.keys, id)
			purged++
		}
	}
	o.store.data = data
	return purged, nil
}

// Jobs lists every outbox row with its current status, oldest first.
func (o *OutboxStore) Jobs() []shared.NotificationJob {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()

	jobs := make([]shared.NotificationJob, 0, len(o.store.data.jobs))
	for _, job := range o.store.data.jobs {
		jobs = append(jobs, shared.NotificationJob{
			ID:       job.ID,
			Kind:     job.Kind,
			Topic:    job.Topic,
			Payload:  job.Payload,
			Attempts: int(job.Attempts),
			Status:   job.Status,
			RunAt:    job.RunAt.Time,
		})
	}
	slices.SortFunc(jobs, func(a, b shared.NotificationJob) int {
		return cmp.Or(a.RunAt.Compare(b.RunAt), compareUUID(a.ID, b.ID))
	})
	return jobs
}
