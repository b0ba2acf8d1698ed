// Package worker runs background jobs next to the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"time"

	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, messageID string, payload []byte) error
}

type JobStore interface {
	ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]shared.NotificationJob, error)
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError *string, runAt, now time.Time) error
	PurgeExpiredKeys(ctx context.Context, now time.Time) (int64, error)
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
	// StaleAfter is how long a job may sit in running before another relay reclaims it.
	StaleAfter time.Duration
}

// OutboxRelay forwards queued lifecycle events to the broker. Delivery is at
// least once: a job is marked sent only after the broker accepted it.
type OutboxRelay struct {
	store     JobStore
	publisher Publisher
	clock     clock.Clock
	cfg       OutboxConfig
}

func NewOutboxRelay(store JobStore, publisher Publisher, clk clock.Clock, cfg OutboxConfig) *OutboxRelay {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Minute
	}
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

type RunStats struct {
	Sent    int
	Retried int
	Failed  int
}

// RunOnce relays one batch of due jobs.
func (r *OutboxRelay) RunOnce(ctx context.Context) (RunStats, error) {
	var stats RunStats
	now := r.clock.Now()

	jobs, err := r.store.ClaimDue(ctx, now, now.Add(-r.cfg.StaleAfter), r.cfg.BatchSize)
	if err != nil {
		return stats, err
	}

	for _, job := range jobs {
		pubErr := r.publisher.Publish(ctx, job.Topic, job.ID.String(), job.Payload)
		done := r.clock.Now()

		var status string
		var lastError *string
		runAt := job.RunAt
		switch {
		case pubErr == nil:
			status = shared.NotificationStatusSent
			stats.Sent++
		case job.Attempts >= r.cfg.MaxAttempts:
			status = shared.NotificationStatusFailed
			msg := pubErr.Error()
			lastError = &msg
			stats.Failed++
			slog.ErrorContext(ctx, "outbox job failed permanently",
				"job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts, "error", msg)
		default:
			status = shared.NotificationStatusQueued
			msg := pubErr.Error()
			lastError = &msg
			runAt = done.Add(r.backoff(job.Attempts))
			stats.Retried++
			slog.WarnContext(ctx, "outbox job will be retried",
				"job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts, "run_at", runAt, "error", msg)
		}

		if err := r.store.UpdateJobStatus(ctx, job.ID, status, lastError, runAt, done); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// backoff grows linearly with attempts, capped at ten steps.
func (r *OutboxRelay) backoff(attempts int) time.Duration {
	return r.cfg.RetryBackoff * time.Duration(min(max(attempts, 1), 10))
}

// Run polls until ctx is cancelled. Expired idempotency keys are purged on each tick.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("outbox relay started", "poll_interval", r.cfg.PollInterval, "batch_size", r.cfg.BatchSize)
	for {
		stats, err := r.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			slog.Error("outbox relay batch failed", "error", err.Error())
		} else if stats.Sent+stats.Retried+stats.Failed > 0 {
			slog.Debug("outbox relay batch done", "sent", stats.Sent, "retried", stats.Retried, "failed", stats.Failed)
		}

		if purged, err := r.store.PurgeExpiredKeys(ctx, r.clock.Now()); err != nil && ctx.Err() == nil {
			slog.Warn("failed to purge expired idempotency keys", "error", err.Error())
		} else if purged > 0 {
			slog.Debug("purged expired idempotency keys", "count", purged)
		}

		select {
		case <-ctx.Done():
			slog.Info("outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}
