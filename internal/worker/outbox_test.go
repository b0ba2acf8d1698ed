//go:build unit

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"sanatorium-booking/internal/infra/memstore"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, messageID string, payload []byte) error {
	args := m.Called(ctx, topic, messageID, payload)
	return args.Error(0)
}

type OutboxRelaySuite struct {
	suite.Suite
	clock     *clock.MockClock
	store     *memstore.Store
	jobs      *memstore.OutboxStore
	publisher *MockPublisher
	relay     *OutboxRelay
}

func TestOutboxRelaySuite(t *testing.T) {
	suite.Run(t, new(OutboxRelaySuite))
}

func (s *OutboxRelaySuite) SetupTest() {
	s.clock = clock.NewMockClock(time.Date(2024, 5, 20, 7, 0, 0, 0, time.UTC))
	s.store = memstore.New(s.clock)
	s.jobs = memstore.NewOutboxStore(s.store)
	s.publisher = new(MockPublisher)
	s.relay = NewOutboxRelay(s.jobs, s.publisher, s.clock, OutboxConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    10,
		MaxAttempts:  2,
		RetryBackoff: time.Second,
	})
}

func (s *OutboxRelaySuite) enqueue(topic string) {
	uow := memstore.NewUoW(s.store)
	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, "reservation_event", topic, []byte(`{"event":"`+topic+`"}`), s.clock.Now())
	})
	s.Require().NoError(err)
}

func (s *OutboxRelaySuite) statuses() []string {
	var out []string
	for _, job := range s.jobs.Jobs() {
		out = append(out, job.Status)
	}
	return out
}

func (s *OutboxRelaySuite) TestPublishesAndMarksSent() {
	s.enqueue("reservation.created")
	s.publisher.On("Publish", mock.Anything, "reservation.created", mock.Anything, mock.Anything).Return(nil).Once()

	stats, err := s.relay.RunOnce(context.Background())

	s.Require().NoError(err)
	s.Equal(RunStats{Sent: 1}, stats)
	s.Equal([]string{shared.NotificationStatusSent}, s.statuses())
	s.publisher.AssertExpectations(s.T())

	stats, err = s.relay.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(RunStats{}, stats)
}

func (s *OutboxRelaySuite) TestRetriesThenFails() {
	s.enqueue("reservation.confirmed")
	brokerDown := errors.New("broker down")
	s.publisher.On("Publish", mock.Anything, "reservation.confirmed", mock.Anything, mock.Anything).Return(brokerDown)

	stats, err := s.relay.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(RunStats{Retried: 1}, stats)
	s.Equal([]string{shared.NotificationStatusQueued}, s.statuses())

	// Not due until the backoff elapses.
	stats, err = s.relay.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(RunStats{}, stats)

	s.clock.Add(2 * time.Second)
	stats, err = s.relay.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(RunStats{Failed: 1}, stats)
	s.Equal([]string{shared.NotificationStatusFailed}, s.statuses())
	s.publisher.AssertNumberOfCalls(s.T(), "Publish", 2)
}

func (s *OutboxRelaySuite) TestMessageIDIsJobID() {
	s.enqueue("reservation.cancelled")
	jobID := s.jobs.Jobs()[0].ID
	s.publisher.On("Publish", mock.Anything, "reservation.cancelled", jobID.String(), mock.Anything).Return(nil).Once()

	_, err := s.relay.RunOnce(context.Background())

	s.Require().NoError(err)
	s.publisher.AssertExpectations(s.T())
}

func (s *OutboxRelaySuite) TestRunStopsOnCancel() {
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.relay.Run(ctx)
		close(done)
	}()
	s.enqueue("reservation.completed")

	s.Eventually(func() bool {
		st := s.statuses()
		return len(st) == 1 && st[0] == shared.NotificationStatusSent
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("relay did not stop")
	}
}

func TestPurgeExpiredKeys(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 5, 20, 7, 0, 0, 0, time.UTC))
	store := memstore.New(clk)
	uow := memstore.NewUoW(store)

	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Idempotency().TryInsert(ctx, uuid.New(), uuid.New(), "POST /api/reservations", "h", clk.Now(), clk.Now().Add(time.Hour))
		return err
	})
	require.NoError(t, err)

	jobs := memstore.NewOutboxStore(store)
	purged, err := jobs.PurgeExpiredKeys(context.Background(), clk.Now())
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = jobs.PurgeExpiredKeys(context.Background(), clk.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
