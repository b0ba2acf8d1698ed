//go:build e2e

package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sanatorium-booking/internal/pkg/errs"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort(nat.Port("6379/tcp")).WithStartupTimeout(60 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisLocker(t *testing.T) {
	client := startRedis(t)

	t.Run("second holder times out", func(t *testing.T) {
		locker := NewRedisLocker(client, "test:lock:", 5*time.Second, 100*time.Millisecond)
		roomID := uuid.New()

		unlock, err := locker.Lock(context.Background(), roomID)
		require.NoError(t, err)

		_, err = locker.Lock(context.Background(), roomID)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrLockTimeout))

		unlock()
		unlock2, err := locker.Lock(context.Background(), roomID)
		require.NoError(t, err)
		unlock2()
	})

	t.Run("stale unlock keeps the new holder", func(t *testing.T) {
		locker := NewRedisLocker(client, "test:lock:", 100*time.Millisecond, time.Second)
		roomID := uuid.New()

		staleUnlock, err := locker.Lock(context.Background(), roomID)
		require.NoError(t, err)
		time.Sleep(150 * time.Millisecond)

		unlock, err := locker.Lock(context.Background(), roomID)
		require.NoError(t, err)
		defer unlock()

		staleUnlock()
		exists, err := client.Exists(context.Background(), "test:lock:"+roomID.String()).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("mutual exclusion across lockers", func(t *testing.T) {
		roomID := uuid.New()
		var inside, violations atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				locker := NewRedisLocker(client, "test:lock:", 5*time.Second, 10*time.Second)
				unlock, err := locker.Lock(context.Background(), roomID)
				if !assert.NoError(t, err) {
					return
				}
				if inside.Add(1) > 1 {
					violations.Add(1)
				}
				time.Sleep(5 * time.Millisecond)
				inside.Add(-1)
				unlock()
			}()
		}
		wg.Wait()
		assert.Zero(t, violations.Load())
	})
}
