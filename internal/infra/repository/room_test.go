//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoomWriteQueries struct {
	mock.Mock
}

func (m *MockRoomWriteQueries) SetLocalLockTimeout(ctx context.Context, db sqlc.DBTX, timeout string) error {
	args := m.Called(ctx, db, timeout)
	return args.Error(0)
}

func (m *MockRoomWriteQueries) GetRoomForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Rooms, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.Rooms), args.Error(1)
}

func TestRoomRepository_LockForBooking(t *testing.T) {
	row := builder.NewRoomBuilder().WithCapacity(3).WithNightlyPrice(8000).BuildInfra()

	t.Run("success", func(t *testing.T) {
		mockQueries := new(MockRoomWriteQueries)
		mockQueries.On("SetLocalLockTimeout", mock.Anything, mock.Anything, "3000ms").Return(nil)
		mockQueries.On("GetRoomForUpdate", mock.Anything, mock.Anything, row.ID).Return(row, nil)

		snap, err := NewRoomRepository(mockQueries, nil).LockForBooking(context.Background(), row.ID, 3*time.Second)

		require.NoError(t, err)
		assert.Equal(t, row.ID, snap.ID)
		assert.Equal(t, 3, snap.Capacity)
		assert.Equal(t, int64(8000), snap.NightlyPriceMinor)
		assert.True(t, snap.Active)
		mockQueries.AssertExpectations(t)
	})

	t.Run("zero wait keeps the session timeout", func(t *testing.T) {
		mockQueries := new(MockRoomWriteQueries)
		mockQueries.On("GetRoomForUpdate", mock.Anything, mock.Anything, row.ID).Return(row, nil)

		_, err := NewRoomRepository(mockQueries, nil).LockForBooking(context.Background(), row.ID, 0)

		require.NoError(t, err)
		mockQueries.AssertNotCalled(t, "SetLocalLockTimeout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lock wait exceeded", func(t *testing.T) {
		mockQueries := new(MockRoomWriteQueries)
		mockQueries.On("SetLocalLockTimeout", mock.Anything, mock.Anything, "250ms").Return(nil)
		mockQueries.On("GetRoomForUpdate", mock.Anything, mock.Anything, row.ID).
			Return(sqlc.Rooms{}, &pgconn.PgError{Code: "55P03"})

		snap, err := NewRoomRepository(mockQueries, nil).LockForBooking(context.Background(), row.ID, 250*time.Millisecond)

		require.Error(t, err)
		assert.Nil(t, snap)
		assert.True(t, infra.IsKind(err, infra.KindLockTimeout))
	})
}
