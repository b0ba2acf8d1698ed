//go:build unit

package repository

import (
	"context"
	"testing"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationWriteQueries struct {
	mock.Mock
}

func (m *MockReservationWriteQueries) CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (uuid.UUID, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockReservationWriteQueries) GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.Reservations), args.Error(1)
}

func (m *MockReservationWriteQueries) ExistsOverlappingReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.ExistsOverlappingReservationParams) (bool, error) {
	args := m.Called(ctx, db, arg)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationWriteQueries) UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func TestReservationRepository_Create(t *testing.T) {
	res, err := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, err)

	tests := []struct {
		name      string
		mockError error
		wantKind  infra.RepositoryErrorKind
		wantError bool
	}{
		{name: "success"},
		{
			name:      "exclusion constraint rejects overlap",
			mockError: &pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"},
			wantKind:  infra.KindConflict,
			wantError: true,
		},
		{
			name:      "room removed concurrently",
			mockError: &pgconn.PgError{Code: "23503"},
			wantKind:  infra.KindForeignKeyViolated,
			wantError: true,
		},
		{
			name:      "database error",
			mockError: assert.AnError,
			wantKind:  infra.KindDBFailure,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockReservationWriteQueries)
			mockQueries.On("CreateReservation", mock.Anything, mock.Anything,
				mock.MatchedBy(func(arg sqlc.CreateReservationParams) bool {
					return arg.ID == res.ID() &&
						arg.TotalPriceMinor == 15000 &&
						arg.Status == "pending" &&
						arg.Guests == 2
				})).Return(res.ID(), tt.mockError)

			repo := NewReservationRepository(mockQueries, nil)
			id, err := repo.Create(context.Background(), res)

			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, uuid.Nil, id)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				require.NoError(t, err)
				assert.Equal(t, res.ID(), id)
			}
			mockQueries.AssertExpectations(t)
		})
	}
}

func TestReservationRepository_FindByID(t *testing.T) {
	b := builder.NewReservationBuilder().WithStatus(reservation.StatusConfirmed)
	row := b.BuildInfra()

	t.Run("success", func(t *testing.T) {
		mockQueries := new(MockReservationWriteQueries)
		mockQueries.On("GetReservationByID", mock.Anything, mock.Anything, row.ID).Return(row, nil)

		got, err := NewReservationRepository(mockQueries, nil).FindByID(context.Background(), row.ID)

		require.NoError(t, err)
		assert.Equal(t, row.ID, got.ID())
		assert.Equal(t, reservation.StatusConfirmed, got.Status())
		assert.Equal(t, int64(3), got.Period().Nights())
		assert.Equal(t, int64(15000), got.TotalPrice().Minor())
	})

	t.Run("not found", func(t *testing.T) {
		mockQueries := new(MockReservationWriteQueries)
		mockQueries.On("GetReservationByID", mock.Anything, mock.Anything, row.ID).Return(sqlc.Reservations{}, pgx.ErrNoRows)

		got, err := NewReservationRepository(mockQueries, nil).FindByID(context.Background(), row.ID)

		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("corrupt row", func(t *testing.T) {
		bad := row
		bad.Status = "archived"
		mockQueries := new(MockReservationWriteQueries)
		mockQueries.On("GetReservationByID", mock.Anything, mock.Anything, row.ID).Return(bad, nil)

		got, err := NewReservationRepository(mockQueries, nil).FindByID(context.Background(), row.ID)

		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	res := builder.NewReservationBuilder().BuildReconstructed()
	require.NoError(t, res.Confirm(builder.DefaultNow))

	tests := []struct {
		name      string
		affected  int64
		mockError error
		wantKind  infra.RepositoryErrorKind
		wantError bool
	}{
		{name: "success", affected: 1},
		{name: "status moved concurrently", affected: 0, wantKind: infra.KindConflict, wantError: true},
		{name: "database error", mockError: assert.AnError, wantKind: infra.KindDBFailure, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockReservationWriteQueries)
			mockQueries.On("UpdateReservationStatus", mock.Anything, mock.Anything,
				mock.MatchedBy(func(arg sqlc.UpdateReservationStatusParams) bool {
					return arg.ID == res.ID() && arg.FromStatus == "pending" && arg.ToStatus == "confirmed"
				})).Return(tt.affected, tt.mockError)

			err := NewReservationRepository(mockQueries, nil).UpdateStatus(context.Background(), res, reservation.StatusPending)

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				require.NoError(t, err)
			}
			mockQueries.AssertExpectations(t)
		})
	}
}
