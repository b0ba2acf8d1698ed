//go:build unit

package reservation_test

import (
	"strings"
	"testing"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.ReservationBuilder)
	errIs  error
}

func TestReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewReservationBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, b.RoomID, actual.RoomID())
		assert.Equal(t, b.OwnerID, actual.OwnerID())
		assert.Equal(t, reservation.StatusPending, actual.Status())
		assert.Equal(t, int64(15000), actual.TotalPrice().Minor())
		assert.Equal(t, int64(3), actual.Period().Nights())
		assert.Equal(t, 2, actual.Guests().Int())
		assert.Equal(t, "Late arrival", actual.Note().String())
		assert.Equal(t, builder.DefaultNow, actual.CreatedAt())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
	})

	t.Run("date validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "check-out equals check-in",
				mutate: func(b *builder.ReservationBuilder) { b.WithPeriod("2024-06-01", "2024-06-01") },
				errIs:  reservation.ErrInvalidRange,
			},
			{
				name:   "check-out before check-in",
				mutate: func(b *builder.ReservationBuilder) { b.WithPeriod("2024-06-04", "2024-06-01") },
				errIs:  reservation.ErrInvalidRange,
			},
			{
				name:   "check-in yesterday",
				mutate: func(b *builder.ReservationBuilder) { b.WithPeriod("2024-05-19", "2024-05-21") },
				errIs:  reservation.ErrPastDate,
			},
			{
				name:   "check-in today",
				mutate: func(b *builder.ReservationBuilder) { b.WithPeriod("2024-05-20", "2024-05-21") },
			},
			{
				name: "today follows the booking time zone",
				mutate: func(b *builder.ReservationBuilder) {
					// 22:30 UTC on the 19th is already the 20th in Moscow.
					b.Now = time.Date(2024, 5, 19, 22, 30, 0, 0, time.UTC)
					b.WithPeriod("2024-05-19", "2024-05-21")
				},
				errIs: reservation.ErrPastDate,
			},
			{
				name:   "malformed date",
				mutate: func(b *builder.ReservationBuilder) { b.WithPeriod("2024/06/01", "2024-06-04") },
				errIs:  reservation.ErrInvalidDate,
			},
		})
	})

	t.Run("capacity validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "guests equal capacity",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuests(2) },
			},
			{
				name:   "guests exceed capacity",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuests(3) },
				errIs:  reservation.ErrCapacityExceeded,
			},
			{
				name:   "zero guests",
				mutate: func(b *builder.ReservationBuilder) { b.WithGuests(0) },
				errIs:  reservation.ErrInvalidGuestCount,
			},
			{
				name:   "inactive room",
				mutate: func(b *builder.ReservationBuilder) { b.RoomActive = false },
				errIs:  reservation.ErrRoomInactive,
			},
		})
	})

	t.Run("notes validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty notes",
				mutate: func(b *builder.ReservationBuilder) { b.WithNotes("") },
			},
			{
				name:   "maximum length notes",
				mutate: func(b *builder.ReservationBuilder) { b.WithNotes(strings.Repeat("я", reservation.MaxNoteLength)) },
			},
			{
				name:   "notes too long",
				mutate: func(b *builder.ReservationBuilder) { b.WithNotes(strings.Repeat("a", reservation.MaxNoteLength+1)) },
				errIs:  reservation.ErrNoteTooLong,
			},
		})
	})

	t.Run("notes are trimmed", func(t *testing.T) {
		actual, err := builder.NewReservationBuilder().WithNotes("  quiet room  ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "quiet room", actual.Note().String())
	})
}

func TestReservationTransitions(t *testing.T) {
	type transition func(*reservation.Reservation, time.Time) error
	confirm := (*reservation.Reservation).Confirm
	cancel := (*reservation.Reservation).Cancel
	complete := (*reservation.Reservation).Complete

	cases := []struct {
		name  string
		from  reservation.Status
		apply transition
		want  reservation.Status
		errIs error
	}{
		{name: "pending to confirmed", from: reservation.StatusPending, apply: confirm, want: reservation.StatusConfirmed},
		{name: "pending to cancelled", from: reservation.StatusPending, apply: cancel, want: reservation.StatusCancelled},
		{name: "confirmed to cancelled", from: reservation.StatusConfirmed, apply: cancel, want: reservation.StatusCancelled},
		{name: "confirmed to completed", from: reservation.StatusConfirmed, apply: complete, want: reservation.StatusCompleted},
		{name: "pending to completed", from: reservation.StatusPending, apply: complete, errIs: reservation.ErrIllegalTransition},
		{name: "confirmed to confirmed", from: reservation.StatusConfirmed, apply: confirm, errIs: reservation.ErrIllegalTransition},
		{name: "cancelled to cancelled", from: reservation.StatusCancelled, apply: cancel, errIs: reservation.ErrIllegalTransition},
		{name: "cancelled to confirmed", from: reservation.StatusCancelled, apply: confirm, errIs: reservation.ErrIllegalTransition},
		{name: "completed to cancelled", from: reservation.StatusCompleted, apply: cancel, errIs: reservation.ErrIllegalTransition},
		{name: "completed to completed", from: reservation.StatusCompleted, apply: complete, errIs: reservation.ErrIllegalTransition},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := builder.NewReservationBuilder().WithStatus(c.from).BuildReconstructed()
			later := builder.DefaultNow.Add(time.Hour)

			err := c.apply(res, later)

			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				assert.Equal(t, c.from, res.Status(), "status must be unchanged")
				assert.Equal(t, builder.DefaultNow, res.UpdatedAt())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, res.Status())
			assert.Equal(t, later, res.UpdatedAt())
		})
	}

	t.Run("repeated cancel keeps failing", func(t *testing.T) {
		res := builder.NewReservationBuilder().BuildReconstructed()
		require.NoError(t, res.Cancel(builder.DefaultNow))

		for range 2 {
			require.ErrorIs(t, res.Cancel(builder.DefaultNow), reservation.ErrIllegalTransition)
			assert.Equal(t, reservation.StatusCancelled, res.Status())
		}
	})
}

func TestReservationConflicts(t *testing.T) {
	roomID := uuid.New()
	stay := func(checkIn, checkOut string, status reservation.Status) *reservation.Reservation {
		return builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.RoomID = roomID
			b.ReservationID = uuid.New()
		}).WithPeriod(checkIn, checkOut).WithStatus(status).BuildReconstructed()
	}

	base := stay("2024-06-01", "2024-06-04", reservation.StatusPending)

	assert.True(t, base.Conflicts(stay("2024-06-03", "2024-06-05", reservation.StatusConfirmed)))
	assert.False(t, base.Conflicts(stay("2024-06-04", "2024-06-06", reservation.StatusPending)), "adjacent stays share no night")
	assert.False(t, base.Conflicts(stay("2024-06-02", "2024-06-03", reservation.StatusCancelled)))
	assert.False(t, base.Conflicts(stay("2024-06-02", "2024-06-03", reservation.StatusCompleted)))

	otherRoom := builder.NewReservationBuilder().WithPeriod("2024-06-01", "2024-06-04").BuildReconstructed()
	assert.False(t, base.Conflicts(otherRoom))
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewReservationBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
