//go:build unit

package reservation_test

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"sanatorium-booking/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := reservation.ParseDate(s)
	require.NoError(t, err)
	return d
}

func period(t *testing.T, checkIn, checkOut string) reservation.StayPeriod {
	t.Helper()
	p, err := reservation.NewStayPeriod(date(t, checkIn), date(t, checkOut))
	require.NoError(t, err)
	return p
}

func TestStayPeriod(t *testing.T) {
	t.Run("overlap is half-open", func(t *testing.T) {
		base := period(t, "2024-06-01", "2024-06-04")

		cases := []struct {
			name     string
			other    reservation.StayPeriod
			overlaps bool
		}{
			{"same range", period(t, "2024-06-01", "2024-06-04"), true},
			{"tail overlap", period(t, "2024-06-03", "2024-06-05"), true},
			{"head overlap", period(t, "2024-05-30", "2024-06-02"), true},
			{"contained", period(t, "2024-06-02", "2024-06-03"), true},
			{"containing", period(t, "2024-05-01", "2024-07-01"), true},
			{"checkout day is free", period(t, "2024-06-04", "2024-06-06"), false},
			{"ends on check-in day", period(t, "2024-05-28", "2024-06-01"), false},
			{"far after", period(t, "2024-07-01", "2024-07-02"), false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				assert.Equal(t, c.overlaps, base.Overlaps(c.other))
				assert.Equal(t, c.overlaps, c.other.Overlaps(base), "overlap must be symmetric")
			})
		}
	})

	t.Run("nights across a DST change", func(t *testing.T) {
		// Dates are normalized to UTC, so a local clock change cannot shorten a night.
		p := period(t, "2024-03-30", "2024-04-02")
		assert.Equal(t, int64(3), p.Nights())
	})

	t.Run("time of day is dropped", func(t *testing.T) {
		in := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
		out := time.Date(2024, 6, 2, 0, 1, 0, 0, time.UTC)
		p, err := reservation.NewStayPeriod(in, out)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.Nights())
		assert.Equal(t, "[2024-06-01,2024-06-02)", p.String())
	})

	t.Run("stay longer than a time.Duration can span", func(t *testing.T) {
		p := period(t, "2024-06-01", "9999-12-31")
		assert.Equal(t, int64(2913021), p.Nights())
	})

	t.Run("clip to window", func(t *testing.T) {
		p := period(t, "2024-05-18", "2024-05-25")

		clipped, ok := p.Clip(date(t, "2024-05-20"), date(t, "2024-05-23"))
		require.True(t, ok)
		assert.Equal(t, "[2024-05-20,2024-05-23)", clipped.String())

		_, ok = p.Clip(date(t, "2024-05-25"), date(t, "2024-06-01"))
		assert.False(t, ok, "stay ending on window start is outside")
	})
}

func TestMoney(t *testing.T) {
	t.Run("negative amount", func(t *testing.T) {
		_, err := reservation.NewMoney(-1)
		require.ErrorIs(t, err, reservation.ErrNegativePrice)
	})

	t.Run("overflow", func(t *testing.T) {
		m, err := reservation.NewMoney(math.MaxInt64 / 2)
		require.NoError(t, err)
		_, err = m.Multiply(3)
		require.ErrorIs(t, err, reservation.ErrPriceOverflow)
	})

	t.Run("string", func(t *testing.T) {
		m, err := reservation.NewMoney(15005)
		require.NoError(t, err)
		assert.Equal(t, "150.05", m.String())
	})
}

func TestNightlyPriceCalculator(t *testing.T) {
	calc := reservation.NewNightlyPriceCalculator()

	t.Run("scenario price", func(t *testing.T) {
		nightly, _ := reservation.NewMoney(5000)
		total, err := calc.Calculate(nightly, period(t, "2024-06-01", "2024-06-04"))
		require.NoError(t, err)
		assert.Equal(t, int64(15000), total.Minor())
	})

	t.Run("multi-century stay is priced per calendar night", func(t *testing.T) {
		nightly, _ := reservation.NewMoney(5000)
		total, err := calc.Calculate(nightly, period(t, "2024-06-01", "9999-12-31"))
		require.NoError(t, err)
		assert.Equal(t, int64(14565105000), total.Minor())
	})

	t.Run("price equals nightly rate times nights", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(42, 7))
		start := date(t, "2024-01-01")
		for range 500 {
			rate := rng.Int64N(10_000_000)
			nights := 1 + rng.IntN(365)
			in := start.AddDate(0, 0, rng.IntN(730))
			p, err := reservation.NewStayPeriod(in, in.AddDate(0, 0, nights))
			require.NoError(t, err)

			nightly, _ := reservation.NewMoney(rate)
			first, err := calc.Calculate(nightly, p)
			require.NoError(t, err)
			again, err := calc.Calculate(nightly, p)
			require.NoError(t, err)

			assert.Equal(t, rate*int64(nights), first.Minor())
			assert.Equal(t, first, again)
			assert.GreaterOrEqual(t, first.Minor(), int64(0))
		}
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, reservation.StatusPending.IsAdmitted())
	assert.True(t, reservation.StatusConfirmed.IsAdmitted())
	assert.False(t, reservation.StatusCancelled.IsAdmitted())
	assert.False(t, reservation.StatusCompleted.IsAdmitted())

	_, err := reservation.ParseStatus("canceled")
	require.ErrorIs(t, err, reservation.ErrInvalidStatus)
}
