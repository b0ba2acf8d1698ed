package queries

import (
	"context"
	"iter"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/pkg/clock"
	"sanatorium-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type CalendarReadStore interface {
	// BusyRanges lists admitted stays intersecting [from, to), ordered by check-in.
	BusyRanges(ctx context.Context, roomID uuid.UUID, from, to time.Time) ([]BusyRange, error)
}

type CalendarQueries interface {
	// BusyRanges validates eagerly and returns a lazy, restartable sequence of the
	// room's occupied windows within [today, today+horizonDays). Each iteration
	// reads a fresh snapshot for the same window.
	BusyRanges(ctx context.Context, roomID uuid.UUID, horizonDays int) (iter.Seq2[BusyRange, error], error)
}

type CalendarConfig struct {
	MaxHorizonDays int
	Location       *time.Location
}

type calendarQueriesImpl struct {
	rooms RoomReadStore
	store CalendarReadStore
	clock clock.Clock
	cfg   CalendarConfig
}

func NewCalendarQueries(rooms RoomReadStore, store CalendarReadStore, clk clock.Clock, cfg CalendarConfig) CalendarQueries {
	return &calendarQueriesImpl{
		rooms: rooms,
		store: store,
		clock: clk,
		cfg:   cfg,
	}
}

func (q *calendarQueriesImpl) BusyRanges(ctx context.Context, roomID uuid.UUID, horizonDays int) (iter.Seq2[BusyRange, error], error) {
	if horizonDays < 1 || horizonDays > q.cfg.MaxHorizonDays {
		return nil, errs.Wrapf(errs.ErrInvalidHorizon, "horizon must be within 1..%d days", q.cfg.MaxHorizonDays)
	}
	if _, err := findRoom(ctx, q.rooms, roomID); err != nil {
		return nil, err
	}

	from := clock.Today(q.clock, q.cfg.Location)
	to := from.AddDate(0, 0, horizonDays)

	return func(yield func(BusyRange, error) bool) {
		ranges, err := q.store.BusyRanges(ctx, roomID, from, to)
		if err != nil {
			yield(BusyRange{}, errs.Mark(err, errs.ErrDatabaseOperationFailed))
			return
		}
		for _, r := range ranges {
			period, err := reservation.NewStayPeriod(r.Start, r.End)
			if err != nil {
				continue
			}
			clipped, ok := period.Clip(from, to)
			if !ok {
				continue
			}
			if !yield(BusyRange{Start: clipped.CheckIn(), End: clipped.CheckOut(), Status: r.Status}, nil) {
				return
			}
		}
	}, nil
}
