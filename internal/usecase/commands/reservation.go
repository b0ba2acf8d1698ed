package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/pkg/errs"
	"sanatorium-booking/internal/usecase/queries"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const createEndpoint = "POST /api/reservations"

type CreateReservationInput struct {
	RoomID   uuid.UUID
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Notes    string
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

//go:generate mockgen -destination=../../../tests/mock/commands/reservation.go -package=commandsmock . ReservationCommands
type ReservationCommands interface {
	// Create admits a pending reservation. The availability check and the insert
	// run under the room lock so concurrent requests cannot both win.
	Create(ctx context.Context, in CreateReservationInput, ownerID uuid.UUID, idempotencyKey *uuid.UUID) (*CreateReservationResult, error)
	// Cancel is open to the owning guest and to staff.
	Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)
	Confirm(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	Complete(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	locker   shared.RoomLocker
	services *reservation.Services
	views    ReservationViewReader
	cfg      Config
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	locker shared.RoomLocker,
	services *reservation.Services,
	views ReservationViewReader,
	cfg Config,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		locker:   locker,
		services: services,
		views:    views,
		cfg:      cfg,
	}
}

type bookingRequest struct {
	roomID uuid.UUID
	period reservation.StayPeriod
	guests reservation.GuestCount
	note   reservation.Note
}

func (c *reservationCommandsImpl) Create(
	ctx context.Context,
	in CreateReservationInput,
	ownerID uuid.UUID,
	idempotencyKey *uuid.UUID,
) (*CreateReservationResult, error) {
	req, err := c.validate(in)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != nil {
		replayed, err := c.claimIdempotencyKey(ctx, *idempotencyKey, ownerID, requestHash(req))
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return &CreateReservationResult{Reservation: replayed, IsReplayed: true}, nil
		}
	}

	id, err := c.admit(ctx, req, ownerID, idempotencyKey)
	if err != nil {
		if idempotencyKey != nil {
			c.releaseIdempotencyKey(ctx, *idempotencyKey, ownerID)
		}
		return nil, err
	}

	view, err := c.views.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &CreateReservationResult{Reservation: view}, nil
}

// validate runs every check that needs no storage, so bad requests never take the lock.
func (c *reservationCommandsImpl) validate(in CreateReservationInput) (bookingRequest, error) {
	period, err := reservation.NewStayPeriod(in.CheckIn, in.CheckOut)
	if err != nil {
		return bookingRequest{}, err
	}
	if period.StartsBefore(c.services.Today()) {
		return bookingRequest{}, reservation.ErrPastDate
	}
	guests, err := reservation.NewGuestCount(in.Guests)
	if err != nil {
		return bookingRequest{}, err
	}
	note, err := reservation.NewNote(in.Notes)
	if err != nil {
		return bookingRequest{}, err
	}
	return bookingRequest{roomID: in.RoomID, period: period, guests: guests, note: note}, nil
}

func (c *reservationCommandsImpl) admit(
	ctx context.Context,
	req bookingRequest,
	ownerID uuid.UUID,
	idempotencyKey *uuid.UUID,
) (uuid.UUID, error) {
	unlock, err := c.locker.Lock(ctx, req.roomID)
	if err != nil {
		if errs.Is(err, errs.ErrLockTimeout) {
			return uuid.Nil, errs.Mark(err, errs.ErrRoomUnavailable)
		}
		return uuid.Nil, err
	}
	defer unlock()

	var createdID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		room, err := tx.Rooms().LockForBooking(ctx, req.roomID, c.cfg.LockWait)
		if err != nil {
			return mapRoomLockErr(err)
		}
		if !room.Active {
			return errs.Wrapf(errs.ErrRoomNotFound, "room %s is inactive", req.roomID)
		}

		nightly, err := reservation.NewMoney(room.NightlyPriceMinor)
		if err != nil {
			return err
		}
		terms := reservation.RoomTerms{
			ID:           room.ID,
			Capacity:     room.Capacity,
			NightlyPrice: nightly,
			Active:       room.Active,
		}
		res, err := reservation.NewReservation(c.services, terms, ownerID, req.period, req.guests, req.note)
		if err != nil {
			return err
		}

		overlap, err := tx.Reservations().HasOverlap(ctx, req.roomID, req.period, nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if overlap {
			return errs.Wrapf(errs.ErrRoomUnavailable, "room %s is taken for %s", req.roomID, req.period)
		}

		id, err := tx.Reservations().Create(ctx, res)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrRoomUnavailable)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		now := c.services.Clock.Now()
		if err := enqueueEvent(ctx, tx, TopicReservationCreated, res, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if idempotencyKey != nil {
			if err := tx.Idempotency().MarkCompleted(ctx, *idempotencyKey, ownerID, id, now); err != nil {
				return errs.Mark(err, errs.ErrIdempotencyCheckFailed)
			}
		}

		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	slog.InfoContext(ctx, "reservation created",
		"reservation_id", createdID,
		"room_id", req.roomID,
		"period", req.period.String())
	return createdID, nil
}

func mapRoomLockErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrRoomNotFound)
	case infra.IsKind(err, infra.KindLockTimeout):
		return errs.Mark(errs.Mark(err, errs.ErrLockTimeout), errs.ErrRoomUnavailable)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

// claimIdempotencyKey returns the stored reservation when the request is a replay.
func (c *reservationCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	key, userID uuid.UUID,
	hash string,
) (*queries.ReservationView, error) {
	now := c.services.Clock.Now()

	var existing *shared.IdempotencyRecord
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, key, userID, createEndpoint, hash, now, now.Add(c.cfg.IdempotencyTTL))
		if err != nil || claimed {
			return err
		}
		existing, err = tx.Idempotency().Get(ctx, key, userID)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if existing == nil {
		return nil, nil
	}

	if existing.RequestHash != hash {
		return nil, errs.Wrapf(errs.ErrDuplicateRequest, "idempotency key %s", key)
	}
	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultReservationID == nil {
			return nil, errs.Wrap(errs.ErrIdempotencyCheckFailed, "completed request missing result reservation ID")
		}
		view, err := c.views.GetByIDSystem(ctx, *existing.ResultReservationID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		return view, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.Wrapf(errs.ErrRequestInProgress, "idempotency key %s", key)
	default:
		return nil, errs.Wrapf(errs.ErrIdempotencyCheckFailed, "invalid idempotency key status %q", existing.Status)
	}
}

// releaseIdempotencyKey lets the client retry a request that failed without a write.
func (c *reservationCommandsImpl) releaseIdempotencyKey(ctx context.Context, key, userID uuid.UUID) {
	err := c.uow.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Delete(ctx, key, userID)
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to release idempotency key", "key", key, "error", err.Error())
	}
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	return c.transition(ctx, id, &actor, (*reservation.Reservation).Cancel, TopicReservationCancelled)
}

// Confirm does not re-check overlap: admitted reservations can never overlap,
// since create holds the room lock and the ledger rejects overlapping admitted rows.
func (c *reservationCommandsImpl) Confirm(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, nil, (*reservation.Reservation).Confirm, TopicReservationConfirmed)
}

func (c *reservationCommandsImpl) Complete(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, nil, (*reservation.Reservation).Complete, TopicReservationCompleted)
}

// transition applies one lifecycle edge with compare-and-set on the stored status.
// A nil actor means staff context.
func (c *reservationCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	actor *shared.Actor,
	apply func(*reservation.Reservation, time.Time) error,
	topic string,
) (*queries.ReservationView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrReservationNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if actor != nil && !actor.IsStaff() && !res.IsOwnedBy(actor.ID) {
			return errs.Wrapf(errs.ErrNotOwner, "reservation %s", id)
		}

		from := res.Status()
		now := c.services.Clock.Now()
		if err := apply(res, now); err != nil {
			return errs.Wrapf(err, "%s -> %s", from, topic)
		}

		if err := tx.Reservations().UpdateStatus(ctx, res, from); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, reservation.ErrIllegalTransition)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := enqueueEvent(ctx, tx, topic, res, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "reservation status changed", "reservation_id", id, "event", topic)

	view, err := c.views.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func requestHash(req bookingRequest) string {
	data, _ := json.Marshal(map[string]any{
		"room_id":   req.roomID,
		"check_in":  reservation.FormatDate(req.period.CheckIn()),
		"check_out": reservation.FormatDate(req.period.CheckOut()),
		"guests":    req.guests.Int(),
		"notes":     req.note.String(),
	})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
