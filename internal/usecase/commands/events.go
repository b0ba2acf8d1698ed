package commands

import (
	"context"
	"encoding/json"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	JobKindReservationEvent = "reservation_event"

	TopicReservationCreated   = "reservation.created"
	TopicReservationConfirmed = "reservation.confirmed"
	TopicReservationCancelled = "reservation.cancelled"
	TopicReservationCompleted = "reservation.completed"
)

// LifecycleEvent is the outbox payload relayed to downstream consumers
// (notifications, housekeeping). It is written in the same transaction as the change.
type LifecycleEvent struct {
	Event           string    `json:"event"`
	ReservationID   uuid.UUID `json:"reservation_id"`
	RoomID          uuid.UUID `json:"room_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	Guests          int       `json:"guests"`
	Status          string    `json:"status"`
	TotalPriceMinor int64     `json:"total_price_minor"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func newLifecycleEvent(topic string, res *reservation.Reservation, now time.Time) LifecycleEvent {
	return LifecycleEvent{
		Event:           topic,
		ReservationID:   res.ID(),
		RoomID:          res.RoomID(),
		OwnerID:         res.OwnerID(),
		CheckIn:         reservation.FormatDate(res.Period().CheckIn()),
		CheckOut:        reservation.FormatDate(res.Period().CheckOut()),
		Guests:          res.Guests().Int(),
		Status:          res.Status().String(),
		TotalPriceMinor: res.TotalPrice().Minor(),
		OccurredAt:      now,
	}
}

func enqueueEvent(ctx context.Context, tx shared.Tx, topic string, res *reservation.Reservation, now time.Time) error {
	payload, err := json.Marshal(newLifecycleEvent(topic, res, now))
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, JobKindReservationEvent, topic, payload, now)
}
