package api

import (
	"log/slog"
	"net/http"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/handler/httperr"
	"sanatorium-booking/internal/handler/middleware"
	"sanatorium-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: a lock timeout is also marked RoomUnavailable.
var errorMappings = []errorMapping{
	{errs.ErrLockTimeout, http.StatusConflict, "lock_timeout", "Room is busy, please retry"},
	{errs.ErrRoomUnavailable, http.StatusConflict, "room_unavailable", "Room is not available for the requested dates"},
	{errs.ErrRoomNotFound, http.StatusNotFound, "room_not_found", "Room not found"},
	{errs.ErrReservationNotFound, http.StatusNotFound, "not_found", "Reservation not found"},
	{errs.ErrNotOwner, http.StatusForbidden, "not_owner", "Reservation belongs to another guest"},
	{errs.ErrDuplicateRequest, http.StatusConflict, "duplicate_request", "Idempotency key reused with a different request"},
	{errs.ErrRequestInProgress, http.StatusConflict, "request_in_progress", "Request with this idempotency key is being processed"},
	{errs.ErrInvalidHorizon, http.StatusBadRequest, "invalid_horizon", "Invalid calendar horizon"},
	{errs.ErrInvalidCursor, http.StatusBadRequest, "invalid_cursor", "Invalid pagination cursor"},
	{reservation.ErrIllegalTransition, http.StatusConflict, "illegal_transition", "Reservation cannot move to that status"},
	{reservation.ErrCapacityExceeded, http.StatusUnprocessableEntity, "capacity_exceeded", "Guest count exceeds room capacity"},
	{reservation.ErrRoomInactive, http.StatusNotFound, "room_not_found", "Room not found"},
	{reservation.ErrInvalidRange, http.StatusBadRequest, "invalid_range", "Check-in must be before check-out"},
	{reservation.ErrPastDate, http.StatusBadRequest, "past_date", "Check-in date is in the past"},
	{reservation.ErrInvalidDate, http.StatusBadRequest, "invalid_date", "Dates must be in YYYY-MM-DD format"},
	{reservation.ErrInvalidGuestCount, http.StatusBadRequest, "invalid_guest_count", "Guest count must be at least 1"},
	{reservation.ErrNoteTooLong, http.StatusBadRequest, "notes_too_long", "Notes are too long"},
	{reservation.ErrInvalidStatus, http.StatusBadRequest, "invalid_status", "Unknown reservation status"},
	{reservation.ErrPriceOverflow, http.StatusUnprocessableEntity, "price_overflow", "Stay price exceeds the supported range"},
}

// abortWithUsecaseError translates usecase and domain errors into the API error body.
func abortWithUsecaseError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithCode(c, m.status, err, m.code, m.message, nil)
			return
		}
	}
	slog.Error("unhandled usecase error",
		"error", err,
		"request_id", middleware.GetRequestID(c),
		"path", c.FullPath(),
		"stack", errs.ExtractStackLines(err, 8),
	)
	httperr.AbortWithCode(c, http.StatusInternalServerError, err, "internal", "Internal server error", nil)
}

func abortBadRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithCode(c, http.StatusBadRequest, err, "invalid_request", msg, err.Error())
}
