package errs

// Sentinels shared by the usecase and handler layers.
// Domain rule violations live next to their aggregates (see domain/reservation).
var (
	// Room errors
	ErrRoomNotFound = New("room not found")

	// Reservation errors
	ErrReservationNotFound = New("reservation not found")
	ErrRoomUnavailable     = New("room unavailable for the requested dates")
	ErrLockTimeout         = New("timed out waiting for room lock")
	ErrNotOwner            = New("reservation belongs to another guest")
	ErrInvalidHorizon      = New("invalid calendar horizon")
	ErrInvalidCursor       = New("invalid pagination cursor")

	// Idempotency errors
	ErrDuplicateRequest       = New("idempotency key reused with a different request")
	ErrRequestInProgress      = New("request with this idempotency key is in progress")
	ErrIdempotencyCheckFailed = New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
