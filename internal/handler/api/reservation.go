package api

import (
	"errors"
	"net/http"

	reqdto "sanatorium-booking/internal/handler/dto/request"
	resdto "sanatorium-booking/internal/handler/dto/response"
	"sanatorium-booking/internal/handler/httperr"
	"sanatorium-booking/internal/handler/middleware"
	"sanatorium-booking/internal/usecase/commands"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyHeader = "Idempotency-Key"

var errInvalidIdempotencyKey = errors.New("Idempotency-Key must be a UUID")

// ReservationHandler serves the guest self-service routes. Staff reach the same
// commands through StaffHandler.
type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Book a room for [checkIn, checkOut). The reservation starts pending.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID; replays the stored result for an identical request"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, errors.New("missing actor"), "unauthorized", "Unauthorized", nil)
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		abortBadRequest(c, err, "Invalid Idempotency-Key")
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		abortBadRequest(c, bindErr, "Invalid request")
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), in, actor.ID, idempotencyKey)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
		c.Header("Idempotent-Replayed", "true")
	}
	c.Header("Location", "/api/reservations/"+result.Reservation.ID.String())
	c.JSON(status, resdto.FromReservationView(result.Reservation))
}

// @Summary List own reservations
// @Description Newest first, keyset paginated
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from the previous page"
// @Param limit query int false "Page size (default 20, max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, errors.New("missing actor"), "unauthorized", "Unauthorized", nil)
		return
	}
	var q reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}

	var after *queries.Cursor
	if q.After != "" {
		after = &queries.Cursor{After: q.After}
	}
	views, next, err := h.q.ListByOwner(c.Request.Context(), actor.ID, after, q.Limit)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views, next))
}

// @Summary Get reservation
// @Description Guests see only their own reservations; staff see any
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, errors.New("missing actor"), "unauthorized", "Unauthorized", nil)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Cancel reservation
// @Description Guest self-service cancel of an own pending or confirmed reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, errors.New("missing actor"), "unauthorized", "Unauthorized", nil)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.cmds.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func getIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(idempotencyHeader)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, errInvalidIdempotencyKey
	}
	return &key, nil
}
