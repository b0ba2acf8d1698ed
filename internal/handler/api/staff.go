package api

import (
	"net/http"

	reqdto "sanatorium-booking/internal/handler/dto/request"
	resdto "sanatorium-booking/internal/handler/dto/response"
	"sanatorium-booking/internal/handler/middleware"
	"sanatorium-booking/internal/usecase/commands"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StaffHandler serves the unrestricted transitions. Routes are guarded by
// RequireRole(staff), so no ownership check happens here.
type StaffHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewStaffHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *StaffHandler {
	return &StaffHandler{cmds: cmds, q: q}
}

// @Summary List reservations (staff)
// @Description Filter by room and status, ordered by check-in
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param room_id query string false "Room ID"
// @Param status query string false "pending|confirmed|cancelled|completed"
// @Param limit query int false "Max rows (default 20, max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /staff/reservations [get]
func (h *StaffHandler) List(c *gin.Context) {
	var q reqdto.StaffReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}
	views, err := h.q.ListForStaff(c.Request.Context(), queries.StaffFilter{
		RoomID: q.RoomUUID(),
		Status: q.StatusFilter(),
		Limit:  q.Limit,
	})
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views, nil))
}

// @Summary Confirm reservation
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /staff/reservations/{id}/confirm [post]
func (h *StaffHandler) Confirm(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id uuid.UUID) (*queries.ReservationView, error) {
		return h.cmds.Confirm(c.Request.Context(), id)
	})
}

// @Summary Cancel reservation (staff)
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /staff/reservations/{id}/cancel [post]
func (h *StaffHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id uuid.UUID) (*queries.ReservationView, error) {
		actor, _ := middleware.GetActor(c)
		return h.cmds.Cancel(c.Request.Context(), id, actor)
	})
}

// @Summary Complete reservation
// @Description Only confirmed reservations can complete
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /staff/reservations/{id}/complete [post]
func (h *StaffHandler) Complete(c *gin.Context) {
	h.transition(c, func(c *gin.Context, id uuid.UUID) (*queries.ReservationView, error) {
		return h.cmds.Complete(c.Request.Context(), id)
	})
}

func (h *StaffHandler) transition(c *gin.Context, apply func(*gin.Context, uuid.UUID) (*queries.ReservationView, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := apply(c, id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}
