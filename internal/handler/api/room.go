package api

import (
	"net/http"

	reqdto "sanatorium-booking/internal/handler/dto/request"
	resdto "sanatorium-booking/internal/handler/dto/response"
	"sanatorium-booking/internal/handler/httperr"
	"sanatorium-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoomHandler struct {
	rooms              queries.RoomQueries
	availability       queries.AvailabilityQueries
	calendar           queries.CalendarQueries
	defaultHorizonDays int
}

func NewRoomHandler(
	rooms queries.RoomQueries,
	availability queries.AvailabilityQueries,
	calendar queries.CalendarQueries,
	defaultHorizonDays int,
) *RoomHandler {
	return &RoomHandler{
		rooms:              rooms,
		availability:       availability,
		calendar:           calendar,
		defaultHorizonDays: defaultHorizonDays,
	}
}

// @Summary List rooms
// @Description Active rooms ordered by category, then name
// @Tags rooms
// @Produce json
// @Success 200 {array} resdto.RoomResponse
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	views, err := h.rooms.ListActive(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	resp, err := resdto.FromRoomViews(views)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, err, "internal", "Failed to render rooms", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} resdto.RoomResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	resp, err := resdto.FromRoomView(view)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, err, "internal", "Failed to render room", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Check availability
// @Description Advisory answer for live UI feedback; create re-checks under the room lock
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD), exclusive"
// @Param exclude query string false "Reservation ID to ignore"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id}/availability [get]
func (h *RoomHandler) Availability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var q reqdto.StayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}
	checkIn, checkOut, err := q.Dates()
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	result, err := h.availability.IsAvailable(c.Request.Context(), id, checkIn, checkOut, q.Excluding())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailability(result))
}

// @Summary Quote price
// @Description nights x current nightly price of the room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD), exclusive"
// @Success 200 {object} resdto.PriceQuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id}/price [get]
func (h *RoomHandler) Price(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var q reqdto.StayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}
	checkIn, checkOut, err := q.Dates()
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	quote, err := h.availability.ComputePrice(c.Request.Context(), id, checkIn, checkOut)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPriceQuote(quote))
}

// @Summary Busy date ranges
// @Description Occupied [start, end) windows from today within the horizon, no guest data
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Param horizon_days query int false "Horizon in days (default 90)"
// @Success 200 {object} resdto.BusyRangesResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /rooms/{id}/busy [get]
func (h *RoomHandler) Busy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var q reqdto.BusyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query")
		return
	}
	horizon := q.Horizon(h.defaultHorizonDays)

	seq, err := h.calendar.BusyRanges(c.Request.Context(), id, horizon)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	ranges := make([]resdto.BusyRangeResponse, 0)
	for r, err := range seq {
		if err != nil {
			abortWithUsecaseError(c, err)
			return
		}
		ranges = append(ranges, resdto.FromBusyRange(r))
	}
	c.JSON(http.StatusOK, resdto.BusyRangesResponse{
		RoomID:      id,
		HorizonDays: horizon,
		Ranges:      ranges,
	})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, err, "invalid_request", "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
