//go:build unit

package api_test

import (
	"errors"
	"iter"
	"net/http"
	"testing"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/domain/room"
	"sanatorium-booking/internal/handler"
	"sanatorium-booking/internal/handler/api"
	resdto "sanatorium-booking/internal/handler/dto/response"
	"sanatorium-booking/internal/pkg/errs"
	"sanatorium-booking/internal/usecase/queries"
	"sanatorium-booking/tests/common/builder"
	"sanatorium-booking/tests/common/httptest"
	queriesmock "sanatorium-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RoomHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockRooms        *queriesmock.MockRoomQueries
	mockAvailability *queriesmock.MockAvailabilityQueries
	mockCalendar     *queriesmock.MockCalendarQueries
}

func (s *RoomHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidators()
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockRooms = queriesmock.NewMockRoomQueries(s.mockCtrl)
	s.mockAvailability = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockCalendar = queriesmock.NewMockCalendarQueries(s.mockCtrl)

	h := api.NewRoomHandler(s.mockRooms, s.mockAvailability, s.mockCalendar, 90)
	s.router.GET("/rooms", h.List)
	s.router.GET("/rooms/:id", h.Get)
	s.router.GET("/rooms/:id/availability", h.Availability)
	s.router.GET("/rooms/:id/price", h.Price)
	s.router.GET("/rooms/:id/busy", h.Busy)
}

func (s *RoomHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRoomHandlerSuite(t *testing.T) {
	suite.Run(t, new(RoomHandlerTestSuite))
}

func day(s string) time.Time {
	d, err := reservation.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (s *RoomHandlerTestSuite) TestList() {
	standard := builder.NewRoomBuilder().WithName("Standard 101").BuildView()
	deluxe := builder.NewRoomBuilder().WithCategory(room.CategoryDeluxe).WithName("Deluxe 301").BuildView()
	s.mockRooms.EXPECT().ListActive(gomock.Any()).Return([]*queries.RoomView{standard, deluxe}, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms", nil, "")

	var got []resdto.RoomResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
	want := []resdto.RoomResponse{
		{ID: standard.ID, Category: "standard", Name: "Standard 101", Capacity: 2, NightlyPriceMinor: 5000, Description: "Garden view", IsActive: true},
		{ID: deluxe.ID, Category: "deluxe", Name: "Deluxe 301", Capacity: 2, NightlyPriceMinor: 5000, Description: "Garden view", IsActive: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		s.T().Errorf("rooms mismatch (-want +got):\n%s", diff)
	}
}

func (s *RoomHandlerTestSuite) TestGet() {
	view := builder.NewRoomBuilder().AsInactive().BuildView()

	s.Run("inactive room is still returned", func() {
		s.mockRooms.EXPECT().Get(gomock.Any(), view.ID).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/"+view.ID.String(), nil, "")
		var got resdto.RoomResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.False(got.IsActive)
	})

	s.Run("unknown room", func() {
		s.mockRooms.EXPECT().Get(gomock.Any(), view.ID).Return(nil, errs.Wrap(errs.ErrRoomNotFound, "room"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/"+view.ID.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "room_not_found")
	})

	s.Run("database failure", func() {
		s.mockRooms.EXPECT().Get(gomock.Any(), view.ID).Return(nil, errs.Mark(errors.New("boom"), errs.ErrDatabaseOperationFailed))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/rooms/"+view.ID.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusInternalServerError, "internal")
	})
}

func (s *RoomHandlerTestSuite) TestAvailability() {
	roomID := uuid.New()
	base := "/rooms/" + roomID.String() + "/availability"

	s.Run("free dates", func() {
		s.mockAvailability.EXPECT().
			IsAvailable(gomock.Any(), roomID, day("2024-06-04"), day("2024-06-06"), (*uuid.UUID)(nil)).
			Return(&queries.Availability{RoomID: roomID, CheckIn: day("2024-06-04"), CheckOut: day("2024-06-06"), Available: true}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?check_in=2024-06-04&check_out=2024-06-06", nil, "")
		var got resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal(resdto.AvailabilityResponse{RoomID: roomID, CheckIn: "2024-06-04", CheckOut: "2024-06-06", Available: true}, got)
	})

	s.Run("exclude is forwarded", func() {
		exclude := uuid.New()
		s.mockAvailability.EXPECT().
			IsAvailable(gomock.Any(), roomID, day("2024-06-04"), day("2024-06-06"), &exclude).
			Return(&queries.Availability{RoomID: roomID, CheckIn: day("2024-06-04"), CheckOut: day("2024-06-06")}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			base+"?check_in=2024-06-04&check_out=2024-06-06&exclude="+exclude.String(), nil, "")
		var got resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.False(got.Available)
	})

	s.Run("query validation", func() {
		for _, q := range []string{
			"",
			"?check_in=2024-06-04",
			"?check_in=2024-06-04&check_out=june",
			"?check_in=2024-06-04&check_out=2024-06-06&exclude=1",
		} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+q, nil, "")
			httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_request")
		}
	})

	s.Run("reversed range", func() {
		s.mockAvailability.EXPECT().IsAvailable(gomock.Any(), roomID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, reservation.ErrInvalidRange)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?check_in=2024-06-06&check_out=2024-06-04", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_range")
	})
}

func (s *RoomHandlerTestSuite) TestPrice() {
	roomID := uuid.New()
	s.mockAvailability.EXPECT().
		ComputePrice(gomock.Any(), roomID, day("2024-06-01"), day("2024-06-04")).
		Return(&queries.PriceQuote{
			RoomID: roomID, CheckIn: day("2024-06-01"), CheckOut: day("2024-06-04"),
			Nights: 3, NightlyPriceMinor: 5000, TotalPriceMinor: 15000,
		}, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
		"/rooms/"+roomID.String()+"/price?check_in=2024-06-01&check_out=2024-06-04", nil, "")
	var got resdto.PriceQuoteResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
	s.Equal(int64(3), got.Nights)
	s.Equal(int64(15000), got.TotalPriceMinor)
}

func busySeq(ranges []queries.BusyRange, tail error) iter.Seq2[queries.BusyRange, error] {
	return func(yield func(queries.BusyRange, error) bool) {
		for _, r := range ranges {
			if !yield(r, nil) {
				return
			}
		}
		if tail != nil {
			yield(queries.BusyRange{}, tail)
		}
	}
}

func (s *RoomHandlerTestSuite) TestBusy() {
	roomID := uuid.New()
	base := "/rooms/" + roomID.String() + "/busy"
	ranges := []queries.BusyRange{
		{Start: day("2024-06-01"), End: day("2024-06-04"), Status: "pending"},
		{Start: day("2024-06-10"), End: day("2024-06-12"), Status: "confirmed"},
	}

	s.Run("default horizon", func() {
		s.mockCalendar.EXPECT().BusyRanges(gomock.Any(), roomID, 90).Return(busySeq(ranges, nil), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base, nil, "")
		var got resdto.BusyRangesResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		want := resdto.BusyRangesResponse{
			RoomID:      roomID,
			HorizonDays: 90,
			Ranges: []resdto.BusyRangeResponse{
				{Start: "2024-06-01", End: "2024-06-04", Status: "pending"},
				{Start: "2024-06-10", End: "2024-06-12", Status: "confirmed"},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			s.T().Errorf("busy ranges mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("empty calendar renders an empty list", func() {
		s.mockCalendar.EXPECT().BusyRanges(gomock.Any(), roomID, 30).Return(busySeq(nil, nil), nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?horizon_days=30", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"ranges":[]`)
	})

	s.Run("horizon out of range", func() {
		s.mockCalendar.EXPECT().BusyRanges(gomock.Any(), roomID, 0).
			Return(nil, errs.Wrap(errs.ErrInvalidHorizon, "horizon"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?horizon_days=0", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_horizon")
	})

	s.Run("failure mid-iteration", func() {
		s.mockCalendar.EXPECT().BusyRanges(gomock.Any(), roomID, 90).
			Return(busySeq(ranges[:1], errs.Mark(errors.New("read"), errs.ErrDatabaseOperationFailed)), nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base, nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusInternalServerError, "internal")
	})
}
