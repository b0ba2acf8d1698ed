//go:build e2e

package reservation_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"sanatorium-booking/internal/domain/reservation"
	"sanatorium-booking/internal/handler/dto/request"
	"sanatorium-booking/internal/handler/dto/response"
	"sanatorium-booking/internal/infra"
	"sanatorium-booking/internal/infra/repository"
	"sanatorium-booking/internal/infra/sqlc"
	"sanatorium-booking/internal/usecase/commands"
	"sanatorium-booking/tests/common/authtest"
	"sanatorium-booking/tests/common/builder"
	"sanatorium-booking/tests/common/dbtest"
	"sanatorium-booking/tests/common/httptest"
	"sanatorium-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	staffURL        = "/api/staff/reservations"
	roomBusyURL     = "/api/rooms/%s/busy"
	roomPriceURL    = "/api/rooms/%s/price?check_in=%s&check_out=%s"
)

type ReservationSuite struct {
	e2e.SharedSuite
	tokens *authtest.JWTHelper
}

func (s *ReservationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.tokens = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

// day returns today+offset in the booking time zone, formatted for the API.
func (s *ReservationSuite) day(offset int) string {
	loc, err := s.Config.Booking.Location()
	s.Require().NoError(err)
	y, m, d := time.Now().In(loc).Date()
	return reservation.FormatDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset))
}

func (s *ReservationSuite) newRoom(capacity int, price int64) uuid.UUID {
	return dbtest.CreateTestRoom(s.T(), s.DB, builder.NewRoomBuilder().WithCapacity(capacity).WithNightlyPrice(price))
}

func (s *ReservationSuite) createBody(roomID uuid.UUID, from, to, guests int) request.CreateReservationRequest {
	return request.CreateReservationRequest{
		RoomID:   roomID,
		CheckIn:  s.day(from),
		CheckOut: s.day(to),
		Guests:   guests,
	}
}

func (s *ReservationSuite) mustCreate(token string, body request.CreateReservationRequest) response.ReservationResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, token)
	var created response.ReservationResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
	require.NotEqual(t, uuid.Nil, created.ID)
	return created
}

// =============================================================================
// TestCreateReservation
// =============================================================================

func (s *ReservationSuite) TestCreateReservation() {
	s.Run("Normal case: overlap rejected, adjacent stay accepted", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		ownerID, token := s.tokens.GuestToken(t)

		first := s.mustCreate(token, s.createBody(roomID, 10, 13, 2))
		want := response.ReservationResponse{
			RoomID:          roomID,
			OwnerID:         ownerID,
			CheckIn:         s.day(10),
			CheckOut:        s.day(13),
			Guests:          2,
			TotalPriceMinor: 15000,
			Status:          "pending",
		}
		opts := cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "RoomName", "CreatedAt", "UpdatedAt")
		if diff := cmp.Diff(want, first, opts); diff != "" {
			t.Errorf("reservation mismatch (-want +got):\n%s", diff)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createBody(roomID, 12, 14, 1), token)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "room_unavailable")

		s.mustCreate(token, s.createBody(roomID, 13, 15, 1))

		require.Equal(t, 2, dbtest.CountNotificationJobs(t, s.DB, commands.TopicReservationCreated))
	})

	s.Run("Error case: capacity exceeded", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, token := s.tokens.GuestToken(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createBody(roomID, 10, 12, 3), token)
		httptest.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "capacity_exceeded")
	})

	s.Run("Error case: check-in in the past", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, token := s.tokens.GuestToken(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createBody(roomID, -1, 2, 1), token)
		httptest.AssertErrorCode(t, w, http.StatusBadRequest, "past_date")
	})

	s.Run("Error case: inactive room", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		dbtest.SetRoomActive(t, s.DB, roomID, false)
		_, token := s.tokens.GuestToken(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createBody(roomID, 10, 12, 1), token)
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "room_not_found")
	})

	s.Run("Auth test: unauthorized without token", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createBody(uuid.New(), 10, 12, 1), "")
		httptest.AssertErrorCode(t, w, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("Concurrency: one of many identical requests wins", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		body := s.createBody(roomID, 20, 22, 1)

		const contenders = 8
		codes := make([]int, contenders)
		var wg sync.WaitGroup
		for i := range contenders {
			_, token := s.tokens.GuestToken(t)
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, token)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
			default:
				t.Errorf("unexpected status %d", code)
			}
		}
		require.Equal(t, 1, created)
	})
}

// =============================================================================
// TestLedgerConstraint
// =============================================================================

// The exclusion constraint must reject overlapping admitted stays even when
// no lock or pre-check ran before the insert.
func (s *ReservationSuite) TestLedgerConstraint() {
	stay := func(roomID uuid.UUID, in, out string, status reservation.Status) *reservation.Reservation {
		return builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.RoomID = roomID }).
			WithPeriod(in, out).
			WithStatus(status).
			BuildReconstructed()
	}

	s.Run("Overlapping admitted insert is a conflict", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		repo := repository.NewReservationRepository(sqlc.New(), s.DB)

		_, err := repo.Create(context.Background(), stay(roomID, "2030-06-01", "2030-06-04", reservation.StatusConfirmed))
		require.NoError(t, err)

		_, err = repo.Create(context.Background(), stay(roomID, "2030-06-03", "2030-06-05", reservation.StatusPending))
		require.Error(t, err)
		require.True(t, infra.IsKind(err, infra.KindConflict), "got %v", err)

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		require.Equal(t, "23P01", pgErr.Code)
		require.Equal(t, "reservations_no_overlap", pgErr.ConstraintName)
	})

	s.Run("Adjacent and non-admitted stays are accepted", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		repo := repository.NewReservationRepository(sqlc.New(), s.DB)

		_, err := repo.Create(context.Background(), stay(roomID, "2030-06-01", "2030-06-04", reservation.StatusPending))
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), stay(roomID, "2030-06-04", "2030-06-06", reservation.StatusPending))
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), stay(roomID, "2030-06-02", "2030-06-03", reservation.StatusCancelled))
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), stay(roomID, "2030-06-02", "2030-06-03", reservation.StatusCompleted))
		require.NoError(t, err)
	})
}

// =============================================================================
// TestIdempotency
// =============================================================================

func (s *ReservationSuite) TestIdempotency() {
	s.Run("Replay returns the stored reservation", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, token := s.tokens.GuestToken(t)
		body := s.createBody(roomID, 30, 32, 1)
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		w1 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, body, token, headers)
		var first response.ReservationResponse
		httptest.AssertSuccessResponse(t, w1, http.StatusCreated, &first)

		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, body, token, headers)
		var second response.ReservationResponse
		httptest.AssertSuccessResponse(t, w2, http.StatusOK, &second)
		require.Equal(t, first.ID, second.ID)
		httptest.AssertHeaders(t, w2, map[string]string{"Idempotent-Replayed": "true"})

		body.Guests = 2
		w3 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, body, token, headers)
		httptest.AssertErrorCode(t, w3, http.StatusConflict, "duplicate_request")
	})
}

// =============================================================================
// TestLifecycle
// =============================================================================

func (s *ReservationSuite) TestLifecycle() {
	s.Run("Normal case: confirm then complete", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, guestToken := s.tokens.GuestToken(t)
		_, staffToken := s.tokens.StaffToken(t)
		created := s.mustCreate(guestToken, s.createBody(roomID, 5, 7, 1))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/complete", staffURL, created.ID), nil, staffToken)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "illegal_transition")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/confirm", staffURL, created.ID), nil, staffToken)
		var confirmed response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &confirmed)
		require.Equal(t, "confirmed", confirmed.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/complete", staffURL, created.ID), nil, staffToken)
		var completed response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &completed)
		require.Equal(t, "completed", completed.Status)

		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, commands.TopicReservationCompleted))
	})

	s.Run("Guest cancel twice", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, token := s.tokens.GuestToken(t)
		created := s.mustCreate(token, s.createBody(roomID, 5, 7, 1))
		url := fmt.Sprintf("%s/%s/cancel", reservationsURL, created.ID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		var cancelled response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		require.Equal(t, "cancelled", cancelled.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "illegal_transition")

		// The freed nights can be booked again.
		s.mustCreate(token, s.createBody(roomID, 5, 7, 1))
	})

	s.Run("Other guests can neither read nor cancel", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, ownerToken := s.tokens.GuestToken(t)
		_, strangerToken := s.tokens.GuestToken(t)
		created := s.mustCreate(ownerToken, s.createBody(roomID, 5, 7, 1))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", reservationsURL, created.ID), nil, strangerToken)
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "not_found")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/cancel", reservationsURL, created.ID), nil, strangerToken)
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "not_owner")
	})

	s.Run("Staff routes reject guests", func() {
		t := s.T()
		_, token := s.tokens.GuestToken(t)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, staffURL, nil, token)
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "forbidden")
	})
}

// =============================================================================
// TestListing
// =============================================================================

func (s *ReservationSuite) TestListing() {
	s.Run("Own reservations page newest first", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, token := s.tokens.GuestToken(t)

		var ids []uuid.UUID
		for i := range 3 {
			created := s.mustCreate(token, s.createBody(roomID, 40+2*i, 41+2*i, 1))
			ids = append([]uuid.UUID{created.ID}, ids...)
		}

		var (
			got   []uuid.UUID
			after string
		)
		for {
			url := reservationsURL + "?limit=2"
			if after != "" {
				url += "&after=" + after
			}
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
			var page response.ReservationListResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
			for _, item := range page.Items {
				got = append(got, item.ID)
			}
			if page.NextCursor == "" {
				break
			}
			after = page.NextCursor
		}
		require.Equal(t, ids, got)
	})

	s.Run("Staff filter by room and status", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, guestToken := s.tokens.GuestToken(t)
		_, staffToken := s.tokens.StaffToken(t)
		created := s.mustCreate(guestToken, s.createBody(roomID, 50, 52, 1))

		url := fmt.Sprintf("%s?room_id=%s&status=pending", staffURL, roomID)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, staffToken)
		var page response.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Len(t, page.Items, 1)
		require.Equal(t, created.ID, page.Items[0].ID)
	})
}

// =============================================================================
// TestCalendar
// =============================================================================

func (s *ReservationSuite) TestCalendar() {
	s.Run("Busy ranges and price quote", func() {
		t := s.T()
		roomID := s.newRoom(2, 5000)
		_, token := s.tokens.GuestToken(t)
		s.mustCreate(token, s.createBody(roomID, 10, 13, 2))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(roomBusyURL, roomID), nil, "")
		var busy response.BusyRangesResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &busy)
		require.Equal(t, 90, busy.HorizonDays)
		require.Equal(t, []response.BusyRangeResponse{{Start: s.day(10), End: s.day(13), Status: "pending"}}, busy.Ranges)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(roomBusyURL, roomID)+"?horizon_days=5", nil, "")
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &busy)
		require.Empty(t, busy.Ranges)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(roomBusyURL, roomID)+"?horizon_days=366", nil, "")
		httptest.AssertErrorCode(t, w, http.StatusBadRequest, "invalid_horizon")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(roomPriceURL, roomID, s.day(10), s.day(13)), nil, "")
		var quote response.PriceQuoteResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &quote)
		require.Equal(t, int64(15000), quote.TotalPriceMinor)
	})
}
