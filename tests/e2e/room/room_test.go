//go:build e2e

package room_test

import (
	"net/http"
	"testing"

	"sanatorium-booking/internal/domain/room"
	"sanatorium-booking/internal/handler/dto/response"
	"sanatorium-booking/tests/common/builder"
	"sanatorium-booking/tests/common/dbtest"
	"sanatorium-booking/tests/common/httptest"
	"sanatorium-booking/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const roomsURL = "/api/rooms"

type RoomSuite struct {
	e2e.SharedSuite
}

func TestRoomSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RoomSuite))
}

// =============================================================================
// TestListRooms
// =============================================================================

func (s *RoomSuite) TestListRooms() {
	s.Run("Ordered by category rank then name", func() {
		t := s.T()
		// Names are chosen so that alphabetical category order would differ from rank order.
		dbtest.CreateTestRoom(t, s.DB, builder.NewRoomBuilder().WithCategory(room.CategoryComfort).WithName("Aurora Comfort"))
		dbtest.CreateTestRoom(t, s.DB, builder.NewRoomBuilder().WithCategory(room.CategoryStandard).WithName("Zenith Standard"))
		dbtest.CreateTestRoom(t, s.DB, builder.NewRoomBuilder().WithCategory(room.CategoryDeluxe).WithName("Birch Deluxe"))
		hidden := dbtest.CreateTestRoom(t, s.DB, builder.NewRoomBuilder().WithCategory(room.CategoryStandard).WithName("Annex Standard"))
		dbtest.SetRoomActive(t, s.DB, hidden, false)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, roomsURL, nil, "")
		var rooms []response.RoomResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &rooms)

		type listed struct{ Category, Name string }
		got := make([]listed, len(rooms))
		for i, r := range rooms {
			got[i] = listed{r.Category, r.Name}
		}
		require.Equal(t, []listed{
			{"standard", "Reference Standard"},
			{"standard", "Zenith Standard"},
			{"comfort", "Aurora Comfort"},
			{"deluxe", "Birch Deluxe"},
			{"deluxe", "Reference Deluxe"},
		}, got)
	})

	s.Run("Inactive room is still readable by id", func() {
		t := s.T()
		id := dbtest.CreateTestRoom(t, s.DB, builder.NewRoomBuilder().AsInactive())

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, roomsURL+"/"+id.String(), nil, "")
		var got response.RoomResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.False(t, got.IsActive)
	})
}
