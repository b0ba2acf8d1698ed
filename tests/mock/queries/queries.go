// Mocks in the shape produced by mockgen; regenerate with go generate ./internal/usecase/...

package queriesmock

import (
	context "context"
	iter "iter"
	reflect "reflect"
	time "time"

	queries "sanatorium-booking/internal/usecase/queries"
	shared "sanatorium-booking/internal/usecase/shared"

	uuid "github.com/google/uuid"
	gomock "go.uber.org/mock/gomock"
)

// MockReservationQueries is a mock of ReservationQueries interface.
type MockReservationQueries struct {
	ctrl     *gomock.Controller
	recorder *MockReservationQueriesMockRecorder
	isgomock struct{}
}

// MockReservationQueriesMockRecorder is the mock recorder for MockReservationQueries.
type MockReservationQueriesMockRecorder struct {
	mock *MockReservationQueries
}

// NewMockReservationQueries creates a new mock instance.
func NewMockReservationQueries(ctrl *gomock.Controller) *MockReservationQueries {
	mock := &MockReservationQueries{ctrl: ctrl}
	mock.recorder = &MockReservationQueriesMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReservationQueries) EXPECT() *MockReservationQueriesMockRecorder {
	return m.recorder
}

// GetByID mocks base method.
func (m *MockReservationQueries) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, actor, id)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockReservationQueriesMockRecorder) GetByID(ctx, actor, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockReservationQueries)(nil).GetByID), ctx, actor, id)
}

// GetByIDSystem mocks base method.
func (m *MockReservationQueries) GetByIDSystem(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIDSystem", ctx, id)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByIDSystem indicates an expected call of GetByIDSystem.
func (mr *MockReservationQueriesMockRecorder) GetByIDSystem(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIDSystem", reflect.TypeOf((*MockReservationQueries)(nil).GetByIDSystem), ctx, id)
}

// ListByOwner mocks base method.
func (m *MockReservationQueries) ListByOwner(ctx context.Context, ownerID uuid.UUID, after *queries.Cursor, limit int) ([]*queries.ReservationView, *queries.Cursor, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByOwner", ctx, ownerID, after, limit)
	ret0, _ := ret[0].([]*queries.ReservationView)
	ret1, _ := ret[1].(*queries.Cursor)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// ListByOwner indicates an expected call of ListByOwner.
func (mr *MockReservationQueriesMockRecorder) ListByOwner(ctx, ownerID, after, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByOwner", reflect.TypeOf((*MockReservationQueries)(nil).ListByOwner), ctx, ownerID, after, limit)
}

// ListForStaff mocks base method.
func (m *MockReservationQueries) ListForStaff(ctx context.Context, filter queries.StaffFilter) ([]*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListForStaff", ctx, filter)
	ret0, _ := ret[0].([]*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListForStaff indicates an expected call of ListForStaff.
func (mr *MockReservationQueriesMockRecorder) ListForStaff(ctx, filter any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListForStaff", reflect.TypeOf((*MockReservationQueries)(nil).ListForStaff), ctx, filter)
}

// MockRoomQueries is a mock of RoomQueries interface.
type MockRoomQueries struct {
	ctrl     *gomock.Controller
	recorder *MockRoomQueriesMockRecorder
	isgomock struct{}
}

// MockRoomQueriesMockRecorder is the mock recorder for MockRoomQueries.
type MockRoomQueriesMockRecorder struct {
	mock *MockRoomQueries
}

// NewMockRoomQueries creates a new mock instance.
func NewMockRoomQueries(ctrl *gomock.Controller) *MockRoomQueries {
	mock := &MockRoomQueries{ctrl: ctrl}
	mock.recorder = &MockRoomQueriesMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRoomQueries) EXPECT() *MockRoomQueriesMockRecorder {
	return m.recorder
}

// Get mocks base method.
func (m *MockRoomQueries) Get(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*queries.RoomView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockRoomQueriesMockRecorder) Get(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockRoomQueries)(nil).Get), ctx, id)
}

// ListActive mocks base method.
func (m *MockRoomQueries) ListActive(ctx context.Context) ([]*queries.RoomView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListActive", ctx)
	ret0, _ := ret[0].([]*queries.RoomView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListActive indicates an expected call of ListActive.
func (mr *MockRoomQueriesMockRecorder) ListActive(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListActive", reflect.TypeOf((*MockRoomQueries)(nil).ListActive), ctx)
}

// MockAvailabilityQueries is a mock of AvailabilityQueries interface.
type MockAvailabilityQueries struct {
	ctrl     *gomock.Controller
	recorder *MockAvailabilityQueriesMockRecorder
	isgomock struct{}
}

// MockAvailabilityQueriesMockRecorder is the mock recorder for MockAvailabilityQueries.
type MockAvailabilityQueriesMockRecorder struct {
	mock *MockAvailabilityQueries
}

// NewMockAvailabilityQueries creates a new mock instance.
func NewMockAvailabilityQueries(ctrl *gomock.Controller) *MockAvailabilityQueries {
	mock := &MockAvailabilityQueries{ctrl: ctrl}
	mock.recorder = &MockAvailabilityQueriesMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAvailabilityQueries) EXPECT() *MockAvailabilityQueriesMockRecorder {
	return m.recorder
}

// ComputePrice mocks base method.
func (m *MockAvailabilityQueries) ComputePrice(ctx context.Context, roomID uuid.UUID, checkIn time.Time, checkOut time.Time) (*queries.PriceQuote, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ComputePrice", ctx, roomID, checkIn, checkOut)
	ret0, _ := ret[0].(*queries.PriceQuote)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ComputePrice indicates an expected call of ComputePrice.
func (mr *MockAvailabilityQueriesMockRecorder) ComputePrice(ctx, roomID, checkIn, checkOut any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ComputePrice", reflect.TypeOf((*MockAvailabilityQueries)(nil).ComputePrice), ctx, roomID, checkIn, checkOut)
}

// IsAvailable mocks base method.
func (m *MockAvailabilityQueries) IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn time.Time, checkOut time.Time, excluding *uuid.UUID) (*queries.Availability, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsAvailable", ctx, roomID, checkIn, checkOut, excluding)
	ret0, _ := ret[0].(*queries.Availability)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// IsAvailable indicates an expected call of IsAvailable.
func (mr *MockAvailabilityQueriesMockRecorder) IsAvailable(ctx, roomID, checkIn, checkOut, excluding any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsAvailable", reflect.TypeOf((*MockAvailabilityQueries)(nil).IsAvailable), ctx, roomID, checkIn, checkOut, excluding)
}

// MockCalendarQueries is a mock of CalendarQueries interface.
type MockCalendarQueries struct {
	ctrl     *gomock.Controller
	recorder *MockCalendarQueriesMockRecorder
	isgomock struct{}
}

// MockCalendarQueriesMockRecorder is the mock recorder for MockCalendarQueries.
type MockCalendarQueriesMockRecorder struct {
	mock *MockCalendarQueries
}

// NewMockCalendarQueries creates a new mock instance.
func NewMockCalendarQueries(ctrl *gomock.Controller) *MockCalendarQueries {
	mock := &MockCalendarQueries{ctrl: ctrl}
	mock.recorder = &MockCalendarQueriesMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCalendarQueries) EXPECT() *MockCalendarQueriesMockRecorder {
	return m.recorder
}

// BusyRanges mocks base method.
func (m *MockCalendarQueries) BusyRanges(ctx context.Context, roomID uuid.UUID, horizonDays int) (iter.Seq2[queries.BusyRange, error], error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BusyRanges", ctx, roomID, horizonDays)
	ret0, _ := ret[0].(iter.Seq2[queries.BusyRange, error])
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// BusyRanges indicates an expected call of BusyRanges.
func (mr *MockCalendarQueriesMockRecorder) BusyRanges(ctx, roomID, horizonDays any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BusyRanges", reflect.TypeOf((*MockCalendarQueries)(nil).BusyRanges), ctx, roomID, horizonDays)
}
