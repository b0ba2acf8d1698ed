// Mocks in the shape produced by mockgen; regenerate with go generate ./internal/usecase/...

package commandsmock

import (
	context "context"
	reflect "reflect"

	commands "sanatorium-booking/internal/usecase/commands"
	queries "sanatorium-booking/internal/usecase/queries"
	shared "sanatorium-booking/internal/usecase/shared"

	uuid "github.com/google/uuid"
	gomock "go.uber.org/mock/gomock"
)

// MockReservationCommands is a mock of ReservationCommands interface.
type MockReservationCommands struct {
	ctrl     *gomock.Controller
	recorder *MockReservationCommandsMockRecorder
	isgomock struct{}
}

// MockReservationCommandsMockRecorder is the mock recorder for MockReservationCommands.
type MockReservationCommandsMockRecorder struct {
	mock *MockReservationCommands
}

// NewMockReservationCommands creates a new mock instance.
func NewMockReservationCommands(ctrl *gomock.Controller) *MockReservationCommands {
	mock := &MockReservationCommands{ctrl: ctrl}
	mock.recorder = &MockReservationCommandsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReservationCommands) EXPECT() *MockReservationCommandsMockRecorder {
	return m.recorder
}

// Cancel mocks base method.
func (m *MockReservationCommands) Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Cancel", ctx, id, actor)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Cancel indicates an expected call of Cancel.
func (mr *MockReservationCommandsMockRecorder) Cancel(ctx, id, actor any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Cancel", reflect.TypeOf((*MockReservationCommands)(nil).Cancel), ctx, id, actor)
}

// Complete mocks base method.
func (m *MockReservationCommands) Complete(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Complete", ctx, id)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Complete indicates an expected call of Complete.
func (mr *MockReservationCommandsMockRecorder) Complete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Complete", reflect.TypeOf((*MockReservationCommands)(nil).Complete), ctx, id)
}

// Confirm mocks base method.
func (m *MockReservationCommands) Confirm(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Confirm", ctx, id)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Confirm indicates an expected call of Confirm.
func (mr *MockReservationCommandsMockRecorder) Confirm(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Confirm", reflect.TypeOf((*MockReservationCommands)(nil).Confirm), ctx, id)
}

// Create mocks base method.
func (m *MockReservationCommands) Create(ctx context.Context, in commands.CreateReservationInput, ownerID uuid.UUID, idempotencyKey *uuid.UUID) (*commands.CreateReservationResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, in, ownerID, idempotencyKey)
	ret0, _ := ret[0].(*commands.CreateReservationResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Create indicates an expected call of Create.
func (mr *MockReservationCommandsMockRecorder) Create(ctx, in, ownerID, idempotencyKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockReservationCommands)(nil).Create), ctx, in, ownerID, idempotencyKey)
}
