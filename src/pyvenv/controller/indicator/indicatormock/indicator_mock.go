// Package indicatormock provides GoMock mocks of the interfaces in ../indicator.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with indicator.go when those interfaces change.
package indicatormock

import (
	context "context"
	reflect "reflect"

	uuid "github.com/gofrs/uuid"
	entity "github.com/uber/pyvenv/src/pyvenv/entity"
	gomock "go.uber.org/mock/gomock"
)

// MockController is a mock of Controller interface.
type MockController struct {
	ctrl     *gomock.Controller
	recorder *MockControllerMockRecorder
	isgomock struct{}
}

// MockControllerMockRecorder is the mock recorder for MockController.
type MockControllerMockRecorder struct {
	mock *MockController
}

// NewMockController creates a new mock instance.
func NewMockController(ctrl *gomock.Controller) *MockController {
	mock := &MockController{ctrl: ctrl}
	mock.recorder = &MockControllerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockController) EXPECT() *MockControllerMockRecorder {
	return m.recorder
}

// Indicator mocks base method.
func (m *MockController) Indicator(ctx context.Context, id uuid.UUID) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Indicator", ctx, id)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Indicator indicates an expected call of Indicator.
func (mr *MockControllerMockRecorder) Indicator(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Indicator", reflect.TypeOf((*MockController)(nil).Indicator), ctx, id)
}

// Watch mocks base method.
func (m *MockController) Watch(ctx context.Context, id uuid.UUID, emit func(entity.Status)) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Watch", ctx, id, emit)
	ret0, _ := ret[0].(error)
	return ret0
}

// Watch indicates an expected call of Watch.
func (mr *MockControllerMockRecorder) Watch(ctx, id, emit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Watch", reflect.TypeOf((*MockController)(nil).Watch), ctx, id, emit)
}
