// Package venvmock provides GoMock mocks of the interfaces in ../venv.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with venv.go when those interfaces change.
package venvmock

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

// ClearOverride mocks base method.
func (m *MockController) ClearOverride(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ClearOverride", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// ClearOverride indicates an expected call of ClearOverride.
func (mr *MockControllerMockRecorder) ClearOverride(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ClearOverride", reflect.TypeOf((*MockController)(nil).ClearOverride), ctx, id)
}

// Close mocks base method.
func (m *MockController) Close(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call of Close.
func (mr *MockControllerMockRecorder) Close(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockController)(nil).Close), ctx, id)
}

// Open mocks base method.
func (m *MockController) Open(ctx context.Context, baseDir string) (uuid.UUID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Open", ctx, baseDir)
	ret0, _ := ret[0].(uuid.UUID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Open indicates an expected call of Open.
func (mr *MockControllerMockRecorder) Open(ctx, baseDir any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Open", reflect.TypeOf((*MockController)(nil).Open), ctx, baseDir)
}

// Refresh mocks base method.
func (m *MockController) Refresh(ctx context.Context, id uuid.UUID) (entity.Status, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Refresh", ctx, id)
	ret0, _ := ret[0].(entity.Status)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Refresh indicates an expected call of Refresh.
func (mr *MockControllerMockRecorder) Refresh(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Refresh", reflect.TypeOf((*MockController)(nil).Refresh), ctx, id)
}

// Run mocks base method.
func (m *MockController) Run(ctx context.Context, id uuid.UUID, work func(context.Context) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", ctx, id, work)
	ret0, _ := ret[0].(error)
	return ret0
}

// Run indicates an expected call of Run.
func (mr *MockControllerMockRecorder) Run(ctx, id, work any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockController)(nil).Run), ctx, id, work)
}

// SetOverride mocks base method.
func (m *MockController) SetOverride(ctx context.Context, id uuid.UUID, path string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetOverride", ctx, id, path)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetOverride indicates an expected call of SetOverride.
func (mr *MockControllerMockRecorder) SetOverride(ctx, id, path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetOverride", reflect.TypeOf((*MockController)(nil).SetOverride), ctx, id, path)
}

// Status mocks base method.
func (m *MockController) Status(ctx context.Context, id uuid.UUID) (entity.Status, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Status", ctx, id)
	ret0, _ := ret[0].(entity.Status)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Status indicates an expected call of Status.
func (mr *MockControllerMockRecorder) Status(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Status", reflect.TypeOf((*MockController)(nil).Status), ctx, id)
}
