// Package activatormock provides GoMock mocks of the interfaces in ../activator.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with activator.go when those interfaces change.
package activatormock

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockActivator is a mock of Activator interface.
type MockActivator struct {
	ctrl     *gomock.Controller
	recorder *MockActivatorMockRecorder
	isgomock struct{}
}

// MockActivatorMockRecorder is the mock recorder for MockActivator.
type MockActivatorMockRecorder struct {
	mock *MockActivator
}

// NewMockActivator creates a new mock instance.
func NewMockActivator(ctrl *gomock.Controller) *MockActivator {
	mock := &MockActivator{ctrl: ctrl}
	mock.recorder = &MockActivatorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockActivator) EXPECT() *MockActivatorMockRecorder {
	return m.recorder
}

// Run mocks base method.
func (m *MockActivator) Run(ctx context.Context, venvPath string, work func(context.Context) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", ctx, venvPath, work)
	ret0, _ := ret[0].(error)
	return ret0
}

// Run indicates an expected call of Run.
func (mr *MockActivatorMockRecorder) Run(ctx, venvPath, work any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockActivator)(nil).Run), ctx, venvPath, work)
}
