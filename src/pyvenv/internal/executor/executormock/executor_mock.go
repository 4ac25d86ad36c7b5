// Package executormock provides GoMock mocks of the interfaces in ../executor.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with executor.go when those interfaces change.
package executormock

import (
	context "context"
	reflect "reflect"

	executor "github.com/uber/pyvenv/src/pyvenv/internal/executor"
	gomock "go.uber.org/mock/gomock"
)

// MockExecutor is a mock of Executor interface.
type MockExecutor struct {
	ctrl     *gomock.Controller
	recorder *MockExecutorMockRecorder
	isgomock struct{}
}

// MockExecutorMockRecorder is the mock recorder for MockExecutor.
type MockExecutorMockRecorder struct {
	mock *MockExecutor
}

// NewMockExecutor creates a new mock instance.
func NewMockExecutor(ctrl *gomock.Controller) *MockExecutor {
	mock := &MockExecutor{ctrl: ctrl}
	mock.recorder = &MockExecutorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockExecutor) EXPECT() *MockExecutorMockRecorder {
	return m.recorder
}

// Attach mocks base method.
func (m *MockExecutor) Attach(ctx context.Context, c executor.Command) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Attach", ctx, c)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Attach indicates an expected call of Attach.
func (mr *MockExecutorMockRecorder) Attach(ctx, c any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Attach", reflect.TypeOf((*MockExecutor)(nil).Attach), ctx, c)
}

// Output mocks base method.
func (m *MockExecutor) Output(ctx context.Context, c executor.Command) (executor.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Output", ctx, c)
	ret0, _ := ret[0].(executor.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Output indicates an expected call of Output.
func (mr *MockExecutorMockRecorder) Output(ctx, c any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Output", reflect.TypeOf((*MockExecutor)(nil).Output), ctx, c)
}
