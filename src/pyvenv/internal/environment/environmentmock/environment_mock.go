// Package environmentmock provides GoMock mocks of the interfaces in ../environment.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with environment.go when those interfaces change.
package environmentmock

import (
	reflect "reflect"

	environment "github.com/uber/pyvenv/src/pyvenv/internal/environment"
	gomock "go.uber.org/mock/gomock"
)

// MockEnvironment is a mock of Environment interface.
type MockEnvironment struct {
	ctrl     *gomock.Controller
	recorder *MockEnvironmentMockRecorder
	isgomock struct{}
}

// MockEnvironmentMockRecorder is the mock recorder for MockEnvironment.
type MockEnvironmentMockRecorder struct {
	mock *MockEnvironment
}

// NewMockEnvironment creates a new mock instance.
func NewMockEnvironment(ctrl *gomock.Controller) *MockEnvironment {
	mock := &MockEnvironment{ctrl: ctrl}
	mock.recorder = &MockEnvironmentMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockEnvironment) EXPECT() *MockEnvironmentMockRecorder {
	return m.recorder
}

// Environ mocks base method.
func (m *MockEnvironment) Environ() []string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Environ")
	ret0, _ := ret[0].([]string)
	return ret0
}

// Environ indicates an expected call of Environ.
func (mr *MockEnvironmentMockRecorder) Environ() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Environ", reflect.TypeOf((*MockEnvironment)(nil).Environ))
}

// Lookup mocks base method.
func (m *MockEnvironment) Lookup(key string) (string, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Lookup", key)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// Lookup indicates an expected call of Lookup.
func (mr *MockEnvironmentMockRecorder) Lookup(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Lookup", reflect.TypeOf((*MockEnvironment)(nil).Lookup), key)
}

// Restore mocks base method.
func (m *MockEnvironment) Restore(s environment.Snapshot) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Restore", s)
	ret0, _ := ret[0].(error)
	return ret0
}

// Restore indicates an expected call of Restore.
func (mr *MockEnvironmentMockRecorder) Restore(s any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Restore", reflect.TypeOf((*MockEnvironment)(nil).Restore), s)
}

// SearchPath mocks base method.
func (m *MockEnvironment) SearchPath() []string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SearchPath")
	ret0, _ := ret[0].([]string)
	return ret0
}

// SearchPath indicates an expected call of SearchPath.
func (mr *MockEnvironmentMockRecorder) SearchPath() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SearchPath", reflect.TypeOf((*MockEnvironment)(nil).SearchPath))
}

// Set mocks base method.
func (m *MockEnvironment) Set(key string, value string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Set", key, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// Set indicates an expected call of Set.
func (mr *MockEnvironmentMockRecorder) Set(key, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Set", reflect.TypeOf((*MockEnvironment)(nil).Set), key, value)
}

// SetSearchPath mocks base method.
func (m *MockEnvironment) SetSearchPath(dirs []string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetSearchPath", dirs)
}

// SetSearchPath indicates an expected call of SetSearchPath.
func (mr *MockEnvironmentMockRecorder) SetSearchPath(dirs any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetSearchPath", reflect.TypeOf((*MockEnvironment)(nil).SetSearchPath), dirs)
}

// Snapshot mocks base method.
func (m *MockEnvironment) Snapshot() environment.Snapshot {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Snapshot")
	ret0, _ := ret[0].(environment.Snapshot)
	return ret0
}

// Snapshot indicates an expected call of Snapshot.
func (mr *MockEnvironmentMockRecorder) Snapshot() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Snapshot", reflect.TypeOf((*MockEnvironment)(nil).Snapshot))
}

// Unset mocks base method.
func (m *MockEnvironment) Unset(key string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Unset", key)
	ret0, _ := ret[0].(error)
	return ret0
}

// Unset indicates an expected call of Unset.
func (mr *MockEnvironmentMockRecorder) Unset(key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Unset", reflect.TypeOf((*MockEnvironment)(nil).Unset), key)
}
