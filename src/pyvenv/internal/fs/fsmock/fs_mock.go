// Package fsmock provides GoMock mocks of the interfaces in ../fs.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with fs.go when those interfaces change.
package fsmock

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockPyvenvFS is a mock of PyvenvFS interface.
type MockPyvenvFS struct {
	ctrl     *gomock.Controller
	recorder *MockPyvenvFSMockRecorder
	isgomock struct{}
}

// MockPyvenvFSMockRecorder is the mock recorder for MockPyvenvFS.
type MockPyvenvFSMockRecorder struct {
	mock *MockPyvenvFS
}

// NewMockPyvenvFS creates a new mock instance.
func NewMockPyvenvFS(ctrl *gomock.Controller) *MockPyvenvFS {
	mock := &MockPyvenvFS{ctrl: ctrl}
	mock.recorder = &MockPyvenvFSMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPyvenvFS) EXPECT() *MockPyvenvFSMockRecorder {
	return m.recorder
}

// Abs mocks base method.
func (m *MockPyvenvFS) Abs(path string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Abs", path)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Abs indicates an expected call of Abs.
func (mr *MockPyvenvFSMockRecorder) Abs(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Abs", reflect.TypeOf((*MockPyvenvFS)(nil).Abs), path)
}

// DirExists mocks base method.
func (m *MockPyvenvFS) DirExists(path string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DirExists", path)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DirExists indicates an expected call of DirExists.
func (mr *MockPyvenvFSMockRecorder) DirExists(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DirExists", reflect.TypeOf((*MockPyvenvFS)(nil).DirExists), path)
}

// FileExists mocks base method.
func (m *MockPyvenvFS) FileExists(path string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FileExists", path)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FileExists indicates an expected call of FileExists.
func (mr *MockPyvenvFSMockRecorder) FileExists(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FileExists", reflect.TypeOf((*MockPyvenvFS)(nil).FileExists), path)
}

// Getwd mocks base method.
func (m *MockPyvenvFS) Getwd() (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Getwd")
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Getwd indicates an expected call of Getwd.
func (mr *MockPyvenvFSMockRecorder) Getwd() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Getwd", reflect.TypeOf((*MockPyvenvFS)(nil).Getwd))
}

// IsExecutable mocks base method.
func (m *MockPyvenvFS) IsExecutable(path string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsExecutable", path)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// IsExecutable indicates an expected call of IsExecutable.
func (mr *MockPyvenvFSMockRecorder) IsExecutable(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsExecutable", reflect.TypeOf((*MockPyvenvFS)(nil).IsExecutable), path)
}

// MkdirAll mocks base method.
func (m *MockPyvenvFS) MkdirAll(path string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MkdirAll", path)
	ret0, _ := ret[0].(error)
	return ret0
}

// MkdirAll indicates an expected call of MkdirAll.
func (mr *MockPyvenvFSMockRecorder) MkdirAll(path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MkdirAll", reflect.TypeOf((*MockPyvenvFS)(nil).MkdirAll), path)
}

// ProjectRoot mocks base method.
func (m *MockPyvenvFS) ProjectRoot(ctx context.Context, path string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ProjectRoot", ctx, path)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ProjectRoot indicates an expected call of ProjectRoot.
func (mr *MockPyvenvFSMockRecorder) ProjectRoot(ctx, path any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProjectRoot", reflect.TypeOf((*MockPyvenvFS)(nil).ProjectRoot), ctx, path)
}

// Which mocks base method.
func (m *MockPyvenvFS) Which(dirs []string, name string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Which", dirs, name)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Which indicates an expected call of Which.
func (mr *MockPyvenvFSMockRecorder) Which(dirs, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Which", reflect.TypeOf((*MockPyvenvFS)(nil).Which), dirs, name)
}
