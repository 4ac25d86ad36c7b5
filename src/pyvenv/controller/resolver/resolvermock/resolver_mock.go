// Package resolvermock provides GoMock mocks of the interfaces in ../resolver.go.
// The file is maintained by hand in mockgen's layout and must be kept
// in step with resolver.go when those interfaces change.
package resolvermock

import (
	context "context"
	reflect "reflect"

	uuid "github.com/gofrs/uuid"
	resolver "github.com/uber/pyvenv/src/pyvenv/controller/resolver"
	entity "github.com/uber/pyvenv/src/pyvenv/entity"
	gomock "go.uber.org/mock/gomock"
)

// MockResolver is a mock of Resolver interface.
type MockResolver struct {
	ctrl     *gomock.Controller
	recorder *MockResolverMockRecorder
	isgomock struct{}
}

// MockResolverMockRecorder is the mock recorder for MockResolver.
type MockResolverMockRecorder struct {
	mock *MockResolver
}

// NewMockResolver creates a new mock instance.
func NewMockResolver(ctrl *gomock.Controller) *MockResolver {
	mock := &MockResolver{ctrl: ctrl}
	mock.recorder = &MockResolverMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockResolver) EXPECT() *MockResolverMockRecorder {
	return m.recorder
}

// Detect mocks base method.
func (m *MockResolver) Detect(ctx context.Context, dir string) (resolver.Detection, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Detect", ctx, dir)
	ret0, _ := ret[0].(resolver.Detection)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// Detect indicates an expected call of Detect.
func (mr *MockResolverMockRecorder) Detect(ctx, dir any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Detect", reflect.TypeOf((*MockResolver)(nil).Detect), ctx, dir)
}

// Register mocks base method.
func (m *MockResolver) Register(s resolver.Strategy) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Register", s)
	ret0, _ := ret[0].(error)
	return ret0
}

// Register indicates an expected call of Register.
func (mr *MockResolverMockRecorder) Register(s any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Register", reflect.TypeOf((*MockResolver)(nil).Register), s)
}

// Resolve mocks base method.
func (m *MockResolver) Resolve(ctx context.Context, id uuid.UUID, refresh bool) (entity.VenvPath, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Resolve", ctx, id, refresh)
	ret0, _ := ret[0].(entity.VenvPath)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Resolve indicates an expected call of Resolve.
func (mr *MockResolverMockRecorder) Resolve(ctx, id, refresh any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Resolve", reflect.TypeOf((*MockResolver)(nil).Resolve), ctx, id, refresh)
}

// Strategies mocks base method.
func (m *MockResolver) Strategies() []string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Strategies")
	ret0, _ := ret[0].([]string)
	return ret0
}

// Strategies indicates an expected call of Strategies.
func (mr *MockResolverMockRecorder) Strategies() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Strategies", reflect.TypeOf((*MockResolver)(nil).Strategies))
}

// Unregister mocks base method.
func (m *MockResolver) Unregister(name string) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Unregister", name)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Unregister indicates an expected call of Unregister.
func (mr *MockResolverMockRecorder) Unregister(name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Unregister", reflect.TypeOf((*MockResolver)(nil).Unregister), name)
}

// Reorder mocks base method.
func (m *MockResolver) Reorder(names ...string) error {
	m.ctrl.T.Helper()
	varargs := []any{}
	for _, a := range names {
		varargs = append(varargs, a)
	}
	ret := m.ctrl.Call(m, "Reorder", varargs...)
	ret0, _ := ret[0].(error)
	return ret0
}

// Reorder indicates an expected call of Reorder.
func (mr *MockResolverMockRecorder) Reorder(names ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reorder", reflect.TypeOf((*MockResolver)(nil).Reorder), names...)
}
