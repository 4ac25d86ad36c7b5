package venv

import (
	"context"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
)

// Registry holds functions that always run with a venv activated, by name.
// Hosts that cannot compose AlwaysWithVenv at the call site register here
// instead, and can list or remove what they registered.
type Registry struct {
	ctrl Controller

	mu  sync.RWMutex
	fns map[string]func(ctx context.Context) error
}

// NewRegistry creates an empty registry that activates through ctrl.
func NewRegistry(ctrl Controller) *Registry {
	return &Registry{
		ctrl: ctrl,
		fns:  make(map[string]func(ctx context.Context) error),
	}
}

// Register adds fn under name, replacing any previous registration.
func (r *Registry) Register(name string, fn func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
}

// Unregister removes name and reports whether it was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.fns[name]
	delete(r.fns, name)
	return ok
}

// Registered lists registered names in sorted order.
func (r *Registry) Registered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the function registered as name with the venv of context id
// activated. Called from inside a Run, a nil id reuses that Run's context.
func (r *Registry) Call(ctx context.Context, id uuid.UUID, name string) error {
	r.mu.RLock()
	fn, ok := r.fns[name]
	r.mu.RUnlock()
	if !ok {
		return &errors.UnregisteredFunctionError{Name: name}
	}
	return r.ctrl.Run(ctx, id, fn)
}
