package activator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uber-go/tally"
	"github.com/uber/pyvenv/src/pyvenv/internal/environment"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "activator"

// levelKey carries the mutex that serializes activations nested directly
// inside one activation.
type levelKey struct{}

// Activator runs units of work with a venv overlaid on the environment.
type Activator interface {
	// Run snapshots the environment, activates venvPath (nothing when empty),
	// runs work and restores the snapshot on every exit path. work's error is
	// returned unchanged, and a panic in work is re-raised after restoration.
	Run(ctx context.Context, venvPath string, work func(ctx context.Context) error) error
}

// Params are inbound parameters to initialize a new activator.
type Params struct {
	fx.In

	Env    environment.Environment
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type activator struct {
	env    environment.Environment
	logger *zap.SugaredLogger
	stats  tally.Scope

	// mu serializes top-level activations. Each activation hands its work a
	// fresh mutex through ctx, and activations nested inside it lock that one,
	// so siblings are serialized and never wait on their parent.
	mu sync.Mutex
}

// New creates an activator over the injected environment.
func New(p Params) Activator {
	return &activator{
		env:    p.Env,
		logger: p.Logger.With("plugin", _nameKey),
		stats:  p.Stats.SubScope(_nameKey),
	}
}

// Run is Run for work that produces a value.
func Run[T any](ctx context.Context, a Activator, venvPath string, work func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := a.Run(ctx, venvPath, func(ctx context.Context) error {
		var err error
		result, err = work(ctx)
		return err
	})
	return result, err
}

// IsActive reports whether ctx was passed down from an activation.
func IsActive(ctx context.Context) bool {
	_, ok := ctx.Value(levelKey{}).(*sync.Mutex)
	return ok
}

func (a *activator) Run(ctx context.Context, venvPath string, work func(ctx context.Context) error) error {
	lock := &a.mu
	if parent, ok := ctx.Value(levelKey{}).(*sync.Mutex); ok {
		lock = parent
	}
	lock.Lock()
	defer lock.Unlock()
	ctx = context.WithValue(ctx, levelKey{}, &sync.Mutex{})

	snapshot := a.env.Snapshot()
	defer a.restore(snapshot)

	if venvPath == "" {
		a.stats.Counter("passthrough").Inc(1)
	} else {
		if err := a.activate(venvPath); err != nil {
			return fmt.Errorf("activating %q: %w", venvPath, err)
		}
		a.stats.Counter("activations").Inc(1)
	}

	return work(ctx)
}

func (a *activator) activate(venvPath string) error {
	bin := filepath.Join(venvPath, "bin")
	a.env.SetSearchPath(append([]string{bin}, a.env.SearchPath()...))

	path := bin
	if old, ok := a.env.Lookup(environment.PathVar); ok && old != "" {
		path = strings.Join([]string{bin, old}, string(filepath.ListSeparator))
	}

	if err := a.env.Set(environment.VirtualEnvVar, venvPath); err != nil {
		return err
	}
	if err := a.env.Set(environment.PathVar, path); err != nil {
		return err
	}
	if err := a.env.Unset(environment.PythonHomeVar); err != nil {
		return err
	}
	a.logger.Debugw("activated venv", "venv", venvPath)
	return nil
}

// restore runs deferred, so it sees work's panic (if any) still in flight.
// Failing to restore leaves the process in an unknown state and is fatal.
func (a *activator) restore(snapshot environment.Snapshot) {
	if err := a.env.Restore(snapshot); err != nil {
		a.logger.Errorw("restoring environment failed", "error", err)
		panic(fmt.Sprintf("environment restoration failed: %v", err))
	}
}
