package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/environment"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/internal/executor"
	"github.com/uber/pyvenv/src/pyvenv/internal/fs"
	"github.com/uber/pyvenv/src/pyvenv/repository/resolution"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "resolver"

// Config configures venv detection.
type Config struct {
	// Strategies lists built-in strategy names in the order they are tried.
	Strategies   []string      `yaml:"strategies"`
	Interpreter  string        `yaml:"interpreter"`
	PrimaryDir   string        `yaml:"primaryDir"`
	AlternateDir string        `yaml:"alternateDir"`
	ToolTimeout  time.Duration `yaml:"toolTimeout"`
	Pipenv       ToolConfig    `yaml:"pipenv"`
	Poetry       ToolConfig    `yaml:"poetry"`
}

// ToolConfig configures an external package-manager query.
type ToolConfig struct {
	Binary string `yaml:"binary"`
}

// Detection is a successful strategy result.
type Detection struct {
	Path  string
	Label entity.TypeLabel
}

// DetectFunc inspects dir and reports a venv, if any. It must not fail: a
// strategy that cannot run simply reports no result.
type DetectFunc func(ctx context.Context, dir string) (Detection, bool)

// Strategy is a named detection method.
type Strategy struct {
	Name   string
	Detect DetectFunc
}

// Resolver determines the venv for a resolution context.
type Resolver interface {
	// Resolve returns the override, the cached result, or the result of a fresh
	// search when nothing is cached or refresh is set. The error is only
	// non-nil for an unknown context.
	Resolve(ctx context.Context, id uuid.UUID, refresh bool) (entity.VenvPath, error)
	// Detect runs the registered strategies against dir without touching any cache.
	Detect(ctx context.Context, dir string) (Detection, bool)

	// Register appends s, or replaces the strategy of the same name in place.
	Register(s Strategy) error
	// Unregister removes the named strategy and reports whether it was present.
	Unregister(name string) bool
	// Reorder moves the named strategies to the front, in the given order.
	Reorder(names ...string) error
	// Strategies lists registered strategy names in evaluation order.
	Strategies() []string
}

// Params are inbound parameters to initialize a new resolver.
type Params struct {
	fx.In

	Contexts resolution.Repository
	Logger   *zap.SugaredLogger
	Config   config.Provider
	Stats    tally.Scope
	FS       fs.PyvenvFS
	Executor executor.Executor
	Env      environment.Environment
}

type resolver struct {
	cfg      Config
	contexts resolution.Repository
	logger   *zap.SugaredLogger
	stats    tally.Scope
	fs       fs.PyvenvFS
	executor executor.Executor
	env      environment.Environment

	mu         sync.RWMutex
	strategies []Strategy
}

// New creates a resolver with the built-in strategies named in the configuration.
func New(p Params) (Resolver, error) {
	cfg := Config{}
	if err := p.Config.Get(entity.VenvConfigKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", entity.VenvConfigKey, err)
	}

	r := &resolver{
		cfg:      cfg,
		contexts: p.Contexts,
		logger:   p.Logger.With("plugin", _nameKey),
		stats:    p.Stats.SubScope("resolver"),
		fs:       p.FS,
		executor: p.Executor,
		env:      p.Env,
	}

	builtins := r.builtins()
	for _, name := range cfg.Strategies {
		s, ok := builtins[name]
		if !ok {
			return nil, &errors.UnknownStrategyError{Name: name}
		}
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *resolver) Resolve(ctx context.Context, id uuid.UUID, refresh bool) (entity.VenvPath, error) {
	rc, err := r.contexts.Get(ctx, id)
	if err != nil {
		return entity.VenvPath{}, err
	}

	if rc.HasOverride() {
		if *rc.Override == "" {
			return entity.NotFound(), nil
		}
		return entity.Found(*rc.Override), nil
	}

	if rc.Venv.IsResolved() && !refresh {
		r.stats.Counter("cache_hit").Inc(1)
		return rc.Venv, nil
	}

	if err := r.contexts.Update(ctx, id, func(stored *entity.ResolutionContext) error {
		stored.TypeLabel = ""
		return nil
	}); err != nil {
		return entity.VenvPath{}, err
	}

	r.stats.Counter("search").Inc(1)
	venv, label := entity.NotFound(), entity.TypeLabel("")
	if d, ok := r.Detect(ctx, rc.BaseDir); ok {
		venv, label = entity.Found(d.Path), d.Label
	} else {
		r.stats.Counter("not_found").Inc(1)
	}

	err = r.contexts.Update(ctx, id, func(stored *entity.ResolutionContext) error {
		stored.Venv = venv
		stored.TypeLabel = label
		return nil
	})
	if err != nil {
		return entity.VenvPath{}, err
	}

	r.logger.Debugw("resolved venv", "uuid", id, "baseDir", rc.BaseDir, "venv", venv.String(), "type", label)
	return venv, nil
}

func (r *resolver) Detect(ctx context.Context, dir string) (Detection, bool) {
	r.mu.RLock()
	strategies := make([]Strategy, len(r.strategies))
	copy(strategies, r.strategies)
	r.mu.RUnlock()

	for _, s := range strategies {
		if d, ok := s.Detect(ctx, dir); ok {
			r.stats.Tagged(map[string]string{"strategy": s.Name}).Counter("match").Inc(1)
			return d, true
		}
	}
	return Detection{}, false
}

func (r *resolver) Register(s Strategy) error {
	if s.Name == "" || s.Detect == nil {
		return fmt.Errorf("strategy requires a name and a detect function")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.strategies {
		if r.strategies[i].Name == s.Name {
			r.strategies[i] = s
			return nil
		}
	}
	r.strategies = append(r.strategies, s)
	return nil
}

func (r *resolver) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.strategies {
		if r.strategies[i].Name == name {
			r.strategies = append(r.strategies[:i:i], r.strategies[i+1:]...)
			return true
		}
	}
	return false
}

func (r *resolver) Reorder(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	front := make([]Strategy, 0, len(r.strategies))
	moved := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := moved[name]; dup {
			continue
		}
		idx := r.indexOf(name)
		if idx < 0 {
			return &errors.UnknownStrategyError{Name: name}
		}
		front = append(front, r.strategies[idx])
		moved[name] = struct{}{}
	}
	for _, s := range r.strategies {
		if _, ok := moved[s.Name]; !ok {
			front = append(front, s)
		}
	}
	r.strategies = front
	return nil
}

func (r *resolver) Strategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name)
	}
	return names
}

func (r *resolver) indexOf(name string) int {
	for i := range r.strategies {
		if r.strategies[i].Name == name {
			return i
		}
	}
	return -1
}
