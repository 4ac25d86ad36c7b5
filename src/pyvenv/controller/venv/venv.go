package venv

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/pyvenv/src/pyvenv/controller/activator"
	"github.com/uber/pyvenv/src/pyvenv/controller/resolver"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/internal/fs"
	"github.com/uber/pyvenv/src/pyvenv/mapper"
	"github.com/uber/pyvenv/src/pyvenv/repository/resolution"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "venv"

// Controller is the entry point for hosts: it owns resolution contexts and
// runs work with the venv of a context activated.
type Controller interface {
	// Open starts tracking a context rooted at baseDir and returns its handle.
	Open(ctx context.Context, baseDir string) (uuid.UUID, error)
	// Close forgets a context and its cached resolution.
	Close(ctx context.Context, id uuid.UUID) error
	// SetOverride pins the venv of a context. An empty path disables activation.
	SetOverride(ctx context.Context, id uuid.UUID, path string) error
	// ClearOverride returns a context to detection.
	ClearOverride(ctx context.Context, id uuid.UUID) error
	// Refresh discards the cached result of the context, and of every other
	// context on the same base directory, then searches again.
	Refresh(ctx context.Context, id uuid.UUID) (entity.Status, error)
	// Status reports the current resolution without searching.
	Status(ctx context.Context, id uuid.UUID) (entity.Status, error)
	// Run resolves the venv of the context and runs work with it activated. A
	// nil id selects the context of the enclosing Run, taken from ctx.
	Run(ctx context.Context, id uuid.UUID, work func(ctx context.Context) error) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Contexts  resolution.Repository
	Resolver  resolver.Resolver
	Activator activator.Activator
	FS        fs.PyvenvFS
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type controller struct {
	contexts  resolution.Repository
	resolver  resolver.Resolver
	activator activator.Activator
	fs        fs.PyvenvFS
	logger    *zap.SugaredLogger
	stats     tally.Scope
}

// New creates a venv controller.
func New(p Params) Controller {
	return &controller{
		contexts:  p.Contexts,
		resolver:  p.Resolver,
		activator: p.Activator,
		fs:        p.FS,
		logger:    p.Logger.With("plugin", _nameKey),
		stats:     p.Stats.SubScope(_nameKey),
	}
}

func (c *controller) Open(ctx context.Context, baseDir string) (uuid.UUID, error) {
	if baseDir == "" {
		return uuid.Nil, errors.EmptyBaseDirError
	}
	dir, err := c.fs.Abs(baseDir)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving base directory %q: %w", baseDir, err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating context id: %w", err)
	}
	if err := c.contexts.Set(ctx, &entity.ResolutionContext{UUID: id, BaseDir: dir}); err != nil {
		return uuid.Nil, err
	}

	c.stats.Counter("open").Inc(1)
	c.logger.Debugw("opened context", "uuid", id, "baseDir", dir)
	return id, nil
}

func (c *controller) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := c.contexts.Get(ctx, id); err != nil {
		return err
	}
	c.logger.Debugw("closed context", "uuid", id)
	return c.contexts.Delete(ctx, id)
}

func (c *controller) SetOverride(ctx context.Context, id uuid.UUID, path string) error {
	return c.contexts.Update(ctx, id, func(rc *entity.ResolutionContext) error {
		rc.Override = &path
		return nil
	})
}

func (c *controller) ClearOverride(ctx context.Context, id uuid.UUID) error {
	return c.contexts.Update(ctx, id, func(rc *entity.ResolutionContext) error {
		rc.Override = nil
		return nil
	})
}

func (c *controller) Refresh(ctx context.Context, id uuid.UUID) (entity.Status, error) {
	rc, err := c.contexts.Get(ctx, id)
	if err != nil {
		return entity.Status{}, err
	}

	// Contexts on one directory look at the same files, so their caches go stale together.
	siblings, err := c.contexts.GetAllFromBaseDir(ctx, rc.BaseDir)
	if err != nil {
		return entity.Status{}, err
	}
	for _, sibling := range siblings {
		if sibling.UUID == id {
			continue
		}
		err := c.contexts.Update(ctx, sibling.UUID, func(stored *entity.ResolutionContext) error {
			stored.Venv = entity.VenvPath{}
			stored.TypeLabel = ""
			return nil
		})
		if _, closed := errors.NotFoundUUID(err); err != nil && !closed {
			return entity.Status{}, err
		}
	}

	if _, err := c.resolver.Resolve(ctx, id, true); err != nil {
		return entity.Status{}, err
	}
	return c.Status(ctx, id)
}

func (c *controller) Status(ctx context.Context, id uuid.UUID) (entity.Status, error) {
	rc, err := c.contexts.Get(ctx, id)
	if err != nil {
		return entity.Status{}, err
	}

	status := mapper.ResolutionContextToStatus(rc)
	if rc.HasOverride() {
		// The cached search result is kept for when the override is cleared.
		status.TypeLabel = ""
		status.Venv = entity.NotFound()
		if *rc.Override != "" {
			status.Venv = entity.Found(*rc.Override)
		}
	}
	return status, nil
}

func (c *controller) Run(ctx context.Context, id uuid.UUID, work func(ctx context.Context) error) error {
	if id == uuid.Nil {
		rc, err := c.contexts.GetFromContext(ctx)
		if err != nil {
			return err
		}
		id = rc.UUID
	}

	venv, err := c.resolver.Resolve(ctx, id, false)
	if err != nil {
		return err
	}
	ctx = context.WithValue(ctx, entity.ResolutionContextKey, id)
	return c.activator.Run(ctx, venv.ActivationPath(), work)
}

// RunWithVenv is Controller.Run for work that produces a value.
func RunWithVenv[T any](ctx context.Context, c Controller, id uuid.UUID, work func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := c.Run(ctx, id, func(ctx context.Context) error {
		var err error
		result, err = work(ctx)
		return err
	})
	return result, err
}

// AlwaysWithVenv wraps fn so that every call runs with the venv of the context activated.
func AlwaysWithVenv[T any](c Controller, id uuid.UUID, fn func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return RunWithVenv(ctx, c, id, fn)
	}
}
