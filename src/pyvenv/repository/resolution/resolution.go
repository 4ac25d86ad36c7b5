package resolution

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/mapper"
	"github.com/uber/pyvenv/src/pyvenv/model"
)

// Repository stores one ResolutionContext per open context, keyed by UUID.
type Repository interface {
	Get(context.Context, uuid.UUID) (*entity.ResolutionContext, error)
	GetFromContext(ctx context.Context) (*entity.ResolutionContext, error)
	GetAllFromBaseDir(ctx context.Context, baseDir string) ([]*entity.ResolutionContext, error)
	Set(context.Context, *entity.ResolutionContext) error
	// Update applies fn to a copy of the stored context and saves the result atomically.
	Update(ctx context.Context, id uuid.UUID, fn func(*entity.ResolutionContext) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]*model.ResolutionContext
	stats    tally.Scope
}

// New returns a repository to a key-value ResolutionContext data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*model.ResolutionContext),
		stats:    stats.SubScope("resolution_repository"),
	}
}

// Get returns the ResolutionContext associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.ResolutionContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return mapper.ModelToResolutionContext(m)
}

// GetFromContext returns the ResolutionContext whose UUID is carried by ctx.
func (r *repository) GetFromContext(ctx context.Context) (*entity.ResolutionContext, error) {
	id, err := mapper.ContextToResolutionUUID(ctx)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Set saves the ResolutionContext under its UUID.
func (r *repository) Set(ctx context.Context, rc *entity.ResolutionContext) error {
	if rc == nil {
		return errors.NilContextError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.memstore[rc.UUID] = mapper.ResolutionContextToModel(rc)
	r.stats.Gauge("contexts").Update(float64(len(r.memstore)))
	return nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, fn func(*entity.ResolutionContext) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[id]
	if !ok {
		return &errors.UUIDNotFoundError{UUID: id}
	}
	rc, err := mapper.ModelToResolutionContext(m)
	if err != nil {
		return err
	}
	if err := fn(rc); err != nil {
		return err
	}
	rc.UUID = id
	r.memstore[id] = mapper.ResolutionContextToModel(rc)
	return nil
}

// Delete removes the ResolutionContext associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.stats.Gauge("contexts").Update(float64(len(r.memstore)))
	return nil
}

// GetAllFromBaseDir returns all contexts opened for baseDir.
func (r *repository) GetAllFromBaseDir(ctx context.Context, baseDir string) ([]*entity.ResolutionContext, error) {
	found := make([]*entity.ResolutionContext, 0)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memstore {
		if m.BaseDir == baseDir {
			rc, err := mapper.ModelToResolutionContext(m)
			if err == nil {
				found = append(found, rc)
			}
		}
	}

	return found, nil
}
