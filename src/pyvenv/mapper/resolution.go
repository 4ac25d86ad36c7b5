// Package mapper converts between entities and their stored models.
package mapper

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/pyvenv/src/pyvenv/entity"
	"github.com/uber/pyvenv/src/pyvenv/internal/errors"
	"github.com/uber/pyvenv/src/pyvenv/model"
)

// ResolutionContextToModel copies a context into its stored form.
func ResolutionContextToModel(r *entity.ResolutionContext) *model.ResolutionContext {
	m := &model.ResolutionContext{
		UUID:      r.UUID,
		BaseDir:   r.BaseDir,
		VenvState: int(r.Venv.State),
		VenvPath:  r.Venv.Path,
		TypeLabel: string(r.TypeLabel),
	}
	if r.Override != nil {
		m.HasOverride = true
		m.Override = *r.Override
	}
	return m
}

// ModelToResolutionContext returns a fresh entity; callers may mutate it freely.
func ModelToResolutionContext(m *model.ResolutionContext) (*entity.ResolutionContext, error) {
	state := entity.VenvState(m.VenvState)
	if state < entity.VenvUnset || state > entity.VenvFound {
		return nil, fmt.Errorf("invalid venv state %d for %q", m.VenvState, m.UUID)
	}

	r := &entity.ResolutionContext{
		UUID:      m.UUID,
		BaseDir:   m.BaseDir,
		Venv:      entity.VenvPath{State: state, Path: m.VenvPath},
		TypeLabel: entity.TypeLabel(m.TypeLabel),
	}
	if m.HasOverride {
		override := m.Override
		r.Override = &override
	}
	return r, nil
}

// ResolutionContextToStatus builds the read-only view of a context.
func ResolutionContextToStatus(r *entity.ResolutionContext) entity.Status {
	return entity.Status{
		UUID:      r.UUID,
		BaseDir:   r.BaseDir,
		Venv:      r.Venv,
		TypeLabel: r.TypeLabel,
		Override:  r.HasOverride(),
	}
}

// ContextToResolutionUUID extracts the resolution context UUID carried by ctx.
func ContextToResolutionUUID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(entity.ResolutionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoResolutionContextError{}
	}
	return id, nil
}
