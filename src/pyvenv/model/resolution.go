// Package model holds the stored representation of pyvenv entities.
package model

import "github.com/gofrs/uuid"

// ResolutionContext is the repository-owned copy of entity.ResolutionContext.
type ResolutionContext struct {
	UUID        uuid.UUID
	BaseDir     string
	HasOverride bool
	Override    string
	VenvState   int
	VenvPath    string
	TypeLabel   string
}
