// Package entity contains the domain types of pyvenv.
package entity

import (
	"fmt"

	"github.com/gofrs/uuid"
)

type keyType string

// ResolutionContextKey indicates the key used to carry a resolution context UUID in a context.Context.
const ResolutionContextKey keyType = "ResolutionContextUUID"

// VenvConfigKey is the key that contains venv detection configuration.
const VenvConfigKey = "venv"

// VenvState distinguishes a context that was never searched from one whose search came up empty.
type VenvState int

const (
	// VenvUnset means no search has been performed yet.
	VenvUnset VenvState = iota
	// VenvNotFound means a search was performed and nothing applies.
	VenvNotFound
	// VenvFound means Path holds the venv directory.
	VenvFound
)

// String implements fmt.Stringer.
func (s VenvState) String() string {
	switch s {
	case VenvUnset:
		return "unset"
	case VenvNotFound:
		return "not-found"
	case VenvFound:
		return "found"
	default:
		return fmt.Sprintf("VenvState(%d)", int(s))
	}
}

// VenvPath is the outcome of a resolution.
type VenvPath struct {
	State VenvState `json:"state" yaml:"state"`
	Path  string    `json:"path,omitempty" yaml:"path,omitempty"`
}

// Found returns a VenvPath pointing at dir.
func Found(dir string) VenvPath {
	return VenvPath{State: VenvFound, Path: dir}
}

// NotFound returns the cached negative result.
func NotFound() VenvPath {
	return VenvPath{State: VenvNotFound}
}

// IsFound reports whether the path can be activated.
func (v VenvPath) IsFound() bool {
	return v.State == VenvFound && v.Path != ""
}

// IsResolved reports whether a search result (positive or negative) is held.
func (v VenvPath) IsResolved() bool {
	return v.State != VenvUnset
}

// ActivationPath returns the directory to activate, or "" for none.
func (v VenvPath) ActivationPath() string {
	if !v.IsFound() {
		return ""
	}
	return v.Path
}

// String implements fmt.Stringer.
func (v VenvPath) String() string {
	if v.State == VenvFound {
		return v.Path
	}
	return v.State.String()
}

// TypeLabel names the detection strategy that produced a venv path, for display.
type TypeLabel string

// ResolutionContext is the scope across which a resolved venv is cached, typically one open file.
type ResolutionContext struct {
	UUID    uuid.UUID `json:"uuid" zap:"uuid"`
	BaseDir string    `json:"baseDir" zap:"baseDir"`
	// Override, when non-nil, bypasses detection. An empty override disables activation.
	Override  *string   `json:"override,omitempty" zap:"override"`
	Venv      VenvPath  `json:"venv" zap:"venv"`
	TypeLabel TypeLabel `json:"typeLabel" zap:"typeLabel"`
}

// HasOverride reports whether an explicit path (possibly empty) is set.
func (r *ResolutionContext) HasOverride() bool {
	return r.Override != nil
}

// Status is the read-only view of a context shown by status indicators.
type Status struct {
	UUID      uuid.UUID `json:"uuid" yaml:"uuid"`
	BaseDir   string    `json:"baseDir" yaml:"baseDir"`
	Venv      VenvPath  `json:"venv" yaml:"venv"`
	TypeLabel TypeLabel `json:"typeLabel,omitempty" yaml:"typeLabel,omitempty"`
	Override  bool      `json:"override" yaml:"override"`
}

// Indicator renders the status the way a mode line shows it: "venv[poetry]" when
// a venv is active, "venv[-]" after a search found nothing, "" before any search.
func (s Status) Indicator() string {
	switch {
	case s.Venv.IsFound() && s.TypeLabel != "":
		return fmt.Sprintf("venv[%s]", s.TypeLabel)
	case s.Venv.IsFound():
		return "venv[*]"
	case s.Venv.State == VenvNotFound:
		return "venv[-]"
	default:
		return ""
	}
}
