package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// UUIDNotFoundError is a service domain error for not found.
type UUIDNotFoundError struct {
	UUID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *UUIDNotFoundError) Error() string {
	return fmt.Sprintf("UUID %q not found", n.UUID)
}

// NotFoundUUID returns an UUID and true if UUIDNotFoundError is part of the
// error chain.
func NotFoundUUID(e error) (_ uuid.UUID, ok bool) {
	var nf *UUIDNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UUID, true
}

// UnknownStrategyError indicates that a detection strategy name is not registered.
type UnknownStrategyError struct {
	Name string
}

// Error is an implementation of the error interface.
func (n *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown detection strategy %q", n.Name)
}

// NoResolutionContextError indicates that no resolution context UUID is carried by the context.
type NoResolutionContextError struct{}

// Error is an implementation of the error interface.
func (n *NoResolutionContextError) Error() string {
	return "no resolution context found in context"
}

// UnregisteredFunctionError indicates that no function is registered under a name.
type UnregisteredFunctionError struct {
	Name string
}

// Error is an implementation of the error interface.
func (n *UnregisteredFunctionError) Error() string {
	return fmt.Sprintf("no function registered as %q", n.Name)
}
