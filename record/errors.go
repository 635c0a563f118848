package record

import (
	"errors"
	"fmt"

	"recordforge/internal/resolve"
	"recordforge/internal/synth"
)

// ResolutionError is a fatal failure at schema-construction time: ordering
// invariant violations, misconfigured init-only fields, conflicting
// settings. It carries a machine-readable Code.
type ResolutionError = resolve.Error

// FrozenInstanceError reports a write or delete against a frozen field
// after construction. It is recoverable: the instance is unchanged.
type FrozenInstanceError struct {
	Op    string // "assign" or "delete"
	Field string
}

// Error implements the error interface.
func (e *FrozenInstanceError) Error() string {
	return fmt.Sprintf("cannot %s frozen field %q", e.Op, e.Field)
}

// Sentinel errors surfaced by schemas and instances.
var (
	// ErrNotComparable defers ordering to the caller when operands do not
	// share an ordered representation.
	ErrNotComparable = synth.ErrNotComparable
	// ErrUnhashable marks an instance whose configuration forbids hashing.
	ErrUnhashable = synth.ErrUnhashable
	// ErrInitDisabled is returned by New when constructor generation was
	// turned off in the schema configuration.
	ErrInitDisabled = errors.New("constructor generation disabled")
	// ErrNoAttribute reports access to an attribute the instance does not
	// hold.
	ErrNoAttribute = errors.New("no such attribute")
	// ErrNoSlot reports an attempt to create a new attribute on a
	// compact-layout instance.
	ErrNoSlot = errors.New("compact layout has no slot for attribute")
	// ErrNotRecord reports introspection on a value that is not a record
	// schema or instance.
	ErrNotRecord = errors.New("not a record")

	// Constructor argument errors.
	ErrTooManyArgs  = synth.ErrTooManyArgs
	ErrUnknownArg   = synth.ErrUnknownArg
	ErrDuplicateArg = synth.ErrDuplicateArg
	ErrMissingArg   = synth.ErrMissingArg
)
