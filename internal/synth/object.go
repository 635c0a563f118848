package synth

import (
	"errors"
	"strings"
)

// Object is the minimal read surface of a record instance.
type Object interface {
	// SchemaKey returns an identity token; two objects belong to the exact
	// same record type iff their keys are equal.
	SchemaKey() any
	// FieldValue returns the stored value of a field.
	FieldValue(name string) (any, bool)
	// QualName returns the qualified record type name used by repr.
	QualName() string
}

// Store extends Object with the low-level write path used by synthesized
// constructors and state restoration. It bypasses frozen guards.
type Store interface {
	Object
	StoreRaw(name string, value any)
}

// Reentrant is implemented by nested instances so representation rendering
// can thread its reentrancy guard through nested values.
type Reentrant interface {
	AppendRepr(b *strings.Builder, seen map[Object]struct{})
}

// Equatable is implemented by nested instances so synthesized comparators
// can recurse without knowing the instance type.
type Equatable interface {
	StructuralEqual(other any) bool
}

// Hashable is implemented by values that provide their own hash, nested
// record instances in particular.
type Hashable interface {
	HashValue() (uint64, error)
}

// ErrNotComparable is returned by ordering comparators when the operands do
// not share an ordered representation. It mirrors "not implemented"
// semantics: callers should treat it as a soft refusal, not a fault.
var ErrNotComparable = errors.New("operands are not comparable")

// ErrUnhashable marks an instance whose configuration or field values do
// not admit hashing.
var ErrUnhashable = errors.New("instance is not hashable")

// Argument errors reported by synthesized constructors.
var (
	ErrTooManyArgs  = errors.New("too many positional arguments")
	ErrUnknownArg   = errors.New("unexpected keyword argument")
	ErrDuplicateArg = errors.New("argument given twice")
	ErrMissingArg   = errors.New("missing required argument")
)
