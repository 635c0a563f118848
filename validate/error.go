package validate

import (
	"fmt"
	"strings"
)

// Error kinds carried by validation failures.
const (
	KindType      = "type"      // value is not of the expected shape
	KindLength    = "length"    // tuple arity mismatch
	KindMember    = "member"    // not a literal or enum member
	KindUnion     = "union"     // no union alternative accepted the value
	KindUnknown   = "unknown"   // unresolved deferred reference
	KindCoercion  = "coercion"  // coercion attempted and failed
	KindUser      = "user"      // a user-supplied validator rejected the value
	KindSubtype   = "subtype"   // not a subtype of the target
	KindContainer = "container" // not iterable or not a mapping
)

// Error is a structured validation failure. Path identifies where in a
// nested structure the failure occurred: nested failures prepend their
// field name or index while propagating outward.
type Error struct {
	Kind     string
	Expected string
	Value    any
	Path     []string
	Message  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	at := ""
	if len(e.Path) > 0 {
		at = " at " + strings.Join(e.Path, ".")
	}

	return fmt.Sprintf("validation failed [%s]%s: expected %s, got %v (%T): %s",
		e.Kind, at, e.Expected, e.Value, e.Value, e.Message)
}

// PushPath prepends one path element while the failure unwinds outward.
func (e *Error) PushPath(elem string) {
	e.Path = append([]string{elem}, e.Path...)
}

// newError builds a failure with a formatted message.
func newError(kind, expected string, value any, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Expected: expected,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	}
}

// pushPath prepends a path element when err is a validation failure and
// returns err either way.
func pushPath(err error, elem string) error {
	if e, ok := err.(*Error); ok {
		e.PushPath(elem)
	}

	return err
}
