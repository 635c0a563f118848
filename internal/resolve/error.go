package resolve

import "fmt"

// Error codes reported on fatal resolution failures.
const (
	CodeNotStruct       = "not_struct"
	CodeOrderConflict   = "order_conflict"
	CodeInitOnlyFactory = "initonly_factory"
	CodeInitOnlyHook    = "initonly_hook"
	CodeBadDefault      = "bad_default"
	CodeNoDefault       = "no_default"
	CodeRenameCollision = "rename_collision"
	CodeSkipConflict    = "skip_conflict"
	CodeHashConflict    = "hash_conflict"
	CodeOrderRequiresEq = "order_requires_eq"
	CodeUserOrdering    = "user_ordering"
	CodeUnknownField    = "unknown_field"
)

// Error is a fatal resolution failure; it aborts schema construction.
type Error struct {
	// Code is a machine-readable failure tag.
	Code string
	// Field names the offending field, when one is identifiable.
	Field string
	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("resolution failed [%s] field %q: %s", e.Code, e.Field, e.Message)
	}

	return fmt.Sprintf("resolution failed [%s]: %s", e.Code, e.Message)
}

// NewError builds a resolution error with a formatted message.
func NewError(code, fieldName, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Field:   fieldName,
		Message: fmt.Sprintf(format, args...),
	}
}
