package record

import "recordforge/field"

// Is reports whether v is a record instance or a record schema.
func Is(v any) bool {
	switch v.(type) {
	case *Instance, *Schema:
		return true
	default:
		return false
	}
}

// FieldsOf returns the resolved field list of a schema or of an instance's
// schema, or ErrNotRecord for anything else.
func FieldsOf(v any) ([]*field.Spec, error) {
	switch vv := v.(type) {
	case *Schema:
		return vv.Fields(), nil
	case *Instance:
		return vv.schema.Fields(), nil
	default:
		return nil, ErrNotRecord
	}
}
