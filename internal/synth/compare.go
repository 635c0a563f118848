package synth

import "recordforge/field"

// EqualFunc is a synthesized equality comparator. Instances of different
// concrete record types are never equal, even when structurally identical.
type EqualFunc func(a, b Object) bool

// CompareFunc is a synthesized ordering comparator over the tuple of
// compare-flagged field values. A schema mismatch or an unordered field
// value yields ErrNotComparable rather than a panic, deferring to the
// caller the way "not implemented" does.
type CompareFunc func(a, b Object) (int, error)

func compareNames(fields []*field.Spec) []string {
	var names []string

	for _, f := range fields {
		if f.Compare && f.Category == field.CategoryStandard {
			names = append(names, f.Name)
		}
	}

	return names
}

// NewEqual compiles the equality comparator for a resolved field list.
func NewEqual(fields []*field.Spec) EqualFunc {
	names := compareNames(fields)

	return func(a, b Object) bool {
		if a.SchemaKey() != b.SchemaKey() {
			return false
		}

		for _, name := range names {
			av, _ := a.FieldValue(name)
			bv, _ := b.FieldValue(name)

			if !ValueEqual(av, bv) {
				return false
			}
		}

		return true
	}
}

// NewCompare compiles the ordering comparator for a resolved field list:
// lexicographic over compare-flagged values in resolved order.
func NewCompare(fields []*field.Spec) CompareFunc {
	names := compareNames(fields)

	return func(a, b Object) (int, error) {
		if a.SchemaKey() != b.SchemaKey() {
			return 0, ErrNotComparable
		}

		for _, name := range names {
			av, _ := a.FieldValue(name)
			bv, _ := b.FieldValue(name)

			c, err := CompareValues(av, bv)
			if err != nil {
				return 0, err
			}

			if c != 0 {
				return c, nil
			}
		}

		return 0, nil
	}
}
