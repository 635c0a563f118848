package synth

import (
	"reflect"
	"strings"
)

// ValueEqual compares two field values, recursing through nested record
// instances and falling back to deep equality for plain Go values.
func ValueEqual(a, b any) bool {
	if ea, ok := a.(Equatable); ok {
		return ea.StructuralEqual(b)
	}

	if eb, ok := b.(Equatable); ok {
		return eb.StructuralEqual(a)
	}

	return reflect.DeepEqual(a, b)
}

// CompareValues orders two field values. Numeric values order numerically
// across int/uint/float representations, strings lexicographically.
// Anything else yields ErrNotComparable.
func CompareValues(a, b any) (int, error) {
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, ErrNotComparable
		}

		return strings.Compare(sa, sb), nil
	}

	fa, ok := toFloat(a)
	if !ok {
		return 0, ErrNotComparable
	}

	fb, ok := toFloat(b)
	if !ok {
		return 0, ErrNotComparable
	}

	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}

func toFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
