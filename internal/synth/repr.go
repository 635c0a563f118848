package synth

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"recordforge/field"
)

// ReprFunc renders an instance as QualName(field=value, ...). The seen set
// guards against reentrancy: a value that transitively renders the same
// object collapses to an ellipsis instead of recursing. The set is threaded
// through the call, so the guard is per-call and safe across goroutines.
type ReprFunc func(obj Object, b *strings.Builder, seen map[Object]struct{})

// NewRepr compiles the representation function for a resolved field list,
// including only repr-flagged fields in resolved order.
func NewRepr(fields []*field.Spec) ReprFunc {
	var names []string

	for _, f := range fields {
		if f.Repr && f.Category == field.CategoryStandard {
			names = append(names, f.Name)
		}
	}

	return func(obj Object, b *strings.Builder, seen map[Object]struct{}) {
		if _, active := seen[obj]; active {
			b.WriteString("...")
			return
		}

		seen[obj] = struct{}{}
		defer delete(seen, obj)

		b.WriteString(obj.QualName())
		b.WriteByte('(')

		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(name)
			b.WriteByte('=')

			v, _ := obj.FieldValue(name)
			appendValue(b, v, seen)
		}

		b.WriteByte(')')
	}
}

// appendValue renders one field value, threading the reentrancy guard
// through nested instances and the generic containers produced by the
// engine itself.
func appendValue(b *strings.Builder, v any, seen map[Object]struct{}) {
	switch vv := v.(type) {
	case nil:
		b.WriteString("nil")
	case Reentrant:
		vv.AppendRepr(b, seen)
	case string:
		b.WriteString(strconv.Quote(vv))
	case []any:
		b.WriteByte('[')

		for i, item := range vv {
			if i > 0 {
				b.WriteString(", ")
			}

			appendValue(b, item, seen)
		}

		b.WriteByte(']')
	case map[string]any:
		b.WriteByte('{')

		for i, key := range sortedKeys(vv) {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(strconv.Quote(key))
			b.WriteString(": ")
			appendValue(b, vv[key], seen)
		}

		b.WriteByte('}')
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
