package resolve

import (
	"reflect"

	"recordforge/field"
)

// Table is the resolution unit for one struct type in the embedding chain:
// the fields that type declares itself, in declaration order, plus
// back-references to the tables of its embedded ancestors. Tables are
// immutable once cached; merging never mutates a parent table.
type Table struct {
	Type    reflect.Type
	Order   []string
	Fields  map[string]*field.Spec
	Parents []*Table

	// Cancels lists names this level declares with `record:"-"`, removing
	// the field from every ancestor during the merge.
	Cancels []string
}

// OrderedFields returns this table's own fields in declaration order.
func (t *Table) OrderedFields() []*field.Spec {
	out := make([]*field.Spec, 0, len(t.Order))
	for _, name := range t.Order {
		out = append(out, t.Fields[name])
	}

	return out
}

// Chain linearizes the table hierarchy most-ancestral first: each parent's
// chain precedes the table itself, duplicates keep their first occurrence.
func Chain(t *Table) []*Table {
	seen := map[reflect.Type]bool{}

	var out []*Table

	var walk func(tbl *Table)
	walk = func(tbl *Table) {
		if seen[tbl.Type] {
			return
		}
		seen[tbl.Type] = true

		for _, p := range tbl.Parents {
			walk(p)
		}

		out = append(out, tbl)
	}

	walk(t)

	return out
}
