package synth

import "recordforge/field"

// Layout assigns storage positions to the standard fields of a schema.
// Compact layouts store values in a fixed-size slot array; loose layouts
// keep a dynamic attribute namespace.
type Layout struct {
	Compact bool
	Index   map[string]int
	Size    int
}

// NewLayout builds the storage layout for a resolved field list. Names
// already placed by an inherited compact layout keep their inherited slots;
// newly declared fields take the positions after them.
func NewLayout(fields []*field.Spec, compact bool, inherited map[string]int) *Layout {
	l := &Layout{
		Compact: compact,
		Index:   make(map[string]int, len(fields)),
	}

	next := 0
	for _, idx := range inherited {
		if idx+1 > next {
			next = idx + 1
		}
	}

	for _, f := range fields {
		if f.Category != field.CategoryStandard {
			continue
		}

		if idx, ok := inherited[f.Name]; ok {
			l.Index[f.Name] = idx
			continue
		}

		l.Index[f.Name] = next
		next++
	}

	l.Size = next

	return l
}
