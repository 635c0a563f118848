package validate

import "recordforge/internal/synth"

// Tuple is the fixed-length positional container validated by tuple
// expressions. It is a distinct type so tuple checks can tell it apart
// from plain slices.
type Tuple []any

// HashValue hashes the ordered element tuple, letting tuples participate
// in synthesized record hashes.
func (t Tuple) HashValue() (uint64, error) {
	return synth.HashValues(t)
}
