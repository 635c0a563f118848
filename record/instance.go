package record

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"recordforge/internal/synth"
)

// Instance is one dynamic record value. Storage is either a fixed slot
// array (compact layout) or an attribute map (loose layout); the schema
// decides once, at construction.
type Instance struct {
	schema *Schema

	// sealed flips after construction; frozen guards only apply to sealed
	// instances so constructors and state restoration can write freely.
	sealed bool

	slots   []any
	present []bool
	attrs   map[string]any
}

// Schema returns the schema the instance was built from.
func (i *Instance) Schema() *Schema { return i.schema }

// SchemaKey returns the schema as the type-identity token: two instances
// are of the same record type iff they share the schema.
func (i *Instance) SchemaKey() any { return i.schema }

// QualName returns the record type name used in representations.
func (i *Instance) QualName() string { return i.schema.name }

// FieldValue returns the stored value of an attribute.
func (i *Instance) FieldValue(name string) (any, bool) {
	if i.slots != nil {
		idx, ok := i.schema.layout.Index[name]
		if !ok || !i.present[idx] {
			return nil, false
		}

		return i.slots[idx], true
	}

	v, ok := i.attrs[name]

	return v, ok
}

// StoreRaw writes an attribute bypassing frozen guards. It is the write
// path of constructors and state restoration; use Set everywhere else.
func (i *Instance) StoreRaw(name string, value any) {
	if i.slots != nil {
		if idx, ok := i.schema.layout.Index[name]; ok {
			i.slots[idx] = value
			i.present[idx] = true
		}

		return
	}

	i.attrs[name] = value
}

// Get returns an attribute value, or ErrNoAttribute.
func (i *Instance) Get(name string) (any, error) {
	v, ok := i.FieldValue(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoAttribute, name)
	}

	return v, nil
}

// Has reports whether the attribute is currently set.
func (i *Instance) Has(name string) bool {
	_, ok := i.FieldValue(name)
	return ok
}

// Set writes an attribute. Frozen schemas and frozen fields reject the
// write once the instance is sealed; compact layouts reject names outside
// the declared field set.
func (i *Instance) Set(name string, value any) error {
	if err := i.guard("assign", name); err != nil {
		return err
	}

	if i.slots != nil {
		if _, ok := i.schema.layout.Index[name]; !ok {
			return fmt.Errorf("%w: %q", ErrNoSlot, name)
		}
	}

	i.StoreRaw(name, value)

	return nil
}

// Delete removes an attribute, honoring the same frozen guards as Set.
func (i *Instance) Delete(name string) error {
	if err := i.guard("delete", name); err != nil {
		return err
	}

	if i.slots != nil {
		idx, ok := i.schema.layout.Index[name]
		if !ok || !i.present[idx] {
			return fmt.Errorf("%w: %q", ErrNoAttribute, name)
		}

		i.slots[idx] = nil
		i.present[idx] = false

		return nil
	}

	if _, ok := i.attrs[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoAttribute, name)
	}

	delete(i.attrs, name)

	return nil
}

func (i *Instance) guard(op, name string) error {
	if !i.sealed {
		return nil
	}

	if i.schema.cfg.Frozen {
		return &FrozenInstanceError{Op: op, Field: name}
	}

	if f, ok := i.schema.byName[name]; ok && f.Frozen {
		return &FrozenInstanceError{Op: op, Field: name}
	}

	return nil
}

// String renders the instance. A user stringer takes precedence over the
// synthesized representation.
func (i *Instance) String() string {
	if i.schema.cfg.Stringer != nil {
		return i.schema.cfg.Stringer(i)
	}

	if i.schema.reprFn == nil {
		return "<" + i.schema.name + ">"
	}

	var b strings.Builder

	i.schema.reprFn(i, &b, map[synth.Object]struct{}{})

	return b.String()
}

// AppendRepr renders the instance into b, threading the caller's
// reentrancy guard so cyclic references collapse to an ellipsis.
func (i *Instance) AppendRepr(b *strings.Builder, seen map[synth.Object]struct{}) {
	if i.schema.reprFn == nil {
		b.WriteString(i.String())
		return
	}

	i.schema.reprFn(i, b, seen)
}

// Equal compares two instances. Without equality generation or a user
// comparator, equality degrades to identity.
func (i *Instance) Equal(other *Instance) bool {
	if other == nil {
		return false
	}

	if i.schema.cfg.Equal != nil {
		return i.schema.cfg.Equal(i, other)
	}

	if i.schema.equalFn != nil {
		return i.schema.equalFn(i, other)
	}

	return i == other
}

// StructuralEqual compares against an arbitrary value, false for anything
// that is not an instance.
func (i *Instance) StructuralEqual(other any) bool {
	o, ok := other.(*Instance)
	if !ok {
		return false
	}

	return i.Equal(o)
}

// Compare orders two instances lexicographically over their
// compare-flagged fields. Instances of different schemas, or schemas
// without ordering, yield ErrNotComparable.
func (i *Instance) Compare(other *Instance) (int, error) {
	if other == nil {
		return 0, ErrNotComparable
	}

	if i.schema.cfg.Less != nil {
		return i.schema.cfg.Less(i, other)
	}

	if i.schema.compareFn == nil {
		return 0, ErrNotComparable
	}

	return i.schema.compareFn(i, other)
}

// Less reports whether i orders before other.
func (i *Instance) Less(other *Instance) (bool, error) {
	c, err := i.Compare(other)
	if err != nil {
		return false, err
	}

	return c < 0, nil
}

// Hash returns the instance hash per the schema's hashing policy.
func (i *Instance) Hash() (uint64, error) {
	switch i.schema.hashAct {
	case hashNone:
		return 0, fmt.Errorf("%w: %s", ErrUnhashable, i.schema.name)
	case hashSynth:
		return i.schema.hashFn(i)
	default:
		if i.schema.cfg.Hash != nil {
			return i.schema.cfg.Hash(i)
		}

		// Identity hash: stable per instance, like hashing by address.
		return uint64(reflect.ValueOf(i).Pointer()), nil
	}
}

// HashValue lets instances participate as hashable nested values.
func (i *Instance) HashValue() (uint64, error) {
	return i.Hash()
}

// State snapshots every set attribute by name, including dynamic
// attributes on loose layouts. The snapshot round-trips through Restore
// regardless of frozen configuration.
func (i *Instance) State() map[string]any {
	out := map[string]any{}

	if i.slots != nil {
		for name, idx := range i.schema.layout.Index {
			if i.present[idx] {
				out[name] = i.slots[idx]
			}
		}

		return out
	}

	for name, v := range i.attrs {
		out[name] = v
	}

	return out
}

// Restore builds a sealed instance directly from a state snapshot,
// bypassing the constructor and frozen guards.
func (s *Schema) Restore(state map[string]any) *Instance {
	inst := s.blank()

	for name, v := range state {
		inst.StoreRaw(name, v)
	}

	inst.sealed = true

	return inst
}

// Dump renders the instance state with full type detail, for debugging.
func (i *Instance) Dump() string {
	return spew.Sdump(i.State())
}
