package synth

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"recordforge/field"
)

// HashFunc is a synthesized hash over the tuple of hash-flagged field
// values. Mutable containers among those values make the instance
// unhashable, reported as ErrUnhashable.
type HashFunc func(obj Object) (uint64, error)

// NewHash compiles the hash function for a resolved field list.
func NewHash(fields []*field.Spec) HashFunc {
	var names []string

	for _, f := range fields {
		if f.Hash && f.Category == field.CategoryStandard {
			names = append(names, f.Name)
		}
	}

	return func(obj Object) (uint64, error) {
		d := xxhash.New()

		for _, name := range names {
			v, _ := obj.FieldValue(name)
			if err := writeHash(d, v); err != nil {
				return 0, err
			}
		}

		return d.Sum64(), nil
	}
}

// HashValues hashes an ordered value tuple; used by tuple-like values that
// provide their own hash.
func HashValues(values []any) (uint64, error) {
	d := xxhash.New()

	for _, v := range values {
		if err := writeHash(d, v); err != nil {
			return 0, err
		}
	}

	return d.Sum64(), nil
}

func writeHash(d *xxhash.Digest, v any) error {
	if v == nil {
		_, err := d.WriteString("nil;")
		return err
	}

	if h, ok := v.(Hashable); ok {
		sub, err := h.HashValue()
		if err != nil {
			return err
		}

		var buf [8]byte

		binary.BigEndian.PutUint64(buf[:], sub)
		_, err = d.Write(buf[:])

		return err
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return fmt.Errorf("%w: field value of type %T", ErrUnhashable, v)
	default:
		_, err := fmt.Fprintf(d, "%T:%v;", v, v)
		return err
	}
}
