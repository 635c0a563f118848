// Package serde converts record instances to and from structural forms:
// generic mappings and sequences, plus JSON, YAML, TOML and XML text
// encodings layered on top of them. Per-field rename, alias and skip
// rules live in field metadata and never change the field model itself.
package serde

import (
	"fmt"

	"recordforge/field"
	"recordforge/internal/match"
	"recordforge/record"
	"recordforge/validate"
)

// Unlimited disables depth limiting in ToMap.
const Unlimited = -1

// UnknownKeyError reports a mapping key no field accepts.
type UnknownKeyError struct {
	Key        string
	Schema     string
	Suggestion string
}

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown key %q for %s (did you mean %q?)", e.Key, e.Schema, e.Suggestion)
	}

	return fmt.Sprintf("unknown key %q for %s", e.Key, e.Schema)
}

// ToMap flattens an instance into a nested mapping, honoring rename and
// skip rules. Nested instances flatten recursively down to maxDepth
// levels; at the limit they stay embedded as-is. Unlimited lifts the
// limit.
func ToMap(inst *record.Instance, maxDepth int) (map[string]any, error) {
	fields := inst.Schema().Fields()
	if err := CheckRules(fields); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields))

	for _, f := range fields {
		if f.Category != field.CategoryStandard {
			continue
		}

		v, ok := inst.FieldValue(f.Name)
		if !ok || skipValue(f, v) {
			continue
		}

		walked, err := walkValue(v, maxDepth-1)
		if err != nil {
			return nil, err
		}

		out[f.RenameTo()] = walked
	}

	return out, nil
}

// ToSeq flattens an instance into a value sequence in resolved field
// order, honoring skip rules. Renames do not apply: positions carry no
// names.
func ToSeq(inst *record.Instance, maxDepth int) ([]any, error) {
	fields := inst.Schema().Fields()
	if err := CheckRules(fields); err != nil {
		return nil, err
	}

	out := make([]any, 0, len(fields))

	for _, f := range fields {
		if f.Category != field.CategoryStandard {
			continue
		}

		v, ok := inst.FieldValue(f.Name)
		if !ok || skipValue(f, v) {
			continue
		}

		walked, err := walkValue(v, maxDepth-1)
		if err != nil {
			return nil, err
		}

		out = append(out, walked)
	}

	return out, nil
}

// walkValue flattens nested values; depth counts the remaining instance
// levels that may still flatten, with zero stopping and negative values
// meaning no limit. Containers pass the budget through unchanged.
func walkValue(v any, depth int) (any, error) {
	if depth == 0 {
		return v, nil
	}

	switch vv := v.(type) {
	case *record.Instance:
		return ToMap(vv, depth)
	case []any:
		out := make([]any, len(vv))

		for i, item := range vv {
			walked, err := walkValue(item, depth)
			if err != nil {
				return nil, err
			}

			out[i] = walked
		}

		return out, nil
	case validate.Tuple:
		out := make([]any, len(vv))

		for i, item := range vv {
			walked, err := walkValue(item, depth)
			if err != nil {
				return nil, err
			}

			out[i] = walked
		}

		return out, nil
	case map[string]any:
		out := make(map[string]any, len(vv))

		for k, item := range vv {
			walked, err := walkValue(item, depth)
			if err != nil {
				return nil, err
			}

			out[k] = walked
		}

		return out, nil
	default:
		return v, nil
	}
}

// FromMap constructs an instance from a mapping. Keys match the
// serialized name first, then the field name, then declared aliases.
// Unknown keys fail with a closest-match suggestion unless allowUnknown
// is set.
func FromMap(schema *record.Schema, m map[string]any, allowUnknown bool) (*record.Instance, error) {
	fields := schema.Fields()
	if err := CheckRules(fields); err != nil {
		return nil, err
	}

	byKey := map[string]*field.Spec{}
	accepted := make([]string, 0, len(fields))

	for _, f := range fields {
		for _, key := range acceptedKeys(f) {
			if _, taken := byKey[key]; !taken {
				byKey[key] = f
				accepted = append(accepted, key)
			}
		}
	}

	kwargs := record.Kwargs{}

	for key, v := range m {
		f, ok := byKey[key]
		if !ok {
			if allowUnknown {
				continue
			}

			suggestion, _ := match.Closest(key, accepted)

			return nil, &UnknownKeyError{Key: key, Schema: schema.Name(), Suggestion: suggestion}
		}

		if _, dup := kwargs[f.Name]; !dup {
			kwargs[f.Name] = liftValue(f, v)
		}
	}

	return schema.NewKw(kwargs)
}

// FromSeq constructs an instance from a positional value sequence. All
// required fields are filled first, in resolved order. When values remain
// for optional fields, fields without skip rules back-fill before fields
// with skip rules, each group in resolved order, matching how skipped
// fields tend to be absent from serialized sequences.
func FromSeq(schema *record.Schema, seq []any) (*record.Instance, error) {
	fields := schema.Fields()
	if err := CheckRules(fields); err != nil {
		return nil, err
	}

	var required, plain, skippy []*field.Spec

	for _, f := range fields {
		switch {
		case !f.Init:
			continue
		case !f.HasValue():
			required = append(required, f)
		case hasSkipRule(f):
			skippy = append(skippy, f)
		default:
			plain = append(plain, f)
		}
	}

	order := append(required, append(plain, skippy...)...)
	if len(seq) > len(order) {
		return nil, fmt.Errorf("%w: takes %d, got %d", record.ErrTooManyArgs, len(order), len(seq))
	}

	kwargs := record.Kwargs{}
	for i, v := range seq {
		kwargs[order[i].Name] = liftValue(order[i], v)
	}

	return schema.NewKw(kwargs)
}

// FromValue constructs an instance from whatever structural form the
// value takes: a mapping, a sequence, an existing instance of the same
// schema, or a single scalar passed positionally.
func FromValue(schema *record.Schema, v any) (*record.Instance, error) {
	switch vv := v.(type) {
	case *record.Instance:
		if vv.Schema() != schema {
			return nil, fmt.Errorf("instance of %s, want %s", vv.QualName(), schema.Name())
		}

		return vv, nil
	case map[string]any:
		return FromMap(schema, vv, false)
	case []any:
		return FromSeq(schema, vv)
	case validate.Tuple:
		return FromSeq(schema, vv)
	default:
		return schema.New(v)
	}
}

// acceptedKeys lists the mapping keys one field answers to, serialized
// name first.
func acceptedKeys(f *field.Spec) []string {
	if !f.Init {
		return nil
	}

	keys := []string{f.RenameTo()}
	if f.RenameTo() != f.Name {
		keys = append(keys, f.Name)
	}

	return append(keys, f.AliasNames()...)
}

// liftValue turns nested mappings back into instances when the field's
// declared type names a record schema.
func liftValue(f *field.Spec, v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	nested := nestedSchema(f)
	if nested == nil {
		return v
	}

	inst, err := FromMap(nested, m, false)
	if err != nil {
		return v
	}

	return inst
}

func nestedSchema(f *field.Spec) *record.Schema {
	x := f.Type
	if x == nil {
		return nil
	}

	if s, ok := x.Schema.(*record.Schema); ok {
		return s
	}

	if x.Name != "" {
		if s, ok := record.Lookup(x.Name); ok {
			return s
		}
	}

	return nil
}
