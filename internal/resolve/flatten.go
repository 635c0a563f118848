package resolve

import (
	"recordforge/field"
	"recordforge/internal/common"
)

// Factory transforms a freshly resolved spec before it enters the merged
// list, letting callers substitute their own field construction rules.
type Factory func(*field.Spec) *field.Spec

// Flatten merges a table chain into the final ordered field list,
// most-ancestral level first. A same-name redeclaration replaces the prior
// spec in place, keeping the position of first appearance; new names append
// in their level's local order. Overrides (explicit field descriptors keyed
// by name) adopt the declared name and Go type, mirroring descriptor reuse.
//
// The default-ordering invariant is checked once, after the full merge:
// every field without a default must precede every field with one, except
// keyword-only fields, which take no positional slot.
func Flatten(tbl *Table, overrides map[string]*field.Spec, factory Factory, orderKw bool) ([]*field.Spec, error) {
	var order []string

	merged := map[string]*field.Spec{}

	for _, level := range Chain(tbl) {
		// Cancellations remove previously declared fields outright.
		for _, name := range level.Cancels {
			if _, ok := merged[name]; ok {
				delete(merged, name)
				order = common.Remove(order, name)
			}
		}

		for _, name := range level.Order {
			spec := level.Fields[name].Clone()

			if ov, ok := overrides[name]; ok {
				spec = adoptOverride(spec, ov)
			}

			if factory != nil {
				spec = factory(spec)
			}

			if _, ok := merged[name]; !ok {
				order = append(order, name)
			}

			merged[name] = spec
		}
	}

	fields := make([]*field.Spec, 0, len(order))
	for _, name := range order {
		fields = append(fields, merged[name])
	}

	if err := check(fields, orderKw); err != nil {
		return nil, err
	}

	for i, spec := range fields {
		spec.Index = i
	}

	return fields, nil
}

// adoptOverride merges an explicit field descriptor over a declared field,
// copying the declared name and Go type onto the descriptor.
func adoptOverride(declared, override *field.Spec) *field.Spec {
	spec := override.Clone()
	spec.Name = declared.Name
	spec.GoType = declared.GoType

	if spec.Type == nil {
		spec.Type = declared.Type
	}

	// Tag-declared defaults survive unless the descriptor sets its own.
	if !spec.HasValue() && declared.HasValue() {
		spec.Default = declared.Default
		spec.HasDefault = declared.HasDefault
		spec.DefaultFactory = declared.DefaultFactory
	}

	for k, v := range declared.Metadata {
		if _, ok := spec.Metadata[k]; !ok {
			spec.Metadata[k] = v
		}
	}

	return spec
}

func check(fields []*field.Spec, orderKw bool) error {
	seenDefault := false

	for _, spec := range fields {
		if spec.Category == field.CategoryInitOnly && spec.DefaultFactory != nil {
			return NewError(CodeInitOnlyFactory, spec.Name,
				"init-only field cannot have a default factory")
		}

		if !orderKw || spec.KwOnly {
			continue
		}

		if spec.HasValue() {
			seenDefault = true
		} else if seenDefault {
			return NewError(CodeOrderConflict, spec.Name,
				"non-default field follows default field")
		}
	}

	return nil
}
