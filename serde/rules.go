package serde

import (
	"reflect"

	"recordforge/field"
	"recordforge/internal/resolve"
)

// CheckRules verifies the serde metadata of a resolved field list: renames
// and aliases must not collide with each other or with plain field names,
// and the unconditional skip rule is mutually exclusive with conditional
// ones. Run it once per schema before converting.
func CheckRules(fields []*field.Spec) error {
	keys := map[string]string{}

	claim := func(key, owner string) error {
		if prev, taken := keys[key]; taken && prev != owner {
			return resolve.NewError(resolve.CodeRenameCollision, owner,
				"serialized key %q already claimed by field %q", key, prev)
		}

		keys[key] = owner

		return nil
	}

	for _, f := range fields {
		if f.Category != field.CategoryStandard {
			continue
		}

		if err := claim(f.RenameTo(), f.Name); err != nil {
			return err
		}

		for _, alias := range f.AliasNames() {
			if err := claim(alias, f.Name); err != nil {
				return err
			}
		}

		if hasMeta(f, field.MetaSkip) && hasConditionalSkip(f) {
			return resolve.NewError(resolve.CodeSkipConflict, f.Name,
				"unconditional skip excludes conditional skip rules")
		}
	}

	return nil
}

func hasMeta(f *field.Spec, key string) bool {
	flag, _ := f.Metadata[key].(bool)
	return flag
}

func hasConditionalSkip(f *field.Spec) bool {
	if _, ok := f.Metadata[field.MetaSkipIf].(field.SkipFunc); ok {
		return true
	}

	return hasMeta(f, field.MetaSkipIfFalse) || hasMeta(f, field.MetaSkipDefault)
}

// hasSkipRule reports whether any skip rule, conditional or not, applies
// to the field. Sequence back-fill deprioritizes such fields.
func hasSkipRule(f *field.Spec) bool {
	return hasMeta(f, field.MetaSkip) || hasConditionalSkip(f)
}

// skipValue decides whether one concrete value is omitted from output.
func skipValue(f *field.Spec, v any) bool {
	if hasMeta(f, field.MetaSkip) {
		return true
	}

	if fn, ok := f.Metadata[field.MetaSkipIf].(field.SkipFunc); ok && fn(v) {
		return true
	}

	if hasMeta(f, field.MetaSkipIfFalse) && isFalsy(v) {
		return true
	}

	if hasMeta(f, field.MetaSkipDefault) {
		if def, ok := f.DefaultValue(); ok && reflect.DeepEqual(v, def) {
			return true
		}
	}

	return false
}

func isFalsy(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	default:
		return rv.IsZero()
	}
}
