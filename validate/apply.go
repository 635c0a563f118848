package validate

import (
	"recordforge/record"
	"recordforge/typexpr"
)

// Apply compiles a validator for every resolved field of a schema from its
// declared type and recompiles the constructor so inputs are validated
// before storage. A validator already stashed in field metadata wraps the
// compiled one: it runs after the type check, on the checked value.
//
// Validation is fail-fast with no rollback: a later field's failure does
// not undo values the constructor already stored in the same call.
func Apply(schema *record.Schema, opts Options) error {
	for _, f := range schema.Fields() {
		compiled, err := Compile(f.Type, opts)
		if err != nil {
			return err
		}

		if user := f.Validator(); user != nil {
			typeCheck := compiled
			compiled = func(v any) (any, error) {
				checked, err := typeCheck(v)
				if err != nil {
					return nil, err
				}

				return user(checked)
			}
		}

		f.SetValidator(compiled)
	}

	return schema.RebuildInit()
}

// Field compiles a standalone validator for one type expression with
// coercion disabled, a convenience for composing Annotated expressions.
func Field(x *typexpr.Expr) (typexpr.ValidatorFunc, error) {
	return Compile(x, Options{})
}
