package synth

import (
	"fmt"

	"recordforge/field"
	"recordforge/internal/resolve"
)

// Config controls constructor synthesis.
type Config struct {
	// KwOnly forces every parameter to be keyword-only.
	KwOnly bool
}

// InitFunc is a synthesized constructor body: it computes and stores every
// standard field of dst and returns the init-only values, in resolved
// order, for the post-construction hook.
type InitFunc func(dst Store, args []any, kwargs map[string]any) (post []any, err error)

// NewInit compiles the constructor for a resolved field list. Positional
// parameters are the init-eligible, non-keyword-only fields in resolved
// order; everything else is keyword-only. A non-init field with neither
// default nor factory is a synthesis-time error.
func NewInit(fields []*field.Spec, cfg Config) (InitFunc, error) {
	var positional []*field.Spec

	byName := make(map[string]*field.Spec, len(fields))

	for _, f := range fields {
		byName[f.Name] = f

		if !f.Init {
			if !f.HasValue() {
				return nil, resolve.NewError(resolve.CodeNoDefault, f.Name,
					"field excluded from init has no default value")
			}

			continue
		}

		if !cfg.KwOnly && !f.KwOnly {
			positional = append(positional, f)
		}
	}

	return func(dst Store, args []any, kwargs map[string]any) ([]any, error) {
		if len(args) > len(positional) {
			return nil, fmt.Errorf("%w: takes %d, got %d",
				ErrTooManyArgs, len(positional), len(args))
		}

		provided := make(map[string]any, len(args)+len(kwargs))
		for i, a := range args {
			provided[positional[i].Name] = a
		}

		for k, v := range kwargs {
			spec, ok := byName[k]
			if !ok || !spec.Init {
				return nil, fmt.Errorf("%w: %q", ErrUnknownArg, k)
			}

			if _, dup := provided[k]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateArg, k)
			}

			provided[k] = v
		}

		var post []any

		for _, f := range fields {
			value, ok := provided[f.Name]
			if !ok || !f.Init {
				value, ok = f.DefaultValue()
				if !ok {
					return nil, fmt.Errorf("%w: %q", ErrMissingArg, f.Name)
				}
			}

			if check := f.Validator(); check != nil {
				checked, err := check(value)
				if err != nil {
					if p, isPathed := err.(interface{ PushPath(string) }); isPathed {
						p.PushPath(f.Name)
					}

					return nil, err
				}

				value = checked
			}

			if f.Category == field.CategoryInitOnly {
				post = append(post, value)
				continue
			}

			dst.StoreRaw(f.Name, value)
		}

		return post, nil
	}, nil
}
