package field

import "recordforge/typexpr"

// Option customizes a Spec built through New.
type Option func(*Spec)

// New builds an explicit field descriptor for use in a schema configuration,
// in place of (or overriding) a tag-declared field. Name and Go type are
// filled in by the resolver when the descriptor is matched to a declaration.
func New(name string, opts ...Option) *Spec {
	s := NewSpec(name, nil)
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Default sets a plain default value.
func Default(v any) Option {
	return func(s *Spec) {
		s.Default = v
		s.HasDefault = true
	}
}

// WithFactory sets a default factory, invoked once per construction.
func WithFactory(fn Factory) Option {
	return func(s *Spec) { s.DefaultFactory = fn }
}

// Typed overrides the declared type expression.
func Typed(x *typexpr.Expr) Option {
	return func(s *Spec) { s.Type = x }
}

// NoInit excludes the field from the constructor parameter list.
func NoInit() Option { return func(s *Spec) { s.Init = false } }

// NoRepr excludes the field from the textual representation.
func NoRepr() Option { return func(s *Spec) { s.Repr = false } }

// NoHash excludes the field from hashing.
func NoHash() Option { return func(s *Spec) { s.Hash = false } }

// NoCompare excludes the field from equality and ordering.
func NoCompare() Option { return func(s *Spec) { s.Compare = false } }

// KwOnly makes the field keyword-only in the constructor.
func KwOnly() Option { return func(s *Spec) { s.KwOnly = true } }

// Frozen rejects writes to this field after construction.
func Frozen() Option { return func(s *Spec) { s.Frozen = true } }

// InitOnly marks the field as constructor-only: its value is forwarded to
// the post-construction hook and never stored.
func InitOnly() Option { return func(s *Spec) { s.Category = CategoryInitOnly } }

// Meta stashes an arbitrary metadata entry.
func Meta(key string, v any) Option {
	return func(s *Spec) { s.Metadata[key] = v }
}

// Rename sets the serialized key for structural conversion.
func Rename(name string) Option { return Meta(MetaRename, name) }

// Aliases sets additional accepted keys for structural conversion.
func Aliases(names ...string) Option { return Meta(MetaAliases, names) }

// Skip always omits the field during structural conversion.
func Skip() Option { return Meta(MetaSkip, true) }

// SkipIf omits the field when the predicate accepts its value.
func SkipIf(fn SkipFunc) Option { return Meta(MetaSkipIf, fn) }

// SkipIfFalse omits the field when its value is falsy (zero).
func SkipIfFalse() Option { return Meta(MetaSkipIfFalse, true) }

// SkipIfDefault omits the field when its value equals its default.
func SkipIfDefault() Option { return Meta(MetaSkipDefault, true) }

// Validate attaches a custom validator, composed after the type-derived
// one when validation is applied to the schema.
func Validate(fn typexpr.ValidatorFunc) Option { return Meta(MetaValidator, fn) }
