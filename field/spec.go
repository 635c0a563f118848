// Package field defines the canonical model of one record field: its name,
// declared type, default, behavior flags and free-form metadata. It carries
// no resolution or synthesis logic.
package field

import (
	"reflect"

	"recordforge/internal/common"
	"recordforge/typexpr"
)

// Factory produces a default value on demand, once per construction.
type Factory func() any

// SkipFunc decides whether a value should be skipped during structural
// conversion.
type SkipFunc func(value any) bool

// Metadata keys used by the validation and serde layers. They piggyback on
// Spec.Metadata so the field shape never changes per layer.
const (
	MetaRename      = "rename"
	MetaAliases     = "aliases"
	MetaSkip        = "skip"
	MetaSkipIf      = "skip_if"
	MetaSkipIfFalse = "skip_if_false"
	MetaSkipDefault = "skip_default"
	MetaValidator   = "validator"
)

// Spec describes one declared record field.
type Spec struct {
	Name   string
	Type   *typexpr.Expr
	GoType reflect.Type

	// Default and DefaultFactory are mutually exclusive; HasDefault
	// distinguishes an explicit nil default from no default at all.
	Default        any
	HasDefault     bool
	DefaultFactory Factory

	Init    bool
	Repr    bool
	Hash    bool
	Compare bool
	KwOnly  bool
	Frozen  bool

	Category Category
	Metadata map[string]any

	// Index is the slot position assigned at resolution time.
	Index int
}

// NewSpec returns a spec with all behavior flags enabled, matching the
// defaults of an undecorated field declaration.
func NewSpec(name string, goType reflect.Type) *Spec {
	return &Spec{
		Name:     name,
		GoType:   goType,
		Type:     typexpr.FromReflect(goType),
		Init:     true,
		Repr:     true,
		Hash:     true,
		Compare:  true,
		Category: CategoryStandard,
		Metadata: map[string]any{},
	}
}

// HasValue reports whether the field carries either a plain default or a
// default factory.
func (s *Spec) HasValue() bool {
	return s.HasDefault || s.DefaultFactory != nil
}

// DefaultValue materializes the field's default, invoking the factory when
// one is set. The second return is false when the field has no default.
func (s *Spec) DefaultValue() (any, bool) {
	if s.DefaultFactory != nil {
		return s.DefaultFactory(), true
	}

	if s.HasDefault {
		return s.Default, true
	}

	return nil, false
}

// Clone returns a deep-enough copy: metadata is copied, the type expression
// is shared (expressions are immutable after construction).
func (s *Spec) Clone() *Spec {
	dup := *s
	dup.Metadata = common.CopyMap(s.Metadata)

	return &dup
}

// Validator returns the compiled per-field validator stashed in metadata,
// or nil when validation has not been applied.
func (s *Spec) Validator() typexpr.ValidatorFunc {
	fn, _ := s.Metadata[MetaValidator].(typexpr.ValidatorFunc)
	return fn
}

// SetValidator stashes a compiled validator in metadata.
func (s *Spec) SetValidator(fn typexpr.ValidatorFunc) {
	s.Metadata[MetaValidator] = fn
}

// RenameTo returns the serialized name override, or the field name.
func (s *Spec) RenameTo() string {
	if name, ok := s.Metadata[MetaRename].(string); ok && name != "" {
		return name
	}

	return s.Name
}

// AliasNames returns additional accepted keys for structural conversion.
func (s *Spec) AliasNames() []string {
	names, _ := s.Metadata[MetaAliases].([]string)
	return names
}
