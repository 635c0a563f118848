package record

import "recordforge/field"

// FieldFactory transforms each resolved field spec before it enters the
// final list, replacing the default field construction rules.
type FieldFactory func(*field.Spec) *field.Spec

// PostInitFunc is the post-construction hook. It receives the new instance
// and the init-only field values in resolved order.
type PostInitFunc func(inst *Instance, initOnly ...any) error

// Config holds the augmentation settings for one schema.
type Config struct {
	// Init enables constructor generation.
	Init bool
	// Repr enables representation generation.
	Repr bool
	// Eq enables equality generation.
	Eq bool
	// Order enables ordering comparator generation; requires Eq.
	Order bool
	// UnsafeHash forces hash synthesis even for mutable records.
	UnsafeHash bool
	// Frozen rejects every field write after construction.
	Frozen bool
	// MatchArgs records the tuple of init-eligible field names.
	MatchArgs bool
	// KwOnly makes every constructor parameter keyword-only.
	KwOnly bool
	// CompactLayout stores fields in a fixed slot array instead of a
	// dynamic attribute namespace.
	CompactLayout bool
	// RecurseBases scans embedded ancestor declarations. When false, only
	// the prototype's own fields participate.
	RecurseBases bool

	// Name overrides the registry name (defaults to the Go type name).
	Name string
	// FieldFactory substitutes custom field construction rules.
	FieldFactory FieldFactory
	// Fields are explicit field descriptors overriding tag declarations,
	// matched by name.
	Fields []*field.Spec
	// PostInit is invoked after construction with init-only values.
	PostInit PostInitFunc

	// User-supplied behavior overrides. Generated behaviors never replace
	// them; a user Less combined with Order fails loudly.
	Stringer func(*Instance) string
	Equal    func(a, b *Instance) bool
	Less     func(a, b *Instance) (int, error)
	Hash     func(*Instance) (uint64, error)
}

// DefaultConfig mirrors the defaults of an undecorated record declaration:
// constructor, repr, equality and match-args on, everything else off,
// ancestor scanning enabled.
func DefaultConfig() Config {
	return Config{
		Init:         true,
		Repr:         true,
		Eq:           true,
		MatchArgs:    true,
		RecurseBases: true,
	}
}
