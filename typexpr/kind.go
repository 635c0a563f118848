package typexpr

// Kind discriminates the shape of a type expression. The set is closed:
// the validator compiler switches over it exhaustively.
type Kind int

const (
	KindInvalid Kind = iota
	KindNone         // the null type, accepts only nil
	KindAny          // unconstrained
	KindConcrete     // a plain Go type (instance check / coercion fallback)
	KindLiteral      // fixed set of literal values
	KindEnum         // named member set
	KindUnion        // one of several alternatives
	KindTuple        // fixed-length positions, optional variadic tail
	KindSeq          // homogeneous sequence
	KindSet          // homogeneous set semantics (deduplicated sequence)
	KindMap          // key/value mapping
	KindRef          // deferred reference to a named record schema
	KindAnnotated    // base expression wrapped with extra validators
	KindSubtype      // type objects assignable to a target
	KindRecord       // a resolved record schema

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAny:
		return "any"
	case KindConcrete:
		return "concrete"
	case KindLiteral:
		return "literal"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindTuple:
		return "tuple"
	case KindSeq:
		return "seq"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindRef:
		return "ref"
	case KindAnnotated:
		return "annotated"
	case KindSubtype:
		return "subtype"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}
